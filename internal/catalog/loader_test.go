package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `id,title,vote_average,release_date,genres,cast,production_companies,director,overview,popularity,runtime,budget
1,The Matrix,8.2,1999-03-31,"['Action', 'Science Fiction']","['Keanu Reeves', 'Carrie-Anne Moss']","['Warner Bros.']",Lana Wachowski,A hacker discovers reality is a simulation.,82.4,136,63000000
2,Spirited Away,8.5,2001-07-20,"['Animation', 'Fantasy']","['Rumi Hiiragi']","['Studio Ghibli']",Hayao Miyazaki,A girl enters a world of spirits.,65.1,125,19000000
2,Spirited Away,8.5,2001-07-20,"['Animation']","['Rumi Hiiragi']","['Studio Ghibli']",Hayao Miyazaki,Duplicate row.,65.1,125,19000000
3,Mystery Film,6.0,,"[]","[]","[]",,,"",0,0
`

func TestRead_ParsesMovies(t *testing.T) {
	cat, err := Read(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Equal(t, 3, cat.Len())

	m := cat.At(0)
	assert.Equal(t, int64(1), m.ID)
	assert.Equal(t, "The Matrix", m.Title)
	assert.InDelta(t, 8.2, m.VoteAverage, 1e-9)
	assert.Equal(t, 1999, m.ReleaseYear())
	assert.Equal(t, []string{"Action", "Science Fiction"}, m.Genres)
	assert.Equal(t, []string{"Keanu Reeves", "Carrie-Anne Moss"}, m.Cast)
	assert.Equal(t, []string{"Warner Bros."}, m.Companies)
	assert.Equal(t, "Lana Wachowski", m.Director)
	assert.InDelta(t, 136, m.Runtime, 1e-9)
}

func TestRead_DeduplicatesByID(t *testing.T) {
	cat, err := Read(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	// First occurrence of id=2 wins.
	m := cat.At(1)
	assert.Equal(t, int64(2), m.ID)
	assert.Equal(t, []string{"Animation", "Fantasy"}, m.Genres)
	assert.Equal(t, "A girl enters a world of spirits.", m.Overview)
}

func TestRead_MissingFieldsGetDefaults(t *testing.T) {
	cat, err := Read(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	m := cat.At(2)
	assert.Equal(t, PlaceholderDirector, m.Director)
	assert.Empty(t, m.Overview)
	assert.Empty(t, m.Genres)
	assert.True(t, m.ReleaseDate.IsZero())
	assert.Equal(t, 0, m.ReleaseYear())
}

func TestRead_MissingRequiredColumn(t *testing.T) {
	_, err := Read(strings.NewReader("title,overview\nA,B\n"))
	assert.Error(t, err)
}

func TestContentProfile(t *testing.T) {
	m := Movie{
		Genres:    []string{"Action", "Drama"},
		Cast:      []string{"Keanu Reeves"},
		Companies: []string{"Warner Bros."},
		Director:  "Lana Wachowski",
		Overview:  "A Hacker Awakens.",
	}
	got := m.ContentProfile()
	assert.Equal(t, "action drama keanu reeves warner bros. lana wachowski a hacker awakens.", got)
}

func TestParseListLiteral(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"single quotes", `['Action', 'Drama']`, []string{"Action", "Drama"}},
		{"double quotes", `["Action", "Drama"]`, []string{"Action", "Drama"}},
		{"comma inside quotes", `['Smith, John', 'Doe']`, []string{"Smith, John", "Doe"}},
		{"empty list", `[]`, nil},
		{"blank", ``, nil},
		{"plain csv", `Action, Drama`, []string{"Action", "Drama"}},
		{"apostrophe via double quotes", `["Ocean's Eleven Co"]`, []string{"Ocean's Eleven Co"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseListLiteral(tt.in))
		})
	}
}

func TestProfiles_AlignedWithHandles(t *testing.T) {
	cat, err := Read(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	profiles := cat.Profiles()
	require.Len(t, profiles, cat.Len())
	for i, p := range profiles {
		assert.Equal(t, cat.At(i).ContentProfile(), p)
	}
}
