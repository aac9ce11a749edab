package search

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reelrank/reelrank/internal/catalog"
	reelerrors "github.com/reelrank/reelrank/internal/errors"
	"github.com/reelrank/reelrank/internal/fuzzy"
	"github.com/reelrank/reelrank/internal/index"
	"github.com/reelrank/reelrank/internal/tfidf"
)

func fixtureMovies() []catalog.Movie {
	date := func(y int) time.Time {
		return time.Date(y, time.June, 1, 0, 0, 0, 0, time.UTC)
	}
	return []catalog.Movie{
		{
			ID: 1, Title: "The Matrix", VoteAverage: 8.2, ReleaseDate: date(1999),
			Genres:   []string{"Action", "Science Fiction"},
			Cast:     []string{"Keanu Reeves", "Carrie-Anne Moss"},
			Director: "Lana Wachowski",
			Overview: "a hacker discovers a simulated reality run by machines",
		},
		{
			ID: 2, Title: "John Wick", VoteAverage: 7.4, ReleaseDate: date(2014),
			Genres:   []string{"Action", "Thriller"},
			Cast:     []string{"Keanu Reeves", "Ian McShane"},
			Director: "Chad Stahelski",
			Overview: "a retired hitman returns for revenge against the mob",
		},
		{
			ID: 3, Title: "Inception", VoteAverage: 8.3, ReleaseDate: date(2010),
			Genres:   []string{"Science Fiction", "Thriller"},
			Cast:     []string{"Leonardo DiCaprio", "Elliot Page"},
			Director: "Christopher Nolan",
			Overview: "a heist crew plants ideas inside a simulated dream reality",
		},
		{
			ID: 4, Title: "Interstellar", VoteAverage: 8.4, ReleaseDate: date(2014),
			Genres:   []string{"Science Fiction", "Drama"},
			Cast:     []string{"Matthew McConaughey", "Anne Hathaway"},
			Director: "Christopher Nolan",
			Overview: "explorers travel through a wormhole to save humanity",
		},
		{
			ID: 5, Title: "Heat", VoteAverage: 7.9, ReleaseDate: date(1995),
			Genres:   []string{"Crime", "Thriller"},
			Cast:     []string{"Al Pacino", "Robert De Niro"},
			Director: "Michael Mann",
			Overview: "a detective hunts a professional bank robbery crew",
		},
		{
			ID: 6, Title: "Speed", VoteAverage: 7.2, ReleaseDate: date(1994),
			Genres:   []string{"Action", "Thriller"},
			Cast:     []string{"Keanu Reeves", "Sandra Bullock"},
			Director: "Jan de Bont",
			Overview: "a bomb on a city bus forces a relentless action chase",
		},
	}
}

// newTestEngine wires a full engine over the fixture corpus. The loose
// document-frequency bounds keep the tiny corpus's vocabulary intact.
func newTestEngine(t *testing.T, opts ...EngineOption) *Engine {
	t.Helper()

	cat := catalog.New(fixtureMovies())
	titles := index.BuildTitles(cat)
	entities := index.BuildEntities(cat)

	idx, err := tfidf.Fit(cat.Profiles(), tfidf.Options{MinDocFreq: 1, MaxDocRatio: 1})
	require.NoError(t, err)

	corrector := fuzzy.NewCorrector(titles, entities, fuzzy.TokenSortScorer())

	engine, err := NewEngine(cat, titles, entities, corrector, idx, opts...)
	require.NoError(t, err)
	return engine
}

func titlesOf(results []Result) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Title
	}
	return out
}

func TestNewEngine_NilDependencies(t *testing.T) {
	cat := catalog.New(fixtureMovies())
	titles := index.BuildTitles(cat)
	entities := index.BuildEntities(cat)
	idx, err := tfidf.Fit(cat.Profiles(), tfidf.Options{MinDocFreq: 1, MaxDocRatio: 1})
	require.NoError(t, err)
	corrector := fuzzy.NewCorrector(titles, entities, fuzzy.TokenSortScorer())

	_, err = NewEngine(nil, titles, entities, corrector, idx)
	assert.ErrorIs(t, err, ErrNilDependency)

	_, err = NewEngine(cat, nil, entities, corrector, idx)
	assert.ErrorIs(t, err, ErrNilDependency)

	_, err = NewEngine(cat, titles, entities, nil, idx)
	assert.ErrorIs(t, err, ErrNilDependency)

	_, err = NewEngine(cat, titles, entities, corrector, nil)
	assert.ErrorIs(t, err, ErrNilDependency)
}

func TestNewEngine_RowMismatch(t *testing.T) {
	cat := catalog.New(fixtureMovies())
	titles := index.BuildTitles(cat)
	entities := index.BuildEntities(cat)
	corrector := fuzzy.NewCorrector(titles, entities, fuzzy.TokenSortScorer())

	// Index fitted over a strict subset of the catalog.
	idx, err := tfidf.Fit(cat.Profiles()[:3], tfidf.Options{MinDocFreq: 1, MaxDocRatio: 1})
	require.NoError(t, err)

	_, err = NewEngine(cat, titles, entities, corrector, idx)
	require.Error(t, err)
	assert.Equal(t, reelerrors.ErrCodeInternal, reelerrors.GetCode(err))
}

func TestRecommend_ExcludesSelfAndSortsDescending(t *testing.T) {
	engine := newTestEngine(t)

	results, err := engine.Recommend("The Matrix", 5)
	require.NoError(t, err)
	require.Len(t, results, 5)

	assert.NotContains(t, titlesOf(results), "The Matrix")
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Score, results[i].Score)
	}
}

func TestRecommend_LookupIsCaseInsensitive(t *testing.T) {
	engine := newTestEngine(t)

	upper, err := engine.Recommend("THE MATRIX", 3)
	require.NoError(t, err)
	lower, err := engine.Recommend("the matrix", 3)
	require.NoError(t, err)

	assert.Equal(t, titlesOf(upper), titlesOf(lower))
}

func TestRecommend_UnknownTitle(t *testing.T) {
	engine := newTestEngine(t)

	_, err := engine.Recommend("No Such Film", 5)
	require.Error(t, err)
	assert.True(t, reelerrors.IsNotFound(err))
}

func TestRecommend_LimitHandling(t *testing.T) {
	engine := newTestEngine(t)

	empty, err := engine.Recommend("Heat", 0)
	require.NoError(t, err)
	assert.Empty(t, empty)

	// Negative falls back to the default limit, bounded by corpus size.
	defaulted, err := engine.Recommend("Heat", -1)
	require.NoError(t, err)
	assert.Len(t, defaulted, 5)

	capped, err := engine.Recommend("Heat", 10_000)
	require.NoError(t, err)
	assert.Len(t, capped, 5)
}

func TestRecommend_MatrixMatchesOnDemand(t *testing.T) {
	plain := newTestEngine(t)
	precomputed := newTestEngine(t, WithSimilarityMatrix(tfidf.NewSimilarityMatrix(plain.semantic)))

	a, err := plain.Recommend("Inception", 5)
	require.NoError(t, err)
	b, err := precomputed.Recommend("Inception", 5)
	require.NoError(t, err)

	assert.Equal(t, titlesOf(a), titlesOf(b))
	assert.True(t, precomputed.Stats().Precomputed)
}

func TestSearch_EmptyQuery(t *testing.T) {
	engine := newTestEngine(t)

	_, err := engine.Search("   ", 5)
	require.Error(t, err)
	assert.True(t, reelerrors.IsEmptyInput(err))
}

func TestSearch_ExactTitleRanksFirst(t *testing.T) {
	engine := newTestEngine(t)

	results, err := engine.Search("Inception", 5)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "Inception", results[0].Title)
}

func TestSearch_CorrectsTypoedTitle(t *testing.T) {
	engine := newTestEngine(t)

	results, err := engine.Search("Inceptoin", 5)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "Inception", results[0].Title)
}

func TestSearch_RespectsLimit(t *testing.T) {
	engine := newTestEngine(t)

	results, err := engine.Search("thriller", 2)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestSearchFiltered_ActorRestrictsCandidates(t *testing.T) {
	engine := newTestEngine(t)

	results, err := engine.SearchFiltered("The Matrix", "Keanu Reeves", "", 10)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "The Matrix", results[0].Title)
	assert.Subset(t,
		[]string{"The Matrix", "John Wick", "Speed"},
		titlesOf(results))
}

func TestSearchFiltered_ActorAndDirectorIntersect(t *testing.T) {
	engine := newTestEngine(t)

	results, err := engine.SearchFiltered("", "Keanu Reeves", "Chad Stahelski", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "John Wick", results[0].Title)
}

func TestSearchFiltered_BlankTitleKeepsCorpusOrder(t *testing.T) {
	engine := newTestEngine(t)

	// A blank title vectorizes to zero, so every candidate scores 0.0
	// and the stable sort preserves catalog order.
	results, err := engine.SearchFiltered("", "Keanu Reeves", "", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"The Matrix", "John Wick", "Speed"}, titlesOf(results))
	for _, r := range results {
		assert.Zero(t, r.Score)
	}
}

func TestSearchFiltered_TypoedEntityName(t *testing.T) {
	engine := newTestEngine(t)

	results, err := engine.SearchFiltered("", "Keanu Reves", "", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"The Matrix", "John Wick", "Speed"}, titlesOf(results))
}

func TestSearchFiltered_NoFiltersDelegatesToSearch(t *testing.T) {
	engine := newTestEngine(t)

	filtered, err := engine.SearchFiltered("Inception", "", "", 5)
	require.NoError(t, err)
	plain, err := engine.Search("Inception", 5)
	require.NoError(t, err)

	assert.Equal(t, titlesOf(plain), titlesOf(filtered))
}

func TestSearchFiltered_UnresolvableFilterFallsBack(t *testing.T) {
	engine := newTestEngine(t)

	// A name nowhere near any indexed entity resolves to nothing, so
	// the search falls back to the unfiltered corpus.
	results, err := engine.SearchFiltered("Inception", "Zzyzx Qwqwqw", "", 5)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "Inception", results[0].Title)
}

func TestStats(t *testing.T) {
	engine := newTestEngine(t)

	stats := engine.Stats()
	assert.Equal(t, 6, stats.Movies)
	assert.Equal(t, 10, stats.Actors) // 12 credits, Keanu Reeves three times
	assert.Equal(t, 6, stats.Directors)
	assert.Positive(t, stats.Vocabulary)
	assert.False(t, stats.Precomputed)
}
