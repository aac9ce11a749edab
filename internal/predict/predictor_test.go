package predict

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reelrank/reelrank/internal/catalog"
)

// linearCatalog builds a corpus whose rating is an exact linear
// function of popularity, with every other feature held constant.
// OLS must recover the relationship to machine precision.
func linearCatalog() *catalog.Catalog {
	movies := make([]catalog.Movie, 8)
	for i := range movies {
		popularity := float64((i + 1) * 100)
		movies[i] = catalog.Movie{
			ID:          int64(i + 1),
			Title:       "Movie",
			VoteAverage: 5 + 0.001*popularity,
			ReleaseDate: time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC),
			Genres:      []string{"Drama"},
			Cast:        []string{"Someone"},
			Popularity:  popularity,
			Runtime:     100,
			Budget:      1_000_000,
		}
	}
	return catalog.New(movies)
}

func TestTrain_EmptyCatalog(t *testing.T) {
	_, err := Train(nil)
	require.Error(t, err)

	_, err = Train(catalog.New(nil))
	require.Error(t, err)
}

func TestPredict_RecoversLinearRelationship(t *testing.T) {
	p, err := Train(linearCatalog())
	require.NoError(t, err)

	// Popularity 500 sits inside the training range; expected rating
	// from the generating function is 5.5.
	got, err := p.Predict(1_000_000, 500, 100, 2000, 1, 1)
	require.NoError(t, err)
	assert.InDelta(t, 5.5, got, 0.01)
}

func TestPredict_ClampsToRatingRange(t *testing.T) {
	p, err := Train(linearCatalog())
	require.NoError(t, err)

	high, err := p.Predict(1_000_000, 1e7, 100, 2000, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 10.0, high)

	low, err := p.Predict(1_000_000, -1e7, 100, 2000, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 0.0, low)
}

func TestPredict_Untrained(t *testing.T) {
	var p *Predictor
	_, err := p.Predict(0, 0, 100, 2000, 1, 1)
	require.Error(t, err)
}

func TestFeatureWeights_PopularityDominates(t *testing.T) {
	p, err := Train(linearCatalog())
	require.NoError(t, err)

	weights := p.FeatureWeights()
	require.Len(t, weights, 6)

	assert.Equal(t, "popularity", weights[0].Name)
	assert.Greater(t, weights[0].Weight, 0.99)

	total := 0.0
	for _, w := range weights {
		total += w.Weight
	}
	assert.InDelta(t, 1.0, total, 1e-9)
}

func TestStatistics(t *testing.T) {
	p, err := Train(linearCatalog())
	require.NoError(t, err)

	stats := p.Statistics()
	require.Contains(t, stats, "popularity")

	pop := stats["popularity"]
	assert.Equal(t, 100.0, pop.Min)
	assert.Equal(t, 800.0, pop.Max)
	assert.Equal(t, 450.0, pop.Mean)
	assert.Equal(t, 450.0, pop.Median)

	year := stats["release_year"]
	assert.Equal(t, 2000.0, year.Min)
	assert.Equal(t, 2000.0, year.Max)
}

func TestValidateRanges_AllValid(t *testing.T) {
	errs := ValidateRanges(50_000_000, 120, 136, 1999, 2, 5)
	assert.Empty(t, errs)
}

func TestValidateRanges_NegativeBudget(t *testing.T) {
	errs := ValidateRanges(-1, 120, 136, 1999, 2, 5)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "budget")
}

func TestValidateRanges_ReportsEveryViolation(t *testing.T) {
	errs := ValidateRanges(-1, 2000, 0, 1700, 0, 100)
	assert.Len(t, errs, 6)
}
