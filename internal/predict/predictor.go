// Package predict estimates a movie rating from numeric attributes.
// The model is a linear regression over standardized features, fit on
// the catalog at initialization; like every other index in the system
// it is immutable after construction.
package predict

import (
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/reelrank/reelrank/internal/catalog"
	reelerrors "github.com/reelrank/reelrank/internal/errors"
)

const numFeatures = 6

// featureNames gives the canonical feature order used everywhere in
// this package: feature vector index i holds featureNames[i].
var featureNames = [numFeatures]string{
	"budget",
	"popularity",
	"runtime",
	"release_year",
	"num_genres",
	"num_cast",
}

// ridge keeps the normal equations solvable when a feature is constant
// across the training corpus.
const ridge = 1e-8

// Predictor is a fitted rating model.
type Predictor struct {
	means   [numFeatures]float64
	stds    [numFeatures]float64
	weights [numFeatures]float64 // coefficients over standardized features
	bias    float64

	samples  [][numFeatures]float64 // training rows, kept for Statistics
	nTrained int
}

// Train fits the model on the catalog's movies.
func Train(cat *catalog.Catalog) (*Predictor, error) {
	if cat == nil || cat.Len() == 0 {
		return nil, reelerrors.Internal("cannot train rating model on an empty catalog", nil)
	}

	movies := cat.Movies()
	p := &Predictor{
		samples:  make([][numFeatures]float64, len(movies)),
		nTrained: len(movies),
	}
	targets := make([]float64, len(movies))
	for i := range movies {
		p.samples[i] = featuresOf(&movies[i])
		targets[i] = movies[i].VoteAverage
	}

	p.standardizeFit()
	if err := p.solve(targets); err != nil {
		return nil, reelerrors.Internal("rating model fit failed", err)
	}

	slog.Info("predictor_trained",
		slog.Int("samples", p.nTrained),
		slog.Float64("bias", p.bias))
	return p, nil
}

// Predict estimates a rating for the given attributes. The result is
// clamped to the valid rating range [0, 10]. Range validation is the
// caller's concern via ValidateRanges; out-of-range inputs still
// produce a clamped estimate.
func (p *Predictor) Predict(budget, popularity, runtime float64, year, numGenres, numCast int) (float64, error) {
	if p == nil || p.nTrained == 0 {
		return 0, reelerrors.Internal("rating model is not trained", nil)
	}

	row := [numFeatures]float64{
		budget,
		popularity,
		runtime,
		float64(year),
		float64(numGenres),
		float64(numCast),
	}

	value := p.bias
	for i, x := range row {
		value += p.weights[i] * (x - p.means[i]) / p.stds[i]
	}

	return math.Max(0, math.Min(10, value)), nil
}

// FeatureWeight is one feature's share of the model's attention.
type FeatureWeight struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
}

// FeatureWeights returns per-feature importance: absolute standardized
// coefficients normalized to sum to 1, sorted descending. Ties break
// by name for determinism.
func (p *Predictor) FeatureWeights() []FeatureWeight {
	total := 0.0
	for _, w := range p.weights {
		total += math.Abs(w)
	}

	out := make([]FeatureWeight, numFeatures)
	for i, name := range featureNames {
		weight := math.Abs(p.weights[i])
		if total > 0 {
			weight /= total
		}
		out[i] = FeatureWeight{Name: name, Weight: weight}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Weight != out[j].Weight {
			return out[i].Weight > out[j].Weight
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// FeatureStats summarizes one feature over the training corpus.
type FeatureStats struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
}

// FeatureNames returns the feature names in canonical order.
func FeatureNames() []string {
	return append([]string(nil), featureNames[:]...)
}

// Statistics reports min/max/mean/median of every feature over the
// training corpus, to guide users toward plausible inputs.
func (p *Predictor) Statistics() map[string]FeatureStats {
	stats := make(map[string]FeatureStats, numFeatures)
	values := make([]float64, p.nTrained)

	for i, name := range featureNames {
		for j := range p.samples {
			values[j] = p.samples[j][i]
		}
		stats[name] = summarize(values)
	}
	return stats
}

func featuresOf(m *catalog.Movie) [numFeatures]float64 {
	return [numFeatures]float64{
		m.Budget,
		m.Popularity,
		m.Runtime,
		float64(m.ReleaseYear()),
		float64(len(m.Genres)),
		float64(len(m.Cast)),
	}
}

// standardizeFit computes per-feature mean and standard deviation.
// A constant feature gets std 1 so its standardized value is 0.
func (p *Predictor) standardizeFit() {
	n := float64(p.nTrained)

	for i := 0; i < numFeatures; i++ {
		sum := 0.0
		for j := range p.samples {
			sum += p.samples[j][i]
		}
		p.means[i] = sum / n

		variance := 0.0
		for j := range p.samples {
			d := p.samples[j][i] - p.means[i]
			variance += d * d
		}
		p.stds[i] = math.Sqrt(variance / n)
		if p.stds[i] == 0 {
			p.stds[i] = 1
		}
	}
}

// solve fits the coefficients by ordinary least squares over the
// standardized design matrix, via the normal equations. The system is
// 7x7 (six features plus intercept), small enough for direct Gaussian
// elimination with partial pivoting.
func (p *Predictor) solve(targets []float64) error {
	const dim = numFeatures + 1 // intercept last

	design := make([][dim]float64, p.nTrained)
	for j := range p.samples {
		for i := 0; i < numFeatures; i++ {
			design[j][i] = (p.samples[j][i] - p.means[i]) / p.stds[i]
		}
		design[j][numFeatures] = 1
	}

	var ata [dim][dim]float64
	var atb [dim]float64
	for j := range design {
		for r := 0; r < dim; r++ {
			for c := 0; c < dim; c++ {
				ata[r][c] += design[j][r] * design[j][c]
			}
			atb[r] += design[j][r] * targets[j]
		}
	}
	for r := 0; r < dim; r++ {
		ata[r][r] += ridge
	}

	solution, err := gaussianSolve(ata, atb)
	if err != nil {
		return err
	}

	copy(p.weights[:], solution[:numFeatures])
	p.bias = solution[numFeatures]
	return nil
}

func gaussianSolve(a [numFeatures + 1][numFeatures + 1]float64, b [numFeatures + 1]float64) ([numFeatures + 1]float64, error) {
	const dim = numFeatures + 1
	var x [numFeatures + 1]float64

	for col := 0; col < dim; col++ {
		pivot := col
		for r := col + 1; r < dim; r++ {
			if math.Abs(a[r][col]) > math.Abs(a[pivot][col]) {
				pivot = r
			}
		}
		if math.Abs(a[pivot][col]) < 1e-12 {
			return x, fmt.Errorf("singular normal-equation matrix at column %d", col)
		}
		a[col], a[pivot] = a[pivot], a[col]
		b[col], b[pivot] = b[pivot], b[col]

		for r := col + 1; r < dim; r++ {
			factor := a[r][col] / a[col][col]
			for c := col; c < dim; c++ {
				a[r][c] -= factor * a[col][c]
			}
			b[r] -= factor * b[col]
		}
	}

	for r := dim - 1; r >= 0; r-- {
		sum := b[r]
		for c := r + 1; c < dim; c++ {
			sum -= a[r][c] * x[c]
		}
		x[r] = sum / a[r][r]
	}
	return x, nil
}

func summarize(values []float64) FeatureStats {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	sum := 0.0
	for _, v := range sorted {
		sum += v
	}

	n := len(sorted)
	median := sorted[n/2]
	if n%2 == 0 {
		median = (sorted[n/2-1] + sorted[n/2]) / 2
	}

	return FeatureStats{
		Min:    sorted[0],
		Max:    sorted[n-1],
		Mean:   sum / float64(n),
		Median: median,
	}
}
