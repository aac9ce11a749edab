// Package search orchestrates normalization, fuzzy correction, entity
// filtering and semantic ranking into the three public retrieval
// operations. Every call is a pure read over immutable shared
// structures, so an Engine is safe for concurrent use once built.
package search

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/reelrank/reelrank/internal/catalog"
	reelerrors "github.com/reelrank/reelrank/internal/errors"
	"github.com/reelrank/reelrank/internal/fuzzy"
	"github.com/reelrank/reelrank/internal/index"
	"github.com/reelrank/reelrank/internal/tfidf"
)

// ErrNilDependency is returned when a required dependency is nil.
var ErrNilDependency = errors.New("nil dependency")

// Engine is the retrieval engine. All fields are set at construction
// and read-only afterward; it holds no per-call state.
type Engine struct {
	cat       *catalog.Catalog
	titles    *index.TitleIndex
	entities  *index.Entities
	corrector *fuzzy.Corrector
	semantic  *tfidf.Index
	matrix    *tfidf.SimilarityMatrix // optional, nil means compute on demand
	config    EngineConfig
}

// EngineOption configures the engine.
type EngineOption func(*Engine)

// WithSimilarityMatrix installs a precomputed item-by-item similarity
// matrix. Valid only while the corpus is static; live query text still
// goes through Transform.
func WithSimilarityMatrix(m *tfidf.SimilarityMatrix) EngineOption {
	return func(e *Engine) { e.matrix = m }
}

// WithConfig overrides the default limits.
func WithConfig(cfg EngineConfig) EngineOption {
	return func(e *Engine) { e.config = cfg }
}

// NewEngine creates a retrieval engine over the given immutable
// structures. It verifies the handle/row alignment the ranking relies
// on: semantic row i must correspond to catalog item i.
func NewEngine(
	cat *catalog.Catalog,
	titles *index.TitleIndex,
	entities *index.Entities,
	corrector *fuzzy.Corrector,
	semantic *tfidf.Index,
	opts ...EngineOption,
) (*Engine, error) {
	if cat == nil {
		return nil, fmt.Errorf("%w: catalog is required", ErrNilDependency)
	}
	if titles == nil {
		return nil, fmt.Errorf("%w: title index is required", ErrNilDependency)
	}
	if entities == nil {
		return nil, fmt.Errorf("%w: entity indexes are required", ErrNilDependency)
	}
	if corrector == nil {
		return nil, fmt.Errorf("%w: corrector is required", ErrNilDependency)
	}
	if semantic == nil {
		return nil, fmt.Errorf("%w: semantic index is required", ErrNilDependency)
	}
	if semantic.Rows() != cat.Len() {
		return nil, reelerrors.Internal(fmt.Sprintf(
			"semantic index has %d rows for %d movies; indexes were built from different corpora",
			semantic.Rows(), cat.Len()), nil)
	}

	e := &Engine{
		cat:       cat,
		titles:    titles,
		entities:  entities,
		corrector: corrector,
		semantic:  semantic,
		config:    DefaultEngineConfig(),
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.matrix != nil && e.matrix.Len() != cat.Len() {
		return nil, reelerrors.Internal(fmt.Sprintf(
			"similarity matrix has %d rows for %d movies", e.matrix.Len(), cat.Len()), nil)
	}

	return e, nil
}

// Recommend ranks every other movie by similarity to a known title.
// The lookup is exact (case-insensitive) with no fuzzy correction; a
// miss returns a NotFound error and an empty list.
func (e *Engine) Recommend(title string, n int) ([]Result, error) {
	n = e.clampLimit(n)

	handle, ok := e.titles.Lookup(title)
	if !ok {
		return nil, reelerrors.NotFound(title)
	}

	scores := e.scoresFor(handle)

	ranked := e.rankAll(scores, func(h int) bool { return h != handle })
	if len(ranked) > n {
		ranked = ranked[:n]
	}

	slog.Debug("recommend_complete",
		slog.String("title", title),
		slog.Int("results", len(ranked)))
	return e.toResults(ranked, scores), nil
}

// Search performs free-text semantic search. The query is first fuzzy-
// corrected as a title; if the corrected query exactly matches a known
// title that item is forced to rank first, with the remaining slots
// filled by the next-highest distinct items.
func (e *Engine) Search(query string, n int) ([]Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, reelerrors.EmptyInput("query")
	}
	n = e.clampLimit(n)

	corrected := e.corrector.CorrectTitle(query)
	queryVec := e.semantic.Transform(strings.ToLower(corrected))
	scores := e.semantic.Similarities(queryVec)

	ranked := e.rankAll(scores, nil)

	if exact, ok := e.titles.Lookup(corrected); ok {
		ranked = promote(ranked, func(h int) bool { return h == exact })
	}
	if len(ranked) > n {
		ranked = ranked[:n]
	}

	slog.Debug("search_complete",
		slog.String("query", query),
		slog.String("corrected", corrected),
		slog.Int("results", len(ranked)))
	return e.toResults(ranked, scores), nil
}

// SearchFiltered restricts ranking to movies matching every supplied
// actor and director name. Filters that match nothing fall back to
// plain semantic search over the whole corpus rather than returning an
// empty list.
func (e *Engine) SearchFiltered(title, actorsCSV, directorsCSV string, n int) ([]Result, error) {
	candidates := e.resolveFilters(actorsCSV, directorsCSV)

	// nil: no filters supplied. Empty: filters matched nothing.
	if len(candidates) == 0 {
		slog.Debug("filtered_search_fallback",
			slog.Bool("filters_supplied", candidates != nil))
		return e.Search(title, n)
	}
	n = e.clampLimit(n)

	// The title is vectorized as typed (no correction on this path);
	// a blank title yields the zero vector and with it all-zero scores,
	// leaving candidates in corpus order.
	queryVec := e.semantic.Transform(strings.ToLower(title))
	scores := e.semantic.Similarities(queryVec)

	ranked := e.rankSubset(candidates.Handles(), scores)
	if len(ranked) > n {
		ranked = ranked[:n]
	}

	if strings.TrimSpace(title) != "" {
		ranked = promote(ranked, func(h int) bool {
			return strings.EqualFold(e.cat.At(h).Title, title)
		})
	}

	slog.Debug("filtered_search_complete",
		slog.String("title", title),
		slog.Int("candidates", len(candidates)),
		slog.Int("results", len(ranked)))
	return e.toResults(ranked, scores), nil
}

// Stats returns index dimensions for diagnostics.
func (e *Engine) Stats() EngineStats {
	return EngineStats{
		Movies:      e.cat.Len(),
		Vocabulary:  e.semantic.VocabSize(),
		Actors:      len(e.entities.Actors),
		Directors:   len(e.entities.Directors),
		Companies:   len(e.entities.Companies),
		Precomputed: e.matrix != nil,
	}
}

// resolveFilters corrects and intersects the comma-separated entity
// lists. Returns nil when neither filter was supplied.
func (e *Engine) resolveFilters(actorsCSV, directorsCSV string) index.MemberSet {
	var candidates index.MemberSet

	if names := splitCSV(actorsCSV); len(names) > 0 {
		corrected := make([]string, len(names))
		for i, name := range names {
			corrected[i] = e.corrector.CorrectEntity(name, index.KindActor)
		}
		candidates = e.entities.Actors.Intersect(corrected)
	}

	if names := splitCSV(directorsCSV); len(names) > 0 {
		corrected := make([]string, len(names))
		for i, name := range names {
			corrected[i] = e.corrector.CorrectEntity(name, index.KindDirector)
		}
		candidates = index.IntersectSets(candidates, e.entities.Directors.Intersect(corrected))
	}

	return candidates
}

// scoresFor returns similarity of every movie to the given handle,
// from the precomputed matrix when available.
func (e *Engine) scoresFor(handle int) []float64 {
	if e.matrix != nil {
		return e.matrix.RowScores(handle)
	}
	return e.semantic.Similarities(e.semantic.Row(handle))
}

// rankAll orders all handles passing keep (nil keeps everything) by
// descending score. The sort is stable over ascending handles, so
// score ties preserve corpus order and repeated calls are bit-identical.
func (e *Engine) rankAll(scores []float64, keep func(int) bool) []int {
	handles := make([]int, 0, len(scores))
	for h := range scores {
		if keep == nil || keep(h) {
			handles = append(handles, h)
		}
	}
	sort.SliceStable(handles, func(i, j int) bool {
		return scores[handles[i]] > scores[handles[j]]
	})
	return handles
}

// rankSubset orders the given handles (already in ascending corpus
// order) by descending score with the same stable tie policy.
func (e *Engine) rankSubset(handles []int, scores []float64) []int {
	ranked := make([]int, len(handles))
	copy(ranked, handles)
	sort.SliceStable(ranked, func(i, j int) bool {
		return scores[ranked[i]] > scores[ranked[j]]
	})
	return ranked
}

// promote moves handles matching match to the front, preserving the
// relative order of both groups.
func promote(ranked []int, match func(int) bool) []int {
	front := make([]int, 0, len(ranked))
	rest := make([]int, 0, len(ranked))
	for _, h := range ranked {
		if match(h) {
			front = append(front, h)
		} else {
			rest = append(rest, h)
		}
	}
	return append(front, rest...)
}

// toResults materializes ranked handles into the result shape.
func (e *Engine) toResults(ranked []int, scores []float64) []Result {
	results := make([]Result, len(ranked))
	for i, h := range ranked {
		m := e.cat.At(h)
		results[i] = Result{
			Title:       m.Title,
			Rating:      m.VoteAverage,
			ReleaseDate: m.ReleaseDate,
			Genres:      m.Genres,
			Score:       scores[h],
		}
	}
	return results
}

// clampLimit bounds n: negative means the default, zero is a valid
// empty request, and everything is capped at MaxLimit.
func (e *Engine) clampLimit(n int) int {
	if n < 0 {
		n = e.config.DefaultLimit
	}
	if n > e.config.MaxLimit {
		n = e.config.MaxLimit
	}
	return n
}

// splitCSV splits a comma-separated list, trimming and dropping blanks.
func splitCSV(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
