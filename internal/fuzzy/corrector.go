package fuzzy

import (
	"log/slog"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/reelrank/reelrank/internal/index"
	"github.com/reelrank/reelrank/internal/textnorm"
)

// Default correction thresholds. Titles are long enough that lower
// scores still carry signal; entity names are short and collide more
// easily, hence the stricter bar.
const (
	DefaultTitleThreshold  = 70
	DefaultEntityThreshold = 75

	// DefaultCacheSize bounds the correction LRU. Corrections scan the
	// whole candidate list, so repeated queries are worth caching.
	DefaultCacheSize = 512
)

// Corrector finds the closest known title or entity name for noisy
// user input. It reads only immutable indexes and is safe for
// concurrent use.
type Corrector struct {
	titles   *index.TitleIndex
	entities *index.Entities
	scorer   Scorer

	titleThreshold  int
	entityThreshold int

	cache *lru.Cache[string, string]
}

// Option configures a Corrector.
type Option func(*Corrector)

// WithTitleThreshold overrides the title correction threshold.
func WithTitleThreshold(threshold int) Option {
	return func(c *Corrector) { c.titleThreshold = threshold }
}

// WithEntityThreshold overrides the entity correction threshold.
func WithEntityThreshold(threshold int) Option {
	return func(c *Corrector) { c.entityThreshold = threshold }
}

// WithCacheSize overrides the correction cache size.
func WithCacheSize(size int) Option {
	return func(c *Corrector) {
		if size > 0 {
			c.cache, _ = lru.New[string, string](size)
		}
	}
}

// NewCorrector creates a corrector over the given indexes and scorer.
func NewCorrector(titles *index.TitleIndex, entities *index.Entities, scorer Scorer, opts ...Option) *Corrector {
	c := &Corrector{
		titles:          titles,
		entities:        entities,
		scorer:          scorer,
		titleThreshold:  DefaultTitleThreshold,
		entityThreshold: DefaultEntityThreshold,
	}
	c.cache, _ = lru.New[string, string](DefaultCacheSize)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CorrectTitle returns the best-matching known title for input, or the
// input unchanged when nothing clears the threshold. When several
// original titles collapse to the same normalized form, they are
// re-ranked against the raw input to recover case and punctuation lost
// by normalization.
func (c *Corrector) CorrectTitle(input string) string {
	if strings.TrimSpace(input) == "" {
		return input
	}

	cacheKey := "title\x00" + input
	if cached, ok := c.cache.Get(cacheKey); ok {
		return cached
	}

	corrected := c.correctTitle(input)
	c.cache.Add(cacheKey, corrected)
	return corrected
}

func (c *Corrector) correctTitle(input string) string {
	normInput := textnorm.Normalize(input)

	best, score := extractOne(normInput, c.titles.NormalizedTitles(), c.scorer)
	if score < c.titleThreshold {
		// Below threshold: hand back the raw input so the caller's
		// exact lookup misses and search degrades to semantic-only.
		return input
	}

	originals := c.titles.Originals(best)
	switch len(originals) {
	case 0:
		return input
	case 1:
		return originals[0]
	}

	raw, _ := extractOne(input, originals, c.scorer)
	slog.Debug("title_correction_disambiguated",
		slog.String("input", input),
		slog.String("normalized_key", best),
		slog.Int("duplicates", len(originals)))
	return raw
}

// CorrectEntity returns the best-matching normalized entity name for
// input, or the normalized input when nothing clears the threshold.
// Entity indexes are keyed by normalized name only, so no raw re-rank
// step applies.
func (c *Corrector) CorrectEntity(input string, kind index.Kind) string {
	if strings.TrimSpace(input) == "" {
		return input
	}

	normInput := textnorm.Normalize(input)

	idx := c.entities.ByKind(kind)
	if idx == nil {
		return normInput
	}

	cacheKey := "entity\x00" + string(kind) + "\x00" + input
	if cached, ok := c.cache.Get(cacheKey); ok {
		return cached
	}

	best, score := extractOne(normInput, idx.Names(), c.scorer)
	corrected := normInput
	if score >= c.entityThreshold {
		corrected = best
	}

	c.cache.Add(cacheKey, corrected)
	return corrected
}
