package search

import (
	"time"
)

// Result is one ranked retrieval hit.
type Result struct {
	Title       string    `json:"title"`
	Rating      float64   `json:"rating"`
	ReleaseDate time.Time `json:"release_date"`
	Genres      []string  `json:"genres"`
	Score       float64   `json:"similarity_score"`
}

// EngineConfig holds retrieval limits.
type EngineConfig struct {
	// DefaultLimit is used when a caller passes n < 0.
	DefaultLimit int
	// MaxLimit caps any single call's result count.
	MaxLimit int
}

// DefaultEngineConfig returns the standard limits.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		DefaultLimit: 10,
		MaxLimit:     100,
	}
}

// EngineStats reports index dimensions for diagnostics.
type EngineStats struct {
	Movies      int  `json:"movies"`
	Vocabulary  int  `json:"vocabulary"`
	Actors      int  `json:"actors"`
	Directors   int  `json:"directors"`
	Companies   int  `json:"companies"`
	Precomputed bool `json:"precomputed_matrix"`
}
