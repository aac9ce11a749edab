// Package catalog holds the movie collection and its loading logic.
//
// The catalog is built once at initialization and is immutable for the
// rest of the session; every index in the system is derived from it and
// addresses movies by their position (handle) in Movies().
package catalog

import (
	"strings"
	"time"
)

// PlaceholderDirector substitutes a missing director name so that
// "unknown director" is itself a valid queryable key.
const PlaceholderDirector = "Unknown"

// Movie is one catalog item. Fields are parsed once at load and never
// mutated afterward.
type Movie struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	VoteAverage float64   `json:"vote_average"`
	ReleaseDate time.Time `json:"release_date"`
	Genres      []string  `json:"genres"`
	Cast        []string  `json:"cast"`
	Companies   []string  `json:"production_companies"`
	Director    string    `json:"director"`
	Overview    string    `json:"overview"`
	Popularity  float64   `json:"popularity"`
	Runtime     float64   `json:"runtime"`
	Budget      float64   `json:"budget"`
}

// ReleaseYear returns the release year, or 0 when the date is unknown.
func (m *Movie) ReleaseYear() int {
	if m.ReleaseDate.IsZero() {
		return 0
	}
	return m.ReleaseDate.Year()
}

// ContentProfile is the derived text indexed by the semantic engine:
// lowercased concatenation of genres, cast, companies, director and
// overview. Computed once per movie, never re-derived per query.
func (m *Movie) ContentProfile() string {
	parts := []string{
		strings.Join(m.Genres, " "),
		strings.Join(m.Cast, " "),
		strings.Join(m.Companies, " "),
		m.Director,
		m.Overview,
	}
	return strings.ToLower(strings.Join(parts, " "))
}

// Catalog is the immutable movie collection. The slice index of a movie
// is its handle; the semantic index and entity indexes are aligned to it.
type Catalog struct {
	movies []Movie
}

// New creates a catalog from an already-parsed movie slice.
func New(movies []Movie) *Catalog {
	return &Catalog{movies: movies}
}

// Movies returns the backing slice. Callers must treat it as read-only.
func (c *Catalog) Movies() []Movie {
	return c.movies
}

// Len returns the number of movies.
func (c *Catalog) Len() int {
	return len(c.movies)
}

// At returns the movie at the given handle.
func (c *Catalog) At(handle int) *Movie {
	return &c.movies[handle]
}

// Profiles returns one content profile per movie, aligned with handles.
func (c *Catalog) Profiles() []string {
	profiles := make([]string, len(c.movies))
	for i := range c.movies {
		profiles[i] = c.movies[i].ContentProfile()
	}
	return profiles
}
