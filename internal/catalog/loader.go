package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/reelrank/reelrank/internal/errors"
)

// Columns the loader understands. Only id and title are mandatory;
// everything else degrades to a zero value.
const (
	colID        = "id"
	colTitle     = "title"
	colVoteAvg   = "vote_average"
	colRelease   = "release_date"
	colGenres    = "genres"
	colCast      = "cast"
	colCompanies = "production_companies"
	colDirector  = "director"
	colOverview  = "overview"
	colPopular   = "popularity"
	colRuntime   = "runtime"
	colBudget    = "budget"
)

// LoadCSV reads the movie dataset from a CSV file.
// Rows are deduplicated by id (first occurrence wins), a missing
// director becomes the placeholder, and a missing overview becomes the
// empty string, so downstream indexes never see nil-ish values.
func LoadCSV(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.New(errors.ErrCodeDatasetNotFound,
			fmt.Sprintf("dataset not found: %s", path), err)
	}
	defer func() { _ = f.Close() }()

	cat, err := Read(f)
	if err != nil {
		return nil, errors.New(errors.ErrCodeDatasetCorrupt,
			fmt.Sprintf("dataset %s: %v", path, err), err)
	}

	slog.Info("catalog_loaded",
		slog.String("path", path),
		slog.Int("movies", cat.Len()))
	return cat, nil
}

// Read parses movies from CSV content.
func Read(r io.Reader) (*Catalog, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(strings.ToLower(name))] = i
	}
	if _, ok := cols[colID]; !ok {
		return nil, fmt.Errorf("missing required column %q", colID)
	}
	if _, ok := cols[colTitle]; !ok {
		return nil, fmt.Errorf("missing required column %q", colTitle)
	}

	var movies []Movie
	seen := make(map[int64]struct{})
	line := 1

	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		field := func(name string) string {
			idx, ok := cols[name]
			if !ok || idx >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[idx])
		}

		id, err := strconv.ParseInt(field(colID), 10, 64)
		if err != nil {
			slog.Warn("catalog_row_skipped",
				slog.Int("line", line),
				slog.String("reason", "unparsable id"))
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		m := Movie{
			ID:          id,
			Title:       field(colTitle),
			VoteAverage: parseFloat(field(colVoteAvg)),
			ReleaseDate: parseDate(field(colRelease)),
			Genres:      parseListLiteral(field(colGenres)),
			Cast:        parseListLiteral(field(colCast)),
			Companies:   parseListLiteral(field(colCompanies)),
			Director:    field(colDirector),
			Overview:    field(colOverview),
			Popularity:  parseFloat(field(colPopular)),
			Runtime:     parseFloat(field(colRuntime)),
			Budget:      parseFloat(field(colBudget)),
		}
		if m.Director == "" {
			m.Director = PlaceholderDirector
		}

		movies = append(movies, m)
	}

	return New(movies), nil
}

// parseFloat converts a numeric field, returning 0 for blanks and junk.
func parseFloat(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// parseDate accepts ISO dates; anything unparsable coerces to zero time.
func parseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// parseListLiteral parses list-typed CSV fields. The upstream export
// writes Python-style literals like ['Action', "Sci-Fi"]; plain
// comma-separated values are accepted too.
func parseListLiteral(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") {
		s = s[1 : len(s)-1]
	}
	if strings.TrimSpace(s) == "" {
		return nil
	}

	var (
		items   []string
		current strings.Builder
		quote   rune // active quote rune, 0 when outside a quoted span
	)

	flush := func() {
		item := strings.TrimSpace(current.String())
		item = strings.Trim(item, `'"`)
		if item != "" {
			items = append(items, item)
		}
		current.Reset()
	}

	for _, r := range s {
		switch {
		case quote == 0 && (r == '\'' || r == '"'):
			quote = r
		case quote == r:
			quote = 0
		case quote == 0 && r == ',':
			flush()
		default:
			current.WriteRune(r)
		}
	}
	flush()

	return items
}
