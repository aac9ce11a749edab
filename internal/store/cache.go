// Package store persists the parsed catalog in a local SQLite cache so
// later sessions skip CSV parsing. The cache is keyed by a hash of the
// source file; a mismatch triggers a transparent rebuild. SQLite runs
// in WAL mode with a single-connection pool for safe multi-process use.
package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // pure Go SQLite driver, no CGO

	"github.com/reelrank/reelrank/internal/catalog"
	reelerrors "github.com/reelrank/reelrank/internal/errors"
)

// State keys stored alongside the cached movies.
const (
	StateSourceHash = "source_hash"
	StateMovieCount = "movie_count"
	StateBuiltAt    = "built_at"
)

// CatalogCache is a SQLite-backed cache of a parsed catalog.
type CatalogCache struct {
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the catalog cache at path. A cache
// that fails its integrity check is removed and recreated empty rather
// than surfacing corruption to the caller.
func Open(path string) (*CatalogCache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	if err := validateIntegrity(path); err != nil {
		slog.Warn("catalog_cache_corrupted",
			slog.String("path", path),
			slog.String("error", err.Error()))
		if removeErr := os.Remove(path); removeErr != nil && !os.IsNotExist(removeErr) {
			return nil, reelerrors.New(reelerrors.ErrCodeCacheCorrupt,
				fmt.Sprintf("cache corrupted at %s and cannot be removed", path), removeErr)
		}
		_ = os.Remove(path + "-wal")
		_ = os.Remove(path + "-shm")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog cache: %w", err)
	}

	// Single writer prevents lock contention under WAL.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	// modernc.org/sqlite ignores journal params in the DSN, so the
	// pragmas are applied explicitly.
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA temp_store = MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	c := &CatalogCache{db: db, path: path}
	if err := c.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize cache schema: %w", err)
	}
	return c, nil
}

// Close releases the underlying database handle.
func (c *CatalogCache) Close() error {
	return c.db.Close()
}

// Path returns the cache file location.
func (c *CatalogCache) Path() string {
	return c.path
}

func validateIntegrity(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil // will be created
	}

	db, err := sql.Open("sqlite", path+"?mode=ro")
	if err != nil {
		return fmt.Errorf("cannot open for validation: %w", err)
	}
	defer db.Close()

	var result string
	if err := db.QueryRow("PRAGMA integrity_check").Scan(&result); err != nil {
		return fmt.Errorf("integrity check failed: %w", err)
	}
	if result != "ok" {
		return fmt.Errorf("database corrupted: %s", result)
	}
	return nil
}

func (c *CatalogCache) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY
	);

	-- One row per movie, in catalog handle order. List fields are JSON
	-- arrays; the release date is RFC 3339 or empty when unknown.
	CREATE TABLE IF NOT EXISTS movies (
		handle       INTEGER PRIMARY KEY,
		id           INTEGER NOT NULL,
		title        TEXT NOT NULL,
		vote_average REAL NOT NULL,
		release_date TEXT NOT NULL,
		genres       TEXT NOT NULL,
		cast_names   TEXT NOT NULL,
		companies    TEXT NOT NULL,
		director     TEXT NOT NULL,
		overview     TEXT NOT NULL,
		popularity   REAL NOT NULL,
		runtime      REAL NOT NULL,
		budget       REAL NOT NULL
	);

	-- Build metadata: source hash, corpus size, build timestamp.
	CREATE TABLE IF NOT EXISTS state (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	INSERT OR IGNORE INTO schema_version (version) VALUES (1);
	`
	_, err := c.db.Exec(schema)
	return err
}

// Put replaces the cached catalog with cat, recording the source hash
// for later freshness checks. The replacement is transactional: a
// reader never observes a half-written catalog.
func (c *CatalogCache) Put(ctx context.Context, cat *catalog.Catalog, sourceHash string) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin cache transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM movies"); err != nil {
		return fmt.Errorf("failed to clear cached movies: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO movies (handle, id, title, vote_average, release_date,
			genres, cast_names, companies, director, overview,
			popularity, runtime, budget)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for handle, m := range cat.Movies() {
		genres, cast, companies, err := marshalLists(&m)
		if err != nil {
			return err
		}
		date := ""
		if !m.ReleaseDate.IsZero() {
			date = m.ReleaseDate.Format(time.RFC3339)
		}
		if _, err := stmt.ExecContext(ctx, handle, m.ID, m.Title, m.VoteAverage, date,
			genres, cast, companies, m.Director, m.Overview,
			m.Popularity, m.Runtime, m.Budget); err != nil {
			return fmt.Errorf("failed to cache movie %d: %w", m.ID, err)
		}
	}

	states := map[string]string{
		StateSourceHash: sourceHash,
		StateMovieCount: fmt.Sprintf("%d", cat.Len()),
		StateBuiltAt:    time.Now().UTC().Format(time.RFC3339),
	}
	for key, value := range states {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO state (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
			key, value); err != nil {
			return fmt.Errorf("failed to record cache state %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit cache: %w", err)
	}

	slog.Info("catalog_cached",
		slog.Int("movies", cat.Len()),
		slog.String("path", c.path))
	return nil
}

// Get loads the cached catalog. The second return is false when the
// cache is empty.
func (c *CatalogCache) Get(ctx context.Context) (*catalog.Catalog, bool, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT id, title, vote_average, release_date, genres, cast_names,
			companies, director, overview, popularity, runtime, budget
		FROM movies ORDER BY handle`)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cached movies: %w", err)
	}
	defer rows.Close()

	var movies []catalog.Movie
	for rows.Next() {
		var m catalog.Movie
		var date, genres, cast, companies string
		if err := rows.Scan(&m.ID, &m.Title, &m.VoteAverage, &date, &genres, &cast,
			&companies, &m.Director, &m.Overview, &m.Popularity, &m.Runtime, &m.Budget); err != nil {
			return nil, false, fmt.Errorf("failed to scan cached movie: %w", err)
		}
		if date != "" {
			parsed, err := time.Parse(time.RFC3339, date)
			if err != nil {
				return nil, false, reelerrors.New(reelerrors.ErrCodeCacheCorrupt,
					fmt.Sprintf("cached release date %q is not RFC 3339", date), err)
			}
			m.ReleaseDate = parsed
		}
		if err := unmarshalLists(&m, genres, cast, companies); err != nil {
			return nil, false, err
		}
		movies = append(movies, m)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("failed iterating cached movies: %w", err)
	}
	if len(movies) == 0 {
		return nil, false, nil
	}
	return catalog.New(movies), true, nil
}

// State returns the value stored under key, or "" when absent.
func (c *CatalogCache) State(ctx context.Context, key string) (string, error) {
	var value string
	err := c.db.QueryRowContext(ctx, "SELECT value FROM state WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read cache state %s: %w", key, err)
	}
	return value, nil
}

// Fresh reports whether the cache was built from the given source hash.
func (c *CatalogCache) Fresh(ctx context.Context, sourceHash string) (bool, error) {
	cached, err := c.State(ctx, StateSourceHash)
	if err != nil {
		return false, err
	}
	return cached != "" && cached == sourceHash, nil
}

// HashFile returns the hex SHA-256 of the file at path, used as the
// cache freshness key.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s for hashing: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func marshalLists(m *catalog.Movie) (genres, cast, companies string, err error) {
	parts := make([]string, 3)
	for i, list := range [][]string{m.Genres, m.Cast, m.Companies} {
		if list == nil {
			list = []string{}
		}
		raw, err := json.Marshal(list)
		if err != nil {
			return "", "", "", fmt.Errorf("failed to encode list field: %w", err)
		}
		parts[i] = string(raw)
	}
	return parts[0], parts[1], parts[2], nil
}

func unmarshalLists(m *catalog.Movie, genres, cast, companies string) error {
	for _, field := range []struct {
		raw  string
		dest *[]string
	}{
		{genres, &m.Genres},
		{cast, &m.Cast},
		{companies, &m.Companies},
	} {
		if err := json.Unmarshal([]byte(field.raw), field.dest); err != nil {
			return reelerrors.New(reelerrors.ErrCodeCacheCorrupt,
				"cached list field is not valid JSON", err)
		}
	}
	return nil
}
