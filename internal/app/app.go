// Package app wires the catalog, indexes, retrieval engine and rating
// model into one initialized application. Initialization is a one-time
// blocking bulk step; no retrieval call is issued until it completes.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/reelrank/reelrank/internal/catalog"
	"github.com/reelrank/reelrank/internal/config"
	reelerrors "github.com/reelrank/reelrank/internal/errors"
	"github.com/reelrank/reelrank/internal/fuzzy"
	"github.com/reelrank/reelrank/internal/index"
	"github.com/reelrank/reelrank/internal/predict"
	"github.com/reelrank/reelrank/internal/search"
	"github.com/reelrank/reelrank/internal/store"
	"github.com/reelrank/reelrank/internal/tfidf"
)

// App is a fully initialized ReelRank instance. All members are
// immutable after Load returns and safe for concurrent readers.
type App struct {
	Config    *config.Config
	Catalog   *catalog.Catalog
	Engine    *search.Engine
	Predictor *predict.Predictor
}

// Options tweaks initialization.
type Options struct {
	// ForceRebuild bypasses the catalog cache even when fresh.
	ForceRebuild bool
}

// Load initializes the application: catalog (through the SQLite cache
// when fresh), every index, the retrieval engine and the rating model.
func Load(ctx context.Context, cfg *config.Config, opts Options) (*App, error) {
	start := time.Now()

	cat, err := loadCatalog(ctx, cfg, opts.ForceRebuild)
	if err != nil {
		return nil, err
	}
	if cat.Len() == 0 {
		return nil, reelerrors.New(reelerrors.ErrCodeDatasetCorrupt,
			fmt.Sprintf("dataset %s contains no movies", cfg.Dataset.Path), nil)
	}

	// The entity/title indexes, the semantic index and the rating model
	// are independent derivations of the catalog; build them in parallel.
	var (
		titles    *index.TitleIndex
		entities  *index.Entities
		semantic  *tfidf.Index
		predictor *predict.Predictor
	)

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		titles = index.BuildTitles(cat)
		entities = index.BuildEntities(cat)
		return nil
	})
	g.Go(func() error {
		var err error
		semantic, err = tfidf.Fit(cat.Profiles(), tfidf.Options{
			MaxFeatures: cfg.Index.MaxFeatures,
			MinDocFreq:  cfg.Index.MinDocFreq,
			MaxDocRatio: cfg.Index.MaxDocRatio,
		})
		return err
	})
	g.Go(func() error {
		var err error
		predictor, err = predict.Train(cat)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, reelerrors.New(reelerrors.ErrCodeIndexFailed, "index construction failed", err)
	}

	corrector := fuzzy.NewCorrector(titles, entities, fuzzy.TokenSortScorer(),
		fuzzy.WithTitleThreshold(cfg.Search.TitleThreshold),
		fuzzy.WithEntityThreshold(cfg.Search.EntityThreshold),
		fuzzy.WithCacheSize(cfg.Search.CorrectionCacheSize))

	engineOpts := []search.EngineOption{
		search.WithConfig(search.EngineConfig{
			DefaultLimit: cfg.Search.DefaultLimit,
			MaxLimit:     cfg.Search.MaxLimit,
		}),
	}
	if cfg.Index.Precompute {
		engineOpts = append(engineOpts, search.WithSimilarityMatrix(tfidf.NewSimilarityMatrix(semantic)))
	}

	engine, err := search.NewEngine(cat, titles, entities, corrector, semantic, engineOpts...)
	if err != nil {
		return nil, err
	}

	slog.Info("app_loaded",
		slog.Int("movies", cat.Len()),
		slog.Int("vocabulary", semantic.VocabSize()),
		slog.Bool("precomputed_matrix", cfg.Index.Precompute),
		slog.Duration("elapsed", time.Since(start)))

	return &App{
		Config:    cfg,
		Catalog:   cat,
		Engine:    engine,
		Predictor: predictor,
	}, nil
}

// loadCatalog returns the catalog from the cache when it matches the
// current dataset file, parsing and re-caching the CSV otherwise. The
// rebuild is serialized across processes with a file lock.
func loadCatalog(ctx context.Context, cfg *config.Config, force bool) (*catalog.Catalog, error) {
	if _, err := os.Stat(cfg.Dataset.Path); os.IsNotExist(err) {
		return nil, reelerrors.New(reelerrors.ErrCodeDatasetNotFound,
			fmt.Sprintf("dataset not found at %s", cfg.Dataset.Path), err)
	}

	sourceHash, err := store.HashFile(cfg.Dataset.Path)
	if err != nil {
		return nil, err
	}

	dataDir := cfg.EffectiveDataDir()
	cache, err := store.Open(filepath.Join(dataDir, "catalog.db"))
	if err != nil {
		return nil, err
	}
	defer cache.Close()

	if !force {
		fresh, err := cache.Fresh(ctx, sourceHash)
		if err != nil {
			return nil, err
		}
		if fresh {
			if cat, ok, err := cache.Get(ctx); err == nil && ok {
				slog.Info("catalog_cache_hit", slog.Int("movies", cat.Len()))
				return cat, nil
			} else if err != nil {
				slog.Warn("catalog_cache_unreadable", slog.String("error", err.Error()))
			}
		}
	}

	lock := store.NewBuildLock(dataDir)
	if err := lock.Lock(); err != nil {
		return nil, err
	}
	defer func() { _ = lock.Unlock() }()

	// Another process may have finished the rebuild while this one was
	// waiting on the lock.
	if !force {
		if fresh, err := cache.Fresh(ctx, sourceHash); err == nil && fresh {
			if cat, ok, err := cache.Get(ctx); err == nil && ok {
				return cat, nil
			}
		}
	}

	cat, err := catalog.LoadCSV(cfg.Dataset.Path)
	if err != nil {
		return nil, err
	}
	if err := cache.Put(ctx, cat, sourceHash); err != nil {
		// The cache is an optimization; a write failure must not block
		// a session that already has the parsed catalog.
		slog.Warn("catalog_cache_write_failed", slog.String("error", err.Error()))
	}
	return cat, nil
}
