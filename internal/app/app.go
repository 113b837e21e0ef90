package app

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"ReleaseTimeline/internal/config"
	"ReleaseTimeline/internal/infrastructure/fetch"
	"ReleaseTimeline/internal/infrastructure/pacing"
	"ReleaseTimeline/internal/infrastructure/storage"
	"ReleaseTimeline/internal/ingest"
	"ReleaseTimeline/internal/logging"
)

// Application wires configuration to the store, fetcher and pipeline.
type Application struct {
	cfg      config.Config
	db       *sql.DB
	store    *storage.PostgresStore
	pipeline *ingest.Pipeline
}

// New builds a runnable application instance with an open store connection.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	db, err := storage.Open(cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("connect store: %w", err)
	}

	store := storage.NewPostgresStore(db)
	fetcher := fetch.NewClient(cfg.Fetch.Timeout(), cfg.Fetch.UserAgent)
	pacer := pacing.New(map[string]time.Duration{
		pacing.CategoryFeed:   time.Duration(cfg.Pacing.FeedIntervalMS) * time.Millisecond,
		pacing.CategoryReddit: time.Duration(cfg.Pacing.RedditIntervalMS) * time.Millisecond,
		pacing.CategoryX:      time.Duration(cfg.Pacing.XIntervalMS) * time.Millisecond,
	})

	pipeline := ingest.NewPipeline(ingest.Deps{
		Store:   store,
		Fetcher: fetcher,
		Pacer:   pacer,
		Logger:  baseLogger.With("component", "pipeline"),
		Options: ingest.Options{
			CatalogURL:          cfg.Catalog.URL,
			RedditMaxReleases:   cfg.Reddit.MaxReleases,
			RedditMaxSubreddits: cfg.Reddit.MaxSubreddits,
			RedditSearchLimit:   cfg.Reddit.SearchLimit,
			RedditLookback:      time.Duration(cfg.Reddit.LookbackDays) * 24 * time.Hour,
			XInstances:          cfg.X.Instances,
		},
	})

	return &Application{cfg: cfg, db: db, store: store, pipeline: pipeline}, nil
}

// Pipeline exposes the scrape coordinator.
func (a *Application) Pipeline() *ingest.Pipeline {
	return a.pipeline
}

// Store exposes the concrete store for CLI-only operations (seed, status).
func (a *Application) Store() *storage.PostgresStore {
	return a.store
}

// Close releases the store connection.
func (a *Application) Close() error {
	return a.db.Close()
}
