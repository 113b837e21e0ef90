// Package ingest orchestrates the scrape kinds: fetch, parse, match against
// known releases, deduplicate, and persist. Sources are processed one at a
// time; a failing source is recorded and skipped, never fatal.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"ReleaseTimeline/internal/domain"
	"ReleaseTimeline/internal/ports"
)

// Kind selects one scrape run flavor.
type Kind string

const (
	KindCatalog       Kind = "catalog"
	KindAnnouncements Kind = "announcements"
	KindBlogReviews   Kind = "blog-reviews"
	KindReddit        Kind = "reddit"
	KindX             Kind = "x"
	KindAll           Kind = "all"
)

// Options carries the tunable bounds of a pipeline instance.
type Options struct {
	// CatalogURL points at the notable-models CSV dataset.
	CatalogURL string

	// Reddit search bounds, kept tight to respect the endpoint's limits.
	RedditMaxReleases   int
	RedditMaxSubreddits int
	RedditSearchLimit   int
	RedditLookback      time.Duration

	// XInstances are Nitter mirrors tried in order until one responds.
	XInstances []string
}

// Deps wires all driven adapters into the orchestration pipeline.
type Deps struct {
	Store   ports.Store
	Fetcher ports.Fetcher
	Pacer   ports.Pacer
	Logger  *slog.Logger
	Options Options
}

// Pipeline implements the ingestion workflow for every scrape kind.
type Pipeline struct {
	store   ports.Store
	fetcher ports.Fetcher
	pacer   ports.Pacer
	logger  *slog.Logger
	opts    Options
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps Deps) *Pipeline {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		store:   deps.Store,
		fetcher: deps.Fetcher,
		pacer:   deps.Pacer,
		logger:  logger,
		opts:    deps.Options,
	}
}

// Run executes one scrape kind. KindAll chains every kind in dependency
// order (releases before reviews) and merges the results.
func (p *Pipeline) Run(ctx context.Context, kind Kind) (domain.ScrapeResult, error) {
	switch kind {
	case KindCatalog:
		return p.IngestCatalog(ctx)
	case KindAnnouncements:
		return p.IngestAnnouncements(ctx)
	case KindBlogReviews:
		return p.IngestBlogReviews(ctx)
	case KindReddit:
		return p.IngestReddit(ctx)
	case KindX:
		return p.IngestX(ctx)
	case KindAll:
		return p.runAll(ctx)
	default:
		return domain.ScrapeResult{}, fmt.Errorf("unknown scrape kind %q", kind)
	}
}

func (p *Pipeline) runAll(ctx context.Context) (domain.ScrapeResult, error) {
	var total domain.ScrapeResult

	order := []Kind{KindCatalog, KindAnnouncements, KindBlogReviews, KindReddit, KindX}
	for _, kind := range order {
		result, err := p.Run(ctx, kind)
		if err != nil {
			return total, fmt.Errorf("run %s: %w", kind, err)
		}
		p.logger.Info("scrape kind finished",
			"kind", kind, "added", result.Added, "updated", result.Updated, "errors", len(result.Errors))
		total.Merge(result)
	}

	return total, nil
}

// wait applies category pacing, surfacing only context cancellation.
func (p *Pipeline) wait(ctx context.Context, category string) error {
	if p.pacer == nil {
		return nil
	}
	return p.pacer.Wait(ctx, category)
}
