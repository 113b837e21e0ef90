package ports

import (
	"context"
	"time"

	"ReleaseTimeline/internal/domain"
)

// Store is the write/read surface of the shared relational store. The schema
// itself (migrations, constraints) is owned externally; the pipeline only
// issues row-level reads and writes through this interface.
type Store interface {
	// FindReleases returns every release, used when matching feed posts
	// against the known entity set.
	FindReleases(ctx context.Context) ([]domain.Release, error)

	// FindRecentReleases returns at most limit releases dated on or after
	// since, newest first. Used to bound search-endpoint scrapes.
	FindRecentReleases(ctx context.Context, since time.Time, limit int) ([]domain.Release, error)

	// FindReleaseByIdentity resolves a release by name, falling back to the
	// (company, releaseDate) pair. A name match always wins over a
	// company+date match. Returns nil when neither clause matches.
	FindReleaseByIdentity(ctx context.Context, name, company string, releaseDate time.Time) (*domain.Release, error)

	CreateRelease(ctx context.Context, release domain.Release) (domain.Release, error)

	// UpdateReleaseAux refreshes only the auxiliary catalog fields of an
	// existing release.
	UpdateReleaseAux(ctx context.Context, id string, aux domain.ReleaseAux) error

	// ReviewExists reports whether a review with the given dedup key
	// (releaseID, sourceURL) is already present.
	ReviewExists(ctx context.Context, releaseID, sourceURL string) (bool, error)

	// CreateReview inserts a review. An insert that races a concurrent run
	// into a duplicate dedup key is treated as a silent skip, not an error.
	CreateReview(ctx context.Context, review domain.Review) error

	// FindEnabledSources returns enabled scraper sources of the given types,
	// optionally restricted to one company tag.
	FindEnabledSources(ctx context.Context, types []domain.SourceType, company string) ([]domain.ScraperSource, error)

	FindCodingReleases(ctx context.Context) ([]domain.Release, error)

	Counts(ctx context.Context) (domain.StoreCounts, error)
}

// Fetcher performs a single bounded-timeout HTTP GET. Non-2xx responses are
// reported through the status code, never as an error; a down source must not
// abort the run, only yield no data.
type Fetcher interface {
	Get(ctx context.Context, url string) (body string, status int, err error)
}

// Pacer enforces a minimum interval between requests of one source category.
type Pacer interface {
	Wait(ctx context.Context, category string) error
}
