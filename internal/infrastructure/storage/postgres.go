package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"ReleaseTimeline/internal/domain"
	"ReleaseTimeline/internal/ports"
)

// PostgresStore adapts the shared relational store behind ports.Store.
// Schema and migrations are owned externally; the expected tables are
// releases, reviews, and scraper_sources. A unique index on
// reviews(release_id, source_url) is recommended so overlapping scrape runs
// degrade to conflict-skip instead of duplicate rows.
type PostgresStore struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ ports.Store = (*PostgresStore)(nil)

// uniqueViolation is the Postgres error code for duplicate-key inserts.
const uniqueViolation = "23505"

// Open connects and verifies the Postgres DSN.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// NewPostgresStore wires a sql.DB implementation.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

var releaseColumns = []string{
	"id", "name", "company", "category", "release_date", "summary",
	"features", "pricing", "docs_url", "source_url",
	"is_coding_related", "domain", "parameters",
}

func scanRelease(row sq.RowScanner) (domain.Release, error) {
	var (
		release  domain.Release
		category string
		features pq.StringArray
		pricing  sql.NullString
		tag      sql.NullString
		params   sql.NullString
	)

	err := row.Scan(
		&release.ID, &release.Name, &release.Company, &category,
		&release.ReleaseDate, &release.Summary, &features, &pricing,
		&release.DocsURL, &release.SourceURL, &release.IsCodingRelated,
		&tag, &params,
	)
	if err != nil {
		return domain.Release{}, err
	}

	release.Category = domain.Category(category)
	release.Features = []string(features)
	release.Pricing = pricing.String
	release.Domain = tag.String
	release.Parameters = params.String
	return release, nil
}

func (s *PostgresStore) queryReleases(ctx context.Context, query sq.SelectBuilder) ([]domain.Release, error) {
	sqlText, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, sqlText, args...)
	if err != nil {
		return nil, fmt.Errorf("query releases: %w", err)
	}
	defer rows.Close()

	var releases []domain.Release
	for rows.Next() {
		release, err := scanRelease(rows)
		if err != nil {
			return nil, fmt.Errorf("scan release: %w", err)
		}
		releases = append(releases, release)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return releases, nil
}

// FindReleases returns every release ordered newest first.
func (s *PostgresStore) FindReleases(ctx context.Context) ([]domain.Release, error) {
	return s.queryReleases(ctx, s.builder.
		Select(releaseColumns...).
		From("releases").
		OrderBy("release_date DESC"))
}

// FindRecentReleases returns at most limit releases dated on or after since.
func (s *PostgresStore) FindRecentReleases(ctx context.Context, since time.Time, limit int) ([]domain.Release, error) {
	return s.queryReleases(ctx, s.builder.
		Select(releaseColumns...).
		From("releases").
		Where(sq.GtOrEq{"release_date": since}).
		OrderBy("release_date DESC").
		Limit(uint64(limit)))
}

// FindCodingReleases returns coding-related releases ordered newest first.
func (s *PostgresStore) FindCodingReleases(ctx context.Context) ([]domain.Release, error) {
	return s.queryReleases(ctx, s.builder.
		Select(releaseColumns...).
		From("releases").
		Where(sq.Eq{"is_coding_related": true}).
		OrderBy("release_date DESC"))
}

// FindReleaseByIdentity resolves a release by name first, then by the
// (company, releaseDate) pair; the name clause always wins when both could
// match different rows.
func (s *PostgresStore) FindReleaseByIdentity(ctx context.Context, name, company string, releaseDate time.Time) (*domain.Release, error) {
	byName, err := s.queryReleases(ctx, s.builder.
		Select(releaseColumns...).
		From("releases").
		Where(sq.Eq{"name": name}).
		Limit(1))
	if err != nil {
		return nil, err
	}
	if len(byName) > 0 {
		return &byName[0], nil
	}

	byCompanyDate, err := s.queryReleases(ctx, s.builder.
		Select(releaseColumns...).
		From("releases").
		Where(sq.Eq{"company": company, "release_date": releaseDate}).
		Limit(1))
	if err != nil {
		return nil, err
	}
	if len(byCompanyDate) > 0 {
		return &byCompanyDate[0], nil
	}

	return nil, nil
}

// CreateRelease inserts a release, assigning an ID when absent.
func (s *PostgresStore) CreateRelease(ctx context.Context, release domain.Release) (domain.Release, error) {
	if release.ID == "" {
		release.ID = uuid.NewString()
	}

	query := s.builder.
		Insert("releases").
		Columns(releaseColumns...).
		Values(
			release.ID, release.Name, release.Company, string(release.Category),
			release.ReleaseDate, release.Summary, pq.Array(release.Features),
			nullIfEmpty(release.Pricing), release.DocsURL, release.SourceURL,
			release.IsCodingRelated, nullIfEmpty(release.Domain),
			nullIfEmpty(release.Parameters),
		)

	sqlText, args, err := query.ToSql()
	if err != nil {
		return domain.Release{}, fmt.Errorf("build insert: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, sqlText, args...); err != nil {
		return domain.Release{}, fmt.Errorf("insert release %s: %w", release.Name, err)
	}

	return release, nil
}

// UpdateReleaseAux refreshes only the auxiliary catalog fields.
func (s *PostgresStore) UpdateReleaseAux(ctx context.Context, id string, aux domain.ReleaseAux) error {
	query := s.builder.
		Update("releases").
		Set("is_coding_related", aux.IsCodingRelated).
		Set("domain", nullIfEmpty(aux.Domain)).
		Set("parameters", nullIfEmpty(aux.Parameters)).
		Where(sq.Eq{"id": id})

	sqlText, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, sqlText, args...); err != nil {
		return fmt.Errorf("update release %s: %w", id, err)
	}
	return nil
}

// ReviewExists checks the (releaseID, sourceURL) dedup key.
func (s *PostgresStore) ReviewExists(ctx context.Context, releaseID, sourceURL string) (bool, error) {
	query := s.builder.
		Select("1").
		From("reviews").
		Where(sq.Eq{"release_id": releaseID, "source_url": sourceURL}).
		Limit(1)

	sqlText, args, err := query.ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}

	var one int
	err = s.db.QueryRowContext(ctx, sqlText, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query review: %w", err)
	}
	return true, nil
}

// CreateReview inserts a review. A duplicate dedup key raced in by a
// concurrent run is swallowed as a skip.
func (s *PostgresStore) CreateReview(ctx context.Context, review domain.Review) error {
	if review.ID == "" {
		review.ID = uuid.NewString()
	}
	if review.CreatedAt.IsZero() {
		review.CreatedAt = time.Now().UTC()
	}

	query := s.builder.
		Insert("reviews").
		Columns("id", "release_id", "source", "author", "content", "sentiment", "source_url", "created_at").
		Values(
			review.ID, review.ReleaseID, string(review.Source), review.Author,
			review.Content, string(review.Sentiment), review.SourceURL, review.CreatedAt,
		)

	sqlText, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, sqlText, args...); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil
		}
		return fmt.Errorf("insert review: %w", err)
	}
	return nil
}

// FindEnabledSources returns enabled scraper sources of the given types,
// optionally restricted to one company tag.
func (s *PostgresStore) FindEnabledSources(ctx context.Context, types []domain.SourceType, company string) ([]domain.ScraperSource, error) {
	typeNames := make([]string, len(types))
	for i, t := range types {
		typeNames[i] = string(t)
	}

	query := s.builder.
		Select("id", "type", "name", "url", "company", "enabled").
		From("scraper_sources").
		Where(sq.Eq{"enabled": true, "type": typeNames}).
		OrderBy("name")
	if company != "" {
		query = query.Where(sq.Eq{"company": company})
	}

	sqlText, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, sqlText, args...)
	if err != nil {
		return nil, fmt.Errorf("query sources: %w", err)
	}
	defer rows.Close()

	var sources []domain.ScraperSource
	for rows.Next() {
		var (
			source     domain.ScraperSource
			sourceType string
			companyTag sql.NullString
		)
		if err := rows.Scan(&source.ID, &sourceType, &source.Name, &source.URL, &companyTag, &source.Enabled); err != nil {
			return nil, fmt.Errorf("scan source: %w", err)
		}
		source.Type = domain.SourceType(sourceType)
		source.Company = companyTag.String
		sources = append(sources, source)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return sources, nil
}

// Counts summarizes the store contents.
func (s *PostgresStore) Counts(ctx context.Context) (domain.StoreCounts, error) {
	var counts domain.StoreCounts

	if err := s.count(ctx, s.builder.Select("COUNT(*)").From("releases"), &counts.Releases); err != nil {
		return counts, err
	}
	if err := s.count(ctx, s.builder.Select("COUNT(*)").From("reviews"), &counts.Reviews); err != nil {
		return counts, err
	}
	query := s.builder.Select("COUNT(*)").From("releases").Where(sq.Eq{"is_coding_related": true})
	if err := s.count(ctx, query, &counts.CodingModels); err != nil {
		return counts, err
	}

	return counts, nil
}

func (s *PostgresStore) count(ctx context.Context, query sq.SelectBuilder, dest *int) error {
	sqlText, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build count: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, sqlText, args...).Scan(dest); err != nil {
		return fmt.Errorf("query count: %w", err)
	}
	return nil
}

// SeedSources installs scraper-source configuration rows, skipping any that
// already exist.
func (s *PostgresStore) SeedSources(ctx context.Context, sources []domain.ScraperSource) (int, error) {
	inserted := 0
	for _, source := range sources {
		id := source.ID
		if id == "" {
			id = uuid.NewString()
		}

		query := s.builder.
			Insert("scraper_sources").
			Columns("id", "type", "name", "url", "company", "enabled").
			Values(id, string(source.Type), source.Name, source.URL, nullIfEmpty(source.Company), source.Enabled).
			Suffix("ON CONFLICT DO NOTHING")

		sqlText, args, err := query.ToSql()
		if err != nil {
			return inserted, fmt.Errorf("build insert: %w", err)
		}

		result, err := s.db.ExecContext(ctx, sqlText, args...)
		if err != nil {
			return inserted, fmt.Errorf("insert source %s: %w", source.Name, err)
		}
		if affected, err := result.RowsAffected(); err == nil && affected > 0 {
			inserted++
		}
	}
	return inserted, nil
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}
