package ingest

import (
	"context"
	"fmt"
	"net/http"

	"ReleaseTimeline/internal/domain"
	"ReleaseTimeline/internal/feed"
	"ReleaseTimeline/internal/heuristics"
	"ReleaseTimeline/internal/infrastructure/pacing"
)

// maxAnnouncementItems bounds how many posts per official blog feed are
// considered for release extraction.
const maxAnnouncementItems = 10

// IngestAnnouncements walks enabled RSS/blog sources and turns posts that
// pass the announcement-wording and tracked-company gates into new releases.
// Posts matching an already-known release identity are skipped.
func (p *Pipeline) IngestAnnouncements(ctx context.Context) (domain.ScrapeResult, error) {
	var result domain.ScrapeResult

	sources, err := p.store.FindEnabledSources(ctx, []domain.SourceType{domain.SourceRSS, domain.SourceBlog}, "")
	if err != nil {
		return result, fmt.Errorf("load sources: %w", err)
	}
	if len(sources) == 0 {
		result.Errors = append(result.Errors, "No RSS/blog sources configured")
		return result, nil
	}

	for _, source := range sources {
		if err := p.wait(ctx, pacing.CategoryFeed); err != nil {
			return result, err
		}

		company := source.Company
		if company == "" {
			company = source.Name
		}
		if !heuristics.IsTrackedCompany(company) {
			continue
		}

		posts, fetchErr := p.fetchFeed(ctx, source.URL)
		if fetchErr != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Error scraping %s: %v", source.Name, fetchErr))
			continue
		}

		if len(posts) > maxAnnouncementItems {
			posts = posts[:maxAnnouncementItems]
		}

		for _, post := range posts {
			text := post.Title + " " + post.Content
			if !heuristics.IsReleaseAnnouncement(text) {
				continue
			}

			existing, err := p.store.FindReleaseByIdentity(ctx, post.Title, company, post.Published)
			if err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("Error scraping %s: %v", source.Name, err))
				continue
			}
			if existing != nil {
				continue
			}

			category := heuristics.Categorize(text)
			if heuristics.IsCodingTool(text) {
				category = domain.CategoryTool
			}

			release := domain.Release{
				Name:        post.Title,
				Company:     company,
				Category:    category,
				ReleaseDate: post.Published,
				Summary:     feed.Truncate(post.Content, maxSummaryLength),
				Features:    []string{},
				DocsURL:     post.Link,
				SourceURL:   post.Link,
			}

			if _, err := p.store.CreateRelease(ctx, release); err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("Error scraping %s: %v", source.Name, err))
				continue
			}
			result.Added++
			p.logger.Debug("announcement release added", "name", post.Title, "company", company)
		}
	}

	return result, nil
}

// fetchFeed retrieves and parses one RSS/Atom feed. A non-OK status yields
// an empty post list, matching the no-data-from-this-source policy.
func (p *Pipeline) fetchFeed(ctx context.Context, url string) ([]feed.Post, error) {
	body, status, err := p.fetcher.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, nil
	}
	return feed.ParseFeed(body)
}
