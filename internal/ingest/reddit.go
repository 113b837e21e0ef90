package ingest

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"ReleaseTimeline/internal/domain"
	"ReleaseTimeline/internal/feed"
	"ReleaseTimeline/internal/infrastructure/pacing"
	"ReleaseTimeline/internal/sentiment"
)

// IngestReddit searches enabled subreddits for discussion of recent
// releases. Both the release set and the subreddit set are bounded by the
// pipeline options so one run stays well inside Reddit's rate limits.
func (p *Pipeline) IngestReddit(ctx context.Context) (domain.ScrapeResult, error) {
	var result domain.ScrapeResult

	subreddits, err := p.store.FindEnabledSources(ctx, []domain.SourceType{domain.SourceReddit}, "")
	if err != nil {
		return result, fmt.Errorf("load sources: %w", err)
	}
	if len(subreddits) == 0 {
		result.Errors = append(result.Errors, "No Reddit sources configured")
		return result, nil
	}
	if max := p.opts.RedditMaxSubreddits; max > 0 && len(subreddits) > max {
		subreddits = subreddits[:max]
	}

	since := time.Now().UTC().Add(-p.opts.RedditLookback)
	releases, err := p.store.FindRecentReleases(ctx, since, p.opts.RedditMaxReleases)
	if err != nil {
		return result, fmt.Errorf("load releases: %w", err)
	}

	p.logger.Debug("reddit scrape", "subreddits", len(subreddits), "releases", len(releases))

	for _, release := range releases {
		for _, subreddit := range subreddits {
			if err := p.wait(ctx, pacing.CategoryReddit); err != nil {
				return result, err
			}

			added, scrapeErr := p.searchSubreddit(ctx, subreddit, release)
			if scrapeErr != nil {
				result.Errors = append(result.Errors,
					fmt.Sprintf("Error scraping %s for %s: %v", subreddit.Name, release.Name, scrapeErr))
				continue
			}
			result.Added += added
		}
	}

	return result, nil
}

func (p *Pipeline) searchSubreddit(ctx context.Context, subreddit domain.ScraperSource, release domain.Release) (int, error) {
	query := url.QueryEscape(fmt.Sprintf("%q %s", release.Name, release.Company))
	searchURL := fmt.Sprintf("%s/search.json?q=%s&restrict_sr=on&sort=relevance&limit=%d",
		subreddit.URL, query, p.opts.RedditSearchLimit)

	body, status, err := p.fetcher.Get(ctx, searchURL)
	if err != nil {
		return 0, err
	}
	if status != http.StatusOK {
		return 0, nil
	}

	posts, err := feed.ParseRedditListing(body)
	if err != nil {
		return 0, err
	}

	added := 0
	for _, post := range posts {
		content := feed.Truncate(post.Content, maxReviewContent)
		review := domain.Review{
			ReleaseID: release.ID,
			Source:    domain.SourceReddit,
			Author:    post.Author,
			Content:   content,
			Sentiment: sentiment.Classify(content),
			SourceURL: post.Link,
			CreatedAt: post.Published,
		}

		created, err := p.createReview(ctx, review)
		if err != nil {
			return added, err
		}
		if created {
			added++
			p.logger.Debug("reddit review added", "release", release.Name, "subreddit", subreddit.Name)
		}
	}

	return added, nil
}
