package ingest

import (
	"context"
	"fmt"

	"ReleaseTimeline/internal/domain"
	"ReleaseTimeline/internal/feed"
	"ReleaseTimeline/internal/infrastructure/pacing"
	"ReleaseTimeline/internal/match"
	"ReleaseTimeline/internal/sentiment"
)

// maxReviewContent bounds stored review text.
const maxReviewContent = 500

// maxOfficialContent bounds the excerpt kept from official announcements
// before the header line is prepended.
const maxOfficialContent = 400

// IngestBlogReviews attaches RSS/blog posts to the releases they mention.
// Company-scoped sources only match releases of the same company and record
// hardcoded-positive "official announcement" reviews; independent sources
// match any release and get classified sentiment. Existing
// (release, sourceURL) pairs are skipped.
func (p *Pipeline) IngestBlogReviews(ctx context.Context) (domain.ScrapeResult, error) {
	var result domain.ScrapeResult

	sources, err := p.store.FindEnabledSources(ctx, []domain.SourceType{domain.SourceRSS, domain.SourceBlog}, "")
	if err != nil {
		return result, fmt.Errorf("load sources: %w", err)
	}
	if len(sources) == 0 {
		result.Errors = append(result.Errors, "No RSS/blog sources configured")
		return result, nil
	}

	releases, err := p.store.FindReleases(ctx)
	if err != nil {
		return result, fmt.Errorf("load releases: %w", err)
	}

	for _, source := range sources {
		if err := p.wait(ctx, pacing.CategoryFeed); err != nil {
			return result, err
		}

		posts, fetchErr := p.fetchFeed(ctx, source.URL)
		if fetchErr != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Error scraping %s: %v", source.Name, fetchErr))
			continue
		}

		for _, post := range posts {
			text := post.Title + " " + post.Content

			for _, release := range releases {
				if source.Scoped() && !match.SameCompany(source.Company, release.Company) {
					continue
				}
				if !match.Mentions(text, release.Name) {
					continue
				}

				review := buildBlogReview(source, post, release.ID)
				added, err := p.createReview(ctx, review)
				if err != nil {
					result.Errors = append(result.Errors, fmt.Sprintf("Error scraping %s: %v", source.Name, err))
					continue
				}
				if added {
					result.Added++
					p.logger.Debug("blog review added", "release", release.Name, "source", source.Name)
				}
			}
		}
	}

	return result, nil
}

// buildBlogReview shapes the stored review. Official company blogs do not
// publish negative takes on their own releases, so their sentiment is fixed
// positive and the content flagged as an announcement.
func buildBlogReview(source domain.ScraperSource, post feed.Post, releaseID string) domain.Review {
	if source.Scoped() {
		excerpt := feed.Truncate(post.Content, maxOfficialContent)
		return domain.Review{
			ReleaseID: releaseID,
			Source:    domain.SourceBlog,
			Author:    source.Company + " (Official)",
			Content:   "[Official Announcement] " + post.Title + "\n\n" + excerpt,
			Sentiment: domain.SentimentPositive,
			SourceURL: post.Link,
			CreatedAt: post.Published,
		}
	}

	author := post.Author
	if author == "" {
		author = source.Name
	}
	content := feed.Truncate(post.Content, maxReviewContent)

	return domain.Review{
		ReleaseID: releaseID,
		Source:    domain.SourceBlog,
		Author:    author,
		Content:   content,
		Sentiment: sentiment.Classify(content),
		SourceURL: post.Link,
		CreatedAt: post.Published,
	}
}

// createReview performs the check-then-insert against the dedup key and
// reports whether a row was actually added.
func (p *Pipeline) createReview(ctx context.Context, review domain.Review) (bool, error) {
	exists, err := p.store.ReviewExists(ctx, review.ReleaseID, review.SourceURL)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	if err := p.store.CreateReview(ctx, review); err != nil {
		return false, err
	}
	return true, nil
}
