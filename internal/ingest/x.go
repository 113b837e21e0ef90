package ingest

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"ReleaseTimeline/internal/domain"
	"ReleaseTimeline/internal/feed"
	"ReleaseTimeline/internal/infrastructure/pacing"
	"ReleaseTimeline/internal/sentiment"
)

// minTweetContent filters out near-empty tweets.
const minTweetContent = 30

var instanceHostExpr = regexp.MustCompile(`^https?://[^/]+`)

// tweetAuthorExpr pulls the handle from Nitter RSS titles of the form
// "Author: tweet text".
var tweetAuthorExpr = regexp.MustCompile(`^([^:]+):`)

// IngestX searches X/Twitter for release mentions through Nitter mirrors.
// Instances are tried in order per release; the first one that yields tweets
// wins and the rest are skipped.
func (p *Pipeline) IngestX(ctx context.Context) (domain.ScrapeResult, error) {
	var result domain.ScrapeResult

	if len(p.opts.XInstances) == 0 {
		result.Errors = append(result.Errors, "No Nitter instances configured")
		return result, nil
	}

	releases, err := p.store.FindReleases(ctx)
	if err != nil {
		return result, fmt.Errorf("load releases: %w", err)
	}

	for _, release := range releases {
		if err := p.wait(ctx, pacing.CategoryX); err != nil {
			return result, err
		}

		tweets := p.searchX(ctx, release)
		for _, tweet := range tweets {
			created, err := p.createReview(ctx, tweet.toReview(release.ID))
			if err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("Error scraping X for %s: %v", release.Name, err))
				continue
			}
			if created {
				result.Added++
				p.logger.Debug("x review added", "release", release.Name, "author", tweet.author)
			}
		}
	}

	return result, nil
}

type tweet struct {
	author    string
	content   string
	sourceURL string
	post      feed.Post
}

func (t tweet) toReview(releaseID string) domain.Review {
	return domain.Review{
		ReleaseID: releaseID,
		Source:    domain.SourceX,
		Author:    t.author,
		Content:   feed.Truncate(t.content, maxReviewContent),
		Sentiment: sentiment.Classify(t.content),
		SourceURL: t.sourceURL,
		CreatedAt: t.post.Published,
	}
}

// searchX queries each configured Nitter instance until one returns tweets.
// Instance failures are silent; a dead mirror is expected, not reportable.
func (p *Pipeline) searchX(ctx context.Context, release domain.Release) []tweet {
	query := url.QueryEscape(release.Name + " " + release.Company)

	for _, instance := range p.opts.XInstances {
		searchURL := fmt.Sprintf("%s/search/rss?f=tweets&q=%s", instance, query)

		body, status, err := p.fetcher.Get(ctx, searchURL)
		if err != nil || status != http.StatusOK {
			continue
		}

		posts, err := feed.ParseFeed(body)
		if err != nil {
			continue
		}

		tweets := extractTweets(posts)
		if len(tweets) > 0 {
			return tweets
		}
	}

	return nil
}

func extractTweets(posts []feed.Post) []tweet {
	var tweets []tweet
	for _, post := range posts {
		content := strings.TrimSpace(post.Content)
		if len([]rune(content)) <= minTweetContent || post.Link == "" {
			continue
		}

		author := "Unknown"
		if m := tweetAuthorExpr.FindStringSubmatch(post.Title); m != nil {
			author = "@" + strings.TrimSpace(m[1])
		}

		tweets = append(tweets, tweet{
			author:    author,
			content:   content,
			sourceURL: instanceHostExpr.ReplaceAllString(post.Link, "https://x.com"),
			post:      post,
		})
	}
	return tweets
}
