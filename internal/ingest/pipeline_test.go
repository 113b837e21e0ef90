package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ReleaseTimeline/internal/domain"
	"ReleaseTimeline/internal/ports"
)

// fakeStore is an in-memory ports.Store for pipeline tests.
type fakeStore struct {
	releases []domain.Release
	reviews  []domain.Review
	sources  []domain.ScraperSource
	nextID   int
}

var _ ports.Store = (*fakeStore)(nil)

func (s *fakeStore) FindReleases(_ context.Context) ([]domain.Release, error) {
	return append([]domain.Release(nil), s.releases...), nil
}

func (s *fakeStore) FindRecentReleases(_ context.Context, since time.Time, limit int) ([]domain.Release, error) {
	var recent []domain.Release
	for _, r := range s.releases {
		if !r.ReleaseDate.Before(since) {
			recent = append(recent, r)
		}
		if limit > 0 && len(recent) == limit {
			break
		}
	}
	return recent, nil
}

func (s *fakeStore) FindReleaseByIdentity(_ context.Context, name, company string, releaseDate time.Time) (*domain.Release, error) {
	for i, r := range s.releases {
		if strings.EqualFold(r.Name, name) {
			return &s.releases[i], nil
		}
	}
	for i, r := range s.releases {
		if strings.EqualFold(r.Company, company) && r.ReleaseDate.Equal(releaseDate) {
			return &s.releases[i], nil
		}
	}
	return nil, nil
}

func (s *fakeStore) CreateRelease(_ context.Context, release domain.Release) (domain.Release, error) {
	s.nextID++
	release.ID = fmt.Sprintf("rel-%d", s.nextID)
	s.releases = append(s.releases, release)
	return release, nil
}

func (s *fakeStore) UpdateReleaseAux(_ context.Context, id string, aux domain.ReleaseAux) error {
	for i, r := range s.releases {
		if r.ID == id {
			s.releases[i].IsCodingRelated = aux.IsCodingRelated
			s.releases[i].Domain = aux.Domain
			s.releases[i].Parameters = aux.Parameters
			return nil
		}
	}
	return fmt.Errorf("release %s not found", id)
}

func (s *fakeStore) ReviewExists(_ context.Context, releaseID, sourceURL string) (bool, error) {
	for _, r := range s.reviews {
		if r.ReleaseID == releaseID && r.SourceURL == sourceURL {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeStore) CreateReview(_ context.Context, review domain.Review) error {
	s.nextID++
	review.ID = fmt.Sprintf("rev-%d", s.nextID)
	s.reviews = append(s.reviews, review)
	return nil
}

func (s *fakeStore) FindEnabledSources(_ context.Context, types []domain.SourceType, company string) ([]domain.ScraperSource, error) {
	var out []domain.ScraperSource
	for _, src := range s.sources {
		if !src.Enabled {
			continue
		}
		if company != "" && src.Company != company {
			continue
		}
		for _, t := range types {
			if src.Type == t {
				out = append(out, src)
				break
			}
		}
	}
	return out, nil
}

func (s *fakeStore) FindCodingReleases(_ context.Context) ([]domain.Release, error) {
	var out []domain.Release
	for _, r := range s.releases {
		if r.IsCodingRelated {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *fakeStore) Counts(_ context.Context) (domain.StoreCounts, error) {
	coding := 0
	for _, r := range s.releases {
		if r.IsCodingRelated {
			coding++
		}
	}
	return domain.StoreCounts{
		Releases:     len(s.releases),
		Reviews:      len(s.reviews),
		CodingModels: coding,
	}, nil
}

type fakeResponse struct {
	body   string
	status int
	err    error
}

// fakeFetcher routes by URL substring; unmatched URLs come back 404.
type fakeFetcher struct {
	routes map[string]fakeResponse
}

var _ ports.Fetcher = (*fakeFetcher)(nil)

func (f *fakeFetcher) Get(_ context.Context, url string) (string, int, error) {
	for fragment, resp := range f.routes {
		if strings.Contains(url, fragment) {
			return resp.body, resp.status, resp.err
		}
	}
	return "", http.StatusNotFound, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestPipeline(store *fakeStore, fetcher *fakeFetcher, opts Options) *Pipeline {
	return NewPipeline(Deps{
		Store:   store,
		Fetcher: fetcher,
		Logger:  testLogger(),
		Options: opts,
	})
}

const catalogCSV = `Model,Organization,Publication date,Domain,Task,Abstract,Link,Parameters
GPT-4 Turbo,OpenAI,2023-11-06,Language,Chat,An improved flagship model,https://openai.com/gpt-4-turbo,1750000000000
Claude 3 Opus,Anthropic,2024-03-04,"Language,Multimodal",Coding assistant tasks,Frontier model for code,https://anthropic.com/claude-3,nan
AlphaNet,Stanford University,2024-01-01,Language,Chat,Academic model,,
Mystery Model,OpenAI,,Language,Chat,No date on this one,,
`

func TestIngestCatalogIdempotent(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	fetcher := &fakeFetcher{routes: map[string]fakeResponse{
		"notable.csv": {body: catalogCSV, status: http.StatusOK},
	}}
	p := newTestPipeline(store, fetcher, Options{CatalogURL: "https://example.com/notable.csv"})

	result, err := p.IngestCatalog(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Added)
	assert.Equal(t, 0, result.Updated)
	assert.Empty(t, result.Errors)
	require.Len(t, store.releases, 2)

	gpt := store.releases[0]
	assert.Equal(t, "GPT-4 Turbo", gpt.Name)
	assert.Equal(t, "OpenAI", gpt.Company)
	assert.Equal(t, "1.8T", gpt.Parameters)
	assert.Equal(t, "https://openai.com/gpt-4-turbo", gpt.DocsURL)

	claude := store.releases[1]
	assert.Equal(t, "Anthropic", claude.Company)
	assert.True(t, claude.IsCodingRelated)
	assert.Empty(t, claude.Parameters)

	result, err = p.IngestCatalog(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, result.Added)
	assert.Equal(t, 2, result.Updated)
	assert.Len(t, store.releases, 2)
}

func TestIngestCatalogFetchFailure(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	fetcher := &fakeFetcher{routes: map[string]fakeResponse{
		"notable.csv": {err: errors.New("connection refused")},
	}}
	p := newTestPipeline(store, fetcher, Options{CatalogURL: "https://example.com/notable.csv"})

	result, err := p.IngestCatalog(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, result.Added)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "Error fetching catalog")
}

func rssFeed(items ...string) string {
	return `<?xml version="1.0"?><rss version="2.0"><channel>` + strings.Join(items, "") + `</channel></rss>`
}

func rssItem(title, link, description string) string {
	return fmt.Sprintf("<item><title>%s</title><link>%s</link><description>%s</description></item>", title, link, description)
}

func TestIngestAnnouncements(t *testing.T) {
	t.Parallel()

	store := &fakeStore{
		sources: []domain.ScraperSource{
			{ID: "s1", Type: domain.SourceRSS, Name: "Anthropic News", URL: "https://anthropic.com/rss.xml", Company: "Anthropic", Enabled: true},
		},
	}
	fetcher := &fakeFetcher{routes: map[string]fakeResponse{
		"anthropic.com/rss.xml": {
			status: http.StatusOK,
			body: rssFeed(
				rssItem("Introducing Claude 3.5 Sonnet", "https://anthropic.com/news/claude-3-5", "Our newest model is available now for everyone."),
				rssItem("Research retrospective", "https://anthropic.com/news/retro", "A look back at interpretability work."),
			),
		},
	}}
	p := newTestPipeline(store, fetcher, Options{})

	result, err := p.IngestAnnouncements(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Added)
	assert.Empty(t, result.Errors)
	require.Len(t, store.releases, 1)

	release := store.releases[0]
	assert.Equal(t, "Introducing Claude 3.5 Sonnet", release.Name)
	assert.Equal(t, "Anthropic", release.Company)
	assert.Equal(t, domain.CategoryModel, release.Category)
	assert.Equal(t, "https://anthropic.com/news/claude-3-5", release.SourceURL)

	// Second run resolves the same identity and skips it.
	result, err = p.IngestAnnouncements(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, result.Added)
	assert.Len(t, store.releases, 1)
}

func TestIngestAnnouncementsNoSources(t *testing.T) {
	t.Parallel()

	p := newTestPipeline(&fakeStore{}, &fakeFetcher{}, Options{})

	result, err := p.IngestAnnouncements(context.Background())
	require.NoError(t, err)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "No RSS/blog sources configured", result.Errors[0])
}

func TestIngestBlogReviews(t *testing.T) {
	t.Parallel()

	store := &fakeStore{
		releases: []domain.Release{
			{ID: "rel-gpt", Name: "GPT-4 Turbo", Company: "OpenAI"},
			{ID: "rel-claude", Name: "Claude 3 Opus", Company: "Anthropic"},
		},
		sources: []domain.ScraperSource{
			{ID: "s1", Type: domain.SourceBlog, Name: "OpenAI Blog", URL: "https://openai.com/blog/rss.xml", Company: "OpenAI", Enabled: true},
			{ID: "s2", Type: domain.SourceBlog, Name: "Dead Blog", URL: "https://dead.example.com/rss.xml", Company: domain.CompanyIndependent, Enabled: true},
			{ID: "s3", Type: domain.SourceBlog, Name: "Indie Blog", URL: "https://indie.example.com/rss.xml", Company: domain.CompanyIndependent, Enabled: true},
		},
	}
	fetcher := &fakeFetcher{routes: map[string]fakeResponse{
		"openai.com/blog/rss.xml": {
			status: http.StatusOK,
			body: rssFeed(
				// Mentions both names, but the company gate keeps it off the Anthropic release.
				rssItem("GPT-4 Turbo deep dive", "https://openai.com/blog/gpt-4-turbo", "How GPT-4 Turbo compares to Claude 3 Opus."),
			),
		},
		"dead.example.com": {err: errors.New("tls handshake failure")},
		"indie.example.com": {
			status: http.StatusOK,
			body: rssFeed(
				rssItem("Trying Claude 3 Opus", "https://indie.example.com/claude-3-opus", "Claude 3 Opus is impressive and fast, a great step up."),
			),
		},
	}}
	p := newTestPipeline(store, fetcher, Options{})

	result, err := p.IngestBlogReviews(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Added)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "Dead Blog")
	require.Len(t, store.reviews, 2)

	official := store.reviews[0]
	assert.Equal(t, "rel-gpt", official.ReleaseID)
	assert.Equal(t, "OpenAI (Official)", official.Author)
	assert.True(t, strings.HasPrefix(official.Content, "[Official Announcement] "))
	assert.Equal(t, domain.SentimentPositive, official.Sentiment)

	indie := store.reviews[1]
	assert.Equal(t, "rel-claude", indie.ReleaseID)
	assert.Equal(t, domain.SentimentPositive, indie.Sentiment)

	// Re-run adds nothing; the (release, sourceURL) pairs already exist.
	result, err = p.IngestBlogReviews(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, result.Added)
	assert.Len(t, store.reviews, 2)
}

func TestIngestReddit(t *testing.T) {
	t.Parallel()

	store := &fakeStore{
		releases: []domain.Release{
			{ID: "rel-1", Name: "Claude 3 Opus", Company: "Anthropic", ReleaseDate: time.Now().UTC().Add(-24 * time.Hour)},
		},
		sources: []domain.ScraperSource{
			{ID: "s1", Type: domain.SourceReddit, Name: "r/LocalLLaMA", URL: "https://reddit.com/r/LocalLLaMA", Enabled: true},
		},
	}
	long := strings.Repeat("been using it all week, genuinely impressive results. ", 2)
	fetcher := &fakeFetcher{routes: map[string]fakeResponse{
		"/r/LocalLLaMA/search.json": {
			status: http.StatusOK,
			body: `{"data":{"children":[` +
				`{"data":{"author":"dev1","selftext":"` + long + `","title":"Opus impressions","permalink":"/r/LocalLLaMA/comments/aa1","created_utc":1718800000}},` +
				`{"data":{"author":"dev2","selftext":"nice","title":"ok","permalink":"/r/LocalLLaMA/comments/aa2","created_utc":1718800001}}` +
				`]}}`,
		},
	}}
	p := newTestPipeline(store, fetcher, Options{
		RedditMaxReleases:   5,
		RedditMaxSubreddits: 2,
		RedditSearchLimit:   5,
		RedditLookback:      365 * 24 * time.Hour,
	})

	result, err := p.IngestReddit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Added)
	assert.Empty(t, result.Errors)
	require.Len(t, store.reviews, 1)

	review := store.reviews[0]
	assert.Equal(t, "rel-1", review.ReleaseID)
	assert.Equal(t, domain.SourceReddit, review.Source)
	assert.Equal(t, "u/dev1", review.Author)
	assert.Equal(t, "https://reddit.com/r/LocalLLaMA/comments/aa1", review.SourceURL)

	result, err = p.IngestReddit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, result.Added)
	assert.Len(t, store.reviews, 1)
}

func TestIngestRedditNoSources(t *testing.T) {
	t.Parallel()

	p := newTestPipeline(&fakeStore{}, &fakeFetcher{}, Options{})

	result, err := p.IngestReddit(context.Background())
	require.NoError(t, err)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "No Reddit sources configured", result.Errors[0])
}

func TestIngestXInstanceFallback(t *testing.T) {
	t.Parallel()

	store := &fakeStore{
		releases: []domain.Release{
			{ID: "rel-1", Name: "Claude 3 Opus", Company: "Anthropic"},
		},
	}
	fetcher := &fakeFetcher{routes: map[string]fakeResponse{
		"nitter-down.example.com": {err: errors.New("no route to host")},
		"nitter-up.example.com": {
			status: http.StatusOK,
			body: rssFeed(
				rssItem("somehandle: Claude 3 Opus review", "https://nitter-up.example.com/somehandle/status/123",
					"Claude 3 Opus handled my whole refactor, genuinely impressive work."),
				rssItem("other: meh", "https://nitter-up.example.com/other/status/124", "short"),
			),
		},
	}}
	p := newTestPipeline(store, fetcher, Options{
		XInstances: []string{"https://nitter-down.example.com", "https://nitter-up.example.com"},
	})

	result, err := p.IngestX(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Added)
	assert.Empty(t, result.Errors)
	require.Len(t, store.reviews, 1)

	review := store.reviews[0]
	assert.Equal(t, domain.SourceX, review.Source)
	assert.Equal(t, "@somehandle", review.Author)
	assert.Equal(t, "https://x.com/somehandle/status/123", review.SourceURL)
}

func TestIngestXNoInstances(t *testing.T) {
	t.Parallel()

	p := newTestPipeline(&fakeStore{}, &fakeFetcher{}, Options{})

	result, err := p.IngestX(context.Background())
	require.NoError(t, err)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "No Nitter instances configured", result.Errors[0])
}

func TestRunUnknownKind(t *testing.T) {
	t.Parallel()

	p := newTestPipeline(&fakeStore{}, &fakeFetcher{}, Options{})

	_, err := p.Run(context.Background(), Kind("bogus"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown scrape kind")
}
