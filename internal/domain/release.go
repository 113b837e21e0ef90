package domain

import "time"

// SourceType identifies the kind of external feed a ScraperSource points at.
type SourceType string

const (
	SourceReddit SourceType = "reddit"
	SourceRSS    SourceType = "rss"
	SourceBlog   SourceType = "blog"
	SourceCSV    SourceType = "csv"

	// Review-only origins; no ScraperSource carries these types.
	SourceYouTube SourceType = "youtube"
	SourceX       SourceType = "x"
)

// Category distinguishes base models from products and tooling.
type Category string

const (
	CategoryModel Category = "model"
	CategoryTool  Category = "tool"
)

// Sentiment is the classified tone of a review.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// CompanyIndependent marks a source that is not tied to any one vendor;
// such sources carry no company gate during matching.
const CompanyIndependent = "Independent"

// ScraperSource is one configured external feed. Sources are managed
// externally; the pipeline only reads enabled ones.
type ScraperSource struct {
	ID      string
	Type    SourceType
	Name    string
	URL     string
	Company string
	Enabled bool
}

// Scoped reports whether the source is tied to a specific company, which
// restricts which releases its posts may attach to.
func (s ScraperSource) Scoped() bool {
	return s.Company != "" && s.Company != CompanyIndependent
}

// Release is a tracked AI model or tool entry.
type Release struct {
	ID              string
	Name            string
	Company         string
	Category        Category
	ReleaseDate     time.Time
	Summary         string
	Features        []string
	Pricing         string
	DocsURL         string
	SourceURL       string
	IsCodingRelated bool
	Domain          string
	Parameters      string
}

// ReleaseAux carries the auxiliary fields a later catalog pass is allowed to
// refresh on an existing release. Name, company, date and summary are never
// overwritten.
type ReleaseAux struct {
	IsCodingRelated bool
	Domain          string
	Parameters      string
}

// Review is a single externally-sourced post attached to exactly one release.
// The pair (ReleaseID, SourceURL) is the dedup key.
type Review struct {
	ID        string
	ReleaseID string
	Source    SourceType
	Author    string
	Content   string
	Sentiment Sentiment
	SourceURL string
	CreatedAt time.Time
}

// ScrapeResult accumulates the outcome of one scrape run. Errors never abort
// a run; they are collected here for the caller to surface.
type ScrapeResult struct {
	Added   int
	Updated int
	Errors  []string
}

// Merge folds another result into this one.
func (r *ScrapeResult) Merge(other ScrapeResult) {
	r.Added += other.Added
	r.Updated += other.Updated
	r.Errors = append(r.Errors, other.Errors...)
}

// StoreCounts summarizes the store contents for status reporting.
type StoreCounts struct {
	Releases     int
	Reviews      int
	CodingModels int
}
