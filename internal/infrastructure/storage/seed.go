package storage

import "ReleaseTimeline/internal/domain"

// DefaultSources is the curated scraper-source list installed by the seed
// command: community subreddits, official vendor blogs, and independent
// expert blogs used for review collection.
var DefaultSources = []domain.ScraperSource{
	{Type: domain.SourceReddit, Name: "r/LocalLLaMA", URL: "https://old.reddit.com/r/LocalLLaMA", Enabled: true},
	{Type: domain.SourceReddit, Name: "r/ChatGPT", URL: "https://old.reddit.com/r/ChatGPT", Enabled: true},
	{Type: domain.SourceReddit, Name: "r/MachineLearning", URL: "https://old.reddit.com/r/MachineLearning", Enabled: true},
	{Type: domain.SourceReddit, Name: "r/ClaudeAI", URL: "https://old.reddit.com/r/ClaudeAI", Enabled: true},
	{Type: domain.SourceReddit, Name: "r/OpenAI", URL: "https://old.reddit.com/r/OpenAI", Enabled: true},

	{Type: domain.SourceRSS, Name: "Anthropic Blog", URL: "https://www.anthropic.com/rss.xml", Company: "Anthropic", Enabled: true},
	{Type: domain.SourceRSS, Name: "OpenAI Blog", URL: "https://openai.com/blog/rss.xml", Company: "OpenAI", Enabled: true},
	{Type: domain.SourceRSS, Name: "Google AI Blog", URL: "https://blog.google/technology/ai/rss/", Company: "Google", Enabled: true},
	{Type: domain.SourceRSS, Name: "Meta AI Blog", URL: "https://ai.meta.com/blog/rss/", Company: "Meta", Enabled: true},

	{Type: domain.SourceBlog, Name: "Andrej Karpathy Blog", URL: "https://karpathy.bearblog.dev/feed/", Company: domain.CompanyIndependent, Enabled: true},
	{Type: domain.SourceBlog, Name: "Sankalp's Blog", URL: "https://sankalp.bearblog.dev/feed/", Company: domain.CompanyIndependent, Enabled: true},
	{Type: domain.SourceRSS, Name: "Simon Willison's Weblog", URL: "https://simonwillison.net/atom/everything/", Company: domain.CompanyIndependent, Enabled: true},
	{Type: domain.SourceRSS, Name: "Lilian Weng (OpenAI)", URL: "https://lilianweng.github.io/index.xml", Company: "OpenAI", Enabled: true},
	{Type: domain.SourceRSS, Name: "Chip Huyen", URL: "https://huyenchip.com/feed.xml", Company: domain.CompanyIndependent, Enabled: true},
	{Type: domain.SourceRSS, Name: "Sebastian Raschka", URL: "https://magazine.sebastianraschka.com/feed", Company: domain.CompanyIndependent, Enabled: true},
}
