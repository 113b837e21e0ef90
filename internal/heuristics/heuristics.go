// Package heuristics holds the fixed lookup tables and keyword classifiers
// used when turning raw catalog and feed records into releases: company name
// normalization, catalog row filtering, model-vs-tool categorization, the
// coding-relatedness flag, and parameter-count formatting.
package heuristics

import (
	"fmt"
	"strconv"
	"strings"

	"ReleaseTimeline/internal/domain"
)

// trackedCompanies filters the catalog down to the major AI labs the
// timeline follows. Matching is substring containment over the lower-cased
// organization field.
var trackedCompanies = []string{
	"openai",
	"anthropic",
	"meta",
	"google",
	"google deepmind",
	"deepmind",
	"mistral",
	"mistral ai",
	"anysphere",
	"xai",
	"x.ai",
	"cohere",
	"ai21",
	"ai21 labs",
	"zhipu",
	"zhipu ai",
	"alibaba",
	"baidu",
	"tencent",
}

// relevantDomains keeps the catalog focused on language-adjacent releases.
var relevantDomains = []string{"language", "multimodal", "code"}

// companyAliases maps organization-name substrings to canonical company
// names. Order matters: the first matching alias wins ("google deepmind"
// must normalize to Google before a bare "deepmind" check would).
var companyAliases = []struct {
	substring string
	canonical string
}{
	{"openai", "OpenAI"},
	{"anthropic", "Anthropic"},
	{"google", "Google"},
	{"deepmind", "Google"},
	{"meta", "Meta"},
	{"mistral", "Mistral AI"},
	{"xai", "xAI"},
	{"x.ai", "xAI"},
	{"cohere", "Cohere"},
	{"ai21", "AI21 Labs"},
	{"anysphere", "Anysphere"},
	{"zhipu", "Zhipu AI"},
	{"alibaba", "Alibaba"},
	{"baidu", "Baidu"},
	{"tencent", "Tencent"},
}

var codingKeywords = []string{
	"code",
	"coding",
	"programming",
	"software",
	"codex",
	"copilot",
	"coder",
	"swe-",
	"agentic coding",
}

var modelKeywords = []string{
	"model",
	"llm",
	"gpt",
	"claude",
	"gemini",
	"llama",
	"language model",
}

var toolKeywords = []string{
	"api",
	"sdk",
	"tool",
	"playground",
	"assistant",
	"code",
}

// codingToolKeywords name the coding products tracked from official blogs;
// a hit forces the tool category regardless of model-keyword score.
var codingToolKeywords = []string{
	"claude code",
	"codex",
	"copilot",
	"code interpreter",
	"coding assistant",
}

// announcementKeywords indicate a blog post announces a release rather than
// discussing one.
var announcementKeywords = []string{
	"introducing",
	"announcing",
	"launch",
	"release",
	"new model",
	"available now",
	"general availability",
}

func containsAny(text string, keywords []string) bool {
	lower := strings.ToLower(text)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func countAny(text string, keywords []string) int {
	lower := strings.ToLower(text)
	count := 0
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			count++
		}
	}
	return count
}

// IsTrackedCompany reports whether a catalog organization belongs to one of
// the major labs the timeline follows.
func IsTrackedCompany(organization string) bool {
	return containsAny(organization, trackedCompanies)
}

// IsRelevantDomain reports whether a catalog domain tag is language-adjacent.
func IsRelevantDomain(domainTag string) bool {
	return containsAny(domainTag, relevantDomains)
}

// NormalizeCompany maps a raw organization string to its canonical company
// name, returning the input unchanged when no alias matches.
func NormalizeCompany(organization string) string {
	lower := strings.ToLower(organization)
	for _, alias := range companyAliases {
		if strings.Contains(lower, alias.substring) {
			return alias.canonical
		}
	}
	return organization
}

// IsCodingRelated flags releases whose combined task/name/abstract text
// mentions coding.
func IsCodingRelated(text string) bool {
	return containsAny(text, codingKeywords)
}

// Categorize scores model-indicating against tool-indicating keywords over
// the combined descriptive text; ties favor the model category.
func Categorize(text string) domain.Category {
	if countAny(text, modelKeywords) >= countAny(text, toolKeywords) {
		return domain.CategoryModel
	}
	return domain.CategoryTool
}

// IsCodingTool reports whether a post describes one of the tracked coding
// products, which overrides Categorize toward the tool category.
func IsCodingTool(text string) bool {
	return containsAny(text, codingToolKeywords)
}

// IsReleaseAnnouncement gates official-blog posts on announcement wording.
func IsReleaseAnnouncement(text string) bool {
	return containsAny(text, announcementKeywords)
}

// FormatParameters renders a raw parameter count as a short suffixed string
// (1.8T, 70.0B, 7.0M). Empty and "nan" values collapse to empty; non-numeric
// values pass through unchanged.
func FormatParameters(params string) string {
	params = strings.TrimSpace(params)
	if params == "" || strings.EqualFold(params, "nan") {
		return ""
	}

	num, err := strconv.ParseFloat(params, 64)
	if err != nil {
		return params
	}

	switch {
	case num >= 1e12:
		return fmt.Sprintf("%.1fT", num/1e12)
	case num >= 1e9:
		return fmt.Sprintf("%.1fB", num/1e9)
	case num >= 1e6:
		return fmt.Sprintf("%.1fM", num/1e6)
	}
	return params
}
