// Package match decides whether free text refers to a known release. Matching
// is deliberately substring-based over lower-cased name variants, not fuzzy
// entity resolution.
package match

import "strings"

// Variants returns the lower-cased spellings a release name may appear under:
// the name itself, hyphens removed, hyphens as spaces, and spaces as hyphens
// (so "GPT-4 Turbo" also matches "gpt4 turbo" and "gpt 4" style mentions).
func Variants(name string) []string {
	lower := strings.ToLower(name)
	variants := []string{
		lower,
		strings.ReplaceAll(lower, "-", ""),
		strings.ReplaceAll(lower, "-", " "),
		strings.ReplaceAll(lower, " ", "-"),
	}

	seen := make(map[string]struct{}, len(variants))
	unique := variants[:0]
	for _, v := range variants {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		unique = append(unique, v)
	}
	return unique
}

// Mentions reports whether text contains the release name or any of its
// variants as a substring. Known limitation: a short name inside an unrelated
// longer word still matches.
func Mentions(text, name string) bool {
	if strings.TrimSpace(name) == "" {
		return false
	}

	lower := strings.ToLower(text)
	for _, variant := range Variants(name) {
		if strings.Contains(lower, variant) {
			return true
		}
	}
	return false
}

// SameCompany is the exact, case-insensitive company gate applied before name
// matching on company-scoped sources. It prevents cross-company false
// positives: a "Claude" mention on an OpenAI blog must not attach to an
// Anthropic release.
func SameCompany(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
