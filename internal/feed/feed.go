// Package feed contains the pure parsing functions turning raw feed payloads
// (RSS/Atom XML, CSV datasets, Reddit search JSON) into typed records.
package feed

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Post is one entry extracted from any feed shape. Missing fields stay empty.
type Post struct {
	Title     string
	Content   string
	Link      string
	Author    string
	Published time.Time
}

// Record maps CSV header names to cell values for one data row.
type Record map[string]string

// maxFeedEntries bounds how many items of a single feed are processed.
const maxFeedEntries = 20

// maxParseContent bounds post content length at parse time; persistence
// truncates further.
const maxParseContent = 2000

var pubDateLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	time.RFC3339,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"Mon, 2 Jan 2006 15:04:05 MST",
	"2006-01-02T15:04:05Z",
	"2006-01-02",
}

// parsePostTime resolves feed timestamps across the common RSS and Atom
// layouts, defaulting to the current time like the original feeds did for
// absent dates.
func parsePostTime(value string) time.Time {
	value = strings.TrimSpace(value)
	for _, layout := range pubDateLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed
		}
	}
	return time.Now().UTC()
}

// StripHTML reduces markup to its text content, decoding entities along the
// way. On unparsable input the raw string is returned untouched.
func StripHTML(markup string) string {
	if !strings.ContainsAny(markup, "<&") {
		return strings.TrimSpace(markup)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return strings.TrimSpace(markup)
	}

	return strings.TrimSpace(doc.Text())
}

// Truncate caps text at limit runes.
func Truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
