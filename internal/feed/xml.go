package feed

import (
	"encoding/xml"
	"fmt"
	"strings"
)

// rssDocument captures the RSS 2.0 fields the pipeline consumes. Unqualified
// element names match namespaced variants too, which is how content:encoded
// and dc:creator are picked up.
type rssDocument struct {
	Items []rssItem `xml:"channel>item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Description string `xml:"description"`
	Encoded     string `xml:"encoded"`
	Link        string `xml:"link"`
	PubDate     string `xml:"pubDate"`
	Creator     string `xml:"creator"`
	Author      string `xml:"author"`
}

type atomDocument struct {
	Entries []atomEntry `xml:"entry"`
}

type atomEntry struct {
	Title      string     `xml:"title"`
	Content    string     `xml:"content"`
	Summary    string     `xml:"summary"`
	Links      []atomLink `xml:"link"`
	Published  string     `xml:"published"`
	Updated    string     `xml:"updated"`
	AuthorName string     `xml:"author>name"`
}

type atomLink struct {
	Rel  string `xml:"rel,attr"`
	Href string `xml:"href,attr"`
}

func (e atomEntry) link() string {
	for _, l := range e.Links {
		if l.Rel == "" || l.Rel == "alternate" {
			return l.Href
		}
	}
	if len(e.Links) > 0 {
		return e.Links[0].Href
	}
	return ""
}

// ParseFeed extracts posts from an RSS 2.0 document, falling back to Atom
// entries when no <item> elements are found. Entries missing a title or link
// are dropped individually; at most 20 entries per feed are kept. CDATA and
// plain element content are treated identically, and an empty description
// falls back to content:encoded (RSS) or summary (Atom).
func ParseFeed(raw string) ([]Post, error) {
	items, err := parseRSSItems(raw)
	if err != nil {
		return nil, err
	}
	if len(items) > 0 {
		return items, nil
	}
	return parseAtomEntries(raw)
}

func parseRSSItems(raw string) ([]Post, error) {
	var doc rssDocument
	if err := lenientUnmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse rss: %w", err)
	}

	posts := make([]Post, 0, len(doc.Items))
	for _, item := range doc.Items {
		if len(posts) >= maxFeedEntries {
			break
		}

		title := strings.TrimSpace(item.Title)
		link := strings.TrimSpace(item.Link)
		if title == "" || link == "" {
			continue
		}

		content := firstNonEmpty(item.Description, item.Encoded)
		posts = append(posts, Post{
			Title:     title,
			Content:   Truncate(StripHTML(content), maxParseContent),
			Link:      link,
			Author:    firstNonEmpty(item.Creator, item.Author),
			Published: parsePostTime(item.PubDate),
		})
	}

	return posts, nil
}

func parseAtomEntries(raw string) ([]Post, error) {
	var doc atomDocument
	if err := lenientUnmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse atom: %w", err)
	}

	posts := make([]Post, 0, len(doc.Entries))
	for _, entry := range doc.Entries {
		if len(posts) >= maxFeedEntries {
			break
		}

		title := strings.TrimSpace(entry.Title)
		link := strings.TrimSpace(entry.link())
		if title == "" || link == "" {
			continue
		}

		content := firstNonEmpty(entry.Content, entry.Summary)
		posts = append(posts, Post{
			Title:     title,
			Content:   Truncate(StripHTML(content), maxParseContent),
			Link:      link,
			Author:    strings.TrimSpace(entry.AuthorName),
			Published: parsePostTime(firstNonEmpty(entry.Published, entry.Updated)),
		})
	}

	return posts, nil
}

// lenientUnmarshal decodes XML without strict well-formedness, since real
// blog feeds routinely carry stray ampersands and entities.
func lenientUnmarshal(raw string, v any) error {
	decoder := xml.NewDecoder(strings.NewReader(raw))
	decoder.Strict = false
	return decoder.Decode(v)
}
