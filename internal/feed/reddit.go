package feed

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// minRedditContent filters out link-only posts and short snippets that carry
// too little signal to keep as reviews.
const minRedditContent = 50

type redditListing struct {
	Data struct {
		Children []struct {
			Data redditPost `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type redditPost struct {
	Author     string  `json:"author"`
	Selftext   string  `json:"selftext"`
	Title      string  `json:"title"`
	Permalink  string  `json:"permalink"`
	CreatedUTC float64 `json:"created_utc"`
}

// ParseRedditListing extracts posts from a Reddit search JSON response.
// Post body text is preferred over the title; entries whose content is
// shorter than 50 characters are discarded.
func ParseRedditListing(raw string) ([]Post, error) {
	var listing redditListing
	if err := json.Unmarshal([]byte(raw), &listing); err != nil {
		return nil, fmt.Errorf("parse reddit listing: %w", err)
	}

	var posts []Post
	for _, child := range listing.Data.Children {
		post := child.Data

		content := strings.TrimSpace(post.Selftext)
		if content == "" {
			content = strings.TrimSpace(post.Title)
		}
		if len([]rune(content)) <= minRedditContent {
			continue
		}

		posts = append(posts, Post{
			Title:     strings.TrimSpace(post.Title),
			Content:   content,
			Link:      "https://reddit.com" + post.Permalink,
			Author:    "u/" + post.Author,
			Published: time.Unix(int64(post.CreatedUTC), 0).UTC(),
		})
	}

	return posts, nil
}
