// Package sentiment scores review text with a fixed keyword-count heuristic.
// No model, no external calls; the same text always classifies the same way.
package sentiment

import (
	"strings"

	"ReleaseTimeline/internal/domain"
)

var positiveKeywords = []string{
	"amazing",
	"great",
	"excellent",
	"love",
	"impressive",
	"fast",
	"good",
	"better",
	"best",
	"fantastic",
	"awesome",
	"incredible",
	"wonderful",
	"useful",
	"helpful",
	"game changer",
	"game-changer",
}

var negativeKeywords = []string{
	"bad",
	"terrible",
	"awful",
	"slow",
	"broken",
	"disappointing",
	"worse",
	"worst",
	"useless",
	"poor",
	"frustrating",
	"annoying",
	"bug",
	"buggy",
	"crash",
	"fail",
	"doesn't work",
	"sucks",
}

// Classify counts positive and negative keyword occurrences (substring
// containment, one count per keyword) and returns whichever side wins, or
// neutral on a tie.
func Classify(text string) domain.Sentiment {
	lower := strings.ToLower(text)

	positive := countMatches(lower, positiveKeywords)
	negative := countMatches(lower, negativeKeywords)

	switch {
	case positive > negative:
		return domain.SentimentPositive
	case negative > positive:
		return domain.SentimentNegative
	default:
		return domain.SentimentNeutral
	}
}

func countMatches(lower string, keywords []string) int {
	count := 0
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			count++
		}
	}
	return count
}
