// Package sentiment maps free-text sentiment labels onto a closed category set.
package sentiment

import "strings"

// Category is one of the fixed sentiment categories.
type Category string

const (
	Positive Category = "positive"
	Negative Category = "negative"
	Neutral  Category = "neutral"
)

// Normalize maps arbitrary label text to a Category. Matching is
// case-insensitive substring matching; the positive branch wins when both
// positive and negative markers are present. Unrecognized input is neutral.
func Normalize(raw string) Category {
	s := strings.ToLower(raw)
	switch {
	case strings.Contains(s, "positive") || strings.Contains(s, "enthusiastic"):
		return Positive
	case strings.Contains(s, "negative") || strings.Contains(s, "critical"):
		return Negative
	default:
		return Neutral
	}
}
