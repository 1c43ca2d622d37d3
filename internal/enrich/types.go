package enrich

import (
	"context"

	"github.com/MathCsAI/feedback-enricher/internal/sentiment"
)

// Result is the structured enrichment output for a single comment.
type Result struct {
	Summary   string
	Sentiment sentiment.Category
}

// Enricher produces a summary and sentiment label for one comment body.
type Enricher interface {
	Enrich(ctx context.Context, text string) (Result, error)
}
