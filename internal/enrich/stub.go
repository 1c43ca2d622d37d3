package enrich

import (
	"context"
	"errors"
	"strings"

	"github.com/MathCsAI/feedback-enricher/internal/sentiment"
)

// Stub is a deterministic Enricher for tests. Inputs containing "error" fail,
// inputs containing "quota" fail with a QuotaError, everything else succeeds
// with a canned summary.
type Stub struct {
	// Calls counts Enrich invocations, letting tests assert the quota latch
	// short-circuits further provider calls.
	Calls int
}

func (s *Stub) Enrich(_ context.Context, text string) (Result, error) {
	s.Calls++
	switch {
	case strings.Contains(text, "quota"):
		return Result{}, &QuotaError{Err: errors.New("stub: 429 quota exceeded")}
	case strings.Contains(text, "error"):
		return Result{}, errors.New("stub: forced error")
	}
	return Result{
		Summary:   "summary of: " + strings.TrimSpace(text),
		Sentiment: sentiment.Normalize(text),
	}, nil
}
