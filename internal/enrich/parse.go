package enrich

import (
	"encoding/json"
	"strings"

	"github.com/MathCsAI/feedback-enricher/internal/sentiment"
)

type rawEnrichment struct {
	Summary   string `json:"summary"`
	Sentiment string `json:"sentiment"`
}

// Parse decodes semi-structured provider output into a Result. It strips a
// Markdown code-fence wrapper if present, then attempts a strict JSON decode.
// If decoding fails or the payload lacks a summary, the raw trimmed text
// becomes the summary and sentiment is derived from it. Parse is total: it
// always yields a usable Result.
func Parse(raw string) Result {
	body := StripCodeFence(raw)

	var parsed rawEnrichment
	if err := json.Unmarshal([]byte(body), &parsed); err != nil || strings.TrimSpace(parsed.Summary) == "" {
		trimmed := strings.TrimSpace(raw)
		return Result{
			Summary:   trimmed,
			Sentiment: sentiment.Normalize(trimmed),
		}
	}

	return Result{
		Summary:   parsed.Summary,
		Sentiment: sentiment.Normalize(parsed.Sentiment),
	}
}

// StripCodeFence removes a surrounding ``` or ```json Markdown fence. Text
// without a fence is returned trimmed and otherwise untouched.
func StripCodeFence(s string) string {
	out := strings.TrimSpace(s)
	if !strings.HasPrefix(out, "```") {
		return out
	}
	out = strings.TrimPrefix(out, "```")
	if idx := strings.Index(out, "\n"); idx >= 0 {
		// Drop the language tag on the opening fence line.
		out = out[idx+1:]
	} else {
		out = strings.TrimPrefix(out, "json")
	}
	out = strings.TrimSuffix(strings.TrimSpace(out), "```")
	return strings.TrimSpace(out)
}
