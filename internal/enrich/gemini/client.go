// Package gemini implements the enrichment client on the Gemini API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/MathCsAI/feedback-enricher/internal/enrich"
)

// FallbackModels are tried, in order, after the configured model when the
// provider reports that a candidate model cannot serve the call.
var FallbackModels = []string{
	"gemini-2.0-flash",
	"gemini-1.5-flash",
}

type Config struct {
	APIKey string
	Model  string

	// BaseURL overrides the Gemini API base URL. Useful for proxies/testing.
	BaseURL string

	// RateLimitRPS is a client-side limit across all calls, including model
	// fallback attempts. Set to <=0 to disable.
	RateLimitRPS float64
}

type Client struct {
	gen     *genai.Client
	models  []string
	limiter *rate.Limiter
	logger  *slog.Logger
}

// New builds a Client. A missing API key is not a constructor error: the
// client is still returned and every Enrich call fails with a
// ConfigurationError, so the pipeline can record the failure per item.
func New(ctx context.Context, cfg Config, logger *slog.Logger) (*Client, error) {
	c := &Client{
		models: candidateModels(cfg.Model),
		logger: logger,
	}
	if cfg.RateLimitRPS > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), 1)
	}

	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return c, nil
	}

	cc := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if strings.TrimSpace(cfg.BaseURL) != "" {
		cc.HTTPOptions.BaseURL = strings.TrimSpace(cfg.BaseURL)
	}

	gen, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	c.gen = gen
	return c, nil
}

// Enrich asks Gemini for a summary and sentiment label of one comment body.
// Candidate models are tried sequentially: an "unknown model" failure moves
// to the next candidate, any other failure propagates immediately. When all
// candidates are exhausted the last failure propagates.
func (c *Client) Enrich(ctx context.Context, text string) (enrich.Result, error) {
	if c.gen == nil {
		return enrich.Result{}, &enrich.ConfigurationError{Missing: "GEMINI_API_KEY"}
	}

	prompt := buildPrompt(text)

	var lastErr error
	for _, model := range c.models {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return enrich.Result{}, err
			}
		}

		resp, err := c.gen.Models.GenerateContent(
			ctx,
			model,
			genai.Text(prompt),
			&genai.GenerateContentConfig{CandidateCount: 1},
		)
		if err != nil {
			if isUnknownModel(err) {
				c.logger.Warn("model unavailable, trying next candidate", "model", model, "error", err)
				lastErr = err
				continue
			}
			return enrich.Result{}, classifyErr(err)
		}

		return enrich.Parse(resp.Text()), nil
	}

	return enrich.Result{}, classifyErr(lastErr)
}

func buildPrompt(text string) string {
	return strings.TrimSpace(`
Analyze the following user comment.

Return ONLY a single JSON object with these keys:
- summary (string; one short sentence summarizing the comment)
- sentiment (string; one of: positive, negative, neutral)

Do not include extra keys or commentary.

Comment: ` + text + `
`)
}

// isUnknownModel reports whether the provider rejected the model identifier
// itself rather than the request.
func isUnknownModel(err error) bool {
	if err == nil {
		return false
	}
	return enrich.MessageIndicatesUnknownModel(err.Error())
}

// classifyErr wraps rate-limit failures so the pipeline's quota latch can
// recognize them. Everything else passes through unchanged.
func classifyErr(err error) error {
	if err == nil {
		return errors.New("gemini: no candidate models configured")
	}
	var apiErr genai.APIError
	if errors.As(err, &apiErr) && apiErr.Code == 429 {
		return &enrich.QuotaError{Err: err}
	}
	if enrich.MessageIndicatesQuota(err.Error()) {
		return &enrich.QuotaError{Err: err}
	}
	return err
}

// candidateModels returns the deduplicated ordered list to try: the
// configured model first, then the fixed fallbacks.
func candidateModels(primary string) []string {
	in := append([]string{primary}, FallbackModels...)
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, m := range in {
		m = strings.TrimSpace(m)
		if m == "" {
			continue
		}
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	return out
}
