// Package fetch retrieves the comment batch from the upstream source.
package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// Comment is one item from the upstream source. Extra upstream fields are
// ignored.
type Comment struct {
	ID   int64  `json:"id"`
	Body string `json:"body"`
}

// UpstreamError is a non-2xx response from the source.
type UpstreamError struct {
	StatusCode int
	URL        string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("source returned HTTP %d for %s", e.StatusCode, e.URL)
}

type Config struct {
	URL      string
	Timeout  time.Duration
	MaxItems int
}

type Fetcher struct {
	client   *http.Client
	url      string
	timeout  time.Duration
	maxItems int
	logger   *slog.Logger
}

func New(cfg Config, logger *slog.Logger) *Fetcher {
	return &Fetcher{
		client:   &http.Client{},
		url:      cfg.URL,
		timeout:  cfg.Timeout,
		maxItems: cfg.MaxItems,
		logger:   logger,
	}
}

// Fetch issues one GET against the source with a hard deadline and returns at
// most MaxItems comments in source order. A JSON body that is valid but not
// an array yields an empty batch rather than an error.
func (f *Fetcher) Fetch(ctx context.Context) ([]Comment, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build source request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("source fetch timed out after %s: %w", f.timeout, err)
		}
		return nil, fmt.Errorf("source fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UpstreamError{StatusCode: resp.StatusCode, URL: f.url}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read source response: %w", err)
	}

	var comments []Comment
	if err := json.Unmarshal(body, &comments); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			// Valid JSON, wrong shape. Treat as an empty batch.
			f.logger.Warn("source returned non-array payload", "url", f.url)
			return []Comment{}, nil
		}
		return nil, fmt.Errorf("decode source response: %w", err)
	}

	if len(comments) > f.maxItems {
		comments = comments[:f.maxItems]
	}
	f.logger.Debug("fetched comments", "count", len(comments), "elapsed", time.Since(start).Round(time.Millisecond))
	return comments, nil
}
