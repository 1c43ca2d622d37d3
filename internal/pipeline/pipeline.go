// Package pipeline reconciles freshly fetched comments with previously
// enriched records and assembles the per-item response.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/MathCsAI/feedback-enricher/internal/enrich"
	"github.com/MathCsAI/feedback-enricher/internal/fetch"
	"github.com/MathCsAI/feedback-enricher/internal/sentiment"
	"github.com/MathCsAI/feedback-enricher/internal/store"
	"github.com/MathCsAI/feedback-enricher/internal/util"
)

// PlaceholderAnalysis is the fixed analysis text emitted when enrichment was
// skipped or failed for an item.
const PlaceholderAnalysis = "analysis unavailable"

// Fetcher produces the comment batch for one run.
type Fetcher interface {
	Fetch(ctx context.Context) ([]fetch.Comment, error)
}

// Store loads and saves the persisted record collection.
type Store interface {
	Load() []store.Record
	Save(records []store.Record) error
}

type Options struct {
	DefaultEmail  string
	DefaultSource string
}

type Pipeline struct {
	fetcher  Fetcher
	enricher enrich.Enricher
	store    Store
	opts     Options
	logger   *slog.Logger
}

func New(fetcher Fetcher, enricher enrich.Enricher, st Store, opts Options, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		fetcher:  fetcher,
		enricher: enricher,
		store:    st,
		opts:     opts,
		logger:   logger,
	}
}

// Run processes one batch end to end: fetch, reconcile against the store,
// enrich uncached items, persist the merged collection. Every stage failure
// is converted into a StageError; Run itself never fails and always returns
// a fully formed Response.
func (p *Pipeline) Run(ctx context.Context, req Request) Response {
	resp := Response{
		Items:       []Item{},
		ProcessedAt: time.Now().UTC(),
		Errors:      []StageError{},
	}

	email := req.Email
	if email == "" {
		email = p.opts.DefaultEmail
	}
	source := req.Source
	if source == "" {
		source = p.opts.DefaultSource
	}

	comments, err := p.fetcher.Fetch(ctx)
	if err != nil {
		resp.Errors = append(resp.Errors, fetchError(err))
		p.logger.Error("source fetch failed", "error", err)
		comments = nil
	}

	records := p.store.Load()
	cached := make(map[int64]store.Record, len(records))
	for _, r := range records {
		cached[r.ID] = r
	}

	var latch QuotaLatch
	for _, c := range comments {
		// Cache hits are unconditional: they win even with the latch active
		// and never touch the provider.
		if rec, ok := cached[c.ID]; ok {
			resp.Items = append(resp.Items, Item{
				Original:  rec.Original,
				Analysis:  rec.Analysis,
				Sentiment: sentiment.Normalize(string(rec.Sentiment)),
				Stored:    true,
				Timestamp: rec.Timestamp,
				Source:    rec.Source,
			})
			continue
		}

		if latch.Active() {
			resp.Items = append(resp.Items, placeholderItem(c))
			continue
		}

		result, err := p.enricher.Enrich(ctx, c.Body)
		if err != nil {
			if enrich.IsQuota(err) {
				if latch.Trip() {
					resp.Errors = append(resp.Errors, StageError{
						Stage:   StageAnalysis,
						Message: "rate limit reached, skipping remaining items: " + util.RedactSecrets(err.Error()),
						ItemID:  c.ID,
					})
					p.logger.Warn("provider quota exceeded, latching", "item_id", c.ID)
				}
			} else {
				resp.Errors = append(resp.Errors, StageError{
					Stage:   StageAnalysis,
					Message: util.RedactSecrets(err.Error()),
					ItemID:  c.ID,
				})
				p.logger.Error("enrichment failed", "item_id", c.ID, "error", err)
			}
			resp.Items = append(resp.Items, placeholderItem(c))
			continue
		}

		now := time.Now().UTC()
		resp.Items = append(resp.Items, Item{
			Original:  c.Body,
			Analysis:  result.Summary,
			Sentiment: result.Sentiment,
			Stored:    true,
			Timestamp: now,
			Source:    source,
		})
		records = append(records, store.Record{
			ID:        c.ID,
			Email:     email,
			Source:    source,
			Original:  c.Body,
			Analysis:  result.Summary,
			Sentiment: result.Sentiment,
			Stored:    true,
			Timestamp: now,
		})
	}

	if err := p.store.Save(records); err != nil {
		resp.Errors = append(resp.Errors, StageError{
			Stage:   StageStorage,
			Message: util.RedactSecrets(err.Error()),
		})
		p.logger.Error("store save failed", "error", err)
	}

	// Observed behavior: the notification flag does not depend on any stage
	// outcome. See Response.NotificationSent.
	resp.NotificationSent = true

	p.logger.Info("batch processed",
		"items", len(resp.Items),
		"errors", len(resp.Errors),
		"quota_latched", latch.Active(),
	)
	return resp
}

func placeholderItem(c fetch.Comment) Item {
	return Item{
		Original:  c.Body,
		Analysis:  PlaceholderAnalysis,
		Sentiment: sentiment.Neutral,
		Stored:    false,
		Timestamp: time.Now().UTC(),
	}
}

func fetchError(err error) StageError {
	se := StageError{
		Stage:   StageFetch,
		Message: util.RedactSecrets(err.Error()),
	}
	var ue *fetch.UpstreamError
	if errors.As(err, &ue) {
		se.Status = ue.StatusCode
	}
	return se
}
