package pipeline

import (
	"time"

	"github.com/MathCsAI/feedback-enricher/internal/sentiment"
)

// Stage identifies which pipeline stage produced an error.
type Stage string

const (
	StageFetch    Stage = "fetch"
	StageAnalysis Stage = "analysis"
	StageStorage  Stage = "storage"
)

// Request carries the caller-supplied overrides. Both fields are optional and
// default to configured constants.
type Request struct {
	Email  string `json:"email"`
	Source string `json:"source"`
}

// Item is the per-comment outcome returned to the caller.
type Item struct {
	Original  string             `json:"original"`
	Analysis  string             `json:"analysis"`
	Sentiment sentiment.Category `json:"sentiment"`
	Stored    bool               `json:"stored"`
	Timestamp time.Time          `json:"timestamp"`
	Source    string             `json:"source,omitempty"`
}

// StageError is one recorded stage failure. Failures never abort the request;
// they are collected here and the response stays fully formed.
type StageError struct {
	Stage   Stage  `json:"stage"`
	Message string `json:"message"`
	Status  int    `json:"status,omitempty"`
	ItemID  int64  `json:"itemId,omitempty"`
}

// Response is the top-level result of one pipeline run.
type Response struct {
	Items []Item `json:"items"`

	// NotificationSent is unconditionally true once processing completes,
	// regardless of per-item or per-stage failures. Preserved as observed in
	// the deployed behavior; it records intent, not delivery.
	NotificationSent bool `json:"notificationSent"`

	ProcessedAt time.Time    `json:"processedAt"`
	Errors      []StageError `json:"errors"`
}
