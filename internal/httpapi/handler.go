// Package httpapi exposes the enrichment pipeline as a single HTTP endpoint.
package httpapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/MathCsAI/feedback-enricher/internal/pipeline"
)

// Runner runs one pipeline batch. Implemented by *pipeline.Pipeline.
type Runner interface {
	Run(ctx context.Context, req pipeline.Request) pipeline.Response
}

type Handler struct {
	pipeline Runner
	logger   *slog.Logger
}

func NewHandler(p Runner, logger *slog.Logger) *Handler {
	return &Handler{pipeline: p, logger: logger}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusOK)
	case http.MethodPost:
		h.handlePost(w, r)
	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
	}
}

func (h *Handler) handlePost(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req pipeline.Request
	if r.Body != nil {
		// A missing or malformed body is treated as an empty request; the
		// defaults apply.
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			req = pipeline.Request{}
		}
	}

	resp := h.pipeline.Run(r.Context(), req)

	// Stage failures live in the errors array; the endpoint itself always
	// answers 200 with a complete body.
	writeJSON(w, http.StatusOK, resp)
	h.logger.Info("request served",
		"items", len(resp.Items),
		"errors", len(resp.Errors),
		"duration", time.Since(start).Round(time.Millisecond),
	)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
