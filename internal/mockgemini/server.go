// Package mockgemini implements a minimal Gemini-like generateContent API
// surface for tests.
package mockgemini

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
)

// Call records a request made to the mock service.
type Call struct {
	Method string
	Path   string
	Model  string
}

// Behavior scripts the outcome for one model. A zero Status means HTTP 200
// with Text as the single candidate part.
type Behavior struct {
	Status  int
	Message string
	APICode string
	Text    string
}

// Text scripts a successful generation returning text.
func Text(text string) Behavior {
	return Behavior{Text: text}
}

// ModelNotFound scripts the provider's unknown-model rejection.
func ModelNotFound(model string) Behavior {
	return Behavior{
		Status:  http.StatusNotFound,
		APICode: "NOT_FOUND",
		Message: fmt.Sprintf("models/%s is not found for API version v1beta, or is not supported for generateContent", model),
	}
}

// QuotaExceeded scripts a rate-limit rejection.
func QuotaExceeded() Behavior {
	return Behavior{
		Status:  http.StatusTooManyRequests,
		APICode: "RESOURCE_EXHAUSTED",
		Message: "quota exceeded for quota metric 'Generate Content API requests per minute'",
	}
}

// Internal scripts a generic server-side failure.
func Internal() Behavior {
	return Behavior{
		Status:  http.StatusInternalServerError,
		APICode: "INTERNAL",
		Message: "an internal error has occurred",
	}
}

// Server serves scripted generateContent outcomes per model and records every
// call, so tests can assert which models were tried and how often.
type Server struct {
	mu        sync.Mutex
	calls     []Call
	behaviors map[string]Behavior
	fallback  Behavior
}

// New constructs a server whose unscripted models answer with the
// unknown-model rejection.
func New() *Server {
	return &Server{
		behaviors: make(map[string]Behavior),
		fallback:  Behavior{Status: http.StatusNotFound, APICode: "NOT_FOUND", Message: "model is not found"},
	}
}

// Script sets the outcome for one model.
func (s *Server) Script(model string, b Behavior) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.behaviors[model] = b
}

// Calls returns a snapshot of calls made to the server.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Call, len(s.calls))
	copy(out, s.calls)
	return out
}

// Handler returns an http.Handler serving the mock API.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1beta/models/", s.handleGenerate)
	return mux
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/v1beta/models/")
	model := rest
	if idx := strings.Index(rest, ":"); idx >= 0 {
		model = rest[:idx]
	}

	s.mu.Lock()
	s.calls = append(s.calls, Call{Method: r.Method, Path: r.URL.Path, Model: model})
	behavior, ok := s.behaviors[model]
	if !ok {
		behavior = s.fallback
	}
	s.mu.Unlock()

	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "INVALID_ARGUMENT", "method not allowed")
		return
	}

	if behavior.Status != 0 && behavior.Status != http.StatusOK {
		writeError(w, behavior.Status, behavior.APICode, behavior.Message)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"candidates": []map[string]any{
			{
				"content": map[string]any{
					"role":  "model",
					"parts": []map[string]any{{"text": behavior.Text}},
				},
			},
		},
	})
}

func writeError(w http.ResponseWriter, status int, apiCode, message string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]any{
			"code":    status,
			"message": message,
			"status":  apiCode,
		},
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
