package fetch_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/MathCsAI/feedback-enricher/internal/fetch"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newFetcher(url string) *fetch.Fetcher {
	return fetch.New(fetch.Config{URL: url, Timeout: 2 * time.Second, MaxItems: 3}, testLogger())
}

func TestFetchTruncatesToMaxItems(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id": 1, "body": "a", "email": "x@example.com"},
			{"id": 2, "body": "b"},
			{"id": 3, "body": "c"},
			{"id": 4, "body": "d"},
			{"id": 5, "body": "e"}
		]`))
	}))
	defer srv.Close()

	got, err := newFetcher(srv.URL).Fetch(context.Background())
	require.NoError(t, err)
	require.Equal(t, []fetch.Comment{{ID: 1, Body: "a"}, {ID: 2, Body: "b"}, {ID: 3, Body: "c"}}, got)
}

func TestFetchNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := newFetcher(srv.URL).Fetch(context.Background())
	var ue *fetch.UpstreamError
	require.ErrorAs(t, err, &ue)
	require.Equal(t, http.StatusServiceUnavailable, ue.StatusCode)
}

func TestFetchTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(5 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	f := fetch.New(fetch.Config{URL: srv.URL, Timeout: 50 * time.Millisecond, MaxItems: 3}, testLogger())
	_, err := f.Fetch(context.Background())
	require.Error(t, err)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestFetchNonArrayPayloadYieldsEmptyBatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message": "not a list"}`))
	}))
	defer srv.Close()

	got, err := newFetcher(srv.URL).Fetch(context.Background())
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestFetchMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id": 1,`))
	}))
	defer srv.Close()

	_, err := newFetcher(srv.URL).Fetch(context.Background())
	require.Error(t, err)
}
