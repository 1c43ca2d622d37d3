package store_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/MathCsAI/feedback-enricher/internal/sentiment"
	"github.com/MathCsAI/feedback-enricher/internal/store"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func record(id int64, analysis string) store.Record {
	return store.Record{
		ID:        id,
		Email:     "user@example.com",
		Source:    "web",
		Original:  "original text",
		Analysis:  analysis,
		Sentiment: sentiment.Neutral,
		Stored:    true,
		Timestamp: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestLoadMissingFileIsEmpty(t *testing.T) {
	s := store.New(filepath.Join(t.TempDir(), "missing.json"), testLogger())
	require.Empty(t, s.Load())
}

func TestLoadMalformedFileIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"not": "an array"`), 0o644))

	s := store.New(path, testLogger())
	require.Empty(t, s.Load())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "records.json")
	s := store.New(path, testLogger())

	in := []store.Record{record(1, "first"), record(2, "second")}
	require.NoError(t, s.Save(in))

	got := s.Load()
	require.Equal(t, in, got)

	// Saving what was loaded is idempotent.
	require.NoError(t, s.Save(got))
	require.Equal(t, got, s.Load())
}

func TestLoadDedupesByIDKeepingFirst(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.json")
	raw := `[
		{"id": 1, "analysis": "first", "stored": true},
		{"id": 2, "analysis": "second", "stored": true},
		{"id": 1, "analysis": "duplicate", "stored": true}
	]`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	got := store.New(path, testLogger()).Load()
	require.Len(t, got, 2)
	require.Equal(t, int64(1), got[0].ID)
	require.Equal(t, "first", got[0].Analysis)
	require.Equal(t, int64(2), got[1].ID)
}

func TestSaveNilWritesEmptyCollection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.json")
	s := store.New(path, testLogger())

	require.NoError(t, s.Save(nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.JSONEq(t, `[]`, string(data))
}

func TestDedupeByID(t *testing.T) {
	in := []store.Record{record(3, "a"), record(1, "b"), record(3, "c"), record(1, "d")}
	got := store.DedupeByID(in)
	require.Equal(t, []store.Record{record(3, "a"), record(1, "b")}, got)
}
