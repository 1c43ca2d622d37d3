// Package store persists enriched records as a single JSON collection.
package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/renameio"

	"github.com/MathCsAI/feedback-enricher/internal/sentiment"
)

// Record is one persisted enrichment outcome.
type Record struct {
	ID        int64              `json:"id"`
	Email     string             `json:"email"`
	Source    string             `json:"source"`
	Original  string             `json:"original"`
	Analysis  string             `json:"analysis"`
	Sentiment sentiment.Category `json:"sentiment"`
	Stored    bool               `json:"stored"`
	Timestamp time.Time          `json:"timestamp"`
}

// FileStore reads and writes the whole collection at a fixed path.
type FileStore struct {
	path   string
	logger *slog.Logger
}

func New(path string, logger *slog.Logger) *FileStore {
	return &FileStore{path: path, logger: logger}
}

// Load reads the persisted collection and deduplicates it by id, keeping the
// first occurrence in insertion order. Load never fails: a missing or
// malformed file is the first-run / ephemeral-reset case and yields an empty
// collection.
func (s *FileStore) Load() []Record {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("store unreadable, starting empty", "path", s.path, "error", err)
		}
		return []Record{}
	}

	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		s.logger.Warn("store malformed, starting empty", "path", s.path, "error", err)
		return []Record{}
	}

	return DedupeByID(records)
}

// Save overwrites the collection atomically: readers never observe a partial
// file. The destination directory is created if needed.
func (s *FileStore) Save(records []Record) error {
	if records == nil {
		records = []Record{}
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create store directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode store: %w", err)
	}
	if err := renameio.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write store: %w", err)
	}
	return nil
}

// DedupeByID drops later duplicates of an id, preserving the order of first
// occurrences.
func DedupeByID(records []Record) []Record {
	seen := make(map[int64]struct{}, len(records))
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if _, ok := seen[r.ID]; ok {
			continue
		}
		seen[r.ID] = struct{}{}
		out = append(out, r)
	}
	return out
}
