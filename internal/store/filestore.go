package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/bet-advisor/internal/models"
)

// FileStore persists snapshots as a single JSON document. Writes go
// through a temp file and an atomic rename so a crash mid-write never
// leaves a truncated snapshot behind.
type FileStore struct {
	path   string
	logger *logrus.Logger
}

// NewFileStore creates a file-backed outcome store at the given path,
// creating parent directories as needed.
func NewFileStore(path string, logger *logrus.Logger) (*FileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("store path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}
	return &FileStore{path: path, logger: logger}, nil
}

// Load reads the snapshot from disk. A missing file is a cold start and
// returns an empty snapshot.
func (s *FileStore) Load(_ context.Context) (*Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.logger.WithField("path", s.path).Info("No outcome snapshot found, starting empty")
			return NewSnapshot(), nil
		}
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	if len(data) == 0 {
		return NewSnapshot(), nil
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}
	if snapshot.Outcomes == nil {
		snapshot.Outcomes = []models.BetOutcome{}
	}
	if snapshot.FeatureImportance == nil {
		snapshot.FeatureImportance = map[string]float64{}
	}
	if snapshot.Version == 0 {
		// Pre-versioning documents are treated as version 1.
		snapshot.Version = SnapshotVersion
	}
	return &snapshot, nil
}

// Save writes the snapshot whole, replacing the previous document.
func (s *FileStore) Save(_ context.Context, snapshot *Snapshot) error {
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replacing snapshot: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"path":     s.path,
		"outcomes": len(snapshot.Outcomes),
	}).Debug("Snapshot persisted")
	return nil
}

// Ping checks that the store directory is writable.
func (s *FileStore) Ping(_ context.Context) error {
	dir := filepath.Dir(s.path)
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("store directory unavailable: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("store path parent %s is not a directory", dir)
	}
	return nil
}

// Close is a no-op for the file store.
func (s *FileStore) Close() error {
	return nil
}
