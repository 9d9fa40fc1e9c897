// Package store persists the settled-outcome log and derived
// feature-importance scores.
package store

import (
	"context"

	"github.com/yourusername/bet-advisor/internal/models"
)

// SnapshotVersion is the current on-disk schema version.
const SnapshotVersion = 1

// Snapshot is the full persisted state: the append-only outcome log plus
// the latest feature-importance map. It is always written whole.
type Snapshot struct {
	Version           int                 `json:"version"`
	Outcomes          []models.BetOutcome `json:"outcomes"`
	FeatureImportance map[string]float64  `json:"feature_importance"`
}

// NewSnapshot returns an empty snapshot at the current schema version
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Version:           SnapshotVersion,
		Outcomes:          []models.BetOutcome{},
		FeatureImportance: map[string]float64{},
	}
}

// OutcomeStore is the durable backend behind the feedback tracker. The
// file store and the Postgres repository both implement it.
type OutcomeStore interface {
	// Load reads the full persisted state. A missing or empty backend
	// returns an empty snapshot, not an error.
	Load(ctx context.Context) (*Snapshot, error)
	// Save writes the full state, replacing whatever was there.
	Save(ctx context.Context, snapshot *Snapshot) error
	// Ping reports whether the backend is reachable, for readiness checks.
	Ping(ctx context.Context) error
	Close() error
}
