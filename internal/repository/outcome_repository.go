// Package repository provides the Postgres-backed outcome store.
package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/bet-advisor/internal/database"
	"github.com/yourusername/bet-advisor/internal/models"
	"github.com/yourusername/bet-advisor/internal/store"
)

// PostgresOutcomeStore implements store.OutcomeStore on Postgres. Outcomes
// are append-only rows; feature importance is replaced whole on each save,
// matching the snapshot semantics of the file store.
type PostgresOutcomeStore struct {
	db     *database.DB
	logger *logrus.Logger
}

// NewPostgresOutcomeStore creates a Postgres outcome store
func NewPostgresOutcomeStore(db *database.DB, logger *logrus.Logger) *PostgresOutcomeStore {
	return &PostgresOutcomeStore{db: db, logger: logger}
}

// Load reads all persisted outcomes and the feature-importance map.
func (r *PostgresOutcomeStore) Load(ctx context.Context) (*store.Snapshot, error) {
	snapshot := store.NewSnapshot()

	query := `
		SELECT id, sport, matchup, bet_type, predicted, actual, confidence,
		       odds, stake, profit_loss, settled_at, features
		FROM bet_outcomes
		ORDER BY settled_at ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query outcomes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var outcome models.BetOutcome
		var features []byte
		err := rows.Scan(
			&outcome.ID, &outcome.Sport, &outcome.Matchup, &outcome.BetType,
			&outcome.Predicted, &outcome.Actual, &outcome.Confidence,
			&outcome.Odds, &outcome.Stake, &outcome.ProfitLoss,
			&outcome.SettledAt, &features,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan outcome: %w", err)
		}
		if len(features) > 0 {
			if err := json.Unmarshal(features, &outcome.Features); err != nil {
				return nil, fmt.Errorf("failed to decode features for outcome %s: %w", outcome.ID, err)
			}
		}
		snapshot.Outcomes = append(snapshot.Outcomes, outcome)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read outcomes: %w", err)
	}

	fiRows, err := r.db.GetPool().Query(ctx, `SELECT feature, score FROM feature_importance`)
	if err != nil {
		return nil, fmt.Errorf("failed to query feature importance: %w", err)
	}
	defer fiRows.Close()

	for fiRows.Next() {
		var feature string
		var score float64
		if err := fiRows.Scan(&feature, &score); err != nil {
			return nil, fmt.Errorf("failed to scan feature importance: %w", err)
		}
		snapshot.FeatureImportance[feature] = score
	}
	if err := fiRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read feature importance: %w", err)
	}

	return snapshot, nil
}

// Save persists the snapshot. Existing outcome rows are left untouched,
// new ones are inserted, and the feature-importance table is rewritten.
func (r *PostgresOutcomeStore) Save(ctx context.Context, snapshot *store.Snapshot) error {
	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		insertOutcome := `
			INSERT INTO bet_outcomes (id, sport, matchup, bet_type, predicted, actual,
			                          confidence, odds, stake, profit_loss, settled_at, features)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			ON CONFLICT (id) DO NOTHING
		`

		for i := range snapshot.Outcomes {
			outcome := &snapshot.Outcomes[i]
			features, err := json.Marshal(outcome.Features)
			if err != nil {
				return fmt.Errorf("failed to encode features for outcome %s: %w", outcome.ID, err)
			}
			_, err = tx.Exec(ctx, insertOutcome,
				outcome.ID, outcome.Sport, outcome.Matchup, outcome.BetType,
				outcome.Predicted, outcome.Actual, outcome.Confidence,
				outcome.Odds, outcome.Stake, outcome.ProfitLoss,
				outcome.SettledAt, features,
			)
			if err != nil {
				return fmt.Errorf("failed to insert outcome %s: %w", outcome.ID, err)
			}
		}

		if _, err := tx.Exec(ctx, `DELETE FROM feature_importance`); err != nil {
			return fmt.Errorf("failed to clear feature importance: %w", err)
		}
		upsert := `
			INSERT INTO feature_importance (feature, score)
			VALUES ($1, $2)
			ON CONFLICT (feature) DO UPDATE SET score = EXCLUDED.score
		`
		for feature, score := range snapshot.FeatureImportance {
			if _, err := tx.Exec(ctx, upsert, feature, score); err != nil {
				return fmt.Errorf("failed to upsert feature importance %q: %w", feature, err)
			}
		}

		r.logger.WithField("outcomes", len(snapshot.Outcomes)).Debug("Snapshot persisted to Postgres")
		return nil
	})
}

// Ping verifies database connectivity for readiness checks.
func (r *PostgresOutcomeStore) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

// Close releases the connection pool.
func (r *PostgresOutcomeStore) Close() error {
	r.db.Close()
	return nil
}
