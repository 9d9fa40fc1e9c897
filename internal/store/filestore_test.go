package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/bet-advisor/internal/models"
)

func newTestFileStore(t *testing.T) (*FileStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "outcomes.json")
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	fs, err := NewFileStore(path, log)
	require.NoError(t, err)
	return fs, path
}

func sampleOutcome() models.BetOutcome {
	return models.BetOutcome{
		ID:         uuid.New(),
		Sport:      "NBA",
		Matchup:    "Celtics @ Lakers",
		BetType:    "moneyline",
		Predicted:  "Lakers",
		Actual:     "Lakers",
		Confidence: 75.0,
		Odds:       150,
		Stake:      10.0,
		ProfitLoss: 15.0,
		SettledAt:  time.Now().UTC().Truncate(time.Second),
		Features:   map[string]float64{"home_advantage": 1.0},
	}
}

func TestLoadMissingFileReturnsEmptySnapshot(t *testing.T) {
	fs, _ := newTestFileStore(t)

	snapshot, err := fs.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SnapshotVersion, snapshot.Version)
	assert.Empty(t, snapshot.Outcomes)
	assert.NotNil(t, snapshot.FeatureImportance)
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	fs, _ := newTestFileStore(t)
	ctx := context.Background()

	snapshot := NewSnapshot()
	snapshot.Outcomes = append(snapshot.Outcomes, sampleOutcome())
	snapshot.FeatureImportance["home_advantage"] = 0.42

	require.NoError(t, fs.Save(ctx, snapshot))

	loaded, err := fs.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded.Outcomes, 1)
	assert.Equal(t, snapshot.Outcomes[0].ID, loaded.Outcomes[0].ID)
	assert.Equal(t, "Lakers", loaded.Outcomes[0].Predicted)
	assert.Equal(t, 0.42, loaded.FeatureImportance["home_advantage"])
	assert.Equal(t, SnapshotVersion, loaded.Version)
}

func TestSaveLeavesNoTempFile(t *testing.T) {
	fs, path := newTestFileStore(t)

	require.NoError(t, fs.Save(context.Background(), NewSnapshot()))

	_, err := os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestSaveReplacesPreviousDocument(t *testing.T) {
	fs, path := newTestFileStore(t)
	ctx := context.Background()

	first := NewSnapshot()
	first.Outcomes = append(first.Outcomes, sampleOutcome())
	require.NoError(t, fs.Save(ctx, first))

	second := NewSnapshot()
	second.Outcomes = append(second.Outcomes, sampleOutcome(), sampleOutcome())
	require.NoError(t, fs.Save(ctx, second))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &doc))

	loaded, err := fs.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, loaded.Outcomes, 2)
}

func TestLoadUnversionedDocumentDefaultsVersion(t *testing.T) {
	fs, path := newTestFileStore(t)

	legacy := `{"outcomes": [], "feature_importance": {"pace": 0.3}}`
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0o644))

	loaded, err := fs.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SnapshotVersion, loaded.Version)
	assert.Equal(t, 0.3, loaded.FeatureImportance["pace"])
}

func TestLoadCorruptDocumentFails(t *testing.T) {
	fs, path := newTestFileStore(t)

	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := fs.Load(context.Background())
	assert.Error(t, err)
}

func TestNewFileStoreEmptyPath(t *testing.T) {
	log := logrus.New()
	_, err := NewFileStore("", log)
	assert.Error(t, err)
}

func TestPing(t *testing.T) {
	fs, _ := newTestFileStore(t)
	assert.NoError(t, fs.Ping(context.Background()))
}
