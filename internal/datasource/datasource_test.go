package datasource

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/bet-advisor/internal/config"
)

const sampleSlate = `{
  "games": [
    {
      "game": {"id": "game_001", "sport": "NBA", "home_team": "Lakers", "away_team": "Celtics", "start_time": "2026-08-25T19:00:00Z"},
      "pick": "Lakers",
      "confidence": 0.78,
      "odds": {"Lakers": 150, "Celtics": -170}
    },
    {
      "game": {"id": "game_002", "sport": "NFL", "home_team": "Chiefs", "away_team": "Bills", "start_time": "2026-08-25T23:00:00Z"},
      "pick": "Chiefs",
      "confidence": 0.66,
      "odds": {"Chiefs": -120, "Bills": 110}
    }
  ]
}`

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func newFeedClient(url string) *FeedClient {
	return NewFeedClient(&config.DatasourceConfig{
		FeedURL:        url,
		APIKey:         "test-key",
		TimeoutSeconds: 2,
		MaxRetries:     1,
		RateLimit:      100,
	}, quietLogger())
}

func TestFetchSlate(t *testing.T) {
	var gotKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-API-Key")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleSlate))
	}))
	defer server.Close()

	client := newFeedClient(server.URL)
	defer client.Close()

	entries, err := client.FetchSlate(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "test-key", gotKey)
	assert.Equal(t, "game_001", entries[0].Game.ID)
	assert.Equal(t, "Lakers", entries[0].Pick)
	assert.Equal(t, 0.78, entries[0].Confidence)
	assert.Equal(t, 150, entries[0].Odds["Lakers"])
}

func TestFetchSlateClientErrorNotRetried(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := newFeedClient(server.URL)
	defer client.Close()

	_, err := client.FetchSlate(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestFetchSlateRetriesServerErrors(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(sampleSlate))
	}))
	defer server.Close()

	client := newFeedClient(server.URL)
	defer client.Close()

	entries, err := client.FetchSlate(context.Background())
	require.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.Equal(t, 2, calls)
}

func TestFetchSlateNoURLConfigured(t *testing.T) {
	client := NewFeedClient(&config.DatasourceConfig{}, quietLogger())
	defer client.Close()

	_, err := client.FetchSlate(context.Background())
	assert.Error(t, err)
}

func TestCircuitBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	cfg := DefaultHTTPClientConfig()
	cfg.MaxRetries = 0
	cfg.RetryWaitMin = time.Millisecond
	cfg.RetryWaitMax = time.Millisecond
	cfg.RateLimit = 1000
	cfg.CircuitBreakerMax = 3
	client := NewRateLimitedHTTPClient(cfg, quietLogger())
	defer client.Close()

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := client.Get(ctx, server.URL)
		require.Error(t, err)
	}

	_, err := client.Get(ctx, server.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "circuit breaker open")
}

func TestLoadSlateFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "slate.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleSlate), 0o644))

	entries, err := LoadSlateFromFile(path)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.Equal(t, "Chiefs", entries[1].Pick)
}

func TestLoadSlateFromFileMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "slate.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"not": "a slate"}`), 0o644))

	_, err := LoadSlateFromFile(path)
	assert.Error(t, err)
}
