package metrics

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitRegistryIdempotent(t *testing.T) {
	r1 := InitRegistry()
	r2 := InitRegistry()
	assert.Same(t, r1, r2)
	assert.Same(t, r1, GetRegistry())
}

func TestHandlerServesMetrics(t *testing.T) {
	RecordRecommendation()
	RecordOutcome()
	UpdateBankroll(1000, 25, 12.5)
	UpdateBucket("nba", "moneyline", 0.6, 0.15)

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, req)

	require.Equal(t, 200, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "bet_advisor_recommendations_emitted_total")
	assert.Contains(t, body, "bet_advisor_bankroll_balance")
	assert.Contains(t, body, "bet_advisor_bucket_win_rate")
}
