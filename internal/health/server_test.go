package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPinger struct {
	err error
}

func (p *stubPinger) Ping(context.Context) error { return p.err }

func newTestServer(store StorePinger) *Server {
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	return NewServer(Config{
		ServiceName: "bet-advisor",
		Version:     "test",
		Port:        8080,
		Logger:      log,
		Store:       store,
	})
}

func doRequest(s *Server, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(nil)
	rec := doRequest(s, "/health")

	require.Equal(t, http.StatusOK, rec.Code)
	var body HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "bet-advisor", body.Service)
	assert.Equal(t, "test", body.Version)
}

func TestLiveEndpoint(t *testing.T) {
	s := newTestServer(nil)
	rec := doRequest(s, "/live")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyNotMarked(t *testing.T) {
	s := newTestServer(&stubPinger{})
	rec := doRequest(s, "/ready")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestReadyHealthy(t *testing.T) {
	s := newTestServer(&stubPinger{})
	s.SetReady(true)

	rec := doRequest(s, "/ready")
	require.Equal(t, http.StatusOK, rec.Code)

	var body ReadyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "ok", body.Checks["store"])
}

func TestReadyStoreFailure(t *testing.T) {
	s := newTestServer(&stubPinger{err: errors.New("disk full")})
	s.SetReady(true)

	rec := doRequest(s, "/ready")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body ReadyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body.Checks["store"], "disk full")
}
