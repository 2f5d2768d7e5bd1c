package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jroosing/osdns/internal/api/handlers"
	"github.com/jroosing/osdns/internal/api/models"
	"github.com/jroosing/osdns/internal/config"
	"github.com/jroosing/osdns/internal/dns"
	"github.com/jroosing/osdns/internal/history"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fixtureResolve answers a fixed set of names and fails everything else.
func fixtureResolve(ctx context.Context, name string, qtype dns.QueryType) ([]string, error) {
	switch {
	case name == "example.org" && qtype == dns.TypeA:
		return []string{"93.184.216.34"}, nil
	case name == "empty.example.org":
		return []string{}, nil
	default:
		return nil, errors.New("dns resolution failed")
	}
}

func newTestEngine(t *testing.T, cfg *config.Config, journal *history.Store) *gin.Engine {
	t.Helper()
	h := handlers.New(fixtureResolve, time.Second, journal, nil)
	r := gin.New()
	RegisterRoutes(r, h, cfg)
	return r
}

func doGet(t *testing.T, r *gin.Engine, path string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	r := newTestEngine(t, nil, nil)
	w := doGet(t, r, "/api/v1/health", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.StatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestResolve_Success(t *testing.T) {
	r := newTestEngine(t, nil, nil)
	w := doGet(t, r, "/api/v1/resolve?name=example.org&type=A", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.ResolveResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "example.org", resp.Name)
	assert.Equal(t, "A", resp.Type)
	assert.Equal(t, []string{"93.184.216.34"}, resp.Values)
}

func TestResolve_DefaultsToTypeA(t *testing.T) {
	r := newTestEngine(t, nil, nil)
	w := doGet(t, r, "/api/v1/resolve?name=example.org", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.ResolveResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "A", resp.Type)
}

func TestResolve_MissingName(t *testing.T) {
	r := newTestEngine(t, nil, nil)
	w := doGet(t, r, "/api/v1/resolve", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestResolve_UnsupportedType(t *testing.T) {
	r := newTestEngine(t, nil, nil)
	w := doGet(t, r, "/api/v1/resolve?name=example.org&type=MX", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error, "MX")
}

func TestResolve_LookupFailure(t *testing.T) {
	r := newTestEngine(t, nil, nil)
	w := doGet(t, r, "/api/v1/resolve?name=nosuch.example.org", nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestResolve_EmptyAnswerIsOK(t *testing.T) {
	r := newTestEngine(t, nil, nil)
	w := doGet(t, r, "/api/v1/resolve?name=empty.example.org", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.ResolveResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Values)
}

func TestResolve_JournalsOutcome(t *testing.T) {
	journal, err := history.Open(filepath.Join(t.TempDir(), "h.db"), 100)
	require.NoError(t, err)
	defer journal.Close()

	r := newTestEngine(t, nil, journal)
	doGet(t, r, "/api/v1/resolve?name=example.org", nil)
	doGet(t, r, "/api/v1/resolve?name=nosuch.example.org", nil)

	entries, err := journal.Recent(10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "error", entries[0].Outcome)
	assert.Equal(t, "ok", entries[1].Outcome)
	assert.Equal(t, 1, entries[1].Answers)
}

func TestHistory_Endpoint(t *testing.T) {
	journal, err := history.Open(filepath.Join(t.TempDir(), "h.db"), 100)
	require.NoError(t, err)
	defer journal.Close()
	require.NoError(t, journal.Record(history.Entry{Name: "example.org", QueryType: "A", Outcome: "ok"}))

	r := newTestEngine(t, nil, journal)
	w := doGet(t, r, "/api/v1/history?limit=5", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.HistoryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Entries, 1)
	assert.Equal(t, "example.org", resp.Entries[0].Name)
}

func TestHistory_DisabledReturns404(t *testing.T) {
	r := newTestEngine(t, nil, nil)
	w := doGet(t, r, "/api/v1/history", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStats(t *testing.T) {
	r := newTestEngine(t, nil, nil)
	doGet(t, r, "/api/v1/resolve?name=example.org", nil)
	doGet(t, r, "/api/v1/resolve?name=nosuch.example.org", nil)

	w := doGet(t, r, "/api/v1/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.ServerStatsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, uint64(2), resp.Lookups.Total)
	assert.Equal(t, uint64(1), resp.Lookups.Failed)
	assert.Positive(t, resp.GoRoutines)
}

func TestAPIKey_Enforced(t *testing.T) {
	cfg := &config.Config{}
	require.NoError(t, cfg.Validate())
	cfg.API.APIKey = "sekret"

	r := newTestEngine(t, cfg, nil)

	// Health stays open.
	assert.Equal(t, http.StatusOK, doGet(t, r, "/api/v1/health", nil).Code)

	w := doGet(t, r, "/api/v1/resolve?name=example.org", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doGet(t, r, "/api/v1/resolve?name=example.org", map[string]string{"X-API-Key": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doGet(t, r, "/api/v1/resolve?name=example.org", map[string]string{"X-API-Key": "sekret"})
	assert.Equal(t, http.StatusOK, w.Code)
}
