package api_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eshaffer321/payopt/internal/api"
	"github.com/eshaffer321/payopt/internal/api/dto"
	"github.com/eshaffer321/payopt/internal/application/optimizer"
	"github.com/eshaffer321/payopt/internal/infrastructure/metrics"
	"github.com/eshaffer321/payopt/internal/infrastructure/storage"
)

var testConfig = api.Config{Port: 8080, MaxOrders: 100}

func newTestServer(t *testing.T) (*api.Server, *storage.MockRepository) {
	t.Helper()
	repo := storage.NewMockRepository()
	m := metrics.New()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := optimizer.NewService(repo, m, logger)
	return api.NewServer(testConfig, svc, repo, m, logger), repo
}

func do(t *testing.T, s *api.Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func TestServer_HealthEndpoint(t *testing.T) {
	server, _ := newTestServer(t)

	rec := do(t, server, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)

	var response dto.HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.Equal(t, "ok", response.Status)
}

func TestServer_AllocateThenInspectRun(t *testing.T) {
	server, _ := newTestServer(t)

	body := `{
		"orders": [
			{"id": "ORDER1", "value": "100.00", "promotions": ["mZysk"]},
			{"id": "ORDER2", "value": "100.00"}
		],
		"methods": [
			{"id": "mZysk", "discount": "10", "limit": "100.00"},
			{"id": "CARD", "discount": "0", "limit": "500.00"}
		]
	}`
	rec := do(t, server, http.MethodPost, "/api/allocations", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var created dto.AllocationResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
	require.Len(t, created.Used, 2)
	assert.Equal(t, "90.00", created.Used[0].Amount)
	assert.Equal(t, "CARD", created.Used[1].MethodID)
	assert.Equal(t, "100.00", created.Used[1].Amount)

	rec = do(t, server, http.MethodGet, "/api/runs", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list dto.RunListResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&list))
	require.Equal(t, 1, list.Count)
	assert.Equal(t, created.RunID, list.Runs[0].ID)
	assert.Equal(t, "190.00", list.Runs[0].TotalCharged)

	rec = do(t, server, http.MethodGet, "/api/runs/"+created.RunID+"/allocations", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var allocations dto.RunAllocationsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&allocations))
	require.Len(t, allocations.Allocations, 2)
	assert.Equal(t, "fallback", allocations.Allocations[1].Rule)
}

func TestServer_MetricsEndpoint(t *testing.T) {
	server, _ := newTestServer(t)

	body := `{"orders":[{"id":"A","value":"10"}],"methods":[{"id":"CARD","discount":0,"limit":"10"}]}`
	require.Equal(t, http.StatusOK, do(t, server, http.MethodPost, "/api/allocations", body).Code)

	rec := do(t, server, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `payopt_orders_total{rule="fallback"} 1`)
	assert.Contains(t, rec.Body.String(), `payopt_runs_total{source="api",status="completed"} 1`)
}

func TestServer_RunsUnavailableWithoutRepository(t *testing.T) {
	svc := optimizer.NewService(nil, nil, nil)
	server := api.NewServer(testConfig, svc, nil, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))

	assert.Equal(t, http.StatusNotFound, do(t, server, http.MethodGet, "/api/runs", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, server, http.MethodGet, "/metrics", "").Code)
}

func TestServer_CORS(t *testing.T) {
	server, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/allocations", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}
