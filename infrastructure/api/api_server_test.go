package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vehiclegraph/vehiclegraph"
	"github.com/vehiclegraph/vehiclegraph/internal/config"
	"github.com/vehiclegraph/vehiclegraph/internal/log"
)

func newTestAPIServer(t *testing.T, cfg config.AppConfig) http.Handler {
	t.Helper()
	client, err := vehiclegraph.New(
		vehiclegraph.WithGenerationDelay(0),
		vehiclegraph.WithMetrics(cfg.MetricsEnabled()),
		vehiclegraph.WithLogger(log.Discard()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return NewAPIServer(client, cfg, "1.2.3-test").Handler()
}

func graphqlPost(t *testing.T, handler http.Handler, path, query string) map[string]any {
	t.Helper()
	body, err := json.Marshal(map[string]string{"query": query})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(string(body)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestAPIServer_GraphQLEndToEnd(t *testing.T) {
	handler := newTestAPIServer(t, config.NewAppConfig())

	query := `{ getVehicleByFin(fin: 1) { fin texts } }`
	first := graphqlPost(t, handler, "/graphql", query)
	second := graphqlPost(t, handler, "/graphql", query)

	assert.Nil(t, first["errors"])
	assert.Equal(t, first["data"], second["data"])

	vehicle := first["data"].(map[string]any)["getVehicleByFin"].(map[string]any)
	assert.EqualValues(t, 1, vehicle["fin"])
	assert.NotEmpty(t, vehicle["texts"])
}

func TestAPIServer_CustomGraphQLPath(t *testing.T) {
	handler := newTestAPIServer(t, config.NewAppConfigWithOptions(config.WithGraphQLPath("/query")))

	out := graphqlPost(t, handler, "/query", `{ getVehicleByFin(fin: 2) { fin } }`)
	assert.Nil(t, out["errors"])

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAPIServer_HealthAndInfo(t *testing.T) {
	handler := newTestAPIServer(t, config.NewAppConfig())

	for _, path := range []string{"/health", "/healthz"} {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String(), path)
	}

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"name":"vehiclegraph","version":"1.2.3-test","graphql":"/graphql","mcp":"/mcp"}`, w.Body.String())
}

func TestAPIServer_Metrics(t *testing.T) {
	handler := newTestAPIServer(t, config.NewAppConfig())

	graphqlPost(t, handler, "/graphql", `{ getVehicleByFin(fin: 5) { codes } }`)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `vehiclegraph_field_resolutions_total{field="codes",source="generated"} 1`)
}

func TestAPIServer_MetricsDisabled(t *testing.T) {
	handler := newTestAPIServer(t, config.NewAppConfigWithOptions(config.WithMetricsEnabled(false)))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAPIServer_MCPInitialize(t *testing.T) {
	handler := newTestAPIServer(t, config.NewAppConfig())

	body := `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-06-18","capabilities":{},"clientInfo":{"name":"test","version":"0.0.1"}}}`
	req := httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader(body)).WithContext(context.Background())
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/event-stream")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "vehiclegraph")
}

func TestAPIServer_ShutdownBeforeStart(t *testing.T) {
	client, err := vehiclegraph.New(vehiclegraph.WithLogger(log.Discard()))
	require.NoError(t, err)
	defer func() { _ = client.Close() }()

	srv := NewAPIServer(client, config.NewAppConfig(), "test")
	assert.NoError(t, srv.Shutdown(context.Background()))
}
