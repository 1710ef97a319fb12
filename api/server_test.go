package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modelsearch-api/api/handlers"
	"modelsearch-api/core/domain"
	"modelsearch-api/core/interfaces"
	"modelsearch-api/core/search"
	"modelsearch-api/infrastructure/ratelimit/memory"
	"modelsearch-api/infrastructure/telemetry"
)

type stubSource struct {
	name    domain.Source
	results []domain.SearchResult
	err     error
	calls   atomic.Int32
}

func (s *stubSource) Name() domain.Source { return s.name }

func (s *stubSource) Search(ctx context.Context, term string) ([]domain.SearchResult, error) {
	s.calls.Add(1)
	return s.results, s.err
}

func result(source domain.Source, id string) domain.SearchResult {
	return domain.SearchResult{
		Title:    "model " + id,
		URL:      "https://example.com/" + id,
		ImageURL: "https://example.com/" + id + ".png",
		Source:   source,
	}
}

func newServer(t *testing.T, cfg APIConfig, sources ...interfaces.SearchSource) http.Handler {
	t.Helper()

	api, router := NewAPIWithMiddleware(cfg)
	service := search.NewSearchService(interfaces.Dependencies{}, sources)
	handlers.NewSearchHandler(service, nil).RegisterRoutes(api)
	handlers.NewHealthHandler(service.Sources()).RegisterRoutes(api)
	return router
}

func assertCORS(t *testing.T, h http.Header) {
	t.Helper()
	assert.Equal(t, "*", h.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET, OPTIONS", h.Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "Content-Type", h.Get("Access-Control-Allow-Headers"))
}

func serve(h http.Handler, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestNewAPI(t *testing.T) {
	api, router := NewAPI()

	require.NotNil(t, api)
	require.NotNil(t, router)
	assert.Equal(t, Title, api.OpenAPI().Info.Title)
	assert.Equal(t, Version, api.OpenAPI().Info.Version)
}

func TestAPI_OpenAPIEndpoint(t *testing.T) {
	_, router := NewAPI()

	rec := serve(router, http.MethodGet, "/openapi.json")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/vnd.oai.openapi+json", rec.Header().Get("Content-Type"))
	assertCORS(t, rec.Header())
}

func TestAPI_DocsEndpoint(t *testing.T) {
	_, router := NewAPI()

	rec := serve(router, http.MethodGet, "/docs")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
}

func TestSearch_EndToEnd(t *testing.T) {
	router := newServer(t, APIConfig{},
		&stubSource{name: domain.SourcePrintables, results: []domain.SearchResult{result(domain.SourcePrintables, "p1")}},
		&stubSource{name: domain.SourceThingiverse, err: context.DeadlineExceeded},
		&stubSource{name: domain.SourceMakerworld, results: []domain.SearchResult{result(domain.SourceMakerworld, "m1")}},
	)

	rec := serve(router, http.MethodGet, "/api/search?q=benchy")

	require.Equal(t, http.StatusOK, rec.Code)
	assertCORS(t, rec.Header())
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	var body []domain.SearchResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body, 2)
	assert.NotContains(t, rec.Body.String(), "$schema")
}

func TestSearch_Preflight(t *testing.T) {
	src := &stubSource{name: domain.SourcePrintables, results: []domain.SearchResult{result(domain.SourcePrintables, "1")}}
	router := newServer(t, APIConfig{}, src)

	for _, target := range []string{"/api/search", "/api/search?q=benchy"} {
		rec := serve(router, http.MethodOptions, target)

		assert.Equal(t, http.StatusOK, rec.Code, target)
		assert.Empty(t, rec.Body.String(), target)
		assertCORS(t, rec.Header())
	}
	assert.Equal(t, int32(0), src.calls.Load(), "pre-flight must not reach any source")
}

func TestSearch_MissingTerm(t *testing.T) {
	router := newServer(t, APIConfig{})

	for _, target := range []string{"/api/search", "/api/search?q="} {
		rec := serve(router, http.MethodGet, target)

		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
		assert.JSONEq(t, `{"error":"search term (q) is missing"}`, rec.Body.String())
		assertCORS(t, rec.Header())
	}
}

func TestSearch_WhitespaceTermIsSearched(t *testing.T) {
	router := newServer(t, APIConfig{},
		&stubSource{name: domain.SourcePrintables, results: []domain.SearchResult{result(domain.SourcePrintables, "1")}},
	)

	rec := serve(router, http.MethodGet, "/api/search?q=%20")

	require.Equal(t, http.StatusOK, rec.Code)
	var body []domain.SearchResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body, 1)
}

func TestSearch_AllSourcesFail(t *testing.T) {
	router := newServer(t, APIConfig{},
		&stubSource{name: domain.SourcePrintables, err: context.DeadlineExceeded},
	)

	rec := serve(router, http.MethodGet, "/api/search?q=benchy")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestSearch_RateLimited(t *testing.T) {
	store, err := memory.NewStore(1, time.Hour)
	require.NoError(t, err)
	router := newServer(t, APIConfig{Limiter: store, RateLimit: 1, RateWindow: time.Hour},
		&stubSource{name: domain.SourcePrintables},
	)

	first := serve(router, http.MethodGet, "/api/search?q=benchy")
	second := serve(router, http.MethodGet, "/api/search?q=benchy")

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assertCORS(t, second.Header())
	assert.True(t, strings.Contains(second.Body.String(), `"error"`))
}

func TestMetricsEndpoint(t *testing.T) {
	provider, err := telemetry.NewProvider(true)
	require.NoError(t, err)
	defer func() { _ = provider.Shutdown(context.Background()) }()

	httpMetrics, err := telemetry.NewHTTPMetrics(provider.MeterProvider())
	require.NoError(t, err)

	router := newServer(t, APIConfig{HTTPMetrics: httpMetrics, MetricsHandler: provider.Handler()},
		&stubSource{name: domain.SourcePrintables},
	)

	serve(router, http.MethodGet, "/api/search?q=benchy")
	rec := serve(router, http.MethodGet, "/metrics")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "modelsearch_http_requests_total")
	assert.Contains(t, rec.Body.String(), `route="/api/search"`)
}

func TestHealthEndpoint(t *testing.T) {
	router := newServer(t, APIConfig{}, &stubSource{name: domain.SourceThingiverse})

	rec := serve(router, http.MethodGet, "/health")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy","sources":["Thingiverse"]}`, rec.Body.String())
}
