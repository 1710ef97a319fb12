package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modelsearch-api/core/domain"
	apperrors "modelsearch-api/core/errors"
)

// mockSearchService is a mock implementation of the search service
type mockSearchService struct {
	searchFunc func(ctx context.Context, term string) ([]domain.SearchResult, error)
	calls      int
}

func (m *mockSearchService) Search(ctx context.Context, term string) ([]domain.SearchResult, error) {
	m.calls++
	if m.searchFunc != nil {
		return m.searchFunc(ctx, term)
	}
	return []domain.SearchResult{}, nil
}

// mockLogger records error logs
type mockLogger struct {
	errors []map[string]interface{}
}

func (m *mockLogger) Debug(msg string, fields map[string]interface{}) {}
func (m *mockLogger) Info(msg string, fields map[string]interface{})  {}
func (m *mockLogger) Warn(msg string, fields map[string]interface{})  {}
func (m *mockLogger) Error(msg string, fields map[string]interface{}) {
	m.errors = append(m.errors, fields)
}

func newTestAPI(t *testing.T, service SearchService, logger *mockLogger) humatest.TestAPI {
	t.Helper()

	config := huma.DefaultConfig("Model Search API", "1.0.0")
	config.CreateHooks = nil
	_, api := humatest.New(t, config)

	NewSearchHandler(service, logger).RegisterRoutes(api)
	return api
}

func TestSearchHandler_RegisterRoutes(t *testing.T) {
	api := newTestAPI(t, &mockSearchService{}, &mockLogger{})

	path := api.OpenAPI().Paths["/api/search"]
	require.NotNil(t, path)
	require.NotNil(t, path.Get)
	assert.Equal(t, "searchModels", path.Get.OperationID)
}

func TestSearchHandler_ReturnsResults(t *testing.T) {
	var gotTerm string
	service := &mockSearchService{
		searchFunc: func(ctx context.Context, term string) ([]domain.SearchResult, error) {
			gotTerm = term
			return []domain.SearchResult{{
				Title:    "3DBenchy",
				URL:      "https://www.printables.com/model/3161-3d-benchy",
				ImageURL: "https://media.printables.com/x/256",
				Source:   domain.SourcePrintables,
				Author:   "CreativeTools",
			}}, nil
		},
	}
	api := newTestAPI(t, service, &mockLogger{})

	resp := api.Get("/api/search?q=benchy")

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "benchy", gotTerm)

	var body []map[string]interface{}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.Len(t, body, 1)
	assert.Equal(t, "3DBenchy", body[0]["title"])
	assert.Equal(t, "Printables", body[0]["source"])
	assert.Equal(t, "https://media.printables.com/x/256", body[0]["imageUrl"])
	assert.Len(t, body[0], 5)
}

func TestSearchHandler_EmptyResultIsArray(t *testing.T) {
	service := &mockSearchService{
		searchFunc: func(ctx context.Context, term string) ([]domain.SearchResult, error) {
			return nil, nil
		},
	}
	api := newTestAPI(t, service, &mockLogger{})

	resp := api.Get("/api/search?q=zzzzqqqq")

	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `[]`, resp.Body.String())
}

func TestSearchHandler_MissingTerm(t *testing.T) {
	service := &mockSearchService{
		searchFunc: func(ctx context.Context, term string) ([]domain.SearchResult, error) {
			return nil, &apperrors.ValidationError{Field: "q", Message: MsgSearchTermMissing}
		},
	}
	logger := &mockLogger{}
	api := newTestAPI(t, service, logger)

	for _, path := range []string{"/api/search", "/api/search?q="} {
		resp := api.Get(path)

		assert.Equal(t, http.StatusBadRequest, resp.Code)
		assert.JSONEq(t, `{"error":"search term (q) is missing"}`, resp.Body.String())
	}
	assert.Empty(t, logger.errors, "caller mistakes are not logged as errors")
}

func TestSearchHandler_InternalError(t *testing.T) {
	service := &mockSearchService{
		searchFunc: func(ctx context.Context, term string) ([]domain.SearchResult, error) {
			return nil, errors.New("search aborted: context canceled")
		},
	}
	logger := &mockLogger{}
	api := newTestAPI(t, service, logger)

	resp := api.Get("/api/search?q=benchy")

	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.JSONEq(t, `{"error":"an internal error occurred"}`, resp.Body.String())
	require.Len(t, logger.errors, 1)
	assert.Equal(t, "benchy", logger.errors[0]["term"])
}

func TestHealthHandler(t *testing.T) {
	config := huma.DefaultConfig("Model Search API", "1.0.0")
	config.CreateHooks = nil
	_, api := humatest.New(t, config)
	NewHealthHandler([]domain.Source{domain.SourcePrintables, domain.SourceMakerworld}).RegisterRoutes(api)

	resp := api.Get("/health")

	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"status":"healthy","sources":["Printables","Makerworld"]}`, resp.Body.String())
}
