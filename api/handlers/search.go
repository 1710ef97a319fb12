// ABOUTME: Search handler for the Huma API
// ABOUTME: Exposes the aggregated model search at GET /api/search

package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"modelsearch-api/core/domain"
	apperrors "modelsearch-api/core/errors"
	"modelsearch-api/core/interfaces"
)

// SearchService defines the methods needed from the search aggregator
type SearchService interface {
	Search(ctx context.Context, term string) ([]domain.SearchResult, error)
}

// SearchHandler handles model search requests
type SearchHandler struct {
	service SearchService
	logger  interfaces.Logger
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(service SearchService, logger interfaces.Logger) *SearchHandler {
	if logger == nil {
		logger = interfaces.NopLogger{}
	}
	return &SearchHandler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers the search route
func (h *SearchHandler) RegisterRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "searchModels",
		Method:      http.MethodGet,
		Path:        "/api/search",
		Summary:     "Search 3D models",
		Description: "Searches Printables, Thingiverse and MakerWorld concurrently and returns the combined results in random order. Sources that fail are left out.",
		Tags:        []string{"Search"},
		Errors:      []int{http.StatusBadRequest, http.StatusInternalServerError},
	}, h.Search)
}

// SearchInput defines the input for the search operation
type SearchInput struct {
	Q string `query:"q" doc:"Search term" example:"benchy"`
}

// SearchOutput defines the output for the search operation
type SearchOutput struct {
	Body []domain.SearchResult
}

// Search handles GET /api/search
func (h *SearchHandler) Search(ctx context.Context, input *SearchInput) (*SearchOutput, error) {
	results, err := h.service.Search(ctx, input.Q)
	if err != nil {
		if !apperrors.IsValidation(err) {
			h.logger.Error("Search failed", map[string]interface{}{
				"term":  input.Q,
				"error": err.Error(),
			})
		}
		return nil, toHumaError(err)
	}

	if results == nil {
		results = []domain.SearchResult{}
	}

	return &SearchOutput{Body: results}, nil
}
