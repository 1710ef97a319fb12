// ABOUTME: Health check handler for the Huma API
// ABOUTME: Reports liveness and which search sources are enabled

package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"modelsearch-api/core/domain"
)

// HealthHandler reports service liveness
type HealthHandler struct {
	sources []domain.Source
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(sources []domain.Source) *HealthHandler {
	return &HealthHandler{sources: sources}
}

// RegisterRoutes registers the health route
func (h *HealthHandler) RegisterRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Tags:        []string{"Health"},
	}, h.Health)
}

// HealthOutput defines the output for the health operation
type HealthOutput struct {
	Body struct {
		Status  string          `json:"status" example:"healthy"`
		Sources []domain.Source `json:"sources" doc:"Enabled search sources"`
	}
}

// Health handles GET /health
func (h *HealthHandler) Health(ctx context.Context, input *struct{}) (*HealthOutput, error) {
	out := &HealthOutput{}
	out.Body.Status = "healthy"
	out.Body.Sources = h.sources
	if out.Body.Sources == nil {
		out.Body.Sources = []domain.Source{}
	}
	return out, nil
}
