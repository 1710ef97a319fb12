// ABOUTME: Error handling utilities for API handlers
// ABOUTME: Replaces huma's problem+json model with the {"error": "..."} body clients expect

package handlers

import (
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	apperrors "modelsearch-api/core/errors"
)

const (
	// MsgSearchTermMissing is returned when q is absent or blank
	MsgSearchTermMissing = "search term (q) is missing"

	// MsgInternalError is returned for any failure the caller cannot fix
	MsgInternalError = "an internal error occurred"
)

// ErrorBody is the JSON body of every error response
type ErrorBody struct {
	Status  int    `json:"-"`
	Message string `json:"error" doc:"Human readable error message" example:"search term (q) is missing"`
}

// Error implements the error interface
func (e *ErrorBody) Error() string {
	return e.Message
}

// GetStatus implements huma.StatusError
func (e *ErrorBody) GetStatus() int {
	return e.Status
}

func init() {
	huma.NewError = newErrorBody
}

// newErrorBody builds error responses for huma, including the ones it
// generates itself for request validation. Causes are never echoed except
// for 422, where they describe the caller's own input.
func newErrorBody(status int, msg string, errs ...error) huma.StatusError {
	if status == http.StatusUnprocessableEntity && len(errs) > 0 {
		msg = msg + ": " + errors.Join(errs...).Error()
	}
	return &ErrorBody{Status: status, Message: msg}
}

// toHumaError converts domain errors to appropriate Huma HTTP errors
func toHumaError(err error) error {
	if err == nil {
		return nil
	}

	var validationErr *apperrors.ValidationError
	if errors.As(err, &validationErr) {
		return huma.Error400BadRequest(validationErr.Message)
	}

	return huma.Error500InternalServerError(MsgInternalError)
}
