// ABOUTME: Custom error types for the search core
// ABOUTME: Distinguishes caller mistakes from per-source upstream failures

package errors

import (
	"errors"
	"fmt"
)

// ValidationError represents a problem with the caller's input
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// ExternalAPIError represents a non-success answer from an upstream source
type ExternalAPIError struct {
	StatusCode int
	Message    string
	API        string
}

// Error implements the error interface
func (e *ExternalAPIError) Error() string {
	return fmt.Sprintf("external API error from %s: %d - %s", e.API, e.StatusCode, e.Message)
}

// UnexpectedResponseError is returned when an upstream answers successfully
// but the payload does not have the structure the adapter maps from
type UnexpectedResponseError struct {
	API     string
	Message string
}

// Error implements the error interface
func (e *UnexpectedResponseError) Error() string {
	return fmt.Sprintf("unexpected response from %s: %s", e.API, e.Message)
}

// ConfigurationError marks a source that cannot run because a setting is missing
type ConfigurationError struct {
	Key     string
	Message string
}

// Error implements the error interface
func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error for '%s': %s", e.Key, e.Message)
}

// IsValidation checks if an error is a ValidationError
func IsValidation(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

// IsExternalAPI checks if an error is an ExternalAPIError
func IsExternalAPI(err error) bool {
	var apiErr *ExternalAPIError
	return errors.As(err, &apiErr)
}

// IsUnexpectedResponse checks if an error is an UnexpectedResponseError
func IsUnexpectedResponse(err error) bool {
	var shapeErr *UnexpectedResponseError
	return errors.As(err, &shapeErr)
}

// IsConfiguration checks if an error is a ConfigurationError
func IsConfiguration(err error) bool {
	var cfgErr *ConfigurationError
	return errors.As(err, &cfgErr)
}

// Kind returns a short, low-cardinality label for an error, used in logs and metrics
func Kind(err error) string {
	switch {
	case err == nil:
		return "none"
	case IsValidation(err):
		return "validation"
	case IsExternalAPI(err):
		return "upstream_status"
	case IsUnexpectedResponse(err):
		return "unexpected_response"
	case IsConfiguration(err):
		return "configuration"
	default:
		return "transport"
	}
}

// WrapError wraps an error with additional context
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
