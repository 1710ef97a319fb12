// ABOUTME: Thingiverse source adapter using the token-authenticated search API
// ABOUTME: The access token is looked up from the environment on every call

package thingiverse

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"

	"modelsearch-api/core/domain"
	apperrors "modelsearch-api/core/errors"
	"modelsearch-api/core/interfaces"
)

const (
	// DefaultEndpoint is the API root
	DefaultEndpoint = "https://api.thingiverse.com"

	// DefaultTokenEnv names the environment variable holding the access token
	DefaultTokenEnv = "THINGIVERSE_TOKEN"
)

// Config holds the endpoint and token lookup settings
type Config struct {
	Endpoint string
	TokenEnv string
}

// Source searches Thingiverse
type Source struct {
	deps   interfaces.Dependencies
	config Config
	getenv func(string) string
}

type searchResponse struct {
	Hits *[]thing `json:"hits"`
}

type thing struct {
	Name      string   `json:"name"`
	PublicURL string   `json:"public_url"`
	Thumbnail string   `json:"thumbnail"`
	Creator   *creator `json:"creator"`
}

type creator struct {
	Name string `json:"name"`
}

// New creates a Thingiverse source
func New(deps interfaces.Dependencies, cfg Config) *Source {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.TokenEnv == "" {
		cfg.TokenEnv = DefaultTokenEnv
	}
	cfg.Endpoint = strings.TrimRight(cfg.Endpoint, "/")

	return &Source{
		deps:   deps,
		config: cfg,
		getenv: os.Getenv,
	}
}

// Name returns the source label
func (s *Source) Name() domain.Source {
	return domain.SourceThingiverse
}

// Search queries /search/{term}
func (s *Source) Search(ctx context.Context, term string) ([]domain.SearchResult, error) {
	api := string(domain.SourceThingiverse)

	token := s.getenv(s.config.TokenEnv)
	if token == "" {
		return nil, &apperrors.ConfigurationError{Key: s.config.TokenEnv, Message: "access token is not set"}
	}
	if s.deps.HTTPClient == nil {
		return nil, &apperrors.ConfigurationError{Key: "http_client", Message: "HTTP client not configured"}
	}

	apiURL := fmt.Sprintf("%s/search/%s?access_token=%s", s.config.Endpoint, url.PathEscape(term), url.QueryEscape(token))

	resp, err := s.deps.HTTPClient.Get(ctx, apiURL)
	if err != nil {
		// the token sits in the query string, keep it out of the error text
		return nil, fmt.Errorf("thingiverse request failed: %w", redact(err, token))
	}
	defer resp.Body().Close()

	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return nil, &apperrors.ExternalAPIError{
			StatusCode: resp.StatusCode(),
			Message:    http.StatusText(resp.StatusCode()),
			API:        api,
		}
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body()).Decode(&payload); err != nil {
		return nil, &apperrors.UnexpectedResponseError{API: api, Message: fmt.Sprintf("invalid JSON: %v", err)}
	}
	if payload.Hits == nil {
		return nil, &apperrors.UnexpectedResponseError{API: api, Message: "hits is missing"}
	}

	hits := *payload.Hits
	if len(hits) > domain.MaxResultsPerSource {
		hits = hits[:domain.MaxResultsPerSource]
	}

	results := make([]domain.SearchResult, 0, len(hits))
	for i, hit := range hits {
		if hit.Creator == nil {
			return nil, &apperrors.UnexpectedResponseError{API: api, Message: fmt.Sprintf("hit %d has no creator", i)}
		}
		results = append(results, domain.SearchResult{
			Title:    hit.Name,
			URL:      hit.PublicURL,
			ImageURL: hit.Thumbnail,
			Source:   domain.SourceThingiverse,
			Author:   hit.Creator.Name,
		})
	}

	return results, nil
}

type redactedError struct {
	msg   string
	cause error
}

func (e *redactedError) Error() string { return e.msg }
func (e *redactedError) Unwrap() error { return e.cause }

func redact(err error, secret string) error {
	msg := err.Error()
	escaped := url.QueryEscape(secret)
	if !strings.Contains(msg, secret) && !strings.Contains(msg, escaped) {
		return err
	}
	msg = strings.ReplaceAll(msg, escaped, "REDACTED")
	msg = strings.ReplaceAll(msg, secret, "REDACTED")
	return &redactedError{msg: msg, cause: err}
}
