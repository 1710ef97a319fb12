// ABOUTME: Printables source adapter querying the public GraphQL catalog
// ABOUTME: Maps ModelSearch hits into normalized search results

package printables

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"

	"modelsearch-api/core/domain"
	apperrors "modelsearch-api/core/errors"
	"modelsearch-api/core/interfaces"
)

const (
	// DefaultEndpoint is the public GraphQL endpoint
	DefaultEndpoint = "https://api.printables.com/graphql"

	// DefaultModelBaseURL is the site model pages live under
	DefaultModelBaseURL = "https://www.printables.com"

	// PreviewImageSize is the pixel size requested for preview images
	PreviewImageSize = 256
)

const fileSearchQuery = `
query FileSearch($query: String!) {
  search(input: { term: $query, scope: MODEL, limit: 15 }) {
    ... on ModelSearch {
      total
      hits {
        ... on ModelHit {
          score
          object {
            id
            name
            primaryImage { url }
            user { name }
            slug
          }
        }
      }
    }
  }
}`

var trailingSizeSegment = regexp.MustCompile(`/\d+$`)

// Config holds the endpoints used by the adapter
type Config struct {
	Endpoint     string
	ModelBaseURL string
}

// Source searches Printables
type Source struct {
	deps     interfaces.Dependencies
	config   Config
	document string
}

type graphqlRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

// New creates a Printables source. The query document is parsed up front so a
// broken document fails at startup rather than on every request.
func New(deps interfaces.Dependencies, cfg Config) (*Source, error) {
	return newSource(deps, cfg, fileSearchQuery)
}

func newSource(deps interfaces.Dependencies, cfg Config, document string) (*Source, error) {
	doc, err := parser.ParseQuery(&ast.Source{Name: "FileSearch", Input: document})
	if err != nil {
		return nil, fmt.Errorf("invalid printables query document: %w", err)
	}
	if len(doc.Operations) != 1 {
		return nil, fmt.Errorf("printables query document must hold exactly one operation, got %d", len(doc.Operations))
	}

	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.ModelBaseURL == "" {
		cfg.ModelBaseURL = DefaultModelBaseURL
	}
	cfg.ModelBaseURL = strings.TrimRight(cfg.ModelBaseURL, "/")

	return &Source{
		deps:     deps,
		config:   cfg,
		document: document,
	}, nil
}

// Name returns the source label
func (s *Source) Name() domain.Source {
	return domain.SourcePrintables
}

// Search runs the FileSearch query for term
func (s *Source) Search(ctx context.Context, term string) ([]domain.SearchResult, error) {
	if s.deps.HTTPClient == nil {
		return nil, &apperrors.ConfigurationError{Key: "http_client", Message: "HTTP client not configured"}
	}

	payload, err := json.Marshal(graphqlRequest{
		Query:     s.document,
		Variables: map[string]interface{}{"query": term},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode printables request: %w", err)
	}

	resp, err := s.deps.HTTPClient.Post(ctx, s.config.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("printables request failed: %w", err)
	}
	defer resp.Body().Close()

	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return nil, &apperrors.ExternalAPIError{
			StatusCode: resp.StatusCode(),
			Message:    http.StatusText(resp.StatusCode()),
			API:        string(domain.SourcePrintables),
		}
	}

	body, err := io.ReadAll(resp.Body())
	if err != nil {
		return nil, fmt.Errorf("failed to read printables response: %w", err)
	}

	return s.parse(body, resp.StatusCode())
}

func (s *Source) parse(body []byte, status int) ([]domain.SearchResult, error) {
	api := string(domain.SourcePrintables)

	if !gjson.ValidBytes(body) {
		return nil, &apperrors.UnexpectedResponseError{API: api, Message: "response is not valid JSON"}
	}

	hits := gjson.GetBytes(body, "data.search.hits")
	if gqlErrors := gjson.GetBytes(body, "errors"); !hits.IsArray() && len(gqlErrors.Array()) > 0 {
		return nil, &apperrors.ExternalAPIError{
			StatusCode: status,
			Message:    gqlErrors.Get("0.message").String(),
			API:        api,
		}
	}
	if !hits.IsArray() {
		return nil, &apperrors.UnexpectedResponseError{API: api, Message: "data.search.hits is missing"}
	}

	results := make([]domain.SearchResult, 0, domain.MaxResultsPerSource)
	for i, hit := range hits.Array() {
		object := hit.Get("object")
		if !object.IsObject() {
			return nil, &apperrors.UnexpectedResponseError{API: api, Message: fmt.Sprintf("hit %d has no object", i)}
		}
		image := object.Get("primaryImage")
		if !image.IsObject() {
			return nil, &apperrors.UnexpectedResponseError{API: api, Message: fmt.Sprintf("hit %d has no primaryImage", i)}
		}
		user := object.Get("user")
		if !user.IsObject() {
			return nil, &apperrors.UnexpectedResponseError{API: api, Message: fmt.Sprintf("hit %d has no user", i)}
		}

		if len(results) == domain.MaxResultsPerSource {
			continue
		}
		results = append(results, domain.SearchResult{
			Title:    object.Get("name").String(),
			URL:      fmt.Sprintf("%s/model/%s-%s", s.config.ModelBaseURL, object.Get("id").String(), object.Get("slug").String()),
			ImageURL: RewriteImageSize(image.Get("url").String()),
			Source:   domain.SourcePrintables,
			Author:   user.Get("name").String(),
		})
	}

	return results, nil
}

// RewriteImageSize replaces a trailing numeric path segment with the preview
// size, e.g. ".../abc/1024" becomes ".../abc/256". Other URLs are returned as is.
func RewriteImageSize(imageURL string) string {
	return trailingSizeSegment.ReplaceAllString(imageURL, fmt.Sprintf("/%d", PreviewImageSize))
}
