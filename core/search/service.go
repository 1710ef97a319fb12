// ABOUTME: Search service fans a term out to every model source and merges the answers
// ABOUTME: Source failures are isolated; the combined list is validated, capped and shuffled

package search

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"golang.org/x/sync/errgroup"

	"modelsearch-api/core/domain"
	apperrors "modelsearch-api/core/errors"
	"modelsearch-api/core/interfaces"
)

// Option configures a SearchService
type Option func(*SearchService)

// WithObserver registers a per-source outcome observer (metrics)
func WithObserver(observer interfaces.SearchObserver) Option {
	return func(s *SearchService) {
		s.observer = observer
	}
}

// WithShuffle replaces the permutation applied to the merged list
func WithShuffle(shuffle func(n int, swap func(i, j int))) Option {
	return func(s *SearchService) {
		if shuffle != nil {
			s.shuffle = shuffle
		}
	}
}

// SearchService aggregates results across sources
type SearchService struct {
	deps     interfaces.Dependencies
	sources  []interfaces.SearchSource
	observer interfaces.SearchObserver
	shuffle  func(n int, swap func(i, j int))
}

// outcome is the settled result of one source call. Each goroutine owns exactly one.
type outcome struct {
	results  []domain.SearchResult
	err      error
	duration time.Duration
}

// NewSearchService creates a new search service over the given sources
func NewSearchService(deps interfaces.Dependencies, sources []interfaces.SearchSource, opts ...Option) *SearchService {
	s := &SearchService{
		deps:    deps,
		sources: sources,
		shuffle: rand.Shuffle,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sources returns the names of the registered sources in fan-out order
func (s *SearchService) Sources() []domain.Source {
	names := make([]domain.Source, 0, len(s.sources))
	for _, src := range s.sources {
		names = append(names, src.Name())
	}
	return names
}

// validateTerm rejects a missing search term. Whitespace is a term like any other.
func (s *SearchService) validateTerm(term string) error {
	if term == "" {
		return &apperrors.ValidationError{Field: "q", Message: "search term (q) is missing"}
	}
	return nil
}

// Search queries every source concurrently and returns the merged, shuffled results.
// Per-source failures are logged and skipped. The returned slice is never nil.
func (s *SearchService) Search(ctx context.Context, term string) ([]domain.SearchResult, error) {
	if err := s.validateTerm(term); err != nil {
		return nil, err
	}

	outcomes := make([]outcome, len(s.sources))

	var g errgroup.Group
	for i, src := range s.sources {
		i, src := i, src
		g.Go(func() error {
			outcomes[i] = s.run(ctx, src, term)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("search aborted: %w", err)
	}

	merged := make([]domain.SearchResult, 0, len(s.sources)*domain.MaxResultsPerSource)
	for i, src := range s.sources {
		kept := s.settle(ctx, src.Name(), outcomes[i])
		merged = append(merged, kept...)
	}

	s.shuffle(len(merged), func(i, j int) {
		merged[i], merged[j] = merged[j], merged[i]
	})

	s.deps.Log().Info("Search completed", map[string]interface{}{
		"term":    term,
		"results": len(merged),
	})

	return merged, nil
}

// run calls one source, converting a panic into that source's failure
func (s *SearchService) run(ctx context.Context, src interfaces.SearchSource, term string) (out outcome) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			out = outcome{err: fmt.Errorf("source %s panicked: %v", src.Name(), r)}
		}
		out.duration = time.Since(start)
	}()

	results, err := src.Search(ctx, term)
	return outcome{results: results, err: err}
}

// settle applies the record rule to a successful outcome and reports it
func (s *SearchService) settle(ctx context.Context, name domain.Source, out outcome) []domain.SearchResult {
	if out.err != nil {
		s.deps.Log().Warn("Search source failed", map[string]interface{}{
			"source":      string(name),
			"error":       out.err.Error(),
			"error_kind":  apperrors.Kind(out.err),
			"duration_ms": out.duration.Milliseconds(),
		})
		s.observe(ctx, name, out.duration, 0, out.err)
		return nil
	}

	kept := make([]domain.SearchResult, 0, min(len(out.results), domain.MaxResultsPerSource))
	dropped := 0
	for _, r := range out.results {
		if !r.IsComplete() {
			dropped++
			continue
		}
		if len(kept) == domain.MaxResultsPerSource {
			break
		}
		r.Source = name
		kept = append(kept, r)
	}

	s.deps.Log().Debug("Search source settled", map[string]interface{}{
		"source":      string(name),
		"results":     len(kept),
		"dropped":     dropped,
		"duration_ms": out.duration.Milliseconds(),
	})
	s.observe(ctx, name, out.duration, len(kept), nil)

	return kept
}

func (s *SearchService) observe(ctx context.Context, name domain.Source, d time.Duration, count int, err error) {
	if s.observer != nil {
		s.observer.ObserveSource(ctx, name, d, count, err)
	}
}
