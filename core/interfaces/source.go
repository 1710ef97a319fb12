// ABOUTME: Contracts for search sources and the per-source observability seam
// ABOUTME: Every upstream adapter implements SearchSource so the aggregator treats them alike

package interfaces

import (
	"context"
	"time"

	"modelsearch-api/core/domain"
)

// SearchSource is one upstream that can be searched for models.
// Search returns at most domain.MaxResultsPerSource records or an error;
// implementations never retry.
type SearchSource interface {
	Name() domain.Source
	Search(ctx context.Context, term string) ([]domain.SearchResult, error)
}

// SearchObserver receives the outcome of every source call made by the aggregator.
// err is nil on success, in which case count is the number of records kept.
type SearchObserver interface {
	ObserveSource(ctx context.Context, source domain.Source, duration time.Duration, count int, err error)
}
