package search

import (
	"context"
	"sync"
	"time"

	"modelsearch-api/core/domain"
)

// mockSource is a mock implementation of the SearchSource interface
type mockSource struct {
	name       domain.Source
	searchFunc func(ctx context.Context, term string) ([]domain.SearchResult, error)
}

func (m *mockSource) Name() domain.Source {
	return m.name
}

func (m *mockSource) Search(ctx context.Context, term string) ([]domain.SearchResult, error) {
	if m.searchFunc != nil {
		return m.searchFunc(ctx, term)
	}
	return nil, nil
}

// mockLogger records log calls by level
type mockLogger struct {
	mu       sync.Mutex
	warnings []map[string]interface{}
}

func (m *mockLogger) Debug(msg string, fields map[string]interface{}) {}
func (m *mockLogger) Info(msg string, fields map[string]interface{})  {}
func (m *mockLogger) Error(msg string, fields map[string]interface{}) {}

func (m *mockLogger) Warn(msg string, fields map[string]interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.warnings = append(m.warnings, fields)
}

// observation is one call received by mockObserver
type observation struct {
	source domain.Source
	count  int
	err    error
}

// mockObserver records every source outcome
type mockObserver struct {
	mu   sync.Mutex
	seen []observation
}

func (m *mockObserver) ObserveSource(ctx context.Context, source domain.Source, duration time.Duration, count int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seen = append(m.seen, observation{source: source, count: count, err: err})
}
