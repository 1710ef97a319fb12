// ABOUTME: Dependencies container provides dependency injection for core services
// ABOUTME: Defines the contract for dependencies required by the source adapters

package interfaces

// Dependencies holds all external dependencies required by the core business logic
type Dependencies struct {
	// HTTPClient provides HTTP request functionality
	HTTPClient HTTPClient

	// Logger provides structured logging
	Logger Logger
}

// Log returns the configured logger or a no-op logger when none was injected
func (d Dependencies) Log() Logger {
	if d.Logger == nil {
		return NopLogger{}
	}
	return d.Logger
}
