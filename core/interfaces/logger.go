package interfaces

// Logger defines the interface for logging throughout the application.
// Core code only ever talks to this interface; the concrete backend is
// chosen in cmd/api.
//
// Example usage:
//
//	logger.Warn("Search source failed", map[string]interface{}{
//		"source": "Thingiverse",
//		"error":  err.Error(),
//	})
type Logger interface {
	// Debug logs a debug level message with optional structured fields.
	Debug(msg string, fields map[string]interface{})

	// Info logs an info level message with optional structured fields.
	Info(msg string, fields map[string]interface{})

	// Warn logs a warning level message with optional structured fields.
	// Per-source search failures are reported at this level.
	Warn(msg string, fields map[string]interface{})

	// Error logs an error level message with optional structured fields.
	Error(msg string, fields map[string]interface{})
}

// NopLogger discards everything. It is used when no logger is injected.
type NopLogger struct{}

func (NopLogger) Debug(string, map[string]interface{}) {}
func (NopLogger) Info(string, map[string]interface{})  {}
func (NopLogger) Warn(string, map[string]interface{})  {}
func (NopLogger) Error(string, map[string]interface{}) {}
