package logging

import "context"

// LogEntry represents a structured log record with fields particularly
// relevant to evolutionary runs
type LogEntry struct {
	// Standard fields
	Time     int64
	Severity Severity
	Message  string
	File     string
	Line     int
	Function string

	// Run-specific fields
	RunID      string // Identifier of the evolutionary run
	Generation int    // Current generation, -1 outside the generational loop

	// General structured data
	Fields map[string]interface{}
}

type contextKey int

const (
	runIDKey contextKey = iota
	generationKey
)

// WithRunID tags the context with a run identifier picked up by every log
// entry written under it.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// GetRunID returns the run identifier stored in the context, if any.
func GetRunID(ctx context.Context) (string, bool) {
	runID, ok := ctx.Value(runIDKey).(string)
	return runID, ok
}

// WithGeneration tags the context with the current generation number.
func WithGeneration(ctx context.Context, generation int) context.Context {
	return context.WithValue(ctx, generationKey, generation)
}

// GetGeneration returns the generation number stored in the context, if any.
func GetGeneration(ctx context.Context) (int, bool) {
	generation, ok := ctx.Value(generationKey).(int)
	return generation, ok
}
