package job

import (
	"context"
	"time"
)

type runIDKey struct{}

// ContextWithRunID attaches a run id so collaborators can tag their logs.
func ContextWithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey{}, runID)
}

// RunIDFromContext returns the run id set by ContextWithRunID, if any.
func RunIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(runIDKey{}).(string)
	return id, ok && id != ""
}

// NewRunID formats t as a sortable run identifier.
func NewRunID(t time.Time) string {
	return t.Format("20060102-150405.000")
}
