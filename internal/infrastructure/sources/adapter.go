// Package sources defines the inbound catalog feeds for the sync pipeline.
// An adapter hides where records come from; the pipeline only sees raw
// GradeRecord batches tagged with their source.
package sources

import (
	"context"

	"steeldex/internal/domain/grade"
)

// Adapter produces one batch of raw records per sync run.
type Adapter interface {
	// Tag identifies the source in reports and metrics.
	Tag() string

	// Fetch returns the full record batch.  Composition cells stay raw;
	// parsing and validation happen downstream.
	Fetch(ctx context.Context) ([]grade.GradeRecord, error)
}
