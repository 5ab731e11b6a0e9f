// Package subscription defines the collaborator interface over the commerce
// platform's subscription collection and the report's query filter.
package subscription

import (
	"context"
	"iter"

	"github.com/entrecon/entrecon/internal/structured"
)

// Queryable is a filtered view of the subscription collection. Execution and
// pagination belong to the implementation; iteration order is
// collection-defined and stable within a run.
type Queryable interface {
	// Count returns the number of records matching the filter.
	Count(ctx context.Context) (int, error)

	// Records lazily yields matching subscription records. A non-nil error
	// terminates the sequence.
	Records(ctx context.Context) iter.Seq2[structured.Value, error]
}

// Repository exposes the subscription collection to the report pipeline.
type Repository interface {
	// Find returns a queryable view restricted by the filter.
	Find(ctx context.Context, filter *Filter) Queryable
}
