package vehicle

import "context"

// Store is the process-lifetime keyed storage of enrichment sets.
//
// Implementations do not coordinate concurrent read-modify-write sequences;
// callers that accrete fields must serialize per key themselves.
type Store interface {
	// Get returns the enrichment set stored for fin. The boolean is false
	// when fin has never been initialized.
	Get(ctx context.Context, fin int64) (Enrichments, bool, error)

	// Put replaces the whole enrichment set stored for fin.
	Put(ctx context.Context, fin int64, enrichments Enrichments) error

	// Ensure creates an empty entry for fin if none exists.
	Ensure(ctx context.Context, fin int64) error

	// Len returns the number of initialized keys.
	Len(ctx context.Context) (int, error)
}
