// Package storage persists extracted records. Two interchangeable
// backends exist: an in-memory list of compressed records and a
// document-store collection with chunked bulk inserts. Both support
// checkpointing: a binary snapshot per save point plus an append-only
// index file mapping each stored accession to its snapshot.
package storage

import "context"

// Record is the merged mapping of extracted field values for one
// entry. Absent fields are omitted, never stored as null.
type Record map[string]any

// Sink is the persistence strategy for extracted records.
type Sink interface {
	// Store persists one record under its accession code.
	Store(ctx context.Context, ac string, rec Record) error

	// Has reports whether a record with this accession is already
	// persisted.
	Has(ctx context.Context, ac string) (bool, error)

	// Flush forces any buffered records out to the backing store.
	Flush(ctx context.Context) error

	// Clear drops all persisted data.
	Clear(ctx context.Context) error

	// Checkpoint flushes, writes a snapshot, and appends one index
	// line per accession stored since the previous checkpoint. When
	// clean is set, in-memory accumulation is reset afterwards.
	// Returns the snapshot path, or "" when checkpointing is not
	// configured.
	Checkpoint(ctx context.Context, clean bool) (string, error)
}
