// Package docstore defines the document-store collaborator contract
// used by the extraction pipeline, with a MongoDB adapter and an
// in-memory adapter.
package docstore

import "context"

// Document is one stored record: a primary identifier plus the data
// payload extracted for it.
type Document struct {
	ID   string         `bson:"_id" json:"_id"`
	Data map[string]any `bson:"data" json:"data"`
}

// SetOp describes one upsert operation: the named fields are set
// inside the data payload of the document with the given ID, creating
// the document if it does not exist.
type SetOp struct {
	ID     string
	Fields map[string]any
}

// Collection is the contract a storage collaborator must satisfy:
// containment queries by key, bulk insert, bulk upsert, index
// creation, and drop.
type Collection interface {
	// FindByIDs returns the documents whose ID is contained in ids,
	// in the collection's iteration order.
	FindByIDs(ctx context.Context, ids []string) ([]Document, error)

	// InsertMany inserts docs as one bulk write.
	InsertMany(ctx context.Context, docs []Document) error

	// BulkSet applies ops as one bulk upsert write.
	BulkSet(ctx context.Context, ops []SetOp) error

	// EnsureIndex creates an index on the named data field if one does
	// not already exist.
	EnsureIndex(ctx context.Context, field string) error

	// Drop removes the collection and all its documents.
	Drop(ctx context.Context) error
}
