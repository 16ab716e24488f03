package storage

import (
	"context"
	"fmt"

	"github.com/ProteinUniverseAtlas/dbuilder/pkg/docstore"
)

// DefaultChunkSize bounds how many records accumulate before a bulk
// insert.
const DefaultChunkSize = 1000

// CollectionSink persists records into a document-store collection.
// Records accumulate into a chunk; once the chunk reaches the
// configured size it is bulk-inserted as one write and cleared.
type CollectionSink struct {
	col       docstore.Collection
	base      string
	chunkSize int

	batch   []docstore.Document
	pending []string
	chunks  int
	saves   int
}

// collectionSnapshot is the gob-encoded checkpoint payload: the flush
// counter plus the accessions covered by this save point.
type collectionSnapshot struct {
	Chunks int
	ACs    []string
}

// NewCollectionSink creates a sink over col. base is the checkpoint
// base name (empty disables checkpointing); chunkSize falls back to
// DefaultChunkSize when not positive.
func NewCollectionSink(col docstore.Collection, chunkSize int, base string) *CollectionSink {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &CollectionSink{col: col, base: base, chunkSize: chunkSize}
}

// Store appends the record to the current chunk, flushing when the
// chunk is full.
func (s *CollectionSink) Store(ctx context.Context, ac string, rec Record) error {
	s.batch = append(s.batch, docstore.Document{ID: ac, Data: rec})
	s.pending = append(s.pending, ac)
	if len(s.batch) >= s.chunkSize {
		return s.Flush(ctx)
	}
	return nil
}

// Has queries the collection for ac. Records still sitting in the
// unflushed chunk are checked first.
func (s *CollectionSink) Has(ctx context.Context, ac string) (bool, error) {
	for _, doc := range s.batch {
		if doc.ID == ac {
			return true, nil
		}
	}
	docs, err := s.col.FindByIDs(ctx, []string{ac})
	if err != nil {
		return false, err
	}
	return len(docs) > 0, nil
}

// Flush bulk-inserts the current chunk as one write and clears it.
func (s *CollectionSink) Flush(ctx context.Context) error {
	if len(s.batch) == 0 {
		return nil
	}
	if err := s.col.InsertMany(ctx, s.batch); err != nil {
		return fmt.Errorf("bulk insert %d records: %w", len(s.batch), err)
	}
	s.batch = nil
	s.chunks++
	return nil
}

// Clear drops the backing collection and discards buffered records.
func (s *CollectionSink) Clear(ctx context.Context) error {
	if err := s.col.Drop(ctx); err != nil {
		return err
	}
	s.batch = nil
	s.pending = nil
	return nil
}

// Checkpoint flushes the chunk, snapshots the sink position, and
// appends index lines for every accession stored since the previous
// checkpoint.
func (s *CollectionSink) Checkpoint(ctx context.Context, clean bool) (string, error) {
	if err := s.Flush(ctx); err != nil {
		return "", err
	}
	if s.base == "" {
		return "", nil
	}
	s.saves++
	path := snapshotPath(s.base, s.saves)
	if err := writeSnapshot(path, collectionSnapshot{Chunks: s.chunks, ACs: s.pending}); err != nil {
		return "", fmt.Errorf("checkpoint %s: %w", path, err)
	}
	if err := appendIndex(s.base, path, s.pending); err != nil {
		return "", fmt.Errorf("checkpoint index: %w", err)
	}
	s.pending = nil
	return path, nil
}

// Chunks returns how many bulk inserts have completed.
func (s *CollectionSink) Chunks() int {
	return s.chunks
}
