package docstore

import (
	"context"
	"sync"
)

// Memory implements Collection with an insertion-ordered in-process
// map. It backs tests and small extraction runs that do not warrant a
// database.
type Memory struct {
	mu    sync.RWMutex
	docs  map[string]Document
	order []string
}

// NewMemory creates an empty in-memory collection.
func NewMemory() *Memory {
	return &Memory{docs: make(map[string]Document)}
}

// FindByIDs returns the documents whose ID is in ids, in insertion
// order.
func (m *Memory) FindByIDs(ctx context.Context, ids []string) ([]Document, error) {
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Document
	for _, id := range m.order {
		if _, ok := want[id]; ok {
			out = append(out, m.docs[id])
		}
	}
	return out, nil
}

// InsertMany stores docs, replacing any existing document with the
// same ID.
func (m *Memory) InsertMany(ctx context.Context, docs []Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, doc := range docs {
		if _, ok := m.docs[doc.ID]; !ok {
			m.order = append(m.order, doc.ID)
		}
		m.docs[doc.ID] = doc
	}
	return nil
}

// BulkSet merges each op's fields into the target document's data
// payload, creating the document if absent.
func (m *Memory) BulkSet(ctx context.Context, ops []SetOp) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, op := range ops {
		doc, ok := m.docs[op.ID]
		if !ok {
			doc = Document{ID: op.ID, Data: make(map[string]any)}
			m.order = append(m.order, op.ID)
		}
		if doc.Data == nil {
			doc.Data = make(map[string]any)
		}
		for k, v := range op.Fields {
			doc.Data[k] = v
		}
		m.docs[op.ID] = doc
	}
	return nil
}

// EnsureIndex is a no-op: the map is keyed by ID already.
func (m *Memory) EnsureIndex(ctx context.Context, field string) error {
	return nil
}

// Drop discards all documents.
func (m *Memory) Drop(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs = make(map[string]Document)
	m.order = nil
	return nil
}

// Len returns the number of stored documents.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.docs)
}

// Get returns the document with the given ID if present.
func (m *Memory) Get(id string) (Document, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, ok := m.docs[id]
	return doc, ok
}
