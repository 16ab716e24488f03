package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/klauspost/compress/gzip"
)

// MemorySink keeps records in process memory. Each record is
// JSON-serialized, gzip-compressed and appended to an ordered list;
// its accession code is appended to a parallel list of equal length.
type MemorySink struct {
	base string

	data [][]byte
	acs  []string

	known   map[string]struct{}
	pending []string
	saves   int
}

// memorySnapshot is the gob-encoded checkpoint payload.
type memorySnapshot struct {
	ACs  []string
	Data [][]byte
}

// NewMemorySink creates an in-memory sink. base is the checkpoint base
// name; leave it empty to disable checkpointing.
func NewMemorySink(base string) *MemorySink {
	return &MemorySink{base: base, known: make(map[string]struct{})}
}

// LoadMemorySnapshot restores a MemorySink from a snapshot written by
// Checkpoint. The restored sink keeps checkpointing under base.
func LoadMemorySnapshot(path, base string) (*MemorySink, error) {
	var snap memorySnapshot
	if err := readSnapshot(path, &snap); err != nil {
		return nil, fmt.Errorf("load snapshot %s: %w", path, err)
	}
	if len(snap.ACs) != len(snap.Data) {
		return nil, fmt.Errorf("snapshot %s: %d accessions vs %d records", path, len(snap.ACs), len(snap.Data))
	}
	s := NewMemorySink(base)
	s.acs = snap.ACs
	s.data = snap.Data
	for _, ac := range snap.ACs {
		s.known[ac] = struct{}{}
	}
	return s, nil
}

// Store compresses and appends the record, keeping the data and
// accession lists the same length.
func (s *MemorySink) Store(ctx context.Context, ac string, rec Record) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record %s: %w", ac, err)
	}
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(raw); err != nil {
		return err
	}
	if err := zw.Close(); err != nil {
		return err
	}

	s.data = append(s.data, buf.Bytes())
	s.acs = append(s.acs, ac)
	s.known[ac] = struct{}{}
	s.pending = append(s.pending, ac)
	return nil
}

// Has reports whether ac was stored at any point since the last Clear,
// including records already written out by a cleaning checkpoint.
func (s *MemorySink) Has(ctx context.Context, ac string) (bool, error) {
	_, ok := s.known[ac]
	return ok, nil
}

// Flush is a no-op: records live in memory already.
func (s *MemorySink) Flush(ctx context.Context) error {
	return nil
}

// Clear resets the sink to empty.
func (s *MemorySink) Clear(ctx context.Context) error {
	s.data = nil
	s.acs = nil
	s.pending = nil
	s.known = make(map[string]struct{})
	return nil
}

// Checkpoint snapshots the current lists and appends index lines for
// every accession stored since the previous checkpoint. When clean is
// set, the lists are reset so a follow-up run does not duplicate them;
// the accession set used by Has is retained.
func (s *MemorySink) Checkpoint(ctx context.Context, clean bool) (string, error) {
	if s.base == "" {
		return "", nil
	}
	s.saves++
	path := snapshotPath(s.base, s.saves)
	if err := writeSnapshot(path, memorySnapshot{ACs: s.acs, Data: s.data}); err != nil {
		return "", fmt.Errorf("checkpoint %s: %w", path, err)
	}
	if err := appendIndex(s.base, path, s.pending); err != nil {
		return "", fmt.Errorf("checkpoint index: %w", err)
	}
	s.pending = nil
	if clean {
		s.data = nil
		s.acs = nil
	}
	return path, nil
}

// Len returns the number of records currently held in memory.
func (s *MemorySink) Len() int {
	return len(s.data)
}

// ACs returns the accession list parallel to the record list.
func (s *MemorySink) ACs() []string {
	return s.acs
}

// RecordAt decompresses and decodes the i-th stored record.
func (s *MemorySink) RecordAt(i int) (Record, error) {
	zr, err := gzip.NewReader(bytes.NewReader(s.data[i]))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	var rec Record
	if err := json.NewDecoder(zr).Decode(&rec); err != nil {
		return nil, err
	}
	return rec, nil
}
