package dbuilder

import "fmt"

// Default cadences, tuned for multi-gigabyte release dumps.
const (
	DefaultPrintStep = 100000
	DefaultSaveStep  = 100000
	DefaultChunkSize = 1000
)

// Config controls one extraction run.
type Config struct {
	// CollectionName tags side-channel updates written into the
	// member collections, e.g. "UniRef50".
	CollectionName string

	// ChunkSize is the bulk-insert batch size of the collection sink.
	ChunkSize int

	// PrintStep emits a progress signal every N scanned entries.
	PrintStep int

	// SaveStep triggers a checkpoint every N scanned entries.
	SaveStep int

	// SaveTo is the checkpoint base name. Empty disables
	// checkpointing.
	SaveTo string

	// MaxSize caps the number of stored records. Zero means no cap.
	MaxSize int

	// Targets restricts extraction to these accession codes; a target
	// also matches entries listing it as a cluster member. Nil
	// extracts everything.
	Targets []string

	// AddIfEmpty stores records even when no extractor produced a
	// value.
	AddIfEmpty bool

	// Clear drops previously stored data before the run.
	Clear bool

	// UpdateMembers enables the side-channel darkness-tag upserts
	// into the member collections.
	UpdateMembers bool
}

// SetDefaults fills zero-valued cadence fields.
func (c *Config) SetDefaults() {
	if c.ChunkSize == 0 {
		c.ChunkSize = DefaultChunkSize
	}
	if c.PrintStep == 0 {
		c.PrintStep = DefaultPrintStep
	}
	if c.SaveStep == 0 {
		c.SaveStep = DefaultSaveStep
	}
	if c.CollectionName == "" {
		c.CollectionName = "UniRef50"
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.ChunkSize < 0 {
		return fmt.Errorf("chunk size must not be negative")
	}
	if c.PrintStep < 0 || c.SaveStep < 0 {
		return fmt.Errorf("print step and save step must not be negative")
	}
	if c.MaxSize < 0 {
		return fmt.Errorf("max size must not be negative")
	}
	return nil
}
