// Package dbuilder extracts per-cluster annotations from bulk UniRef
// release dumps into a queryable store.
//
// Example usage:
//
//	cfg := dbuilder.Config{SaveTo: "checkpoints/uniref50"}
//	ext, err := dbuilder.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	ext.Register(uniref.MemberEntriesExtractor{})
//	res, err := ext.Extract(ctx, "uniref50.xml.gz")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.Stored, res.State)
package dbuilder

import (
	"github.com/ProteinUniverseAtlas/dbuilder/pkg/dbuilder"
)

// Config holds the pipeline configuration. The zero value is usable
// for in-memory runs; New fills in defaults.
type Config = dbuilder.Config

// Result summarizes a finished run.
type Result = dbuilder.Result

// State is the pipeline lifecycle state.
type State = dbuilder.State

// Option customizes a pipeline built with New.
type Option = dbuilder.Option

// Extractor is the extraction pipeline. Build one with New, register
// field extractors, then call Extract.
type Extractor = dbuilder.Extractor

const (
	StateIdle           = dbuilder.StateIdle
	StateRunning        = dbuilder.StateRunning
	StateComplete       = dbuilder.StateComplete
	StateStoppedByLimit = dbuilder.StateStoppedByLimit
)

// New builds an extraction pipeline for cfg.
func New(cfg Config, opts ...Option) (*Extractor, error) {
	return dbuilder.New(cfg, opts...)
}

// WithLogger sets the logger used by the pipeline.
var WithLogger = dbuilder.WithLogger

// WithSink replaces the default in-memory sink.
var WithSink = dbuilder.WithSink

// WithCollections provides the UniProt, UniParc and AlphaFold
// collections consulted during enrichment.
var WithCollections = dbuilder.WithCollections
