package dbuilder

import (
	"github.com/ProteinUniverseAtlas/dbuilder/pkg/docstore"
	"github.com/ProteinUniverseAtlas/dbuilder/pkg/log"
	"github.com/ProteinUniverseAtlas/dbuilder/pkg/storage"
)

// Option configures optional behavior of an Extractor.
type Option func(*options)

// options holds the optional configuration for an Extractor instance.
type options struct {
	logger    log.Logger
	sink      storage.Sink
	uniprot   docstore.Collection
	uniparc   docstore.Collection
	alphafold docstore.Collection
}

func defaultOptions() options {
	return options{logger: log.NewNoopLogger()}
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithSink sets the storage backend. Defaults to an in-memory sink
// checkpointing under Config.SaveTo.
func WithSink(sink storage.Sink) Option {
	return func(o *options) {
		o.sink = sink
	}
}

// WithCollections wires the external collections used for darkness
// enrichment and side-channel member updates. Any handle may be nil;
// enrichment runs when at least UniProt and UniParc are present.
func WithCollections(uniprot, uniparc, alphafold docstore.Collection) Option {
	return func(o *options) {
		o.uniprot = uniprot
		o.uniparc = uniparc
		o.alphafold = alphafold
	}
}
