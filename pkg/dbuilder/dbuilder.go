// Package dbuilder drives the extraction pipeline: it segments UniRef
// dumps into entries, applies the registered field extractors to each,
// enriches the merged record with darkness annotations, and persists
// records in batches with periodic checkpoints.
package dbuilder

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/ProteinUniverseAtlas/dbuilder/pkg/darkness"
	"github.com/ProteinUniverseAtlas/dbuilder/pkg/docstore"
	"github.com/ProteinUniverseAtlas/dbuilder/pkg/log"
	"github.com/ProteinUniverseAtlas/dbuilder/pkg/storage"
	"github.com/ProteinUniverseAtlas/dbuilder/pkg/uniref"
)

// Extractor orchestrates one extraction pipeline. It is not safe for
// concurrent use; the loop is deliberately single-threaded and every
// storage or enrichment call happens inline.
type Extractor struct {
	cfg    Config
	logger log.Logger
	sink   storage.Sink
	tun    *Tunables

	ac       uniref.ACExtractor
	members  uniref.MemberEntriesExtractor
	registry []uniref.Extractor
	darkness *darkness.Extractor

	uniprot   docstore.Collection
	uniparc   docstore.Collection
	alphafold docstore.Collection

	state State
}

// Result summarizes an extraction run.
type Result struct {
	// Scanned is the number of entries seen.
	Scanned int

	// Stored is the number of records persisted.
	Stored int

	// State is the terminal run state; StateComplete and
	// StateStoppedByLimit are both success states.
	State State
}

// New creates an Extractor. Field extractors are added with Register;
// without any, every record is empty and only stored under AddIfEmpty.
func New(cfg Config, opts ...Option) (*Extractor, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.sink == nil {
		o.sink = storage.NewMemorySink(cfg.SaveTo)
	}

	return &Extractor{
		cfg:       cfg,
		logger:    o.logger,
		sink:      o.sink,
		tun:       newTunables(cfg),
		darkness:  darkness.NewExtractor(),
		uniprot:   o.uniprot,
		uniparc:   o.uniparc,
		alphafold: o.alphafold,
		state:     StateIdle,
	}, nil
}

// Register adds a field extractor. All registered extractors run on
// every entry, in registration order.
func (e *Extractor) Register(x uniref.Extractor) {
	e.registry = append(e.registry, x)
}

// State returns the current run state.
func (e *Extractor) State() State {
	return e.state
}

// Sink returns the storage backend in use.
func (e *Extractor) Sink() storage.Sink {
	return e.sink
}

// Tunables returns the run-time adjustable cadences.
func (e *Extractor) Tunables() *Tunables {
	return e.tun
}

// Extract processes every entry in the given input files. It returns
// when the input is exhausted, the stored-record cap is reached, or
// all targets are satisfied. Storage and checkpoint failures
// propagate; enrichment failures are discarded per entry.
func (e *Extractor) Extract(ctx context.Context, inputs ...string) (Result, error) {
	if e.cfg.Clear {
		if err := e.sink.Clear(ctx); err != nil {
			return Result{State: e.state}, fmt.Errorf("clear sink: %w", err)
		}
	}

	reader, err := uniref.NewEntryReader(inputs...)
	if err != nil {
		return Result{State: e.state}, err
	}
	defer reader.Close()

	e.state = StateRunning
	res := Result{}
	targets := newTargetSet(e.cfg.Targets)

	for {
		entry, err := reader.Next(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			res.State = e.state
			return res, err
		}
		res.Scanned++

		stop, err := e.processEntry(ctx, entry, targets, &res)
		if err != nil {
			res.State = e.state
			return res, err
		}

		if step := e.tun.PrintStep(); step > 0 && res.Scanned%step == 0 {
			e.logProgress(res, targets)
		}
		if stop {
			e.state = StateStoppedByLimit
			break
		}
		if step := e.tun.SaveStep(); e.cfg.SaveTo != "" && step > 0 && res.Scanned%step == 0 {
			if _, err := e.sink.Checkpoint(ctx, false); err != nil {
				res.State = e.state
				return res, err
			}
		}
	}

	if e.state != StateStoppedByLimit {
		e.state = StateComplete
	}

	if err := e.sink.Flush(ctx); err != nil {
		res.State = e.state
		return res, err
	}
	// Final save clears accumulated data so repeated runs do not
	// duplicate it.
	if e.cfg.SaveTo != "" {
		if _, err := e.sink.Checkpoint(ctx, true); err != nil {
			res.State = e.state
			return res, err
		}
	}

	e.logProgress(res, targets)
	res.State = e.state
	return res, nil
}

// processEntry runs the extractor set over one entry and stores the
// merged record. It reports whether a stop condition was reached.
func (e *Extractor) processEntry(ctx context.Context, entry []string, targets *targetSet, res *Result) (bool, error) {
	acVal, ok := e.ac.Extract(entry)
	if !ok {
		return false, nil
	}
	ac := acVal.(string)

	// Resumed runs skip clusters persisted by an earlier pass.
	exists, err := e.sink.Has(ctx, ac)
	if err != nil {
		return false, fmt.Errorf("lookup %s: %w", ac, err)
	}
	if exists {
		return false, nil
	}

	var members []string
	if v, ok := e.members.Extract(entry); ok {
		members = v.([]string)
	}

	var hits []string
	if targets != nil {
		hits = targets.match(ac, members)
		if len(hits) == 0 {
			return false, nil
		}
	}

	rec := storage.Record{}
	for _, x := range e.registry {
		if v, ok := x.Extract(entry); ok {
			rec[x.ID()] = v
		}
	}
	if len(rec) == 0 && !e.cfg.AddIfEmpty {
		return false, nil
	}

	if e.uniprot != nil && e.uniparc != nil && len(members) > 0 {
		sum, derr := e.darkness.Extract(ctx, members, e.uniprot, e.uniparc, e.alphafold)
		if derr != nil {
			// Best-effort enrichment: omit the fields, keep the entry.
			e.logger.Debug("enrichment skipped",
				log.Str("ac", ac), log.Err(derr))
		} else {
			rec[e.darkness.ID()] = sum
			if e.cfg.UpdateMembers {
				if uerr := e.updateMemberCollections(ctx, ac, members, sum); uerr != nil {
					e.logger.Warn("member collection update failed",
						log.Str("ac", ac), log.Err(uerr))
				}
			}
		}
	}

	if err := e.sink.Store(ctx, ac, rec); err != nil {
		return false, fmt.Errorf("store %s: %w", ac, err)
	}
	res.Stored++
	if targets != nil {
		targets.markDone(hits)
	}

	if e.cfg.MaxSize > 0 && res.Stored >= e.cfg.MaxSize {
		return true, nil
	}
	if targets != nil && targets.done() {
		return true, nil
	}
	return false, nil
}
