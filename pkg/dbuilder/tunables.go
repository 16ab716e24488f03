package dbuilder

import "sync/atomic"

// Tunables are run-time adjustable cadences. A config watcher may
// update them from another goroutine while an extraction is in
// progress; the loop reads them freshly on every entry.
type Tunables struct {
	printStep atomic.Int64
	saveStep  atomic.Int64
}

func newTunables(cfg Config) *Tunables {
	t := &Tunables{}
	t.SetPrintStep(cfg.PrintStep)
	t.SetSaveStep(cfg.SaveStep)
	return t
}

// PrintStep returns the current progress-signal cadence.
func (t *Tunables) PrintStep() int {
	return int(t.printStep.Load())
}

// SetPrintStep updates the progress-signal cadence. Non-positive
// values are ignored.
func (t *Tunables) SetPrintStep(n int) {
	if n > 0 {
		t.printStep.Store(int64(n))
	}
}

// SaveStep returns the current checkpoint cadence.
func (t *Tunables) SaveStep() int {
	return int(t.saveStep.Load())
}

// SetSaveStep updates the checkpoint cadence. Non-positive values are
// ignored.
func (t *Tunables) SetSaveStep(n int) {
	if n > 0 {
		t.saveStep.Store(int64(n))
	}
}
