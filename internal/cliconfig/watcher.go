package cliconfig

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ProteinUniverseAtlas/dbuilder/pkg/log"
)

const defaultDebounce = 100 * time.Millisecond

// Watcher monitors the config file and re-applies run-time tunables
// (print step, save step, log level) while an extraction is running.
// Non-tunable fields are ignored until the next start.
type Watcher struct {
	path   string
	apply  func(FileConfig)
	logger log.Logger

	mu       sync.Mutex
	debounce *time.Timer
	delay    time.Duration
}

// NewWatcher creates a watcher for the config file at path. apply is
// called with the freshly parsed file after each change.
func NewWatcher(path string, apply func(FileConfig), logger log.Logger) *Watcher {
	return &Watcher{
		path:   path,
		apply:  apply,
		logger: logger,
		delay:  defaultDebounce,
	}
}

// Run watches until the context is cancelled. Watch setup failures are
// returned; reload failures are logged and skipped.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	// Watch the directory: editors and config management tools tend
	// to replace the file rather than write it in place.
	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.scheduleReload()

		case werr, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("config watcher error", log.Err(werr))
		}
	}
}

func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.debounce != nil {
		w.debounce.Stop()
	}
	w.debounce = time.AfterFunc(w.delay, w.reload)
}

func (w *Watcher) reload() {
	fc, err := LoadFileConfig(w.path)
	if err != nil {
		w.logger.Warn("config reload failed", log.Str("path", w.path), log.Err(err))
		return
	}
	w.logger.Info("config reloaded", log.Str("path", w.path))
	w.apply(fc)
}
