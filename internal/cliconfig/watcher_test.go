package cliconfig

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/ProteinUniverseAtlas/dbuilder/pkg/log"
)

func TestWatcherReloadsOnChange(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.toml")
	if err := os.WriteFile(path, []byte("print_step = 100\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	var mu sync.Mutex
	var got []FileConfig
	w := NewWatcher(path, func(fc FileConfig) {
		mu.Lock()
		got = append(got, fc)
		mu.Unlock()
	}, log.NewNoopLogger())
	w.delay = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := w.Run(ctx); err != nil {
			t.Errorf("Run() error = %v", err)
		}
	}()

	// Give the watcher time to register before modifying the file.
	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(path, []byte("print_step = 500\n"), 0644); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for {
		mu.Lock()
		n := len(got)
		mu.Unlock()
		if n > 0 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("watcher never delivered the updated config")
		}
		time.Sleep(20 * time.Millisecond)
	}

	mu.Lock()
	last := got[len(got)-1]
	mu.Unlock()
	if last.PrintStep != 500 {
		t.Errorf("reloaded PrintStep = %d, want 500", last.PrintStep)
	}

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after cancellation")
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.toml")
	if err := os.WriteFile(path, []byte("print_step = 100\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	var mu sync.Mutex
	calls := 0
	w := NewWatcher(path, func(FileConfig) {
		mu.Lock()
		calls++
		mu.Unlock()
	}, log.NewNoopLogger())
	w.delay = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(filepath.Join(tmpDir, "other.toml"), []byte("x = 1\n"), 0644); err != nil {
		t.Fatalf("write unrelated file: %v", err)
	}

	time.Sleep(300 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	if calls != 0 {
		t.Errorf("apply called %d times for unrelated file, want 0", calls)
	}
}
