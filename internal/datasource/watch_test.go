package datasource

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// newTestWatcher writes an initial trace and starts a watcher on it.
func newTestWatcher(t *testing.T) (*Watcher, string) {
	t.Helper()
	dir := t.TempDir()
	tracePath := filepath.Join(dir, "trace.json")
	if err := os.WriteFile(tracePath, []byte("[]"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	w, err := NewWatcher(tracePath, 0, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	t.Cleanup(func() { w.Close() })

	// Give fsnotify time to start watching.
	time.Sleep(50 * time.Millisecond)
	return w, tracePath
}

func TestNewWatcherSuccess(t *testing.T) {
	w, _ := newTestWatcher(t)

	if w.Changes() == nil {
		t.Error("Changes() returned nil channel")
	}
	if w.debounce != DefaultDebounce {
		t.Errorf("debounce = %v, want %v", w.debounce, DefaultDebounce)
	}
}

func TestNewWatcherBadPath(t *testing.T) {
	_, err := NewWatcher("/nonexistent/dir/trace.json", 0, zerolog.Nop())
	if err == nil {
		t.Error("NewWatcher should fail for nonexistent directory")
	}
}

func TestWatcherDetectsWrite(t *testing.T) {
	w, tracePath := newTestWatcher(t)

	if err := os.WriteFile(tracePath, []byte(`[{"time":1,"actorId":1,"type":0}]`), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	// Should receive a change signal within debounce + margin.
	select {
	case <-w.Changes():
		// Success.
	case <-time.After(2 * time.Second):
		t.Error("timed out waiting for change signal on trace write")
	}
}

func TestWatcherDetectsReplaceByRename(t *testing.T) {
	w, tracePath := newTestWatcher(t)

	tmp := filepath.Join(filepath.Dir(tracePath), "trace.json.tmp")
	if err := os.WriteFile(tmp, []byte("[]"), 0o644); err != nil {
		t.Fatalf("WriteFile tmp: %v", err)
	}
	if err := os.Rename(tmp, tracePath); err != nil {
		t.Fatalf("Rename: %v", err)
	}

	select {
	case <-w.Changes():
		// Success.
	case <-time.After(2 * time.Second):
		t.Error("timed out waiting for change signal on rename-over")
	}
}

func TestWatcherIgnoresUnrelatedFiles(t *testing.T) {
	w, tracePath := newTestWatcher(t)

	unrelated := filepath.Join(filepath.Dir(tracePath), "other.txt")
	if err := os.WriteFile(unrelated, []byte("noise"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	// Should NOT receive a signal.
	select {
	case <-w.Changes():
		t.Error("unexpected change signal from unrelated file write")
	case <-time.After(300 * time.Millisecond):
		// Correct, no signal.
	}
}

func TestWatcherCoalescesBurst(t *testing.T) {
	w, tracePath := newTestWatcher(t)

	for i := 0; i < 5; i++ {
		if err := os.WriteFile(tracePath, []byte("[]"), 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
	}

	select {
	case <-w.Changes():
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for change signal")
	}

	// The burst settles into a single signal.
	select {
	case <-w.Changes():
		t.Error("burst of writes produced more than one signal")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcherClose(t *testing.T) {
	dir := t.TempDir()
	tracePath := filepath.Join(dir, "trace.json")
	if err := os.WriteFile(tracePath, []byte("[]"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	w, err := NewWatcher(tracePath, 0, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}

	// Close should not panic.
	if err := w.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}
