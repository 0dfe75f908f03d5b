package main

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/daviddao/lockscope/internal/datasource"
	"github.com/daviddao/lockscope/internal/layout"
	"github.com/daviddao/lockscope/internal/snapshot"
	"github.com/daviddao/lockscope/internal/store"
)

func TestSmokeTraceLoad(t *testing.T) {
	path, err := datasource.Discover("")
	if err != nil {
		t.Skipf("no trace available: %v", err)
	}

	entries, err := datasource.Load(path)
	if err != nil {
		t.Fatalf("load %s: %v", path, err)
	}
	s := store.New()
	s.Replace(entries, path)

	groups := layout.GroupEntries(s.Entries(), 20)
	snap := snapshot.Build(s, path, groups, jsonViewportWidth)

	t.Logf("trace %s: %d entries, %d actors, %d groups, bounds [%v, %v]",
		path, snap.Entries, snap.Actors, snap.Groups, snap.Bounds.Begin, snap.Bounds.End)

	if snap.Bounds.End < snap.Bounds.Begin {
		t.Errorf("Bounds = %+v, end before begin", snap.Bounds)
	}
}

func TestSmokeWatcher(t *testing.T) {
	path, err := datasource.Discover("")
	if err != nil {
		t.Skipf("no trace available: %v", err)
	}

	w, err := datasource.NewWatcher(path, datasource.DefaultDebounce, zerolog.Nop())
	if err != nil {
		t.Fatalf("watcher creation failed: %v", err)
	}
	defer w.Close()

	t.Logf("watching %s", path)
}
