// Package snapshot builds immutable summaries of a loaded trace.
//
// A Snapshot captures the counts shown in the title bar and the --json dump
// at the moment a trace was installed. Snapshots are rebuilt on each load
// and swapped into the UI model; they are never patched.
package snapshot

import (
	"time"

	"github.com/samber/lo"

	"github.com/daviddao/lockscope/internal/layout"
	"github.com/daviddao/lockscope/internal/protocol"
	"github.com/daviddao/lockscope/internal/viewport"
)

// Snapshot is an immutable, self-contained summary of one trace load.
type Snapshot struct {
	Source     string
	Generation uint64

	// Counts.
	Entries        int
	Actors         int
	Groups         int
	FilteredActors int // actors with too few entries to draw
	Warnings       int // groups that saw a deadlock
	Rows           int // distinct rows in use

	TypeCounts map[protocol.EntryType]int
	Bounds     viewport.Bounds

	// Timestamp of snapshot creation.
	BuiltAt time.Time
}

// Build summarises the store contents and the groups derived from them.
// viewportWidth supplies the fallback bounds for traces without groups.
func Build(src layout.Source, source string, groups []layout.Group, viewportWidth float64) *Snapshot {
	entries := src.Entries()
	actors := lo.Uniq(lo.Map(entries, func(e protocol.Entry, _ int) int64 { return e.ActorID }))
	rows := lo.Uniq(lo.Map(groups, func(g layout.Group, _ int) int { return g.Row }))

	return &Snapshot{
		Source:         source,
		Generation:     src.Generation(),
		Entries:        len(entries),
		Actors:         len(actors),
		Groups:         len(groups),
		FilteredActors: len(actors) - len(groups),
		Warnings:       lo.CountBy(groups, func(g layout.Group) bool { return g.Warn }),
		Rows:           len(rows),
		TypeCounts:     lo.CountValuesBy(entries, func(e protocol.Entry) protocol.EntryType { return e.Type }),
		Bounds:         layout.RecordingBounds(groups, viewportWidth),
		BuiltAt:        time.Now(),
	}
}
