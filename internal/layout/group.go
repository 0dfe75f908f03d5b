// Package layout turns a flat trace into per-actor timeline groups, assigns
// each group a display row, and culls groups outside the viewport.
package layout

import (
	"github.com/samber/lo"

	"github.com/daviddao/lockscope/internal/protocol"
	"github.com/daviddao/lockscope/internal/viewport"
)

// MergedLabel replaces the label of a group drawn on a row that already
// shows another actor of the same transaction.
const MergedLabel = "**"

// minEntries is the shortest sequence worth drawing; shorter ones are noise.
const minEntries = 3

// Span is the time covered by a group, first entry to last.
type Span struct {
	Begin float64
	End   float64
}

// Overlaps reports whether the span intersects [begin, end], inclusive.
func (s Span) Overlaps(begin, end float64) bool {
	return s.Begin <= end && s.End >= begin
}

// Group is one actor's timeline.
type Group struct {
	ActorID int64
	Entries []protocol.Entry
	Label   string
	Row     int
	Span    Span
	// Warn is set when a deadlock was detected anywhere in the sequence.
	Warn bool
}

// MaxRows is the number of rows of rowHeight that fit in viewportHeight.
// It is at least 1.
func MaxRows(viewportHeight, rowHeight int) int {
	if rowHeight <= 0 {
		return 1
	}
	return max(1, viewportHeight/rowHeight)
}

// Partition splits entries by actor, keeping each actor's entries in trace
// order and the actors in order of first appearance. Actors with fewer than
// three entries are dropped.
func Partition(entries []protocol.Entry) [][]protocol.Entry {
	byActor := lo.GroupBy(entries, func(e protocol.Entry) int64 { return e.ActorID })
	order := lo.Uniq(lo.Map(entries, func(e protocol.Entry, _ int) int64 { return e.ActorID }))

	out := make([][]protocol.Entry, 0, len(order))
	for _, id := range order {
		if seq := byActor[id]; len(seq) >= minEntries {
			out = append(out, seq)
		}
	}
	return out
}

// GroupEntries builds the timeline groups for a whole trace with a fresh row
// allocator of maxRows rows. The result depends only on entries and maxRows.
func GroupEntries(entries []protocol.Entry, maxRows int) []Group {
	alloc := NewRowAllocator(maxRows)
	seqs := Partition(entries)
	groups := make([]Group, len(seqs))
	for i, seq := range seqs {
		groups[i] = NewGroup(seq, alloc)
	}
	return groups
}

// NewGroup summarises one actor's non-empty sequence and takes its row from
// alloc. Correlated sequences share the row of the first sequence seen with
// the same transaction id.
func NewGroup(seq []protocol.Entry, alloc *RowAllocator) Group {
	first, last := seq[0], seq[len(seq)-1]
	g := Group{
		ActorID: first.ActorID,
		Entries: seq,
		Label:   first.ExtraInfo,
		Span:    Span{Begin: first.Time, End: last.Time},
		Warn: lo.ContainsBy(seq, func(e protocol.Entry) bool {
			return e.Type == protocol.DeadlockDetected
		}),
	}

	c, ok := first.Correlation()
	if !ok {
		g.Row = alloc.Fresh()
		return g
	}
	g.Label = c.Short()
	row, reused := alloc.Correlated(c.TransactionID)
	g.Row = row
	if reused {
		g.Label = MergedLabel
	}
	return g
}

// RecordingBounds is the time range covered by groups. Without groups it
// falls back to [0, viewportWidth].
func RecordingBounds(groups []Group, viewportWidth float64) viewport.Bounds {
	if len(groups) == 0 {
		return viewport.Bounds{Begin: 0, End: viewportWidth}
	}
	first := lo.MinBy(groups, func(a, b Group) bool { return a.Span.Begin < b.Span.Begin })
	last := lo.MaxBy(groups, func(a, b Group) bool { return a.Span.End > b.Span.End })
	return viewport.Bounds{Begin: first.Span.Begin, End: last.Span.End}
}
