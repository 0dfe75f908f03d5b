package layout

import (
	"github.com/daviddao/lockscope/internal/protocol"
	"github.com/daviddao/lockscope/internal/viewport"
)

// Source is the part of the event store the memo reads.
type Source interface {
	Generation() uint64
	Entries() []protocol.Entry
}

// Memo caches the grouping pass and the visible subset.
//
// Groups are recomputed only when the store generation or the row capacity
// changes; the visible subset only when the groups, X, ScaleX or the viewport
// width change.
type Memo struct {
	MaxVisible int

	groupKey   groupKey
	haveGroups bool
	groups     []Group
	groupsID   uint64

	visKey  visKey
	haveVis bool
	visible []Group

	groupPasses   int
	visiblePasses int
}

type groupKey struct {
	generation uint64
	maxRows    int
}

type visKey struct {
	groupsID uint64
	x        float64
	scale    float64
	width    float64
}

// Groups returns the groups for the store's current contents at maxRows,
// recomputing only when either changed.
func (m *Memo) Groups(src Source, maxRows int) []Group {
	key := groupKey{generation: src.Generation(), maxRows: maxRows}
	if m.haveGroups && key == m.groupKey {
		return m.groups
	}
	m.groups = GroupEntries(src.Entries(), maxRows)
	m.groupKey = key
	m.haveGroups = true
	m.groupsID++
	m.groupPasses++
	return m.groups
}

// Visible returns the groups visible through t, recomputing only when the
// groups or the window changed.
func (m *Memo) Visible(t *viewport.Transform) []Group {
	key := visKey{groupsID: m.groupsID, x: t.X, scale: t.ScaleX, width: t.Width}
	if m.haveVis && key == m.visKey {
		return m.visible
	}
	begin, end := t.Window()
	m.visible = Visible(m.groups, begin, end, m.MaxVisible)
	m.visKey = key
	m.haveVis = true
	m.visiblePasses++
	return m.visible
}

// Passes reports how many grouping and visibility passes actually ran.
func (m *Memo) Passes() (groups, visible int) {
	return m.groupPasses, m.visiblePasses
}
