package layout

import (
	"testing"

	"github.com/daviddao/lockscope/internal/protocol"
	"github.com/daviddao/lockscope/internal/store"
	"github.com/daviddao/lockscope/internal/viewport"
)

func TestSpanOverlaps(t *testing.T) {
	s := Span{Begin: 5, End: 10}
	tests := []struct {
		begin, end float64
		want       bool
	}{
		{8, 20, true},   // partial overlap on the right
		{0, 6, true},    // partial overlap on the left
		{6, 9, true},    // window inside the span
		{0, 30, true},   // span inside the window
		{10, 12, true},  // touching end
		{0, 5, true},    // touching begin
		{20, 30, false}, // after
		{0, 4.9, false}, // before
	}
	for _, tt := range tests {
		if got := s.Overlaps(tt.begin, tt.end); got != tt.want {
			t.Errorf("[5,10].Overlaps(%v, %v) = %v, want %v", tt.begin, tt.end, got, tt.want)
		}
	}
}

func TestVisibleFilter(t *testing.T) {
	groups := []Group{
		{ActorID: 1, Span: Span{Begin: 5, End: 10}},
		{ActorID: 2, Span: Span{Begin: 25, End: 40}},
		{ActorID: 3, Span: Span{Begin: 12, End: 18}},
	}

	got := Visible(groups, 8, 20, 0)
	if len(got) != 2 || got[0].ActorID != 1 || got[1].ActorID != 3 {
		t.Errorf("Visible([8,20]) = %+v, want actors 1 and 3 in order", got)
	}

	got = Visible(groups, 20, 30, 0)
	if len(got) != 1 || got[0].ActorID != 2 {
		t.Errorf("Visible([20,30]) = %+v, want actor 2", got)
	}
}

func TestVisibleLimit(t *testing.T) {
	groups := make([]Group, 50)
	for i := range groups {
		groups[i] = Group{ActorID: int64(i), Span: Span{Begin: 0, End: 100}}
	}

	got := Visible(groups, 10, 20, 7)
	if len(got) != 7 {
		t.Fatalf("len = %d, want 7", len(got))
	}
	if got[6].ActorID != 6 {
		t.Errorf("last kept actor = %d, want 6 (order preserved)", got[6].ActorID)
	}

	many := make([]Group, DefaultMaxVisible+10)
	if got := Visible(many, 0, 1, 0); len(got) != DefaultMaxVisible {
		t.Errorf("default limit kept %d, want %d", len(got), DefaultMaxVisible)
	}
}

func TestMemoGroups(t *testing.T) {
	s := store.New()
	s.Replace(seq(1, 0, 4, ""), "a.json")
	var m Memo

	g1 := m.Groups(s, 5)
	g2 := m.Groups(s, 5)
	if passes, _ := m.Passes(); passes != 1 {
		t.Errorf("group passes = %d, want 1 for unchanged inputs", passes)
	}
	if len(g1) != 1 || len(g2) != 1 {
		t.Fatalf("expected 1 group each time, got %d and %d", len(g1), len(g2))
	}

	m.Groups(s, 6)
	if passes, _ := m.Passes(); passes != 2 {
		t.Errorf("group passes = %d, want 2 after maxRows change", passes)
	}

	s.Replace(append(seq(1, 0, 4, ""), seq(2, 0, 3, "")...), "b.json")
	if got := m.Groups(s, 6); len(got) != 2 {
		t.Errorf("expected 2 groups after reload, got %d", len(got))
	}
	if passes, _ := m.Passes(); passes != 3 {
		t.Errorf("group passes = %d, want 3 after reload", passes)
	}
}

func TestMemoVisible(t *testing.T) {
	s := store.New()
	var entries []protocol.Entry
	entries = append(entries, seq(1, 0, 11, "")...)  // [0, 10]
	entries = append(entries, seq(2, 50, 11, "")...) // [50, 60]
	s.Replace(entries, "")

	var m Memo
	groups := m.Groups(s, 10)
	tr := viewport.New(100, 100, RecordingBounds(groups, 100), viewport.DefaultOptions())

	if got := m.Visible(&tr); len(got) != 2 {
		t.Errorf("fit view shows %d groups, want 2", len(got))
	}
	m.Visible(&tr)
	if _, passes := m.Passes(); passes != 1 {
		t.Errorf("visible passes = %d, want 1 for unchanged window", passes)
	}

	tr.Zoom(0, 1)
	tr.Zoom(0, 1)
	tr.Zoom(0, 1) // window [0, ~27.3]
	got := m.Visible(&tr)
	if len(got) != 1 || got[0].ActorID != 1 {
		t.Errorf("zoomed view = %+v, want actor 1 only", got)
	}
	if _, passes := m.Passes(); passes != 2 {
		t.Errorf("visible passes = %d, want 2 after zoom", passes)
	}

	// New groups invalidate the visible subset even with the same window.
	s.Replace(seq(3, 0, 3, ""), "")
	m.Groups(s, 10)
	got = m.Visible(&tr)
	if len(got) != 1 || got[0].ActorID != 3 {
		t.Errorf("after reload = %+v, want actor 3", got)
	}
}
