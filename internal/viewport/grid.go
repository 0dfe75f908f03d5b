package viewport

import "math"

// GridLine is a vertical gridline at Time. Every tenth interval is Major.
type GridLine struct {
	Time  float64
	Index int
	Major bool
}

// GridInterval picks the gridline spacing for the current zoom level.
func (t *Transform) GridInterval() float64 {
	if t.ScaleX < t.opts.CoarseBelowScale {
		return t.opts.CoarseInterval
	}
	return t.opts.FineInterval
}

// Grid returns the gridlines inside the visible window in ascending order.
func (t *Transform) Grid() []GridLine {
	interval := t.GridInterval()
	begin, end := t.Window()
	first := int(math.Ceil(begin / interval))
	last := int(math.Floor(end / interval))
	if last < first {
		return nil
	}

	n := min(last-first+1, t.opts.MaxGridLines)
	lines := make([]GridLine, 0, n)
	for i := first; i <= last && len(lines) < n; i++ {
		lines = append(lines, GridLine{
			Time:  float64(i) * interval,
			Index: i,
			Major: i%10 == 0,
		})
	}
	return lines
}
