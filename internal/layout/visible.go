package layout

// DefaultMaxVisible bounds how many groups are drawn per frame.
const DefaultMaxVisible = 1000

// Visible returns, in order, the groups whose span intersects [begin, end],
// at most limit of them. A non-positive limit means DefaultMaxVisible.
func Visible(groups []Group, begin, end float64, limit int) []Group {
	if limit <= 0 {
		limit = DefaultMaxVisible
	}
	var out []Group
	for _, g := range groups {
		if !g.Span.Overlaps(begin, end) {
			continue
		}
		out = append(out, g)
		if len(out) == limit {
			break
		}
	}
	return out
}
