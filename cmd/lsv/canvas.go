package main

import (
	"math"
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/daviddao/lockscope/internal/scene"
)

// gridRune draws vertical gridlines.
const gridRune = '│'

// wideTail marks the second column of a double-width rune.
const wideTail rune = 0

type cell struct {
	ch rune
	fg string
	bg string
}

// canvas rasterizes scene commands onto a grid of terminal cells, one cell
// per viewport pixel. Everything outside the grid is clipped.
type canvas struct {
	width  int
	height int
	cells  []cell
}

func newCanvas(width, height int) *canvas {
	width, height = max(width, 0), max(height, 0)
	c := &canvas{width: width, height: height, cells: make([]cell, width*height)}
	for i := range c.cells {
		c.cells[i].ch = ' '
	}
	return c
}

func (c *canvas) at(x, y int) *cell {
	if x < 0 || y < 0 || x >= c.width || y >= c.height {
		return nil
	}
	return &c.cells[y*c.width+x]
}

// draw executes cmds in order; later commands paint over earlier ones.
func (c *canvas) draw(cmds []scene.Command) {
	for _, cmd := range cmds {
		switch cmd.Kind {
		case scene.KindRect:
			c.rect(cmd)
		case scene.KindLine:
			c.line(cmd)
		case scene.KindText:
			c.text(cmd)
		}
	}
}

// cellIndex floors a pixel coordinate to a cell index, clamped to just
// outside [0, limit] so far off-screen coordinates stay representable.
func cellIndex(v float64, limit int) int {
	if math.IsNaN(v) {
		return -1
	}
	return int(math.Floor(math.Min(math.Max(v, -1), float64(limit+1))))
}

// span converts a pixel interval to cell indices [lo, hi). Anything that
// covers part of a cell gets at least that one cell.
func span(pos, size float64, limit int) (lo, hi int) {
	lo = cellIndex(pos, limit)
	hi = cellIndex(pos+size, limit)
	if hi <= lo {
		hi = lo + 1
	}
	return lo, hi
}

// Outlines are not drawn: a cell is too coarse for a one-pixel border.
func (c *canvas) rect(cmd scene.Command) {
	x0, x1 := span(cmd.X, cmd.W, c.width)
	y0, y1 := span(cmd.Y, cmd.H, c.height)
	x0, x1 = max(x0, 0), min(x1, c.width)
	y0, y1 = max(y0, 0), min(y1, c.height)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			cl := c.at(x, y)
			cl.ch, cl.fg, cl.bg = ' ', "", cmd.Fill
		}
	}
}

func (c *canvas) line(cmd scene.Command) {
	x := cellIndex(cmd.X, c.width)
	y0, y1 := span(cmd.Y, cmd.H, c.height)
	for y := max(y0, 0); y < min(y1, c.height); y++ {
		if cl := c.at(x, y); cl != nil {
			cl.ch, cl.fg = gridRune, cmd.Stroke
		}
	}
}

// text writes one rune per terminal column. A double-width rune takes its
// cell and marks the next one as its tail.
func (c *canvas) text(cmd scene.Command) {
	s := printable(cmd.Text)
	if math.IsNaN(cmd.X) || cmd.X >= float64(c.width) || cmd.X+float64(ansi.StringWidth(s)) <= 0 {
		return
	}
	x := int(math.Floor(cmd.X))
	y := cellIndex(cmd.Y, c.height)
	if y < 0 || y >= c.height {
		return
	}
	s = ansi.Truncate(s, c.width-x, "")
	for _, r := range s {
		w := ansi.StringWidth(string(r))
		if w == 0 {
			continue
		}
		if cl := c.at(x, y); cl != nil {
			cl.ch, cl.fg = r, cmd.Fill
		}
		if w == 2 {
			if cl := c.at(x+1, y); cl != nil {
				cl.ch, cl.fg = wideTail, cmd.Fill
			}
		}
		x += w
	}
}

// printable drops escape sequences and turns control characters into
// spaces so a label stays on one line.
func printable(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, ansi.Strip(s))
}

// glyphs returns what each cell of line y shows. Tails of double-width
// runes come back as wideTail; a wide rune that lost its tail, or a tail
// that lost its rune, shows as a space.
func (c *canvas) glyphs(y int) []rune {
	line := c.cells[y*c.width : (y+1)*c.width]
	out := make([]rune, len(line))
	for x, cl := range line {
		switch {
		case cl.ch == wideTail:
			out[x] = ' '
			if x > 0 && out[x-1] != ' ' && ansi.StringWidth(string(out[x-1])) == 2 {
				out[x] = wideTail
			}
		case ansi.StringWidth(string(cl.ch)) == 2:
			out[x] = ' '
			if x+1 < len(line) && line[x+1].ch == wideTail {
				out[x] = cl.ch
			}
		default:
			out[x] = cl.ch
		}
	}
	return out
}

// row returns the plain characters of line y.
func (c *canvas) row(y int) string {
	var b strings.Builder
	for _, r := range c.glyphs(y) {
		if r != wideTail {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// String renders the grid with runs of equally coloured cells sharing one
// lipgloss style.
func (c *canvas) String() string {
	styles := make(map[[2]string]lipgloss.Style)
	styleFor := func(fg, bg string) lipgloss.Style {
		k := [2]string{fg, bg}
		if st, ok := styles[k]; ok {
			return st
		}
		st := lipgloss.NewStyle()
		if fg != "" {
			st = st.Foreground(lipgloss.Color(fg))
		}
		if bg != "" {
			st = st.Background(lipgloss.Color(bg))
		}
		styles[k] = st
		return st
	}

	var b strings.Builder
	var run strings.Builder
	for y := 0; y < c.height; y++ {
		if y > 0 {
			b.WriteRune('\n')
		}
		line := c.cells[y*c.width : (y+1)*c.width]
		glyphs := c.glyphs(y)
		for start := 0; start < len(line); {
			fg, bg := line[start].fg, line[start].bg
			run.Reset()
			end := start
			for end < len(line) && line[end].fg == fg && line[end].bg == bg {
				if glyphs[end] != wideTail {
					run.WriteRune(glyphs[end])
				}
				end++
			}
			b.WriteString(styleFor(fg, bg).Render(run.String()))
			start = end
		}
	}
	return b.String()
}
