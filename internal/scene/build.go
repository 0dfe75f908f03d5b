package scene

import (
	"github.com/daviddao/lockscope/internal/layout"
	"github.com/daviddao/lockscope/internal/viewport"
)

// Metrics are the pixel sizes of the drawn elements.
type Metrics struct {
	RowHeight   float64
	BorderWidth float64
	TickWidth   float64
	LabelPadX   float64
	LabelPadY   float64
	// Groups narrower than MinDetailWidth get no ticks and no label.
	MinDetailWidth float64
}

// DefaultMetrics suits a pixel canvas.
func DefaultMetrics() Metrics {
	return Metrics{
		RowHeight:      30,
		BorderWidth:    1,
		TickWidth:      2,
		LabelPadX:      2,
		LabelPadY:      2,
		MinDetailWidth: 10,
	}
}

// TerminalMetrics suits a character grid where one cell is one pixel: a row
// is a bar line over a tick line.
func TerminalMetrics() Metrics {
	return Metrics{
		RowHeight:      2,
		BorderWidth:    0,
		TickWidth:      1,
		LabelPadX:      1,
		LabelPadY:      0,
		MinDetailWidth: 10,
	}
}

// Frame is everything needed to draw one screen.
type Frame struct {
	View    *viewport.Transform
	Groups  []layout.Group
	Grid    []viewport.GridLine
	MaxRows int
	Theme   Theme
	Metrics Metrics
}

// Build lays out the frame as draw commands, back to front: background,
// gridlines, then per group its bar, ticks and label.
func Build(f Frame) []Command {
	v, mt, th := f.View, f.Metrics, f.Theme
	cmds := make([]Command, 0, 1+len(f.Grid)+len(f.Groups)*4)

	cmds = append(cmds, Command{
		Kind: KindRect,
		W:    v.Width,
		H:    v.Height,
		Fill: th.Background,
	})

	gridHeight := mt.RowHeight * float64(f.MaxRows)
	for _, l := range f.Grid {
		stroke := th.LightLines
		if l.Major {
			stroke = th.MainLines
		}
		cmds = append(cmds, Command{
			Kind:   KindLine,
			X:      v.ViewX(l.Time),
			H:      gridHeight,
			Stroke: stroke,
		})
	}

	for _, g := range f.Groups {
		y := float64(g.Row)*mt.RowHeight - v.Y
		if y+mt.RowHeight <= 0 || y >= v.Height {
			continue
		}
		cmds = appendGroup(cmds, v, g, y, mt, th)
	}
	return cmds
}

func appendGroup(cmds []Command, v *viewport.Transform, g layout.Group, y float64, mt Metrics, th Theme) []Command {
	x := v.ViewX(g.Span.Begin)
	width := v.ViewX(g.Span.End) - x

	fill := th.Fill
	if g.Warn {
		fill = th.FillWarn
	}
	bar := Command{
		Kind: KindRect,
		X:    x,
		Y:    y,
		W:    width + mt.BorderWidth*2,
		H:    mt.RowHeight,
		Fill: fill,
	}
	if mt.BorderWidth > 0 {
		bar.Stroke = th.Border
	}
	cmds = append(cmds, bar)

	if width < mt.MinDetailWidth {
		return cmds
	}

	for _, e := range g.Entries {
		cmds = append(cmds, Command{
			Kind: KindRect,
			X:    v.ViewX(e.Time),
			Y:    y + mt.RowHeight/2,
			W:    mt.TickWidth,
			H:    mt.RowHeight / 2,
			Fill: th.EntryColor(e.Type),
		})
	}
	return append(cmds, Command{
		Kind: KindText,
		X:    x + width + mt.BorderWidth + mt.LabelPadX,
		Y:    y + mt.LabelPadY,
		Text: g.Label,
		Fill: th.Label,
	})
}
