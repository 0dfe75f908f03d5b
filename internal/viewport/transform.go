// Package viewport implements the pan/zoom transform between trace time and
// screen pixels, and the gridlines visible through it.
//
// Time runs along X. The visible window starts at X (in time units) and is
// Width/ScaleX time units wide. ScaleX is never allowed below the scale that
// fits the whole recording into one viewport width, and X is clamped so the
// window never leaves the recording.
package viewport

import "math"

// Bounds is the recorded time range.
type Bounds struct {
	Begin float64
	End   float64
}

// Duration returns End-Begin.
func (b Bounds) Duration() float64 {
	return b.End - b.Begin
}

// Options tunes zoom speed and gridline density.
type Options struct {
	// ZoomFactor is the scale multiplier per wheel tick; must be > 1.
	ZoomFactor float64
	// Below CoarseBelowScale pixels per time unit, gridlines use
	// CoarseInterval instead of FineInterval.
	CoarseBelowScale float64
	CoarseInterval   float64
	FineInterval     float64
	MaxGridLines     int
}

// DefaultOptions returns the stock zoom and grid settings.
func DefaultOptions() Options {
	return Options{
		ZoomFactor:       1.3,
		CoarseBelowScale: 0.1,
		CoarseInterval:   1000,
		FineInterval:     100,
		MaxGridLines:     4096,
	}
}

func (o Options) normalized() Options {
	def := DefaultOptions()
	if o.ZoomFactor <= 1 {
		o.ZoomFactor = def.ZoomFactor
	}
	if o.CoarseBelowScale <= 0 {
		o.CoarseBelowScale = def.CoarseBelowScale
	}
	if o.CoarseInterval <= 0 {
		o.CoarseInterval = def.CoarseInterval
	}
	if o.FineInterval <= 0 {
		o.FineInterval = def.FineInterval
	}
	if o.MaxGridLines <= 0 {
		o.MaxGridLines = def.MaxGridLines
	}
	return o
}

// Transform is the viewport state. The zero value is not usable; use New.
type Transform struct {
	// X is the left edge of the visible window, in time units.
	X float64
	// Y is the vertical scroll offset in pixels, never negative.
	Y float64
	// ScaleX is pixels per time unit.
	ScaleX float64

	Width  float64
	Height float64

	bounds Bounds
	opts   Options
}

// New returns a transform showing the whole recording.
func New(width, height float64, bounds Bounds, opts Options) Transform {
	t := Transform{
		Width:  math.Max(width, 1),
		Height: math.Max(height, 0),
		bounds: bounds,
		opts:   opts.normalized(),
	}
	t.Home()
	return t
}

// Bounds returns the recording bounds the transform clamps to.
func (t *Transform) Bounds() Bounds {
	return t.bounds
}

// Options returns the zoom and grid settings.
func (t *Transform) Options() Options {
	return t.opts
}

// FitScale is the scale at which the whole recording fits into one viewport
// width. It is also the zoom-out floor. A zero-length recording is treated
// as one time unit long.
func (t *Transform) FitScale() float64 {
	d := t.bounds.Duration()
	if d <= 0 {
		d = 1
	}
	return t.Width / d
}

// ToScreenX maps a time to layer space.
func (t *Transform) ToScreenX(time float64) float64 {
	return t.ScaleX * time
}

// ViewX maps a time to a pixel column relative to the viewport's left edge.
func (t *Transform) ViewX(time float64) float64 {
	return t.ScaleX * (time - t.X)
}

// TimeAt maps a viewport pixel column back to time.
func (t *Transform) TimeAt(viewX float64) float64 {
	return t.X + viewX/t.ScaleX
}

// Window returns the visible time interval.
func (t *Transform) Window() (begin, end float64) {
	return t.X, t.X + t.Width/t.ScaleX
}

// ClampX limits x to [Begin, End - Width/ScaleX]. When the window is wider
// than the recording the lower bound wins.
func (t *Transform) ClampX(x float64) float64 {
	lo := t.bounds.Begin
	hi := t.bounds.End - t.Width/t.ScaleX
	if hi < lo {
		hi = lo
	}
	return math.Min(math.Max(x, lo), hi)
}

// Zoom applies one wheel tick at viewport column cursorX. dir > 0 zooms in,
// dir < 0 zooms out. The time under the cursor stays under the cursor unless
// clamping has to move the window.
func (t *Transform) Zoom(cursorX float64, dir int) {
	if dir == 0 {
		return
	}
	factor := t.opts.ZoomFactor
	if dir < 0 {
		factor = 1 / factor
	}
	anchor := t.TimeAt(cursorX)
	t.ScaleX = math.Max(t.ScaleX*factor, t.FitScale())
	t.X = t.ClampX(anchor - cursorX/t.ScaleX)
}

// Pan moves the view by a drag of (dx, dy) pixels. Dragging right moves the
// window back in time; vertical drag never scrolls above row 0.
func (t *Transform) Pan(dx, dy float64) {
	t.X = t.ClampX(t.X - dx/t.ScaleX)
	t.Y = math.Max(0, t.Y-dy)
}

// Scroll moves the vertical offset by dy pixels.
func (t *Transform) Scroll(dy float64) {
	t.Y = math.Max(0, t.Y+dy)
}

// SetBounds installs new recording bounds after a reload, raising the scale
// to the new floor if needed and re-clamping X.
func (t *Transform) SetBounds(b Bounds) {
	t.bounds = b
	t.refit()
}

// Resize changes the viewport size in pixels.
func (t *Transform) Resize(width, height float64) {
	t.Width = math.Max(width, 1)
	t.Height = math.Max(height, 0)
	t.refit()
}

// Home fits the whole recording and scrolls to the first row.
func (t *Transform) Home() {
	t.ScaleX = t.FitScale()
	t.X = t.bounds.Begin
	t.Y = 0
}

// JumpTo centres the window on time, within bounds.
func (t *Transform) JumpTo(time float64) {
	t.X = t.ClampX(time - t.Width/t.ScaleX/2)
}

func (t *Transform) refit() {
	if fit := t.FitScale(); t.ScaleX < fit || t.ScaleX <= 0 || math.IsNaN(t.ScaleX) {
		t.ScaleX = fit
	}
	t.X = t.ClampX(t.X)
}
