// Package scene turns laid-out timeline groups into a flat list of
// screen-space draw commands.
//
// A frame is rebuilt from scratch on every redraw. Commands are plain values
// in viewport pixel coordinates with colours already resolved, so any
// surface that can fill rectangles, draw vertical lines and place text can
// render them.
package scene

import "fmt"

// Kind is the shape a command draws.
type Kind int

const (
	KindRect Kind = iota
	KindLine
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindRect:
		return "rect"
	case KindLine:
		return "line"
	case KindText:
		return "text"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Command is one draw instruction.
//
// Rect fills [X, X+W) x [Y, Y+H) with Fill and outlines it with Stroke.
// Line is a vertical segment from (X, Y) down H pixels in Stroke.
// Text draws Text with its top-left at (X, Y) in Fill.
type Command struct {
	Kind   Kind    `json:"kind"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	W      float64 `json:"w,omitempty"`
	H      float64 `json:"h,omitempty"`
	Fill   string  `json:"fill,omitempty"`
	Stroke string  `json:"stroke,omitempty"`
	Text   string  `json:"text,omitempty"`
}

// MarshalText lets Kind appear by name in JSON dumps.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}
