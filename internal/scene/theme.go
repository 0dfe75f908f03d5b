package scene

import (
	"fmt"
	"maps"
	"regexp"
	"strings"

	"github.com/daviddao/lockscope/internal/protocol"
)

// Theme is the colour table. Colours are "#RRGGBB" strings.
type Theme struct {
	Background string
	LightLines string
	MainLines  string
	Fill       string
	FillWarn   string
	Border     string
	Label      string
	Colors     map[protocol.EntryType]string
}

// DefaultTheme is the dark theme of the lock-protocol viewer.
func DefaultTheme() Theme {
	return Theme{
		Background: "#494848",
		LightLines: "#444444",
		MainLines:  "#666666",
		Fill:       "#FFFFFF",
		FillWarn:   "#F08080",
		Border:     "#000000",
		Label:      "#FFFFFF",
		Colors: map[protocol.EntryType]string{
			protocol.RequestRead:      "#20B2AA",
			protocol.RequestWrite:     "#F08080",
			protocol.ReadGranted:      "#2E8B57",
			protocol.WriteGranted:     "#FF7F50",
			protocol.ReadReleased:     "#8FBC8F",
			protocol.WriteReleased:    "#CD5B45",
			protocol.RequestRejected:  "#FFA500",
			protocol.DeadlockDetected: "#8B0000",
			protocol.DeadlockResolved: "#006400",
			protocol.Unlocked:         "#FFFF00",
			protocol.Created:          "#FFFFFF",
		},
	}
}

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// WithOverrides returns a copy of th with colours replaced. Keys are the
// theme slot names (background, light_lines, main_lines, fill, fill_warn,
// border, label) or entry type names.
func (th Theme) WithOverrides(overrides map[string]string) (Theme, error) {
	out := th
	out.Colors = maps.Clone(th.Colors)
	for key, color := range overrides {
		if !hexColor.MatchString(color) {
			return th, fmt.Errorf("color %s: %q is not #RRGGBB", key, color)
		}
		switch strings.ToLower(key) {
		case "background":
			out.Background = color
		case "light_lines":
			out.LightLines = color
		case "main_lines":
			out.MainLines = color
		case "fill":
			out.Fill = color
		case "fill_warn":
			out.FillWarn = color
		case "border":
			out.Border = color
		case "label":
			out.Label = color
		default:
			t, err := protocol.ParseEntryType(key)
			if err != nil {
				return th, fmt.Errorf("color %s: %w", key, err)
			}
			out.Colors[t] = color
		}
	}
	return out, nil
}

// EntryColor returns the tick colour for an entry type.
func (th Theme) EntryColor(t protocol.EntryType) string {
	if c, ok := th.Colors[t]; ok {
		return c
	}
	return th.Label
}
