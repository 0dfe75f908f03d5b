// Package config loads viewer settings from an optional YAML file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/daviddao/lockscope/internal/datasource"
	"github.com/daviddao/lockscope/internal/layout"
	"github.com/daviddao/lockscope/internal/scene"
	"github.com/daviddao/lockscope/internal/viewport"
)

const envConfig = "LOCKSCOPE_CONFIG"

// Grid controls gridline spacing.
type Grid struct {
	CoarseBelowScale float64 `yaml:"coarse_below_scale"`
	CoarseInterval   float64 `yaml:"coarse_interval"`
	FineInterval     float64 `yaml:"fine_interval"`
	MaxLines         int     `yaml:"max_lines"`
}

// Config holds every tunable of the viewer. Zero fields fall back to the
// defaults.
type Config struct {
	// RowHeight is the height of one timeline row in terminal lines.
	RowHeight      int               `yaml:"row_height"`
	ZoomFactor     float64           `yaml:"zoom_factor"`
	MaxVisible     int               `yaml:"max_visible"`
	MinDetailWidth float64           `yaml:"min_detail_width"`
	Grid           Grid              `yaml:"grid"`
	Debounce       time.Duration     `yaml:"debounce"`
	Colors         map[string]string `yaml:"colors"`
	LogFile        string            `yaml:"log_file"`
}

// Default returns the built-in settings.
func Default() Config {
	vo := viewport.DefaultOptions()
	tm := scene.TerminalMetrics()
	return Config{
		RowHeight:      int(tm.RowHeight),
		ZoomFactor:     vo.ZoomFactor,
		MaxVisible:     layout.DefaultMaxVisible,
		MinDetailWidth: tm.MinDetailWidth,
		Grid: Grid{
			CoarseBelowScale: vo.CoarseBelowScale,
			CoarseInterval:   vo.CoarseInterval,
			FineInterval:     vo.FineInterval,
			MaxLines:         vo.MaxGridLines,
		},
		Debounce: datasource.DefaultDebounce,
	}
}

// Path resolves the config file: explicit path, then LOCKSCOPE_CONFIG.
// An empty result means no file; defaults apply.
func Path(explicit string) string {
	if explicit != "" {
		return explicit
	}
	return os.Getenv(envConfig)
}

// Load reads the YAML file at path over the defaults. An empty path returns
// the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Decode(bytes.NewReader(data))
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Decode parses YAML over the defaults. Unknown keys are an error.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the viewport cannot work with.
func (c Config) Validate() error {
	if c.RowHeight < 1 {
		return fmt.Errorf("row_height must be at least 1, got %d", c.RowHeight)
	}
	if c.ZoomFactor <= 1 {
		return fmt.Errorf("zoom_factor must be greater than 1, got %v", c.ZoomFactor)
	}
	if c.Grid.CoarseInterval <= 0 || c.Grid.FineInterval <= 0 {
		return errors.New("grid intervals must be positive")
	}
	if c.MaxVisible < 1 {
		return fmt.Errorf("max_visible must be at least 1, got %d", c.MaxVisible)
	}
	if _, err := c.Theme(); err != nil {
		return err
	}
	return nil
}

// ViewportOptions returns the zoom and grid settings.
func (c Config) ViewportOptions() viewport.Options {
	return viewport.Options{
		ZoomFactor:       c.ZoomFactor,
		CoarseBelowScale: c.Grid.CoarseBelowScale,
		CoarseInterval:   c.Grid.CoarseInterval,
		FineInterval:     c.Grid.FineInterval,
		MaxGridLines:     c.Grid.MaxLines,
	}
}

// Metrics returns terminal metrics adjusted for the configured row height.
// Ticks take the bottom half of a row.
func (c Config) Metrics() scene.Metrics {
	m := scene.TerminalMetrics()
	m.RowHeight = float64(c.RowHeight)
	m.MinDetailWidth = c.MinDetailWidth
	return m
}

// Theme returns the default theme with the configured colour overrides.
func (c Config) Theme() (scene.Theme, error) {
	return scene.DefaultTheme().WithOverrides(c.Colors)
}
