// Package logging builds the viewer's logger.
//
// The TUI owns the terminal, so log output goes to a file or nowhere.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
)

const envLog = "LOCKSCOPE_LOG"

// Path resolves the log file: explicit path, then LOCKSCOPE_LOG, then the
// config value. Empty means logging is off.
func Path(explicit, configured string) string {
	if explicit != "" {
		return explicit
	}
	if env := os.Getenv(envLog); env != "" {
		return env
	}
	return configured
}

// New returns a logger appending JSON lines to path at info level, or debug
// level when debug is set. An empty path yields a no-op logger.
// The returned closer releases the file.
func New(path string, debug bool) (zerolog.Logger, io.Closer, error) {
	if path == "" {
		return zerolog.Nop(), io.NopCloser(nil), nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Nop(), io.NopCloser(nil), fmt.Errorf("open log: %w", err)
	}
	return NewWriter(f, debug), f, nil
}

// NewWriter returns a logger writing to w.
func NewWriter(w io.Writer, debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	return zerolog.New(w).Level(level).With().Timestamp().Str("app", "lsv").Logger()
}
