package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewEmptyPathIsNop(t *testing.T) {
	log, closer, err := New("", false)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer closer.Close()
	log.Info().Msg("dropped") // must not panic
}

func TestNewWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lsv.log")
	log, closer, err := New(path, false)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	log.Info().Str("trace", "debug.json").Int("entries", 12).Msg("trace loaded")
	log.Debug().Msg("hidden at info level")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 log line, got %d: %q", len(lines), data)
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if rec["message"] != "trace loaded" || rec["app"] != "lsv" || rec["entries"] != float64(12) {
		t.Errorf("record = %v", rec)
	}
}

func TestNewWriterDebug(t *testing.T) {
	var buf bytes.Buffer
	log := NewWriter(&buf, true)
	log.Debug().Msg("visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Errorf("debug message missing from %q", buf.String())
	}
}

func TestNewBadPath(t *testing.T) {
	if _, _, err := New("/nonexistent/dir/lsv.log", false); err == nil {
		t.Error("New should fail for an unwritable path")
	}
}

func TestPath(t *testing.T) {
	t.Setenv(envLog, "")
	if got := Path("", "cfg.log"); got != "cfg.log" {
		t.Errorf("Path = %q, want cfg.log", got)
	}
	t.Setenv(envLog, "env.log")
	if got := Path("", "cfg.log"); got != "env.log" {
		t.Errorf("Path = %q, want env.log", got)
	}
	if got := Path("flag.log", "cfg.log"); got != "flag.log" {
		t.Errorf("Path = %q, want flag.log", got)
	}
}
