// Package datasource discovers and decodes lock-protocol trace files.
package datasource

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/daviddao/lockscope/internal/protocol"
)

const (
	envTrace     = "LOCKSCOPE_TRACE"
	defaultTrace = "debug.json"
)

var (
	// ErrNotArray is returned when the trace is not a JSON array of entries.
	ErrNotArray = errors.New("trace is not a JSON array")
	// ErrMissingField is returned when an entry lacks time, actor id or type.
	ErrMissingField = errors.New("entry missing required field")
)

// Discover finds the trace file path.
// Priority: explicit path > LOCKSCOPE_TRACE env var > debug.json in CWD.
func Discover(explicit string) (string, error) {
	if explicit != "" {
		return resolve(explicit)
	}
	if env := os.Getenv(envTrace); env != "" {
		if _, err := os.Stat(env); err != nil {
			return "", fmt.Errorf("%s=%q: %w", envTrace, env, os.ErrNotExist)
		}
		return resolve(env)
	}
	if _, err := os.Stat(defaultTrace); err == nil {
		return resolve(defaultTrace)
	}
	return "", fmt.Errorf("no trace file found (pass a path, set %s, or create ./%s)", envTrace, defaultTrace)
}

func resolve(path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("trace %s: %w", path, err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %s: %w", path, err)
	}
	return abs, nil
}

// Load reads and decodes the trace at path.
func Load(path string) ([]protocol.Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open trace: %w", err)
	}
	defer f.Close()

	entries, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", filepath.Base(path), err)
	}
	return entries, nil
}

// rawEntry mirrors protocol.Entry with pointers so missing fields can be
// told apart from zero values. Older lock managers write lockerId.
type rawEntry struct {
	Time      *float64            `json:"time"`
	ActorID   *json.Number        `json:"actorId"`
	LockerID  *json.Number        `json:"lockerId"`
	Type      *protocol.EntryType `json:"type"`
	ExtraInfo *string             `json:"extraInfo"`
}

// Decode parses a full trace. It either returns every entry or an error;
// there is no partial result.
func Decode(r io.Reader) ([]protocol.Entry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read trace: %w", err)
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, ErrNotArray
	}

	var raw []rawEntry
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, fmt.Errorf("decode trace: %w", err)
	}

	entries := make([]protocol.Entry, len(raw))
	for i, re := range raw {
		e, err := re.entry()
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		entries[i] = e
	}
	return entries, nil
}

func (re rawEntry) entry() (protocol.Entry, error) {
	if re.Time == nil {
		return protocol.Entry{}, fmt.Errorf("%w: time", ErrMissingField)
	}
	if re.Type == nil {
		return protocol.Entry{}, fmt.Errorf("%w: type", ErrMissingField)
	}
	id := re.ActorID
	if id == nil {
		id = re.LockerID
	}
	if id == nil {
		return protocol.Entry{}, fmt.Errorf("%w: actorId", ErrMissingField)
	}
	actor, err := id.Int64()
	if err != nil {
		return protocol.Entry{}, fmt.Errorf("actorId %q: %w", id.String(), err)
	}

	e := protocol.Entry{
		Time:    *re.Time,
		ActorID: actor,
		Type:    *re.Type,
	}
	if re.ExtraInfo != nil {
		e.ExtraInfo = *re.ExtraInfo
	}
	return e, nil
}
