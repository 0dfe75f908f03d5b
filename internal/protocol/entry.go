// Package protocol defines the lock-protocol trace entries recorded by the
// lock manager and the correlation payload some of them carry.
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnknownType is returned when an entry type is neither a known ordinal
// nor a known name.
var ErrUnknownType = errors.New("unknown entry type")

// EntryType is the kind of a recorded lock-protocol event. The ordinals match
// the lock manager's enum, which is what trace files usually carry.
type EntryType int

const (
	RequestRead EntryType = iota
	RequestWrite
	ReadGranted
	WriteGranted
	ReadReleased
	WriteReleased
	RequestRejected
	DeadlockDetected
	DeadlockResolved
	Unlocked
	Created
	entryTypeCount // sentinel
)

var entryTypeNames = [...]string{
	RequestRead:      "RequestRead",
	RequestWrite:     "RequestWrite",
	ReadGranted:      "ReadGranted",
	WriteGranted:     "WriteGranted",
	ReadReleased:     "ReadReleased",
	WriteReleased:    "WriteReleased",
	RequestRejected:  "RequestRejected",
	DeadlockDetected: "DeadlockDetected",
	DeadlockResolved: "DeadlockResolved",
	Unlocked:         "Unlocked",
	Created:          "Created",
}

// AllTypes returns every entry type in ordinal order.
func AllTypes() []EntryType {
	out := make([]EntryType, 0, entryTypeCount)
	for t := EntryType(0); t < entryTypeCount; t++ {
		out = append(out, t)
	}
	return out
}

// Valid reports whether t is one of the known entry types.
func (t EntryType) Valid() bool {
	return t >= 0 && t < entryTypeCount
}

func (t EntryType) String() string {
	if !t.Valid() {
		return "EntryType(" + strconv.Itoa(int(t)) + ")"
	}
	return entryTypeNames[t]
}

// ParseEntryType maps a name (case-insensitive) or a decimal ordinal to an
// EntryType.
func ParseEntryType(s string) (EntryType, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		t := EntryType(n)
		if !t.Valid() {
			return 0, fmt.Errorf("%w: ordinal %d", ErrUnknownType, n)
		}
		return t, nil
	}
	for i, name := range entryTypeNames {
		if strings.EqualFold(name, s) {
			return EntryType(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownType, s)
}

// MarshalJSON encodes the type by name so dumps stay readable.
func (t EntryType) MarshalJSON() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: ordinal %d", ErrUnknownType, int(t))
	}
	return json.Marshal(t.String())
}

// UnmarshalJSON accepts either the ordinal number or the type name.
func (t *EntryType) UnmarshalJSON(data []byte) error {
	var s string
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
	} else {
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("entry type: %w", err)
		}
		s = n.String()
	}
	parsed, err := ParseEntryType(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Entry is one recorded lock-protocol event.
type Entry struct {
	Time      float64   `json:"time"`
	ActorID   int64     `json:"actorId"`
	Type      EntryType `json:"type"`
	ExtraInfo string    `json:"extraInfo,omitempty"`
}

// Correlation returns the correlation payload carried in ExtraInfo, if any.
func (e Entry) Correlation() (Correlation, bool) {
	return ParseCorrelation(e.ExtraInfo)
}
