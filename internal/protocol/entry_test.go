package protocol

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestEntryTypeString(t *testing.T) {
	tests := []struct {
		t    EntryType
		want string
	}{
		{RequestRead, "RequestRead"},
		{WriteGranted, "WriteGranted"},
		{DeadlockDetected, "DeadlockDetected"},
		{Created, "Created"},
		{EntryType(99), "EntryType(99)"},
	}

	for _, tt := range tests {
		if got := tt.t.String(); got != tt.want {
			t.Errorf("EntryType(%d).String() = %q, want %q", int(tt.t), got, tt.want)
		}
	}
}

func TestAllTypes(t *testing.T) {
	all := AllTypes()
	if len(all) != 11 {
		t.Fatalf("expected 11 entry types, got %d", len(all))
	}
	if all[0] != RequestRead || all[10] != Created {
		t.Errorf("AllTypes order = %v", all)
	}
}

func TestParseEntryType(t *testing.T) {
	tests := []struct {
		input string
		want  EntryType
		err   bool
	}{
		{"0", RequestRead, false},
		{"7", DeadlockDetected, false},
		{"10", Created, false},
		{"DeadlockResolved", DeadlockResolved, false},
		{"unlocked", Unlocked, false},
		{" WriteReleased ", WriteReleased, false},
		{"11", 0, true},
		{"-1", 0, true},
		{"Exploded", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseEntryType(tt.input)
			if tt.err {
				if !errors.Is(err, ErrUnknownType) {
					t.Errorf("ParseEntryType(%q) error = %v, want ErrUnknownType", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseEntryType(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseEntryType(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestEntryUnmarshalOrdinalAndName(t *testing.T) {
	var entries []Entry
	data := `[
		{"time": 1, "actorId": 3, "type": 2},
		{"time": 2.5, "actorId": 3, "type": "WriteGranted", "extraInfo": "hello"}
	]`
	if err := json.Unmarshal([]byte(data), &entries); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Type != ReadGranted {
		t.Errorf("entries[0].Type = %v, want ReadGranted", entries[0].Type)
	}
	if entries[1].Type != WriteGranted || entries[1].Time != 2.5 || entries[1].ExtraInfo != "hello" {
		t.Errorf("entries[1] = %+v", entries[1])
	}
}

func TestEntryUnmarshalUnknownType(t *testing.T) {
	var e Entry
	err := json.Unmarshal([]byte(`{"time": 1, "actorId": 1, "type": 42}`), &e)
	if !errors.Is(err, ErrUnknownType) {
		t.Errorf("Unmarshal error = %v, want ErrUnknownType", err)
	}
}

func TestEntryTypeMarshalByName(t *testing.T) {
	out, err := json.Marshal(Entry{Time: 1, ActorID: 2, Type: RequestRejected})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{"time":1,"actorId":2,"type":"RequestRejected"}`
	if string(out) != want {
		t.Errorf("Marshal = %s, want %s", out, want)
	}
}
