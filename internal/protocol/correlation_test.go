package protocol

import "testing"

func TestParseCorrelation(t *testing.T) {
	tests := []struct {
		name   string
		info   string
		want   Correlation
		wantOK bool
	}{
		{
			name:   "full payload",
			info:   `{"eventId":"a1b2-c3d4-e5","eventType":"commit"}`,
			want:   Correlation{TransactionID: "a1b2-c3d4-e5", EventKind: "commit"},
			wantOK: true,
		},
		{
			name:   "no event type",
			info:   `{"eventId":"tx9"}`,
			want:   Correlation{TransactionID: "tx9"},
			wantOK: true,
		},
		{name: "plain text", info: "worker pool 3", wantOK: false},
		{name: "empty", info: "", wantOK: false},
		{name: "malformed json", info: `{"eventId": "abc`, wantOK: false},
		{name: "mentions eventId but not json", info: "eventId=abc", wantOK: false},
		{name: "object without id", info: `{"eventType":"commit"}`, wantOK: false},
		{name: "empty id", info: `{"eventId":"","eventType":"commit"}`, wantOK: false},
		{name: "id of wrong type", info: `{"eventId":12}`, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseCorrelation(tt.info)
			if ok != tt.wantOK {
				t.Fatalf("ParseCorrelation(%q) ok = %v, want %v", tt.info, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("ParseCorrelation(%q) = %+v, want %+v", tt.info, got, tt.want)
			}
		})
	}
}

func TestCorrelationShort(t *testing.T) {
	tests := []struct {
		c    Correlation
		want string
	}{
		{Correlation{TransactionID: "a1b2-c3d4", EventKind: "commit"}, "a1b2 commit"},
		{Correlation{TransactionID: "nodash", EventKind: "abort"}, "nodash abort"},
		{Correlation{TransactionID: "a1b2-c3d4"}, "a1b2"},
	}

	for _, tt := range tests {
		if got := tt.c.Short(); got != tt.want {
			t.Errorf("%+v.Short() = %q, want %q", tt.c, got, tt.want)
		}
	}
}
