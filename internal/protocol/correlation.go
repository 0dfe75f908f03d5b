package protocol

import (
	"encoding/json"
	"strings"
)

// Correlation links events of several actors that took part in the same
// logical transaction. The lock manager writes it into ExtraInfo as a JSON
// object: {"eventId": "...", "eventType": "..."}.
type Correlation struct {
	TransactionID string `json:"eventId"`
	EventKind     string `json:"eventType"`
}

// ParseCorrelation extracts a correlation payload from an annotation.
// Anything that is not a JSON object with a non-empty eventId is plain text.
func ParseCorrelation(info string) (Correlation, bool) {
	trimmed := strings.TrimSpace(info)
	if !strings.HasPrefix(trimmed, "{") {
		return Correlation{}, false
	}
	var c Correlation
	if err := json.Unmarshal([]byte(trimmed), &c); err != nil {
		return Correlation{}, false
	}
	if c.TransactionID == "" {
		return Correlation{}, false
	}
	return c, true
}

// Short is the compact label form: the first dash-separated segment of the
// transaction id followed by the event kind.
func (c Correlation) Short() string {
	prefix, _, _ := strings.Cut(c.TransactionID, "-")
	if c.EventKind == "" {
		return prefix
	}
	return prefix + " " + c.EventKind
}
