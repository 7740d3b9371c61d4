// Package timestamp reads request date-times written either as RFC 3339 or as a
// zone-less local date-time such as "2026-10-15T18:02:31", which is taken as UTC.
package timestamp

import (
	"encoding/json"
	"fmt"
	"time"
)

// LocalLayout is the zone-less form clients send.
const LocalLayout = "2006-01-02T15:04:05"

var layouts = []string{
	time.RFC3339Nano,
	LocalLayout + ".999999999",
}

// Parse accepts RFC 3339 or LocalLayout (with optional fractional seconds) and returns UTC.
func Parse(raw string) (time.Time, error) {
	for _, layout := range layouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q: expected %s or RFC 3339", raw, LocalLayout)
}

// Time is a time.Time that decodes from either accepted form.
// It stays convertible to time.Time so binding:"required" checks it for zero.
type Time time.Time

// Std returns the value as a time.Time.
func (t Time) Std() time.Time { return time.Time(t) }

// UnmarshalJSON decodes a JSON string with Parse. null leaves the value unchanged.
func (t *Time) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	parsed, err := Parse(raw)
	if err != nil {
		return err
	}
	*t = Time(parsed)
	return nil
}

// MarshalJSON writes RFC 3339.
func (t Time) MarshalJSON() ([]byte, error) {
	return time.Time(t).MarshalJSON()
}
