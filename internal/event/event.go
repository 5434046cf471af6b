package event

import "fmt"

// ISOLayout is the wire and storage format for createdAtIso timestamps.
// Millisecond precision in UTC renders a trailing "Z", so lexicographic
// order over stored timestamps equals chronological order.
const ISOLayout = "2006-01-02T15:04:05.000Z07:00"

// Type classifies why the device sent a ping.
type Type string

const (
	TypeManual           Type = "manual"
	TypeAuto             Type = "auto"
	TypeNight            Type = "night"
	TypeStoppedConfirmed Type = "stopped_confirmed"
	TypeEmergency        Type = "emergency"
)

// Valid reports whether t is one of the known event types.
func (t Type) Valid() bool {
	switch t {
	case TypeManual, TypeAuto, TypeNight, TypeStoppedConfirmed, TypeEmergency:
		return true
	}
	return false
}

const maxNotesLen = 500

// Incoming is the untrusted input model for a device ping.
type Incoming struct {
	Lat       float64  `json:"lat"`
	Lng       float64  `json:"lng"`
	EventType Type     `json:"eventType"`
	DeviceTs  string   `json:"deviceTs,omitempty"` // free-form display string
	TZ        string   `json:"tz,omitempty"`       // accepted but unused; cap stays on the server's UTC day
	Battery   *float64 `json:"battery,omitempty"`  // raw, unnormalized
	Notes     string   `json:"notes,omitempty"`
}

// Validate returns per-field messages. An empty map means the event is valid.
func (e Incoming) Validate() map[string]string {
	details := make(map[string]string)
	if e.Lat < -90 || e.Lat > 90 {
		details["lat"] = "must be between -90 and 90"
	}
	if e.Lng < -180 || e.Lng > 180 {
		details["lng"] = "must be between -180 and 180"
	}
	if e.EventType == "" {
		details["eventType"] = "is required"
	} else if !e.EventType.Valid() {
		details["eventType"] = fmt.Sprintf("unknown event type %q", e.EventType)
	}
	if len(e.Notes) > maxNotesLen {
		details["notes"] = fmt.Sprintf("must be at most %d characters", maxNotesLen)
	}
	return details
}

// Stored is the persisted, immutable form of an accepted ping.
type Stored struct {
	ID           string   `json:"id"`
	CreatedAtIso string   `json:"createdAtIso"`
	Lat          float64  `json:"lat"`
	Lng          float64  `json:"lng"`
	EventType    Type     `json:"eventType"`
	Battery      *float64 `json:"battery"` // fraction in [0,1], nil when absent or out of range
	Notes        *string  `json:"notes"`
}

// Day extracts the UTC calendar-day bucket (date portion) of an ISO timestamp.
func Day(iso string) string {
	if len(iso) < 10 {
		return iso
	}
	return iso[:10]
}

// NormalizeBattery maps a raw battery reading to a fraction in [0,1].
// Values at or below 1 are treated as fractions, values up to 100 as
// percentages. Anything above 100 is rejected, not clamped.
func NormalizeBattery(b *float64) *float64 {
	if b == nil {
		return nil
	}
	v := *b
	switch {
	case v <= 1:
		v = clamp01(v)
	case v <= 100:
		v = clamp01(v / 100)
	default:
		return nil
	}
	return &v
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
