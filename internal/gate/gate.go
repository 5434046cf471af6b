// Package gate decides whether an incoming ping warrants an email alert.
//
// The decision reads recent history but never writes; the ingestion
// handler always persists the event afterwards regardless of the
// outcome. Two near-simultaneous requests can both pass the cooldown
// check before either append is visible to the other — the gate is a
// best-effort throttle, not a lock.
package gate

import (
	"context"
	"fmt"
	"time"

	"github.com/Sidddev15/geo-alert/internal/event"
)

const (
	// CooldownMinutes is the minimum gap between two non-emergency alerts.
	CooldownMinutes = 10
	// DailyCap is the maximum non-emergency alerts per UTC calendar day.
	// The window is the calendar day, not a rolling 24h: a burst around
	// midnight UTC resets the budget. Intentional.
	DailyCap = 50
)

// Decision is the per-request outcome. It is never persisted.
type Decision struct {
	OK     bool   `json:"ok"`
	Reason string `json:"reason,omitempty"`
}

// ReadStore is the read-only slice of the event store the gate consults.
type ReadStore interface {
	LastEvent(ctx context.Context) (*event.Stored, error)
	CountForDay(ctx context.Context, day string) (int, error)
}

// Decide returns whether ev should trigger an alert at time now.
// Emergencies always pass; otherwise the daily cap is checked before
// the cooldown against the most recent stored event.
func Decide(ctx context.Context, ev event.Incoming, now time.Time, st ReadStore) (Decision, error) {
	if ev.EventType == event.TypeEmergency {
		return Decision{OK: true}, nil
	}

	nowIso := now.UTC().Format(event.ISOLayout)
	count, err := st.CountForDay(ctx, event.Day(nowIso))
	if err != nil {
		return Decision{}, fmt.Errorf("gate: count for day: %w", err)
	}
	if count >= DailyCap {
		return Decision{OK: false, Reason: "Daily cap reached"}, nil
	}

	last, err := st.LastEvent(ctx)
	if err != nil {
		return Decision{}, fmt.Errorf("gate: last event: %w", err)
	}
	if last == nil {
		return Decision{OK: true}, nil
	}

	lastAt, err := time.Parse(event.ISOLayout, last.CreatedAtIso)
	if err != nil {
		return Decision{}, fmt.Errorf("gate: parse last createdAtIso %q: %w", last.CreatedAtIso, err)
	}
	diffMin := now.Sub(lastAt).Minutes()
	if diffMin < CooldownMinutes {
		return Decision{OK: false, Reason: fmt.Sprintf("Cooldown (%.1f min since last alert)", diffMin)}, nil
	}
	return Decision{OK: true}, nil
}
