package store

import (
	"context"

	"github.com/Sidddev15/geo-alert/internal/event"
)

// MaxListLimit is the hard server-side ceiling for a single history page.
const MaxListLimit = 200

// Store is the append-only event log consulted by the gate and the API.
//
// Reads may run concurrently with writes; a read racing a concurrent
// Append may or may not observe it. The cooldown/cap checks built on top
// of these reads are therefore advisory, not an atomic guard.
type Store interface {
	// Append durably writes ev before returning. It never silently drops
	// a record.
	Append(ctx context.Context, ev event.Stored) error
	// LastEvent returns the most recent event by createdAtIso, or nil if
	// the log is empty.
	LastEvent(ctx context.Context) (*event.Stored, error)
	// CountForDay counts events whose createdAtIso date portion equals
	// day ("YYYY-MM-DD").
	CountForDay(ctx context.Context, day string) (int, error)
	// ListBefore returns events newest first, strictly older than
	// beforeIso when given (empty string means "from the newest"). The
	// limit is clamped to [1, MaxListLimit].
	ListBefore(ctx context.Context, beforeIso string, limit int) ([]event.Stored, error)
	Close() error
}

func clampLimit(limit int) int {
	if limit < 1 {
		return 1
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}
