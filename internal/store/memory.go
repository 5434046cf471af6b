package store

import (
	"context"
	"sort"
	"sync"

	"github.com/Sidddev15/geo-alert/internal/event"
)

// Memory is an in-memory Store used as a test substitute for SQLite.
// It honors the same ordering and clamping contract.
type Memory struct {
	mu     sync.RWMutex
	events []event.Stored // ascending by CreatedAtIso
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Append(_ context.Context, ev event.Stored) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, ev)
	sort.SliceStable(m.events, func(i, j int) bool {
		return m.events[i].CreatedAtIso < m.events[j].CreatedAtIso
	})
	return nil
}

func (m *Memory) LastEvent(_ context.Context) (*event.Stored, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.events) == 0 {
		return nil, nil
	}
	ev := m.events[len(m.events)-1]
	return &ev, nil
}

func (m *Memory) CountForDay(_ context.Context, day string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, ev := range m.events {
		if event.Day(ev.CreatedAtIso) == day {
			n++
		}
	}
	return n, nil
}

func (m *Memory) ListBefore(_ context.Context, beforeIso string, limit int) ([]event.Stored, error) {
	limit = clampLimit(limit)
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]event.Stored, 0, limit)
	for i := len(m.events) - 1; i >= 0 && len(out) < limit; i-- {
		ev := m.events[i]
		if beforeIso != "" && ev.CreatedAtIso >= beforeIso {
			continue
		}
		out = append(out, ev)
	}
	return out, nil
}

func (m *Memory) Close() error { return nil }
