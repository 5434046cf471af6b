package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/Sidddev15/geo-alert/internal/event"
)

const schema = `
CREATE TABLE IF NOT EXISTS events (
  id TEXT PRIMARY KEY,
  createdAtIso TEXT NOT NULL,
  lat REAL NOT NULL,
  lng REAL NOT NULL,
  eventType TEXT NOT NULL,
  battery REAL,
  notes TEXT
);

CREATE INDEX IF NOT EXISTS idx_events_createdAt ON events(createdAtIso);
`

// SQLite is the durable Store backed by a single database file.
type SQLite struct {
	db *sql.DB
}

// Open opens (creating if needed) the SQLite event log at path.
func Open(path string) (*SQLite, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("store: sqlite path is required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("store: create dir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	// Serialize writes at the store boundary: SQLite prefers a single
	// writer, and the handlers above never coordinate appends themselves.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	_, _ = db.Exec("PRAGMA busy_timeout = 5000")
	_, _ = db.Exec("PRAGMA journal_mode = WAL")
	_, _ = db.Exec("PRAGMA synchronous = NORMAL")

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: create schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Append(ctx context.Context, ev event.Stored) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO events (id, createdAtIso, lat, lng, eventType, battery, notes)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		ev.ID, ev.CreatedAtIso, ev.Lat, ev.Lng, string(ev.EventType),
		nullFloat(ev.Battery), nullString(ev.Notes),
	)
	if err != nil {
		return fmt.Errorf("store: append event %s: %w", ev.ID, err)
	}
	return nil
}

func (s *SQLite) LastEvent(ctx context.Context) (*event.Stored, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, createdAtIso, lat, lng, eventType, battery, notes
		 FROM events ORDER BY createdAtIso DESC LIMIT 1`)
	ev, err := scanEvent(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: last event: %w", err)
	}
	return &ev, nil
}

func (s *SQLite) CountForDay(ctx context.Context, day string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM events WHERE substr(createdAtIso, 1, 10) = ?`, day,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("store: count for day %s: %w", day, err)
	}
	return n, nil
}

func (s *SQLite) ListBefore(ctx context.Context, beforeIso string, limit int) ([]event.Stored, error) {
	limit = clampLimit(limit)

	var (
		rows *sql.Rows
		err  error
	)
	if beforeIso != "" {
		rows, err = s.db.QueryContext(ctx,
			`SELECT id, createdAtIso, lat, lng, eventType, battery, notes
			 FROM events WHERE createdAtIso < ?
			 ORDER BY createdAtIso DESC LIMIT ?`, beforeIso, limit)
	} else {
		rows, err = s.db.QueryContext(ctx,
			`SELECT id, createdAtIso, lat, lng, eventType, battery, notes
			 FROM events ORDER BY createdAtIso DESC LIMIT ?`, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("store: list events: %w", err)
	}
	defer rows.Close()

	events := make([]event.Stored, 0, limit)
	for rows.Next() {
		ev, err := scanEvent(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("store: scan event: %w", err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: list events: %w", err)
	}
	return events, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func scanEvent(scan func(dest ...any) error) (event.Stored, error) {
	var (
		ev      event.Stored
		battery sql.NullFloat64
		notes   sql.NullString
	)
	err := scan(&ev.ID, &ev.CreatedAtIso, &ev.Lat, &ev.Lng, &ev.EventType, &battery, &notes)
	if err != nil {
		return event.Stored{}, err
	}
	if battery.Valid {
		ev.Battery = &battery.Float64
	}
	if notes.Valid {
		ev.Notes = &notes.String
	}
	return ev, nil
}

func nullFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullString(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}
