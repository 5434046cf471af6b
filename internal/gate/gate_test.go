package gate

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Sidddev15/geo-alert/internal/event"
	"github.com/Sidddev15/geo-alert/internal/store"
)

var baseTime = time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

func seed(t *testing.T, st *store.Memory, at time.Time, typ event.Type) {
	t.Helper()
	err := st.Append(context.Background(), event.Stored{
		ID:           fmt.Sprintf("ev-%d", at.UnixMilli()),
		CreatedAtIso: at.UTC().Format(event.ISOLayout),
		Lat:          12.97,
		Lng:          77.59,
		EventType:    typ,
	})
	if err != nil {
		t.Fatalf("seed append: %v", err)
	}
}

func TestDecide_EmptyStoreAllows(t *testing.T) {
	dec, err := Decide(context.Background(), event.Incoming{EventType: event.TypeManual}, baseTime, store.NewMemory())
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if !dec.OK || dec.Reason != "" {
		t.Errorf("Decide = %+v, want ok with no reason", dec)
	}
}

func TestDecide_Cooldown(t *testing.T) {
	cases := []struct {
		name       string
		sinceLast  time.Duration
		wantOK     bool
		wantReason string
	}{
		{name: "inside cooldown", sinceLast: 5 * time.Minute, wantOK: false,
			wantReason: "Cooldown (5.0 min since last alert)"},
		{name: "just inside", sinceLast: 9*time.Minute + 54*time.Second, wantOK: false,
			wantReason: "Cooldown (9.9 min since last alert)"},
		{name: "exactly at boundary", sinceLast: 10 * time.Minute, wantOK: true},
		{name: "past cooldown", sinceLast: 11 * time.Minute, wantOK: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			st := store.NewMemory()
			seed(t, st, baseTime.Add(-tc.sinceLast), event.TypeAuto)

			dec, err := Decide(context.Background(), event.Incoming{EventType: event.TypeAuto}, baseTime, st)
			if err != nil {
				t.Fatalf("Decide: %v", err)
			}
			if dec.OK != tc.wantOK {
				t.Fatalf("Decide.OK = %v, want %v (reason %q)", dec.OK, tc.wantOK, dec.Reason)
			}
			if dec.Reason != tc.wantReason {
				t.Errorf("Decide.Reason = %q, want %q", dec.Reason, tc.wantReason)
			}
		})
	}
}

func TestDecide_DailyCap(t *testing.T) {
	st := store.NewMemory()
	// Fill today's budget with events safely outside the cooldown window.
	for i := 0; i < DailyCap; i++ {
		seed(t, st, baseTime.Add(-time.Duration(i+20)*time.Minute), event.TypeAuto)
	}

	dec, err := Decide(context.Background(), event.Incoming{EventType: event.TypeAuto}, baseTime, st)
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if dec.OK {
		t.Fatal("Decide.OK = true, want capped")
	}
	if dec.Reason != "Daily cap reached" {
		t.Errorf("Decide.Reason = %q, want %q", dec.Reason, "Daily cap reached")
	}
}

func TestDecide_CapWindowIsCalendarDay(t *testing.T) {
	// Events from the previous UTC day never count against today's cap,
	// even when they are less than 24h old.
	st := store.NewMemory()
	yesterday := time.Date(2026, 8, 27, 23, 0, 0, 0, time.UTC)
	for i := 0; i < DailyCap; i++ {
		seed(t, st, yesterday.Add(-time.Duration(i)*time.Minute), event.TypeAuto)
	}

	now := time.Date(2026, 8, 28, 1, 0, 0, 0, time.UTC)
	dec, err := Decide(context.Background(), event.Incoming{EventType: event.TypeAuto}, now, st)
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if !dec.OK {
		t.Errorf("Decide = %+v, want ok: yesterday's events reset at midnight UTC", dec)
	}
}

func TestDecide_EmergencyBypassesEverything(t *testing.T) {
	st := store.NewMemory()
	for i := 0; i < DailyCap; i++ {
		seed(t, st, baseTime.Add(-time.Duration(i)*time.Minute), event.TypeAuto)
	}
	// Last event is seconds old and the cap is exhausted.
	seed(t, st, baseTime.Add(-10*time.Second), event.TypeAuto)

	dec, err := Decide(context.Background(), event.Incoming{EventType: event.TypeEmergency}, baseTime, st)
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if !dec.OK {
		t.Errorf("Decide = %+v, want emergency to always pass", dec)
	}
}

func TestDecide_RecomputeAfterWait(t *testing.T) {
	// A ping at T is stored; gating a ping at T+5 is rejected, waiting
	// until T+11 passes.
	st := store.NewMemory()
	seed(t, st, baseTime, event.TypeManual)

	dec, err := Decide(context.Background(), event.Incoming{EventType: event.TypeManual}, baseTime.Add(5*time.Minute), st)
	if err != nil {
		t.Fatalf("Decide at T+5: %v", err)
	}
	if dec.OK {
		t.Fatalf("Decide at T+5 = %+v, want cooldown rejection", dec)
	}

	dec, err = Decide(context.Background(), event.Incoming{EventType: event.TypeManual}, baseTime.Add(11*time.Minute), st)
	if err != nil {
		t.Fatalf("Decide at T+11: %v", err)
	}
	if !dec.OK {
		t.Errorf("Decide at T+11 = %+v, want ok", dec)
	}
}
