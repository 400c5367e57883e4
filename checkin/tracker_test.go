package checkin

import (
	"testing"
	"time"

	"github.com/estevaoantuness/notion-pangeia-sub000/internal/clock"
)

func newTestTracker(t *testing.T) (*Tracker, *clock.Fake) {
	t.Helper()
	fake := clock.NewFake(time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC))
	return NewTracker(WithTrackerClock(fake)), fake
}

func TestTrackerRecordLookupClear(t *testing.T) {
	tr, _ := newTestTracker(t)

	id, err := tr.Record("ana", TypeMorning, "bom dia!", 2*time.Hour)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	p, ok := tr.Lookup("ana")
	if !ok || p.ID != id || p.Type != TypeMorning {
		t.Fatalf("Lookup = %+v, %v", p, ok)
	}
	if err := tr.Clear("ana"); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, ok := tr.Lookup("ana"); ok {
		t.Fatalf("Lookup after Clear should be absent")
	}
}

func TestTrackerRejectsInvalidWindow(t *testing.T) {
	tr, _ := newTestTracker(t)
	if _, err := tr.Record("ana", TypeMorning, "x", 0); err == nil {
		t.Fatalf("zero window accepted")
	}
	if _, err := tr.Record("ana", TypeMorning, "x", -time.Minute); err == nil {
		t.Fatalf("negative window accepted")
	}
	if _, err := tr.Record("", TypeMorning, "x", time.Hour); err == nil {
		t.Fatalf("empty user accepted")
	}
}

// Expiry is lazy: the deadline check happens on lookup, not on sweep.
func TestTrackerLazyExpiry(t *testing.T) {
	tr, fake := newTestTracker(t)

	if _, err := tr.Record("ana", TypeMorning, "bom dia!", 120*time.Minute); err != nil {
		t.Fatalf("Record: %v", err)
	}
	fake.Advance(119 * time.Minute)
	if _, ok := tr.Lookup("ana"); !ok {
		t.Fatalf("entry expired before its window closed")
	}
	fake.Advance(81 * time.Minute) // now at +200min, past the 120min window
	if _, ok := tr.Lookup("ana"); ok {
		t.Fatalf("entry still live past its window")
	}
}

func TestTrackerSupersede(t *testing.T) {
	tr, _ := newTestTracker(t)

	first, err := tr.Record("ana", TypeMorning, "bom dia!", time.Hour)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	second, err := tr.Record("ana", TypeMidday, "como vai?", time.Hour)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if first == second {
		t.Fatalf("superseding record reused the id")
	}
	p, ok := tr.Lookup("ana")
	if !ok || p.ID != second {
		t.Fatalf("Lookup = %+v, want the superseding entry", p)
	}
}

func TestTrackerUsersDoNotInterfere(t *testing.T) {
	tr, _ := newTestTracker(t)

	idA, err := tr.Record("ana", TypeMorning, "a", time.Hour)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if _, err := tr.Record("bia", TypeMorning, "b", time.Hour); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := tr.Clear("bia"); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	p, ok := tr.Lookup("ana")
	if !ok || p.ID != idA {
		t.Fatalf("record/clear on bia disturbed ana: %+v, %v", p, ok)
	}
}

func TestTrackerSweepPurgesExpired(t *testing.T) {
	tr, fake := newTestTracker(t)

	if _, err := tr.Record("ana", TypeMorning, "a", 30*time.Minute); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if _, err := tr.Record("bia", TypeMorning, "b", 4*time.Hour); err != nil {
		t.Fatalf("Record: %v", err)
	}
	fake.Advance(time.Hour)
	if removed := tr.Sweep(); removed != 1 {
		t.Fatalf("Sweep removed %d, want 1", removed)
	}
	if _, ok := tr.Lookup("bia"); !ok {
		t.Fatalf("sweep removed a live entry")
	}
}
