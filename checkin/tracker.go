package checkin

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/estevaoantuness/notion-pangeia-sub000/internal/clock"
	"github.com/estevaoantuness/notion-pangeia-sub000/internal/sessionstore"
)

// Tracker records each dispatched prompt and answers "is this inbound message
// a live reply?". Deadline checks are lazy (wall-clock subtraction on
// lookup); the periodic sweep only bounds memory and is never needed for
// correctness.
type Tracker struct {
	store sessionstore.Store[Pending]
	clock clock.Clock
	log   *slog.Logger
}

type TrackerOption func(*Tracker)

func WithTrackerStore(s sessionstore.Store[Pending]) TrackerOption {
	return func(t *Tracker) {
		if s != nil {
			t.store = s
		}
	}
}

func WithTrackerClock(c clock.Clock) TrackerOption {
	return func(t *Tracker) {
		if c != nil {
			t.clock = c
		}
	}
}

func WithTrackerLogger(l *slog.Logger) TrackerOption {
	return func(t *Tracker) {
		if l != nil {
			t.log = l
		}
	}
}

func NewTracker(opts ...TrackerOption) *Tracker {
	t := &Tracker{
		store: sessionstore.NewMemory[Pending](),
		clock: clock.System(),
		log:   slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Record creates the user's pending check-in, superseding any unresolved one,
// and returns its id.
func (t *Tracker) Record(userID string, kind Type, prompt string, window time.Duration) (string, error) {
	if userID == "" {
		return "", fmt.Errorf("user id is required")
	}
	if window <= 0 {
		return "", fmt.Errorf("response window must be positive")
	}
	p := Pending{
		ID:     uuid.NewString(),
		UserID: userID,
		Type:   kind,
		Prompt: prompt,
		SentAt: t.clock.Now(),
		Window: window,
	}
	if prev, ok := t.store.Get(userID); ok {
		t.log.Debug("checkin superseded", "user", userID, "old_id", prev.ID, "new_id", p.ID)
	}
	if err := t.store.Set(userID, p); err != nil {
		return "", err
	}
	return p.ID, nil
}

// Lookup returns the user's live pending check-in. An entry past its deadline
// is expired on the spot and reported as absent.
func (t *Tracker) Lookup(userID string) (Pending, bool) {
	p, ok := t.store.Get(userID)
	if !ok {
		return Pending{}, false
	}
	if p.Expired(t.clock.Now()) {
		_ = t.store.Delete(userID)
		t.log.Debug("checkin expired", "user", userID, "id", p.ID)
		return Pending{}, false
	}
	return p, true
}

// Clear removes the user's pending check-in after a matching reply.
func (t *Tracker) Clear(userID string) error {
	return t.store.Delete(userID)
}

// Sweep purges expired entries to bound memory. Skipping a sweep only delays
// reclamation.
func (t *Tracker) Sweep() int {
	now := t.clock.Now()
	removed := 0
	_ = t.store.ForEach(func(key string, p Pending) bool {
		if p.Expired(now) {
			_ = t.store.Delete(key)
			removed++
		}
		return true
	})
	if removed > 0 {
		t.log.Debug("checkin sweep", "removed", removed)
	}
	return removed
}
