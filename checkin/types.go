// Package checkin schedules the daily outbound prompts and correlates each
// one with the reply that answers it inside a bounded time window. A reply
// arriving after the window must never be attributed to the prompt.
package checkin

import "time"

// Type identifies a check-in moment of the day.
type Type string

const (
	TypeMorning Type = "morning"
	TypeMidday  Type = "midday"
	TypeEvening Type = "evening"
)

// Pending is one dispatched prompt still waiting for its reply. One live
// instance per user; a new one supersedes an unresolved older one.
type Pending struct {
	ID     string        `json:"id"`
	UserID string        `json:"user_id"`
	Type   Type          `json:"type"`
	Prompt string        `json:"prompt"`
	SentAt time.Time     `json:"sent_at"`
	Window time.Duration `json:"window"`
}

// Expired reports whether the response window has closed at now.
func (p Pending) Expired(now time.Time) bool {
	return now.Sub(p.SentAt) > p.Window
}

// JobType tags a scheduled one-shot job.
type JobType string

const (
	JobPrompt       JobType = "prompt"
	JobFollowUp     JobType = "follow-up"
	JobDailyRebuild JobType = "daily-rebuild"
)

// Job is one armed one-shot timer. Jobs are consumed and discarded once
// fired; firing is idempotent by instance id, so a superseded job becomes a
// no-op instead of a duplicate.
type Job struct {
	ID     string
	Type   JobType
	FireAt time.Time
	UserID string
	Kind   Type
}
