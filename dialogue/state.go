// Package dialogue is the per-user state machine that decides between
// immediate execution and suspension: an intent missing required parameters
// waits for the next message, resumes (including multi-value batches), or is
// cancelled. Check-in replies are consulted before anything else.
package dialogue

import (
	"time"

	"github.com/estevaoantuness/notion-pangeia-sub000/nlp"
)

// Kind is the state tag. Illegal combinations are unrepresentable: only
// KindAwaitingSlot carries Intent+Missing, only KindAwaitingMenu carries
// Options.
type Kind int

const (
	KindIdle Kind = iota
	KindAwaitingSlot
	KindAwaitingMenu
)

// State is one user's dialogue position. Exactly one per user, no stacking:
// a new suspension supersedes the old one.
type State struct {
	Kind Kind `json:"kind"`

	// AwaitingSlot fields.
	Intent  nlp.Intent `json:"intent,omitempty"`
	Missing []string   `json:"missing,omitempty"`
	Prompt  string     `json:"prompt,omitempty"`

	// AwaitingMenu fields.
	Options []nlp.Intent `json:"options,omitempty"`

	// LastOutbound feeds the matcher's narrow recent-history rules.
	LastOutbound nlp.OutboundKind `json:"last_outbound,omitempty"`

	CreatedAt time.Time `json:"created_at,omitempty"`
}

func idle(last nlp.OutboundKind) State {
	return State{Kind: KindIdle, LastOutbound: last}
}

func awaitingSlot(intent nlp.Intent, missing []string, prompt string, at time.Time) State {
	return State{
		Kind:      KindAwaitingSlot,
		Intent:    intent,
		Missing:   missing,
		Prompt:    prompt,
		CreatedAt: at,
	}
}

func awaitingMenu(options []nlp.Intent, at time.Time) State {
	return State{
		Kind:         KindAwaitingMenu,
		Options:      options,
		LastOutbound: nlp.OutboundMenu,
		CreatedAt:    at,
	}
}
