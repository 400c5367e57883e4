package dialogue

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/estevaoantuness/notion-pangeia-sub000/catalog"
	"github.com/estevaoantuness/notion-pangeia-sub000/checkin"
	"github.com/estevaoantuness/notion-pangeia-sub000/internal/clock"
	"github.com/estevaoantuness/notion-pangeia-sub000/internal/sessionstore"
	"github.com/estevaoantuness/notion-pangeia-sub000/internal/userlock"
	"github.com/estevaoantuness/notion-pangeia-sub000/nlp"
	"github.com/estevaoantuness/notion-pangeia-sub000/tasks"
)

const (
	// DefaultAcceptanceFloor: below it no side-effecting handler runs.
	DefaultAcceptanceFloor = 0.75
	// DefaultSwitchFloor: an unrelated fresh intent only evicts a suspension
	// at or above it. Fuzzy matches never reach this band.
	DefaultSwitchFloor = 0.90
)

// Phrases picks wording for a category; the engine passes keys and variables,
// never prose.
type Phrases interface {
	Pick(category string, vars map[string]string) string
}

// Tracker answers whether an inbound message is a live check-in reply.
type Tracker interface {
	Lookup(userID string) (checkin.Pending, bool)
	Clear(userID string) error
}

// Recorder durably stores a finalized check-in reply. Optional.
type Recorder interface {
	RecordCheckinReply(ctx context.Context, p checkin.Pending, reply string) error
}

// Engine is the conversational command engine. Handle is the boundary
// operation: one inbound message in, outward message parts out.
type Engine struct {
	matcher  *nlp.Matcher
	store    tasks.Store
	phrases  Phrases
	tracker  Tracker
	recorder Recorder
	states   sessionstore.Store[State]
	locks    *userlock.Keyed
	clock    clock.Clock
	log      *slog.Logger

	acceptanceFloor float64
	switchFloor     float64
}

type Option func(*Engine)

func WithAcceptanceFloor(f float64) Option {
	return func(e *Engine) {
		if f > 0 && f < 1 {
			e.acceptanceFloor = f
		}
	}
}

func WithSwitchFloor(f float64) Option {
	return func(e *Engine) {
		if f > 0 && f <= 1 {
			e.switchFloor = f
		}
	}
}

func WithStates(s sessionstore.Store[State]) Option {
	return func(e *Engine) {
		if s != nil {
			e.states = s
		}
	}
}

func WithClock(c clock.Clock) Option {
	return func(e *Engine) {
		if c != nil {
			e.clock = c
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

func WithRecorder(r Recorder) Option {
	return func(e *Engine) {
		e.recorder = r
	}
}

// WithUserLocks shares per-user locks with the check-in scheduler so the
// message path and the timer path serialize per user.
func WithUserLocks(k *userlock.Keyed) Option {
	return func(e *Engine) {
		if k != nil {
			e.locks = k
		}
	}
}

func New(matcher *nlp.Matcher, store tasks.Store, phrases Phrases, tracker Tracker, opts ...Option) (*Engine, error) {
	if matcher == nil {
		return nil, fmt.Errorf("matcher is required")
	}
	if store == nil {
		return nil, fmt.Errorf("task store is required")
	}
	if phrases == nil {
		return nil, fmt.Errorf("phrase catalog is required")
	}
	if tracker == nil {
		return nil, fmt.Errorf("checkin tracker is required")
	}
	e := &Engine{
		matcher:         matcher,
		store:           store,
		phrases:         phrases,
		tracker:         tracker,
		states:          sessionstore.NewMemory[State](),
		locks:           userlock.New(),
		clock:           clock.System(),
		log:             slog.Default(),
		acceptanceFloor: DefaultAcceptanceFloor,
		switchFloor:     DefaultSwitchFloor,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Locks exposes the per-user lock set for sharing with the scheduler.
func (e *Engine) Locks() *userlock.Keyed { return e.locks }

// Handle processes one inbound message and returns the outward message
// parts. It never returns an error for bad input; only collaborator-level
// breakage surfaces, after state has been left consistent.
func (e *Engine) Handle(ctx context.Context, userID, raw string) []string {
	unlock := e.locks.Lock(userID)
	defer unlock()

	// A live check-in reply consumes the turn entirely, whatever the
	// dialogue state. A late reply falls through and is parsed as an
	// ordinary command.
	if pending, ok := e.tracker.Lookup(userID); ok {
		return e.consumeCheckinReply(ctx, userID, pending, raw)
	}

	state, ok := e.states.Get(userID)
	if !ok {
		state = idle(nlp.OutboundNone)
	}

	switch state.Kind {
	case KindAwaitingSlot:
		return e.handleAwaitingSlot(ctx, userID, state, raw)
	case KindAwaitingMenu:
		return e.handleAwaitingMenu(ctx, userID, state, raw)
	default:
		return e.handleIdle(ctx, userID, state, raw)
	}
}

func (e *Engine) consumeCheckinReply(ctx context.Context, userID string, pending checkin.Pending, raw string) []string {
	if err := e.tracker.Clear(userID); err != nil {
		e.log.Error("checkin clear failed", "user", userID, "error", err)
	}
	if e.recorder != nil {
		if err := e.recorder.RecordCheckinReply(ctx, pending, strings.TrimSpace(raw)); err != nil {
			e.log.Error("checkin reply record failed", "user", userID, "error", err)
		}
	}
	e.log.Info("checkin answered", "user", userID, "type", pending.Type, "id", pending.ID)

	parts := []string{e.phrases.Pick(catalog.CatCheckinAck, nil)}
	// A half-finished command survives the interruption: keep the suspension
	// and repeat its question so the user knows it is still open.
	if state, ok := e.states.Get(userID); ok && state.Kind == KindAwaitingSlot {
		parts = append(parts, state.Prompt)
		return parts
	}
	e.setState(userID, idle(nlp.OutboundNone))
	return parts
}

func (e *Engine) handleIdle(ctx context.Context, userID string, state State, raw string) []string {
	result := e.matcher.Match(raw, nlp.Context{LastOutbound: state.LastOutbound})
	return e.dispatch(ctx, userID, result, raw)
}

// dispatch routes an accepted ParseResult: disambiguation below the floor,
// suspension when required entities are missing, execution otherwise.
func (e *Engine) dispatch(ctx context.Context, userID string, result nlp.ParseResult, raw string) []string {
	if result.Confidence < e.acceptanceFloor {
		return e.offerMenu(userID, raw)
	}
	if missing := missingEntities(result); len(missing) > 0 {
		return e.suspend(userID, result.Intent, missing)
	}
	e.setState(userID, idle(outboundKind(result.Intent)))
	return e.execute(ctx, userID, result)
}

func (e *Engine) offerMenu(userID, raw string) []string {
	suggestions := nlp.SuggestMenu(raw)
	options := make([]nlp.Intent, 0, len(suggestions))
	lines := make([]string, 0, len(suggestions)+1)
	lines = append(lines, e.phrases.Pick(catalog.CatMenuHeader, nil))
	for i, s := range suggestions {
		options = append(options, s.Intent)
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, s.Label))
	}
	e.setState(userID, awaitingMenu(options, e.clock.Now()))
	return []string{strings.Join(lines, "\n")}
}

func (e *Engine) suspend(userID string, intent nlp.Intent, missing []string) []string {
	prompt := e.slotPrompt(missing)
	e.setState(userID, awaitingSlot(intent, missing, prompt, e.clock.Now()))
	e.log.Debug("intent suspended", "user", userID, "intent", intent, "missing", missing)
	return []string{prompt}
}

func (e *Engine) slotPrompt(missing []string) string {
	if len(missing) > 0 && missing[0] == nlp.EntityText {
		return e.phrases.Pick(catalog.CatPromptText, nil)
	}
	return e.phrases.Pick(catalog.CatPromptIndices, nil)
}

func (e *Engine) handleAwaitingSlot(ctx context.Context, userID string, state State, raw string) []string {
	result := e.matcher.Match(raw, nlp.Context{})

	// Explicit cancellation wins over everything else.
	if result.Intent == nlp.IntentCancel && result.Confidence >= e.acceptanceFloor {
		e.setState(userID, idle(nlp.OutboundNone))
		return []string{e.phrases.Pick(catalog.CatCancelAck, nil)}
	}

	if parts, ok := e.resumeSlot(ctx, userID, state, raw, result); ok {
		return parts
	}

	// An unambiguous, unrelated fresh intent silently discards the
	// suspension. Fuzzy matches never clear the switch floor.
	if result.Intent != state.Intent && result.Confidence >= e.switchFloor {
		e.log.Debug("suspension superseded", "user", userID, "old", state.Intent, "new", result.Intent)
		return e.dispatch(ctx, userID, result, raw)
	}

	// Invalid slot answer: same prompt again, no state loss, unlimited retries.
	return []string{state.Prompt}
}

// resumeSlot tries to read the message as an answer to the suspended
// intent's missing parameter. ok is false when it yields no valid value.
func (e *Engine) resumeSlot(ctx context.Context, userID string, state State, raw string, result nlp.ParseResult) ([]string, bool) {
	if len(state.Missing) == 0 {
		return nil, false
	}
	switch state.Missing[0] {
	case nlp.EntityIndices:
		// An unrelated explicit command is not a slot answer, even when it
		// carries digits.
		if result.Intent != state.Intent && result.Confidence >= e.switchFloor {
			return nil, false
		}
		indices := nlp.ParseIndexList(nlp.Normalize(raw))
		if len(indices) == 0 {
			return nil, false
		}
		e.setState(userID, idle(nlp.OutboundNone))
		return e.executeIndexed(ctx, userID, state.Intent, indices, nlp.ScopeNone), true
	case nlp.EntityText:
		// Any plain message is a valid description, unless it reads as an
		// unrelated explicit command.
		if result.Intent != state.Intent && result.Confidence >= e.switchFloor {
			return nil, false
		}
		text := result.Text() // "adiciona X" while awaiting the description
		if text == "" {
			text = nlp.NormalizeFreeText(raw)
		}
		if text == "" {
			return nil, false
		}
		e.setState(userID, idle(nlp.OutboundNone))
		return e.execute(ctx, userID, nlp.ParseResult{
			Intent:     state.Intent,
			Confidence: 1,
			Entities:   map[string]any{nlp.EntityText: text},
		}), true
	default:
		return nil, false
	}
}

func (e *Engine) handleAwaitingMenu(ctx context.Context, userID string, state State, raw string) []string {
	// Only a bare number reads as a selection; anything else is a fresh turn.
	if n, err := strconv.Atoi(nlp.Normalize(raw)); err == nil && n >= 1 && n <= len(state.Options) {
		chosen := state.Options[n-1]
		e.setState(userID, idle(nlp.OutboundNone))
		return e.dispatch(ctx, userID, nlp.ParseResult{
			Intent:     chosen,
			Confidence: 1,
			Entities:   map[string]any{},
		}, raw)
	}
	// Not a selection: fall back to ordinary processing.
	return e.handleIdle(ctx, userID, idle(nlp.OutboundNone), raw)
}

func (e *Engine) setState(userID string, s State) {
	if err := e.states.Set(userID, s); err != nil {
		e.log.Error("dialogue state write failed", "user", userID, "error", err)
	}
}

func missingEntities(r nlp.ParseResult) []string {
	var missing []string
	for _, name := range nlp.Required(r.Intent) {
		if _, ok := r.Entities[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

// outboundKind records what kind of turn the assistant just produced, for
// the matcher's continuation-word rules.
func outboundKind(intent nlp.Intent) nlp.OutboundKind {
	switch intent {
	case nlp.IntentListTasks, nlp.IntentListMore:
		return nlp.OutboundListing
	default:
		return nlp.OutboundNone
	}
}
