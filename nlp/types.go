// Package nlp resolves one line of chat text into a typed intent plus
// extracted parameters. It is deliberately deterministic: an ordered pattern
// table, a closed synonym vocabulary, and an edit-distance fallback. No model
// calls, no learned state.
package nlp

// Intent is the canonical action a message requests.
type Intent string

const (
	IntentListTasks    Intent = "list_tasks"
	IntentListMore     Intent = "list_more"
	IntentCompleteTask Intent = "complete_task"
	IntentAddTask      Intent = "add_task"
	IntentRemoveTask   Intent = "remove_task"
	IntentPostponeTask Intent = "postpone_task"
	IntentProgress     Intent = "progress"
	IntentHelp         Intent = "help"
	IntentGreeting     Intent = "greeting"
	IntentCancel       Intent = "cancel"
	IntentUnknown      Intent = "unknown"
)

// Entity names used across the pattern table.
const (
	EntityIndices = "indices"
	EntityText    = "texto"
	EntityScope   = "escopo"
)

// Scope is the closed task-scope enumeration. Unrecognized labels map to
// ScopeNone, never to an error.
type Scope string

const (
	ScopeNone     Scope = ""
	ScopeToday    Scope = "hoje"
	ScopeTomorrow Scope = "amanha"
	ScopeWeek     Scope = "semana"
	ScopeAll      Scope = "todas"
)

// ParseResult is produced fresh per message and consumed once.
type ParseResult struct {
	Intent     Intent
	Confidence float64
	Entities   map[string]any
}

func (r ParseResult) Indices() []int {
	if v, ok := r.Entities[EntityIndices].([]int); ok {
		return v
	}
	return nil
}

func (r ParseResult) Text() string {
	if v, ok := r.Entities[EntityText].(string); ok {
		return v
	}
	return ""
}

func (r ParseResult) Scope() Scope {
	if v, ok := r.Entities[EntityScope].(Scope); ok {
		return v
	}
	return ScopeNone
}

// Required returns the entity names an intent cannot execute without. The
// dialogue layer suspends the intent when any of these are absent.
func Required(intent Intent) []string {
	switch intent {
	case IntentCompleteTask, IntentRemoveTask, IntentPostponeTask:
		return []string{EntityIndices}
	case IntentAddTask:
		return []string{EntityText}
	default:
		return nil
	}
}

// OutboundKind classifies the assistant's previous turn for the narrow
// recent-history upgrade rules.
type OutboundKind int

const (
	OutboundNone OutboundKind = iota
	OutboundListing
	OutboundMenu
)

// Context carries the short recent-turn history the matcher is allowed to
// consult. This is fixed heuristics, not conversation modeling.
type Context struct {
	LastOutbound OutboundKind
}
