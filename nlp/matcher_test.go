package nlp

import (
	"reflect"
	"testing"
)

func TestMatchExplicitPatterns(t *testing.T) {
	m := NewMatcher()
	cases := []struct {
		in      string
		intent  Intent
		indices []int
		text    string
		scope   Scope
	}{
		{"feito 1 2", IntentCompleteTask, []int{1, 2}, "", ScopeNone},
		{"feito 1-3", IntentCompleteTask, []int{1, 2, 3}, "", ScopeNone},
		{"Terminei 2", IntentCompleteTask, []int{2}, "", ScopeNone},
		{"marca 2 como feito", IntentCompleteTask, []int{2}, "", ScopeNone},
		{"remove 3", IntentRemoveTask, []int{3}, "", ScopeNone},
		{"apaga tarefa 4", IntentRemoveTask, []int{4}, "", ScopeNone},
		{"adia 2", IntentPostponeTask, []int{2}, "", ScopeNone},
		{"adia 2 para amanha", IntentPostponeTask, []int{2}, "", ScopeTomorrow},
		{"adiciona comprar leite", IntentAddTask, nil, "Comprar Leite", ScopeNone},
		{"nova tarefa pagar contas", IntentAddTask, nil, "Pagar Contas", ScopeNone},
		{"lista", IntentListTasks, nil, "", ScopeNone},
		{"lista tarefas de hoje", IntentListTasks, nil, "", ScopeToday},
		{"minhas tarefas", IntentListTasks, nil, "", ScopeNone},
		{"progresso", IntentProgress, nil, "", ScopeNone},
		{"ajuda", IntentHelp, nil, "", ScopeNone},
		{"bom dia", IntentGreeting, nil, "", ScopeNone},
		{"cancela", IntentCancel, nil, "", ScopeNone},
		{"deixa pra la", IntentCancel, nil, "", ScopeNone},
	}
	for _, tc := range cases {
		got := m.Match(tc.in, Context{})
		if got.Intent != tc.intent {
			t.Fatalf("Match(%q).Intent = %s, want %s", tc.in, got.Intent, tc.intent)
		}
		if got.Confidence < 0.85 {
			t.Fatalf("Match(%q).Confidence = %.2f, want explicit band", tc.in, got.Confidence)
		}
		if tc.indices != nil && !reflect.DeepEqual(got.Indices(), tc.indices) {
			t.Fatalf("Match(%q).Indices() = %v, want %v", tc.in, got.Indices(), tc.indices)
		}
		if tc.text != "" && got.Text() != tc.text {
			t.Fatalf("Match(%q).Text() = %q, want %q", tc.in, got.Text(), tc.text)
		}
		if tc.scope != ScopeNone && got.Scope() != tc.scope {
			t.Fatalf("Match(%q).Scope() = %q, want %q", tc.in, got.Scope(), tc.scope)
		}
	}
}

// Earlier, more specific rows must win under table-order iteration: text with
// indices may never land on the bare (index-less) variant of the same intent.
func TestMatchTableOrderPriority(t *testing.T) {
	m := NewMatcher()

	withIndices := m.Match("feito 2", Context{})
	if withIndices.Intent != IntentCompleteTask || len(withIndices.Indices()) != 1 {
		t.Fatalf("specific row lost to a later row: %+v", withIndices)
	}
	bare := m.Match("feito", Context{})
	if bare.Intent != IntentCompleteTask || len(bare.Indices()) != 0 {
		t.Fatalf("bare row mismatch: %+v", bare)
	}
	if bare.Confidence >= withIndices.Confidence {
		t.Fatalf("bare row should carry lower confidence: %.2f >= %.2f", bare.Confidence, withIndices.Confidence)
	}
}

func TestMatchFuzzyFallback(t *testing.T) {
	m := NewMatcher()

	// "fieto" is one transposition away from "feito".
	got := m.Match("fieto 2", Context{})
	if got.Intent != IntentCompleteTask {
		t.Fatalf("fuzzy intent = %s, want %s", got.Intent, IntentCompleteTask)
	}
	if !reflect.DeepEqual(got.Indices(), []int{2}) {
		t.Fatalf("fuzzy indices = %v", got.Indices())
	}
	if got.Confidence < 0.75 || got.Confidence >= 0.85 {
		t.Fatalf("fuzzy confidence %.2f outside fuzzy band", got.Confidence)
	}

	// Explicit match must always outrank the fuzzy one.
	explicit := m.Match("feito 2", Context{})
	if explicit.Confidence <= got.Confidence {
		t.Fatalf("explicit %.2f should exceed fuzzy %.2f", explicit.Confidence, got.Confidence)
	}
}

func TestMatchLowConfidenceFallback(t *testing.T) {
	m := NewMatcher()
	got := m.Match("xyzzy frobnicate", Context{})
	if got.Intent != IntentUnknown {
		t.Fatalf("fallback intent = %s", got.Intent)
	}
	if got.Confidence >= 0.75 {
		t.Fatalf("fallback confidence %.2f must sit below the acceptance floor", got.Confidence)
	}
}

func TestMatchHistoryUpgrade(t *testing.T) {
	m := NewMatcher()

	upgraded := m.Match("mais", Context{LastOutbound: OutboundListing})
	if upgraded.Intent != IntentListMore {
		t.Fatalf("continuation word not upgraded: %s", upgraded.Intent)
	}

	// Without the listing turn, the same word stays ambiguous.
	plain := m.Match("mais", Context{})
	if plain.Intent == IntentListMore {
		t.Fatalf("continuation word upgraded without history")
	}
}

func TestSimilarity(t *testing.T) {
	cases := []struct {
		a, b string
		min  float64
		max  float64
	}{
		{"feito", "feito", 1, 1},
		{"fieto", "feito", 0.8, 0.99},
		{"lista", "feito", 0, 0.4},
		{"", "feito", 0, 0},
	}
	for _, tc := range cases {
		got := similarity(tc.a, tc.b)
		if got < tc.min || got > tc.max {
			t.Fatalf("similarity(%q, %q) = %.2f, want within [%.2f, %.2f]", tc.a, tc.b, got, tc.min, tc.max)
		}
	}
}
