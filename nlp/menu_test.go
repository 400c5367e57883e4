package nlp

import "testing"

func TestSuggestMenuKeywordHints(t *testing.T) {
	got := SuggestMenu("acho que terminei aquela tarefa")
	if len(got) < 2 || len(got) > 3 {
		t.Fatalf("menu size = %d, want 2..3", len(got))
	}
	if got[0].Intent != IntentCompleteTask {
		t.Fatalf("first suggestion = %s, want %s", got[0].Intent, IntentCompleteTask)
	}
}

func TestSuggestMenuAlwaysUsable(t *testing.T) {
	for _, raw := range []string{"", "???", "blablabla"} {
		got := SuggestMenu(raw)
		if len(got) < 2 || len(got) > 3 {
			t.Fatalf("SuggestMenu(%q) size = %d, want 2..3", raw, len(got))
		}
		seen := map[Intent]bool{}
		for _, s := range got {
			if s.Label == "" {
				t.Fatalf("SuggestMenu(%q) produced empty label", raw)
			}
			if seen[s.Intent] {
				t.Fatalf("SuggestMenu(%q) repeated intent %s", raw, s.Intent)
			}
			seen[s.Intent] = true
		}
	}
}
