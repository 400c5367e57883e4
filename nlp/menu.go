package nlp

import "strings"

// Suggestion is one numbered option of a disambiguation menu.
type Suggestion struct {
	Intent Intent
	Label  string
}

type keywordHint struct {
	words  []string
	intent Intent
	label  string
}

// menuHints drives the keyword heuristics used when nothing clears the
// acceptance floor. Order doubles as ranking.
var menuHints = []keywordHint{
	{[]string{"feito", "termin", "conclu", "acab"}, IntentCompleteTask, "marcar uma tarefa como feita"},
	{[]string{"lista", "tarefa", "pendente", "hoje"}, IntentListTasks, "ver suas tarefas"},
	{[]string{"adiciona", "nova", "novo", "lembra"}, IntentAddTask, "adicionar uma tarefa"},
	{[]string{"remove", "tira", "limpa"}, IntentRemoveTask, "remover uma tarefa"},
	{[]string{"adia", "depois", "amanha"}, IntentPostponeTask, "adiar uma tarefa"},
	{[]string{"progresso", "como"}, IntentProgress, "ver seu progresso"},
}

var defaultSuggestions = []Suggestion{
	{IntentListTasks, "ver suas tarefas"},
	{IntentAddTask, "adicionar uma tarefa"},
	{IntentHelp, "ver os comandos"},
}

// SuggestMenu builds a short numbered disambiguation menu (2 to 3 options)
// from keyword heuristics over the raw text. It always returns at least two
// options so the caller can render a usable menu.
func SuggestMenu(raw string) []Suggestion {
	text := Normalize(raw)
	out := make([]Suggestion, 0, 3)
	have := make(map[Intent]bool)

	for _, hint := range menuHints {
		if len(out) == 3 {
			break
		}
		for _, w := range hint.words {
			if strings.Contains(text, w) {
				if !have[hint.intent] {
					have[hint.intent] = true
					out = append(out, Suggestion{Intent: hint.intent, Label: hint.label})
				}
				break
			}
		}
	}

	for _, s := range defaultSuggestions {
		if len(out) >= 2 {
			break
		}
		if !have[s.Intent] {
			have[s.Intent] = true
			out = append(out, s)
		}
	}
	return out
}
