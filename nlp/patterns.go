package nlp

import "regexp"

// Pattern is one row of the ordered intent table. Rows are evaluated top to
// bottom against normalized text; the first structural match wins, so more
// specific rows must sit earlier. A row captures entities either through
// named groups or through positional groups labeled by Positional; both
// produce the same Match shape.
type Pattern struct {
	Intent     Intent
	Confidence float64
	Positional []string
	re         *regexp.Regexp
}

// Match is the unified capture result every pattern variant produces.
type Match struct {
	Intent     Intent
	Confidence float64
	Groups     map[string]string
}

func (p Pattern) match(text string) (Match, bool) {
	sub := p.re.FindStringSubmatch(text)
	if sub == nil {
		return Match{}, false
	}
	groups := make(map[string]string)
	if len(p.Positional) > 0 {
		for i, name := range p.Positional {
			if i+1 < len(sub) && name != "" {
				groups[name] = sub[i+1]
			}
		}
	} else {
		for i, name := range p.re.SubexpNames() {
			if i == 0 || name == "" || i >= len(sub) {
				continue
			}
			groups[name] = sub[i]
		}
	}
	return Match{Intent: p.Intent, Confidence: p.Confidence, Groups: groups}, true
}

const indexChars = `[0-9\s—–-]`

// defaultPatterns is ordered from most to least specific. Confidences stay in
// [0.85, 1.00] so an explicit match always outranks the fuzzy fallback.
var defaultPatterns = []Pattern{
	// completion
	{Intent: IntentCompleteTask, Confidence: 1.00,
		re: regexp.MustCompile(`^feito (?P<indices>` + indexChars + `+)$`)},
	{Intent: IntentCompleteTask, Confidence: 0.95, Positional: []string{EntityIndices},
		re: regexp.MustCompile(`^(?:marca|marcar) (` + indexChars + `+) (?:como )?feito$`)},
	{Intent: IntentCompleteTask, Confidence: 0.90,
		re: regexp.MustCompile(`^feito$`)},

	// removal
	{Intent: IntentRemoveTask, Confidence: 1.00,
		re: regexp.MustCompile(`^remove (?:tarefas? )?(?P<indices>` + indexChars + `+)$`)},
	{Intent: IntentRemoveTask, Confidence: 0.90,
		re: regexp.MustCompile(`^remove(?: tarefas?)?$`)},

	// postponing
	{Intent: IntentPostponeTask, Confidence: 1.00,
		re: regexp.MustCompile(`^adia (?P<indices>` + indexChars + `+?)(?: para (?P<escopo>\S+))?$`)},
	{Intent: IntentPostponeTask, Confidence: 0.90,
		re: regexp.MustCompile(`^adia$`)},

	// creation
	{Intent: IntentAddTask, Confidence: 1.00,
		re: regexp.MustCompile(`^adiciona (?:tarefa )?(?P<texto>.+)$`)},
	{Intent: IntentAddTask, Confidence: 0.95, Positional: []string{"", EntityText},
		re: regexp.MustCompile(`^(nova|novo) (?:tarefa |item )?(.+)$`)},
	{Intent: IntentAddTask, Confidence: 0.90,
		re: regexp.MustCompile(`^adiciona$`)},

	// listing
	{Intent: IntentListTasks, Confidence: 1.00,
		re: regexp.MustCompile(`^lista(?: (?:as |minhas )?tarefas)?(?: (?:de |da |do )?(?P<escopo>\S+))?$`)},
	{Intent: IntentListTasks, Confidence: 0.95,
		re: regexp.MustCompile(`^(?:o que (?:eu )?tenho|minhas tarefas)(?: (?:para |pra )?(?P<escopo>\S+))?$`)},

	// progress
	{Intent: IntentProgress, Confidence: 0.95,
		re: regexp.MustCompile(`^(?:progresso|como (?:estou|foi o dia|foi a semana))$`)},

	// social / control
	{Intent: IntentCancel, Confidence: 0.95,
		re: regexp.MustCompile(`^(?:cancela|deixa(?: pra la)?|nada)$`)},
	{Intent: IntentHelp, Confidence: 0.95,
		re: regexp.MustCompile(`^(?:ajuda|comandos|o que voce faz)$`)},
	{Intent: IntentGreeting, Confidence: 0.85,
		re: regexp.MustCompile(`^(?:oi|ola|opa|eai|bom dia|boa tarde|boa noite)$`)},
}

// extractEntities normalizes a Match's raw capture groups into the typed
// entity mapping. Absent or malformed groups simply produce absent entities.
func extractEntities(m Match) map[string]any {
	entities := make(map[string]any)
	if raw, ok := m.Groups[EntityIndices]; ok {
		if list := ParseIndexList(raw); len(list) > 0 {
			entities[EntityIndices] = list
		}
	}
	if raw, ok := m.Groups[EntityText]; ok {
		if text := NormalizeFreeText(raw); text != "" {
			entities[EntityText] = text
		}
	}
	if raw, ok := m.Groups[EntityScope]; ok {
		if scope := ParseScope(raw); scope != ScopeNone {
			entities[EntityScope] = scope
		}
	}
	return entities
}
