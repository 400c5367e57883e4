package nlp

import (
	"log/slog"
	"strings"
)

const (
	// DefaultFuzzyThreshold is the minimum edit-distance similarity for the
	// vocabulary fallback to accept a token.
	DefaultFuzzyThreshold = 0.80
	// fallbackConfidence marks a result nothing matched; it must sit below
	// any acceptance floor so no handler ever runs on it.
	fallbackConfidence = 0.30
)

type Matcher struct {
	patterns       []Pattern
	vocab          []vocabEntry
	fuzzyThreshold float64
	log            *slog.Logger
}

type vocabEntry struct {
	term   string
	intent Intent
}

// defaultVocabulary is the canonical-intent vocabulary the fuzzy fallback
// scores against. Order is the tie-break: equal similarity resolves to the
// earlier entry.
var defaultVocabulary = []vocabEntry{
	{"feito", IntentCompleteTask},
	{"lista", IntentListTasks},
	{"adiciona", IntentAddTask},
	{"remove", IntentRemoveTask},
	{"adia", IntentPostponeTask},
	{"progresso", IntentProgress},
	{"ajuda", IntentHelp},
	{"cancela", IntentCancel},
}

type MatcherOption func(*Matcher)

func WithFuzzyThreshold(t float64) MatcherOption {
	return func(m *Matcher) {
		if t > 0 && t <= 1 {
			m.fuzzyThreshold = t
		}
	}
}

func WithMatcherLogger(l *slog.Logger) MatcherOption {
	return func(m *Matcher) {
		if l != nil {
			m.log = l
		}
	}
}

func NewMatcher(opts ...MatcherOption) *Matcher {
	m := &Matcher{
		patterns:       defaultPatterns,
		vocab:          defaultVocabulary,
		fuzzyThreshold: DefaultFuzzyThreshold,
		log:            slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Match resolves normalized text to a ParseResult. Resolution order: narrow
// recent-history rules, the ordered pattern table, fuzzy vocabulary fallback,
// low-confidence fallback. Confidence is monotonic across those tiers.
func (m *Matcher) Match(text string, hctx Context) ParseResult {
	text = Normalize(text)
	if text == "" {
		return ParseResult{Intent: IntentUnknown, Confidence: fallbackConfidence, Entities: map[string]any{}}
	}

	if res, ok := m.historyUpgrade(text, hctx); ok {
		return res
	}

	for _, p := range m.patterns {
		if match, ok := p.match(text); ok {
			res := ParseResult{
				Intent:     match.Intent,
				Confidence: match.Confidence,
				Entities:   extractEntities(match),
			}
			m.log.Debug("intent matched", "intent", res.Intent, "confidence", res.Confidence)
			return res
		}
	}

	if res, ok := m.fuzzyMatch(text); ok {
		m.log.Debug("intent fuzzy-matched", "intent", res.Intent, "confidence", res.Confidence)
		return res
	}

	return ParseResult{Intent: IntentUnknown, Confidence: fallbackConfidence, Entities: map[string]any{}}
}

// historyUpgrade promotes an ambiguous continuation word into a specific
// intent when the assistant's previous turn invited it. These are fixed
// rules, nothing more.
func (m *Matcher) historyUpgrade(text string, hctx Context) (ParseResult, bool) {
	if hctx.LastOutbound != OutboundListing {
		return ParseResult{}, false
	}
	switch text {
	case "mais", "continua", "proxima", "resto":
		return ParseResult{Intent: IntentListMore, Confidence: 0.90, Entities: map[string]any{}}, true
	}
	return ParseResult{}, false
}

// fuzzyMatch scores the first token against the canonical vocabulary and, on
// acceptance, extracts entities from the remainder. Accepted confidences land
// in [0.75, 0.83], strictly under the explicit-match band.
func (m *Matcher) fuzzyMatch(text string) (ParseResult, bool) {
	head, tail, _ := strings.Cut(text, " ")

	best := -1.0
	var bestEntry vocabEntry
	for _, entry := range m.vocab {
		sim := similarity(head, entry.term)
		if sim > best {
			best = sim
			bestEntry = entry
		}
	}
	if best < m.fuzzyThreshold {
		return ParseResult{}, false
	}

	confidence := 0.75 + (best-m.fuzzyThreshold)*0.4
	entities := make(map[string]any)
	switch bestEntry.intent {
	case IntentCompleteTask, IntentRemoveTask, IntentPostponeTask:
		if list := ParseIndexList(tail); len(list) > 0 {
			entities[EntityIndices] = list
		}
	case IntentAddTask:
		if t := NormalizeFreeText(tail); t != "" {
			entities[EntityText] = t
		}
	case IntentListTasks:
		if scope := ParseScope(tail); scope != ScopeNone {
			entities[EntityScope] = scope
		}
	}
	return ParseResult{Intent: bestEntry.intent, Confidence: confidence, Entities: entities}, true
}

// similarity is 1 - d/maxlen where d is the optimal string alignment
// distance (edit distance counting adjacent transposition as one operation,
// so the common swap typo stays within tolerance).
func similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	ra, rb := []rune(a), []rune(b)
	la, lb := len(ra), len(rb)
	if la == 0 || lb == 0 {
		return 0
	}
	d := osaDistance(ra, rb)
	max := la
	if lb > max {
		max = lb
	}
	return 1 - float64(d)/float64(max)
}

func osaDistance(a, b []rune) int {
	la, lb := len(a), len(b)
	prev2 := make([]int, lb+1)
	prev := make([]int, lb+1)
	cur := make([]int, lb+1)
	for j := 0; j <= lb; j++ {
		prev[j] = j
	}
	for i := 1; i <= la; i++ {
		cur[0] = i
		for j := 1; j <= lb; j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			del := prev[j] + 1
			ins := cur[j-1] + 1
			sub := prev[j-1] + cost
			best := del
			if ins < best {
				best = ins
			}
			if sub < best {
				best = sub
			}
			if i > 1 && j > 1 && a[i-1] == b[j-2] && a[i-2] == b[j-1] {
				if t := prev2[j-2] + 1; t < best {
					best = t
				}
			}
			cur[j] = best
		}
		prev2, prev, cur = prev, cur, prev2
	}
	return prev[lb]
}
