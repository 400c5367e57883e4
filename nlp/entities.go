package nlp

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var rangeSeparators = []string{"—", "–", "-"}

// ParseIndexList extracts task indices from free text. Tokens are whitespace
// separated decimal numbers or ranges ("1-3", "1–3", "1—3"). Non-numeric and
// non-positive tokens are dropped, duplicates removed, first-seen order kept.
// Malformed input yields an empty list, never an error.
func ParseIndexList(raw string) []int {
	out := make([]int, 0, 4)
	seen := make(map[int]bool)
	push := func(n int) {
		if n <= 0 || seen[n] {
			return
		}
		seen[n] = true
		out = append(out, n)
	}

	for _, tok := range strings.Fields(strings.TrimSpace(raw)) {
		if lo, hi, ok := splitRange(tok); ok {
			for n := lo; n <= hi; n++ {
				push(n)
			}
			continue
		}
		if n, err := strconv.Atoi(tok); err == nil {
			push(n)
		}
	}
	return out
}

// ParseIndex follows the same coercion rules returning a single value;
// ok is false when the text holds no usable index.
func ParseIndex(raw string) (int, bool) {
	list := ParseIndexList(raw)
	if len(list) == 0 {
		return 0, false
	}
	return list[0], true
}

func splitRange(tok string) (lo, hi int, ok bool) {
	for _, sep := range rangeSeparators {
		parts := strings.SplitN(tok, sep, 2)
		if len(parts) != 2 {
			continue
		}
		a, errA := strconv.Atoi(strings.TrimSpace(parts[0]))
		b, errB := strconv.Atoi(strings.TrimSpace(parts[1]))
		if errA != nil || errB != nil {
			return 0, 0, false
		}
		if a <= 0 || b < a {
			return 0, 0, false
		}
		return a, b, true
	}
	return 0, 0, false
}

// NormalizeFreeText trims and title-cases a free-text entity such as a new
// task description. The caser is built per call: cases.Caser carries
// transformer state and is not safe for concurrent use.
func NormalizeFreeText(raw string) string {
	return cases.Title(language.BrazilianPortuguese).String(strings.TrimSpace(raw))
}

// ParseScope maps a label through the closed scope enumeration. Unrecognized
// labels return ScopeNone.
func ParseScope(raw string) Scope {
	switch strings.TrimSpace(raw) {
	case "hoje":
		return ScopeToday
	case "amanha":
		return ScopeTomorrow
	case "semana":
		return ScopeWeek
	case "todas":
		return ScopeAll
	default:
		return ScopeNone
	}
}
