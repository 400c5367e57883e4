package nlp

import (
	"reflect"
	"testing"
)

func TestParseIndexList(t *testing.T) {
	cases := []struct {
		in   string
		want []int
	}{
		{"1 2 3", []int{1, 2, 3}},
		{"1-3", []int{1, 2, 3}},
		{"1–3", []int{1, 2, 3}},
		{"1—3", []int{1, 2, 3}}, // em dash is a valid range separator
		{"3 1 2 1", []int{3, 1, 2}},
		{"0 a", []int{}},
		{"-1 2", []int{2}},
		{"2 1-3", []int{2, 1, 3}},
		{"abc", []int{}},
		{"", []int{}},
		{"5-3", []int{}},
		{"10", []int{10}},
	}
	for _, tc := range cases {
		got := ParseIndexList(tc.in)
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("ParseIndexList(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestParseIndex(t *testing.T) {
	if n, ok := ParseIndex("2"); !ok || n != 2 {
		t.Fatalf("ParseIndex(\"2\") = %d, %v", n, ok)
	}
	if n, ok := ParseIndex("4 7"); !ok || n != 4 {
		t.Fatalf("ParseIndex(\"4 7\") = %d, %v", n, ok)
	}
	if _, ok := ParseIndex("zero nada"); ok {
		t.Fatalf("ParseIndex should report absent for %q", "zero nada")
	}
	if _, ok := ParseIndex(""); ok {
		t.Fatalf("ParseIndex should report absent for empty input")
	}
}

func TestParseScopeClosedEnum(t *testing.T) {
	cases := map[string]Scope{
		"hoje":    ScopeToday,
		"amanha":  ScopeTomorrow,
		"semana":  ScopeWeek,
		"todas":   ScopeAll,
		"ontem":   ScopeNone,
		"qualquer": ScopeNone,
		"":        ScopeNone,
	}
	for in, want := range cases {
		if got := ParseScope(in); got != want {
			t.Fatalf("ParseScope(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizeFreeText(t *testing.T) {
	if got := NormalizeFreeText("  comprar leite  "); got != "Comprar Leite" {
		t.Fatalf("NormalizeFreeText = %q", got)
	}
	if got := NormalizeFreeText(""); got != "" {
		t.Fatalf("NormalizeFreeText(\"\") = %q", got)
	}
}
