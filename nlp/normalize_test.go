package nlp

import "testing"

func TestNormalizePipeline(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"  FEITO 2  ", "feito 2"},
		{"Concluí a tarefa!", "feito a tarefa"},
		{"não, obrigado.", "nao obrigado"},
		{"feito um dois", "feito 1 2"},
		{"Terminei três", "feito 3"},
		{"apaga 2", "remove 2"},
		{"lista???", "lista"},
		{"adicionar   comprar  leite", "adiciona comprar leite"},
		{"1—3", "1—3"}, // em dash survives punctuation collapse
		{"", ""},
	}
	for _, tc := range cases {
		if got := Normalize(tc.in); got != tc.want {
			t.Fatalf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"Concluí a tarefa dois!",
		"FEITO 1-3",
		"apagar três",
		"bom dia!!!",
		"adiciona Comprar Pão",
	}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Fatalf("Normalize not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestNormalizeDeterministic(t *testing.T) {
	in := "Terminei três tarefas hoje!"
	first := Normalize(in)
	for i := 0; i < 5; i++ {
		if got := Normalize(in); got != first {
			t.Fatalf("Normalize not deterministic: %q != %q", got, first)
		}
	}
}
