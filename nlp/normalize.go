package nlp

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize canonicalizes raw text through a fixed pipeline: lowercase+trim,
// accent folding, punctuation collapse, spelled-number conversion, synonym
// substitution. It is pure and idempotent: Normalize(Normalize(x)) ==
// Normalize(x).
func Normalize(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = foldAccents(s)
	s = collapsePunct(s)

	fields := strings.Fields(s)
	out := make([]string, 0, len(fields))
	for _, tok := range fields {
		if digit, ok := numberWords[tok]; ok {
			tok = digit
		}
		if canonical, ok := synonyms[tok]; ok {
			tok = canonical
		}
		out = append(out, tok)
	}
	return strings.Join(out, " ")
}

var accentFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

func foldAccents(s string) string {
	folded, _, err := transform.String(accentFolder, s)
	if err != nil {
		return s
	}
	return folded
}

// collapsePunct replaces punctuation with spaces, keeping dash characters so
// index ranges like "1-3" and "1—3" survive into extraction.
func collapsePunct(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '-' || r == '–' || r == '—':
			b.WriteRune(r)
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			b.WriteRune(' ')
		default:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// numberWords is the closed spelled-number table. Values are already in
// canonical form, so a second pass is a no-op.
var numberWords = map[string]string{
	"zero":    "0",
	"um":      "1",
	"uma":     "1",
	"dois":    "2",
	"duas":    "2",
	"tres":    "3",
	"quatro":  "4",
	"cinco":   "5",
	"seis":    "6",
	"sete":    "7",
	"oito":    "8",
	"nove":    "9",
	"dez":     "10",
	"onze":    "11",
	"doze":    "12",
	"quinze":  "15",
	"vinte":   "20",
}

// synonyms maps one surface form to one canonical form. The table is closed
// and unconditional: no synonym depends on surrounding words, so no
// disambiguation is hidden from the matcher.
var synonyms = map[string]string{
	// completion verbs
	"pronto":     "feito",
	"concluido":  "feito",
	"concluida":  "feito",
	"conclui":    "feito",
	"terminado":  "feito",
	"terminei":   "feito",
	"finalizei":  "feito",
	"fiz":        "feito",
	"done":       "feito",
	// listing verbs
	"listar":     "lista",
	"mostra":     "lista",
	"mostrar":    "lista",
	"ver":        "lista",
	// creation verbs
	"adicionar":  "adiciona",
	"acrescenta": "adiciona",
	"anota":      "adiciona",
	"anotar":     "adiciona",
	"cria":       "adiciona",
	"criar":      "adiciona",
	// removal verbs
	"remover":    "remove",
	"apaga":      "remove",
	"apagar":     "remove",
	"deleta":     "remove",
	"deletar":    "remove",
	"exclui":     "remove",
	"excluir":    "remove",
	// postponing verbs
	"adiar":      "adia",
	"posterga":   "adia",
	"empurra":    "adia",
	// cancellation
	"cancelar":   "cancela",
	"esquece":    "cancela",
	"esquecer":   "cancela",
	// scopes
	"todos":      "todas",
	"tudo":       "todas",
}
