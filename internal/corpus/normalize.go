package corpus

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// folder strips combining marks after NFD decomposition, so "fotografía"
// and "fotografia" normalize to the same form.
var folder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold lowercases text and removes diacritics.
func Fold(s string) string {
	out, _, err := transform.String(folder, strings.ToLower(s))
	if err != nil {
		return strings.ToLower(s)
	}
	return out
}

// termExpansions maps whole tokens to their expanded search form. Applied
// token-by-token, never as substring replacement, so "1973" is left alone
// while a bare "73" expands.
var termExpansions = map[string]string{
	"ddhh":     "derechos humanos",
	"dd.hh":    "derechos humanos",
	"mir":      "movimiento izquierda revolucionaria",
	"pc":       "partido comunista",
	"ps":       "partido socialista",
	"pdc":      "partido democrata cristiano",
	"golpe":    "golpe estado 1973",
	"pinochet": "dictadura militar pinochet",
	"allende":  "salvador allende",
	"aylwin":   "patricio aylwin",
	"73":       "1973",
	"74":       "1974",
	"75":       "1975",
	"76":       "1976",
	"80":       "1980",
	"90":       "1990",
	"fotos":    "fotografias",
	"imagenes": "fotografias",
	"pics":     "fotografias",
}

// stopwords are tokens with no retrieval value: Spanish function words plus
// the search verbs users type around their actual subject.
var stopwords = map[string]struct{}{
	"de": {}, "la": {}, "el": {}, "en": {}, "y": {}, "a": {}, "los": {},
	"del": {}, "las": {}, "un": {}, "una": {}, "por": {}, "con": {},
	"para": {}, "su": {}, "al": {}, "lo": {}, "como": {}, "mas": {},
	"pero": {}, "sus": {}, "le": {}, "ya": {}, "o": {}, "este": {},
	"esta": {}, "entre": {}, "cuando": {}, "muy": {}, "sin": {},
	"sobre": {}, "tambien": {}, "hasta": {}, "hay": {}, "donde": {},
	"desde": {}, "todo": {}, "todos": {}, "durante": {}, "otros": {},
	"otro": {}, "otra": {}, "ese": {}, "eso": {}, "esos": {}, "que": {},
	"busco": {}, "busca": {}, "buscar": {}, "buscaba": {}, "quiero": {},
	"queria": {}, "necesito": {}, "dame": {}, "muestra": {}, "muestrame": {},
	"informacion": {}, "acerca": {}, "algo": {}, "tema": {}, "temas": {},
	"encuentro": {}, "encontre": {}, "encontrar": {}, "sirve": {},
	"sirven": {}, "cosa": {}, "cosas": {}, "realidad": {}, "falta": {},
}

// IsStopword reports whether a folded token carries no retrieval value.
func IsStopword(token string) bool {
	_, ok := stopwords[token]
	return ok
}

// Stem applies naive Spanish plural reduction: "canciones" -> "cancion",
// "casas" -> "casa". Deliberately shallow; the corpus vocabulary is small.
func Stem(word string) string {
	switch {
	case strings.HasSuffix(word, "es") && len(word) > 4:
		return word[:len(word)-2]
	case strings.HasSuffix(word, "s") && len(word) > 3 && !strings.HasSuffix(word, "ss"):
		return word[:len(word)-1]
	}
	return word
}

// Tokenize folds text and splits it into lowercase tokens, stripping
// punctuation. No stemming, no stopword removal.
func Tokenize(s string) []string {
	folded := Fold(s)
	return strings.FieldsFunc(folded, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// NormalizeQuery prepares user text for retrieval: fold, expand known
// abbreviations and shorthand, stem plurals. Token order is preserved.
func NormalizeQuery(query string) string {
	tokens := Tokenize(query)
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if exp, ok := termExpansions[tok]; ok {
			for _, e := range strings.Fields(exp) {
				out = append(out, Stem(e))
			}
			continue
		}
		out = append(out, Stem(tok))
	}
	return strings.Join(out, " ")
}

// NormalizeBlob prepares record text for indexing: fold and stem, without
// abbreviation expansion (records are written out in full).
func NormalizeBlob(text string) string {
	tokens := Tokenize(text)
	for i, tok := range tokens {
		tokens[i] = Stem(tok)
	}
	return strings.Join(tokens, " ")
}

// SignificantTokens returns the stemmed non-stopword tokens of text.
func SignificantTokens(text string) []string {
	tokens := Tokenize(text)
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if IsStopword(tok) {
			continue
		}
		out = append(out, Stem(tok))
	}
	return out
}
