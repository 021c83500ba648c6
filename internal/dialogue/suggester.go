package dialogue

import (
	"sort"
	"strings"

	"github.com/archivio-cloud/archidex/internal/corpus"
	"github.com/archivio-cloud/archidex/internal/domain"
)

const maxSuggestions = 4

// DocFrequency reports how many corpus records contain a token. Satisfied by
// the corpus store; the suggester uses it to find the least informative token
// of a failed query.
type DocFrequency interface {
	DocFreq(token string) int
}

// Suggester synthesizes refinement hints from the query, the result set, and
// the extracted entities.
type Suggester struct {
	freq DocFrequency
}

// NewSuggester builds a suggester over the given corpus frequencies.
func NewSuggester(freq DocFrequency) *Suggester {
	return &Suggester{freq: freq}
}

// Suggest returns 0 to 4 refined query strings. A query that already carries
// a year, at least 3 significant tokens, and 3 or more results is considered
// specific enough and gets none.
func (s *Suggester) Suggest(query string, results []domain.ScoredRecord, entities domain.Entities) []string {
	sig := corpus.SignificantTokens(query)
	hasYear := len(entities.Years) > 0

	if hasYear && len(sig) >= 3 && len(results) >= 3 {
		return nil
	}

	q := strings.TrimSpace(query)
	switch {
	case len(sig) <= 2 && !hasYear:
		return s.tooBroad(q, results)
	case len(results) == 0:
		return s.broadened(sig)
	default:
		return s.narrowing(q, results)
	}
}

// tooBroad proposes narrowings of an under-specified query: a frequent year
// from the result titles, the literal "documentos", and the most frequent
// title topics.
func (s *Suggester) tooBroad(q string, results []domain.ScoredRecord) []string {
	var out []string
	if year := topTitleYear(results); year != "" {
		out = append(out, q+" "+year)
	}
	out = append(out, q+" documentos")
	for _, topic := range topTitleTopics(results, 3, queryTokenSet(q)) {
		if len(out) >= maxSuggestions {
			break
		}
		out = append(out, q+" "+topic)
	}
	return out
}

// broadened drops the least corpus-frequent token and invites year or place
// context.
func (s *Suggester) broadened(sig []string) []string {
	if len(sig) == 0 {
		return nil
	}
	keep := sig
	if len(sig) > 1 {
		drop := 0
		for i, tok := range sig {
			if s.freq.DocFreq(tok) < s.freq.DocFreq(sig[drop]) {
				drop = i
			}
		}
		keep = make([]string, 0, len(sig)-1)
		keep = append(keep, sig[:drop]...)
		keep = append(keep, sig[drop+1:]...)
	}
	base := strings.Join(keep, " ")
	return []string{base, base + " 1973", base + " santiago"}
}

// narrowing appends the most frequent result-title tokens missing from the
// query, at most two.
func (s *Suggester) narrowing(q string, results []domain.ScoredRecord) []string {
	var out []string
	for _, topic := range topTitleTopics(results, 2, queryTokenSet(q)) {
		out = append(out, q+" "+topic)
	}
	return out
}

func queryTokenSet(q string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range corpus.Tokenize(q) {
		set[corpus.Stem(tok)] = struct{}{}
	}
	return set
}

// topTitleYear returns the most frequent 4-digit year among result titles,
// ties broken by the smaller year.
func topTitleYear(results []domain.ScoredRecord) string {
	counts := make(map[string]int)
	for _, r := range results {
		for _, m := range yearRe.FindAllString(r.Record.Title, -1) {
			counts[m]++
		}
	}
	best := ""
	for year, n := range counts {
		if best == "" || n > counts[best] || (n == counts[best] && year < best) {
			best = year
		}
	}
	return best
}

// topTitleTopics returns up to n stemmed title tokens by descending
// frequency, ties broken alphabetically, skipping stopwords, years, short
// tokens, and anything already in the query.
func topTitleTopics(results []domain.ScoredRecord, n int, exclude map[string]struct{}) []string {
	counts := make(map[string]int)
	for _, r := range results {
		for _, tok := range corpus.Tokenize(r.Record.Title) {
			if len([]rune(tok)) <= 3 || corpus.IsStopword(tok) || yearRe.MatchString(tok) {
				continue
			}
			stemmed := corpus.Stem(tok)
			if _, skip := exclude[stemmed]; skip {
				continue
			}
			counts[stemmed]++
		}
	}

	topics := make([]string, 0, len(counts))
	for tok := range counts {
		topics = append(topics, tok)
	}
	sort.Slice(topics, func(i, j int) bool {
		if counts[topics[i]] != counts[topics[j]] {
			return counts[topics[i]] > counts[topics[j]]
		}
		return topics[i] < topics[j]
	})
	if len(topics) > n {
		topics = topics[:n]
	}
	return topics
}
