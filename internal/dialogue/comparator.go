package dialogue

import (
	"sort"

	"github.com/archivio-cloud/archidex/internal/corpus"
)

// TitleLookup resolves a record id to its title. Satisfied by the corpus
// store; kept narrow so the comparator depends only on the record shape.
type TitleLookup interface {
	TitleOf(id string) string
}

// Comparison partitions a new result set against the previous one.
type Comparison struct {
	Repeated      []string // ids present in both sets, in current order
	Novel         []string // ids only in the current set, in current order
	OverlapTopics []string // title tokens shared between both sets, sorted
}

// Comparator detects repeated results across consecutive turns so they can
// be flagged instead of silently re-presented.
type Comparator struct {
	titles TitleLookup
}

// NewComparator builds a comparator over the given title source.
func NewComparator(titles TitleLookup) *Comparator {
	return &Comparator{titles: titles}
}

// Compare partitions currentIDs into repeated and novel relative to
// previousIDs, and intersects the title token sets of the two result sets.
// Tokens shorter than 3 runes are ignored.
func (c *Comparator) Compare(previousIDs, currentIDs []string) Comparison {
	prev := make(map[string]struct{}, len(previousIDs))
	for _, id := range previousIDs {
		prev[id] = struct{}{}
	}

	var cmp Comparison
	for _, id := range currentIDs {
		if _, ok := prev[id]; ok {
			cmp.Repeated = append(cmp.Repeated, id)
		} else {
			cmp.Novel = append(cmp.Novel, id)
		}
	}

	prevTokens := c.titleTokens(previousIDs)
	curTokens := c.titleTokens(currentIDs)
	for tok := range curTokens {
		if _, ok := prevTokens[tok]; ok {
			cmp.OverlapTopics = append(cmp.OverlapTopics, tok)
		}
	}
	sort.Strings(cmp.OverlapTopics)
	return cmp
}

func (c *Comparator) titleTokens(ids []string) map[string]struct{} {
	tokens := make(map[string]struct{})
	for _, id := range ids {
		for _, tok := range corpus.Tokenize(c.titles.TitleOf(id)) {
			if len([]rune(tok)) < 3 {
				continue
			}
			tokens[tok] = struct{}{}
		}
	}
	return tokens
}
