package index

import (
	"sort"

	"github.com/archivio-cloud/archidex/internal/corpus"
	"github.com/archivio-cloud/archidex/internal/domain"
)

// KeywordRanker scores records by token overlap with the query. Always
// available; it is the fallback when the embedding provider is out and the
// supplement when semantic confidence is low.
type KeywordRanker struct {
	store      *corpus.Store
	blobTokens []map[string]struct{} // record index -> blob token set
}

// NewKeywordRanker pre-tokenizes every record blob.
func NewKeywordRanker(store *corpus.Store) *KeywordRanker {
	r := &KeywordRanker{
		store:      store,
		blobTokens: make([]map[string]struct{}, store.Len()),
	}
	for i, rec := range store.Records() {
		set := make(map[string]struct{})
		for _, tok := range corpus.Tokenize(rec.Blob) {
			set[tok] = struct{}{}
		}
		r.blobTokens[i] = set
	}
	return r
}

// Rank returns the top k records by overlap score: the count of distinct
// query tokens found in the blob, divided by the query token count. Records
// scoring zero are excluded; ties break by load order.
func (r *KeywordRanker) Rank(query string, k int) []domain.ScoredRecord {
	qTokens := uniqueTokens(query)
	if len(qTokens) == 0 {
		return nil
	}

	scored := make([]domain.ScoredRecord, 0, k)
	for i, rec := range r.store.Records() {
		overlap := 0
		for _, tok := range qTokens {
			if _, ok := r.blobTokens[i][tok]; ok {
				overlap++
			}
		}
		if overlap == 0 {
			continue
		}
		scored = append(scored, domain.ScoredRecord{
			Record: rec,
			Score:  float64(overlap) / float64(len(qTokens)),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	if len(scored) > k {
		scored = scored[:k]
	}
	return scored
}

func uniqueTokens(text string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, tok := range corpus.Tokenize(text) {
		tok = corpus.Stem(tok)
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		out = append(out, tok)
	}
	return out
}
