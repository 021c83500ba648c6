package search

import (
	"sort"

	"github.com/archivio-cloud/archidex/internal/domain"
)

// rrfK is the Reciprocal Rank Fusion constant (standard value from Cormack et al. 2009).
const rrfK = 60

// fuseRRF merges the semantic and keyword rankings via Reciprocal Rank Fusion.
// score(d) = sum of 1/(k + rank_i(d)) for each ranking where d appears.
// Output order is deterministic: fused score descending, ties broken by
// first appearance across the two input lists.
func fuseRRF(semantic, keyword []domain.ScoredRecord, topK int) []domain.ScoredRecord {
	type scored struct {
		rec   domain.Record
		score float64
	}

	merged := make(map[string]*scored)
	order := make([]string, 0, len(semantic)+len(keyword))

	for rank, r := range semantic {
		s := 1.0 / float64(rrfK+rank+1)
		merged[r.Record.ID] = &scored{rec: r.Record, score: s}
		order = append(order, r.Record.ID)
	}

	for rank, r := range keyword {
		s := 1.0 / float64(rrfK+rank+1)
		if existing, ok := merged[r.Record.ID]; ok {
			existing.score += s
		} else {
			merged[r.Record.ID] = &scored{rec: r.Record, score: s}
			order = append(order, r.Record.ID)
		}
	}

	results := make([]domain.ScoredRecord, 0, len(order))
	for _, id := range order {
		s := merged[id]
		results = append(results, domain.ScoredRecord{Record: s.rec, Score: s.score})
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })

	if len(results) > topK {
		results = results[:topK]
	}

	return results
}
