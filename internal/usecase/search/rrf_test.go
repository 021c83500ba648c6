package search

import (
	"testing"

	"github.com/archivio-cloud/archidex/internal/domain"
)

func rec(id string) domain.ScoredRecord {
	return domain.ScoredRecord{Record: domain.Record{ID: id}}
}

func TestFuseRRF_OverlapRanksFirst(t *testing.T) {
	semantic := []domain.ScoredRecord{rec("a"), rec("b"), rec("c")}
	keyword := []domain.ScoredRecord{rec("c"), rec("d")}

	fused := fuseRRF(semantic, keyword, 10)

	if len(fused) != 4 {
		t.Fatalf("expected 4 fused results, got %d", len(fused))
	}
	// "c" appears in both lists: 1/63 + 1/61 beats "a" at 1/61.
	if fused[0].Record.ID != "c" {
		t.Errorf("expected c first, got %s", fused[0].Record.ID)
	}
	if fused[1].Record.ID != "a" {
		t.Errorf("expected a second, got %s", fused[1].Record.ID)
	}
}

func TestFuseRRF_ScoresAreRankBased(t *testing.T) {
	semantic := []domain.ScoredRecord{rec("a")}
	fused := fuseRRF(semantic, nil, 10)

	want := 1.0 / float64(rrfK+1)
	if fused[0].Score != want {
		t.Errorf("expected score %f, got %f", want, fused[0].Score)
	}
}

func TestFuseRRF_TopKTruncates(t *testing.T) {
	semantic := []domain.ScoredRecord{rec("a"), rec("b"), rec("c")}
	keyword := []domain.ScoredRecord{rec("d"), rec("e")}

	fused := fuseRRF(semantic, keyword, 2)
	if len(fused) != 2 {
		t.Fatalf("expected 2 results, got %d", len(fused))
	}
}

func TestFuseRRF_TieBreakIsDeterministic(t *testing.T) {
	// a and d hold rank 1 in their lists; encounter order keeps a first.
	semantic := []domain.ScoredRecord{rec("a"), rec("b")}
	keyword := []domain.ScoredRecord{rec("d"), rec("e")}

	for range 20 {
		fused := fuseRRF(semantic, keyword, 10)
		if fused[0].Record.ID != "a" || fused[1].Record.ID != "d" {
			t.Fatalf("unexpected order: %s, %s", fused[0].Record.ID, fused[1].Record.ID)
		}
	}
}

func TestFuseRRF_EmptyInputs(t *testing.T) {
	if got := fuseRRF(nil, nil, 5); len(got) != 0 {
		t.Errorf("expected no results, got %v", got)
	}
}
