package index

import (
	"testing"

	"github.com/archivio-cloud/archidex/internal/corpus"
	"github.com/archivio-cloud/archidex/internal/domain"
)

func keywordStore() *corpus.Store {
	return corpus.NewStore([]domain.Record{
		{ID: "0", Title: "Golpe de Estado 1973", Blob: "golpe estado 1973"},
		{ID: "1", Title: "Protestas", Blob: "protesta nacional"},
		{ID: "2", Title: "Golpe y protestas", Blob: "golpe protesta"},
	})
}

func TestKeywordRanker_ScoresByOverlap(t *testing.T) {
	r := NewKeywordRanker(keywordStore())

	got := r.Rank("golpe protesta", 5)

	if len(got) != 3 {
		t.Fatalf("expected 3 results, got %d", len(got))
	}
	// Record 2 matches both tokens, the others one each; ties break by load
	// order.
	if got[0].Record.ID != "2" {
		t.Errorf("expected record 2 first, got %s", got[0].Record.ID)
	}
	if got[0].Score != 1.0 {
		t.Errorf("expected full overlap score 1.0, got %v", got[0].Score)
	}
	if got[1].Record.ID != "0" || got[2].Record.ID != "1" {
		t.Errorf("expected tie broken by load order [0 1], got [%s %s]", got[1].Record.ID, got[2].Record.ID)
	}
	if got[1].Score != 0.5 {
		t.Errorf("expected partial score 0.5, got %v", got[1].Score)
	}
}

func TestKeywordRanker_ExcludesZeroScores(t *testing.T) {
	r := NewKeywordRanker(keywordStore())

	got := r.Rank("inexistente", 5)
	if len(got) != 0 {
		t.Errorf("expected no results, got %v", got)
	}
}

func TestKeywordRanker_RespectsK(t *testing.T) {
	r := NewKeywordRanker(keywordStore())

	got := r.Rank("golpe", 1)
	if len(got) != 1 {
		t.Fatalf("expected 1 result, got %d", len(got))
	}
	if got[0].Record.ID != "0" {
		t.Errorf("expected load-order tie break, got %s", got[0].Record.ID)
	}
}

func TestKeywordRanker_EmptyQuery(t *testing.T) {
	r := NewKeywordRanker(keywordStore())

	if got := r.Rank("", 5); got != nil {
		t.Errorf("expected nil for empty query, got %v", got)
	}
}

func TestKeywordRanker_FoldsAndStems(t *testing.T) {
	r := NewKeywordRanker(keywordStore())

	// "Protestas" folds and stems to the stored "protesta" token.
	got := r.Rank("PROTESTAS", 5)
	if len(got) != 2 {
		t.Fatalf("expected 2 results, got %d", len(got))
	}
	if got[0].Record.ID != "1" || got[1].Record.ID != "2" {
		t.Errorf("expected records [1 2], got [%s %s]", got[0].Record.ID, got[1].Record.ID)
	}
}
