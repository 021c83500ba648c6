package search

import (
	"context"

	"github.com/archivio-cloud/archidex/internal/domain"
)

// SemanticRanker ranks records by vector similarity against the query.
type SemanticRanker interface {
	Rank(ctx context.Context, query string, k int) ([]domain.ScoredRecord, error)
}

// KeywordRanker ranks records by token overlap. It never fails.
type KeywordRanker interface {
	Rank(query string, k int) []domain.ScoredRecord
}
