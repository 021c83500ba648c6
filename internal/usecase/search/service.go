// Package search implements the retrieval plan: semantic ranking first,
// keyword fallback when the provider is out, and RRF supplementation when
// semantic confidence is low.
package search

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/archivio-cloud/archidex/internal/domain"
	"github.com/archivio-cloud/archidex/internal/metrics"
)

// Service executes the retrieval plan over the two rankers.
type Service struct {
	semantic      SemanticRanker
	keyword       KeywordRanker
	minConfidence float64
	logger        *zap.Logger
}

// New creates a search service. minConfidence is the top-score threshold
// below which the keyword ranking supplements the semantic one.
func New(semantic SemanticRanker, keyword KeywordRanker, minConfidence float64, logger *zap.Logger) *Service {
	return &Service{
		semantic:      semantic,
		keyword:       keyword,
		minConfidence: minConfidence,
		logger:        logger,
	}
}

// Rank returns the top k records for the normalized query. The provider
// being down degrades to keyword-only ranking instead of failing the turn.
func (s *Service) Rank(ctx context.Context, query string, k int) ([]domain.ScoredRecord, error) {
	semResults, err := s.semantic.Rank(ctx, query, k)
	if err != nil {
		if !errors.Is(err, domain.ErrProviderUnavailable) {
			return nil, fmt.Errorf("semantic rank: %w", err)
		}
		s.logger.Warn("embedding provider unavailable, keyword ranking only",
			zap.String("query", query),
		)
		metrics.SearchRequestsTotal.WithLabelValues("keyword").Inc()
		return s.keyword.Rank(query, k), nil
	}

	if s.lowConfidence(semResults) {
		kwResults := s.keyword.Rank(query, k)
		if len(kwResults) > 0 {
			s.logger.Debug("low semantic confidence, fusing with keyword ranking",
				zap.String("query", query),
				zap.Float64("min_confidence", s.minConfidence),
			)
			metrics.SearchRequestsTotal.WithLabelValues("hybrid").Inc()
			return fuseRRF(semResults, kwResults, k), nil
		}
	}

	metrics.SearchRequestsTotal.WithLabelValues("semantic").Inc()
	return semResults, nil
}

func (s *Service) lowConfidence(results []domain.ScoredRecord) bool {
	if len(results) == 0 {
		return true
	}
	return results[0].Score < s.minConfidence
}
