// Package index implements the two rankers: the vector index built from the
// embedding provider and the token-overlap keyword ranker that backs it up.
package index

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/archivio-cloud/archidex/internal/corpus"
	"github.com/archivio-cloud/archidex/internal/domain"
)

// EmbeddingIndex holds one vector per record and ranks records by cosine
// similarity against an embedded query. Read-mostly after warm-up.
type EmbeddingIndex struct {
	store         *corpus.Store
	docEmbedder   domain.Embedder
	queryEmbedder domain.Embedder
	logger        *zap.Logger

	mu      sync.RWMutex
	vectors map[string][]float32
	norms   map[string]float64
}

// NewEmbeddingIndex creates an empty index over the corpus. Call Build to
// warm it up.
func NewEmbeddingIndex(store *corpus.Store, docEmbedder, queryEmbedder domain.Embedder, logger *zap.Logger) *EmbeddingIndex {
	return &EmbeddingIndex{
		store:         store,
		docEmbedder:   docEmbedder,
		queryEmbedder: queryEmbedder,
		logger:        logger,
		vectors:       make(map[string][]float32),
		norms:         make(map[string]float64),
	}
}

// Build embeds every record blob through a bounded worker pool. Records whose
// embedding fails are skipped; the keyword ranker covers them. Build returns
// the number of records vectorized.
func (x *EmbeddingIndex) Build(ctx context.Context, workers int) int {
	pool, err := ants.NewPool(workers)
	if err != nil {
		x.logger.Warn("worker pool unavailable, embedding sequentially", zap.Error(err))
	} else {
		defer pool.Release()
	}

	var wg sync.WaitGroup
	for _, rec := range x.store.Records() {
		wg.Add(1)
		task := func() {
			defer wg.Done()
			x.embedRecord(ctx, rec)
		}
		if pool == nil || pool.Submit(task) != nil {
			task()
		}
	}
	wg.Wait()

	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.vectors)
}

func (x *EmbeddingIndex) embedRecord(ctx context.Context, rec domain.Record) {
	result, err := x.docEmbedder.Embed(ctx, rec.Blob)
	if err != nil {
		x.logger.Warn("record embedding failed",
			zap.String("record_id", rec.ID),
			zap.Error(err),
		)
		return
	}
	x.mu.Lock()
	x.vectors[rec.ID] = result.Embedding
	x.norms[rec.ID] = vectorNorm(result.Embedding)
	x.mu.Unlock()
}

// Available reports whether any record has a vector.
func (x *EmbeddingIndex) Available() bool {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.vectors) > 0
}

// Size returns the number of vectorized records.
func (x *EmbeddingIndex) Size() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.vectors)
}

// Rank embeds the query and returns the top k records by cosine similarity,
// descending, ties broken by load order. Fails closed: provider errors come
// back as domain.ErrProviderUnavailable, never a panic or a hang.
func (x *EmbeddingIndex) Rank(ctx context.Context, query string, k int) ([]domain.ScoredRecord, error) {
	if !x.Available() {
		return nil, domain.ErrProviderUnavailable
	}

	result, err := x.queryEmbedder.Embed(ctx, query)
	if err != nil {
		x.logger.Warn("query embedding failed", zap.Error(err))
		return nil, domain.ErrProviderUnavailable
	}
	qvec := result.Embedding
	qnorm := vectorNorm(qvec)
	if qnorm == 0 {
		return nil, domain.ErrProviderUnavailable
	}

	x.mu.RLock()
	scored := make([]domain.ScoredRecord, 0, len(x.vectors))
	for _, rec := range x.store.Records() {
		vec, ok := x.vectors[rec.ID]
		if !ok {
			continue
		}
		norm := x.norms[rec.ID]
		if norm == 0 {
			continue
		}
		score := dot(qvec, vec) / (qnorm * norm)
		scored = append(scored, domain.ScoredRecord{Record: rec, Score: score})
	}
	x.mu.RUnlock()

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	if len(scored) > k {
		scored = scored[:k]
	}
	return scored, nil
}

func dot(a, b []float32) float64 {
	n := min(len(a), len(b))
	var sum float64
	for i := range n {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

func vectorNorm(v []float32) float64 {
	var sum float64
	for _, f := range v {
		sum += float64(f) * float64(f)
	}
	return math.Sqrt(sum)
}
