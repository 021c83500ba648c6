// Package googleai implements the embedding provider on the Google AI
// embedding API through langchaingo.
package googleai

import (
	"context"
	"fmt"
	"time"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/googleai"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/archivio-cloud/archidex/internal/domain"
	"github.com/archivio-cloud/archidex/internal/metrics"
)

// Embedder is an embedding provider backed by Google AI.
type Embedder struct {
	embedder embeddings.Embedder
	model    string
	timeout  time.Duration
	limiter  *rate.Limiter
	logger   *zap.Logger
}

// Config holds the embedding provider settings.
type Config struct {
	APIKey  string
	Model   string
	Timeout time.Duration
	RPS     float64 // 0 = unlimited
	Logger  *zap.Logger
}

// NewEmbedder creates a Google AI embedding provider.
func NewEmbedder(ctx context.Context, cfg *Config) (*Embedder, error) {
	client, err := googleai.New(ctx,
		googleai.WithAPIKey(cfg.APIKey),
		googleai.WithDefaultEmbeddingModel(cfg.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("googleai client: %w", err)
	}

	embedder, err := embeddings.NewEmbedder(client, embeddings.WithStripNewLines(true))
	if err != nil {
		return nil, fmt.Errorf("googleai embedder: %w", err)
	}

	var limiter *rate.Limiter
	if cfg.RPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RPS), 1)
	}

	return &Embedder{
		embedder: embedder,
		model:    cfg.Model,
		timeout:  cfg.Timeout,
		limiter:  limiter,
		logger:   cfg.Logger,
	}, nil
}

// Embed implements domain.Embedder. Failures map to
// domain.ErrProviderUnavailable; the API does not report token usage, so the
// usage fields stay zero.
func (e *Embedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	if e.limiter != nil {
		if err := e.limiter.Wait(ctx); err != nil {
			return domain.EmbeddingResult{}, fmt.Errorf("rate limit wait: %w", domain.ErrProviderUnavailable)
		}
	}

	start := time.Now()

	vec, err := e.embedder.EmbedQuery(ctx, text)

	duration := time.Since(start)

	if err != nil {
		metrics.EmbeddingRequestsTotal.WithLabelValues("googleai", e.model, "error").Inc()
		metrics.EmbeddingErrorsTotal.WithLabelValues("googleai", e.model, "api_error").Inc()
		e.logger.Warn("googleai embedding failed", zap.Error(err))
		return domain.EmbeddingResult{}, fmt.Errorf("googleai embed: %w", domain.ErrProviderUnavailable)
	}
	if len(vec) == 0 {
		metrics.EmbeddingRequestsTotal.WithLabelValues("googleai", e.model, "error").Inc()
		metrics.EmbeddingErrorsTotal.WithLabelValues("googleai", e.model, "empty_response").Inc()
		return domain.EmbeddingResult{}, fmt.Errorf("empty embedding response: %w", domain.ErrProviderUnavailable)
	}

	metrics.EmbeddingRequestsTotal.WithLabelValues("googleai", e.model, "success").Inc()
	metrics.EmbeddingRequestDuration.WithLabelValues("googleai", e.model).Observe(duration.Seconds())

	return domain.EmbeddingResult{Embedding: vec}, nil
}

// HealthCheck verifies provider availability by embedding a short probe.
func (e *Embedder) HealthCheck(ctx context.Context) error {
	if _, err := e.Embed(ctx, "ping"); err != nil {
		return fmt.Errorf("googleai health check: %w", err)
	}
	return nil
}
