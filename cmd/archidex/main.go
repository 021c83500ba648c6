package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/archivio-cloud/archidex/internal/config"
	"github.com/archivio-cloud/archidex/internal/corpus"
	dbBadger "github.com/archivio-cloud/archidex/internal/db/badger"
	"github.com/archivio-cloud/archidex/internal/dialogue"
	"github.com/archivio-cloud/archidex/internal/domain"
	"github.com/archivio-cloud/archidex/internal/index"
	logpkg "github.com/archivio-cloud/archidex/internal/logger"
	"github.com/archivio-cloud/archidex/internal/metrics"
	"github.com/archivio-cloud/archidex/internal/repository/embcache"
	"github.com/archivio-cloud/archidex/internal/session"
	chiTransport "github.com/archivio-cloud/archidex/internal/transport/chi"
	googleaiEmb "github.com/archivio-cloud/archidex/internal/transport/googleai"
	openaiEmb "github.com/archivio-cloud/archidex/internal/transport/openai"
	"github.com/archivio-cloud/archidex/internal/version"
	categoryuc "github.com/archivio-cloud/archidex/internal/usecase/category"
	chatuc "github.com/archivio-cloud/archidex/internal/usecase/chat"
	embeddinguc "github.com/archivio-cloud/archidex/internal/usecase/embedding"
	healthuc "github.com/archivio-cloud/archidex/internal/usecase/health"
	searchuc "github.com/archivio-cloud/archidex/internal/usecase/search"
)

func main() {
	_ = godotenv.Load()

	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting archidex API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("corpus_path", cfg.Corpus.Path),
	)

	// Embedding cache store
	store, err := dbBadger.Open(cfg.Corpus.CachePath, logger)
	if err != nil {
		logger.Fatal("Failed to open embedding cache", zap.Error(err))
	}
	defer store.Close()

	// Register engine metrics explicitly (no init())
	metrics.RegisterEngineMetrics()

	ctx := context.Background()

	// Build embedder chain — composition root.
	// Take the first vectorizer config.
	var vecCfg config.VectorizerConfig
	var provName string
	for _, vc := range cfg.Embedding.Vectorizers {
		vecCfg = vc
		provName = vc.Provider
		break
	}

	var docEmbedder, queryEmbedder domain.Embedder
	var providerHealth healthuc.ProviderChecker
	if provName != "" {
		provCfg := cfg.Embedding.Providers[provName]

		base, health := buildProvider(ctx, provName, provCfg, vecCfg, logger)
		providerHealth = health

		docEmbedder = buildEmbedder(base, provName, vecCfg, vecCfg.DocumentInstruction, store, logger)
		queryEmbedder = buildEmbedder(base, provName, vecCfg, vecCfg.QueryInstruction, store, logger)

		logger.Info("Embedders created",
			zap.String("provider", provName),
			zap.String("model", vecCfg.Model),
			zap.Int("dimensions", vecCfg.Dimensions),
		)
	} else {
		logger.Warn("No vectorizer configured, keyword ranking only")
	}

	// Load the corpus — fatal when empty, the engine cannot serve without records.
	records, err := corpus.Load(cfg.Corpus.Path)
	if err != nil {
		logger.Fatal("Failed to load corpus", zap.Error(err))
	}
	corpusStore := corpus.NewStore(records)
	categoryIndex := corpus.NewCategoryIndex(corpusStore)
	logger.Info("Corpus loaded", zap.Int("records", corpusStore.Len()))

	// Rankers
	keywordRanker := index.NewKeywordRanker(corpusStore)
	var embeddingIndex *index.EmbeddingIndex
	if docEmbedder != nil {
		embeddingIndex = index.NewEmbeddingIndex(corpusStore, docEmbedder, queryEmbedder, logger)
		start := time.Now()
		vectorized := embeddingIndex.Build(ctx, cfg.Search.WarmupWorkers)
		logger.Info("Embedding index warmed up",
			zap.Int("vectorized", vectorized),
			zap.Int("records", corpusStore.Len()),
			zap.Duration("took", time.Since(start)),
		)
	} else {
		embeddingIndex = index.NewEmbeddingIndex(corpusStore, unavailableEmbedder{}, unavailableEmbedder{}, logger)
	}

	// Session store with idle eviction janitor
	sessions := session.NewStore(cfg.Session.MaxTurns, logger)
	go func() {
		interval := time.Duration(cfg.Session.SweepIntervalMin) * time.Minute
		maxAge := time.Duration(cfg.Session.IdleTTLMin) * time.Minute
		for range time.Tick(interval) {
			if evicted := sessions.EvictIdle(maxAge); evicted > 0 {
				logger.Info("Evicted idle sessions", zap.Int("count", evicted))
			}
		}
	}()

	// Use case services
	searchSvc := searchuc.New(embeddingIndex, keywordRanker, cfg.Search.MinConfidence, logger)
	extractor := dialogue.NewExtractor()
	chatSvc := chatuc.New(
		searchSvc,
		dialogue.NewClassifier(extractor),
		extractor,
		dialogue.NewComparator(corpusStore),
		dialogue.NewSuggester(corpusStore),
		sessions,
		cfg.Search.TopK,
		logger,
	)
	categorySvc := categoryuc.New(categoryIndex)
	healthSvc := healthuc.New(corpusStore, embeddingIndex, providerHealth)

	// HTTP server
	server := chiTransport.NewServer(chatSvc, categorySvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// unavailableEmbedder backs the index when no provider is configured, so the
// search service degrades to keyword ranking.
type unavailableEmbedder struct{}

func (unavailableEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	return domain.EmbeddingResult{}, domain.ErrProviderUnavailable
}

// buildProvider creates the base embedding provider and its health checker.
func buildProvider(
	ctx context.Context,
	provName string,
	provCfg config.ProviderConfig,
	vecCfg config.VectorizerConfig,
	logger *zap.Logger,
) (domain.Embedder, healthuc.ProviderChecker) {
	timeout := time.Duration(vecCfg.TimeoutSec) * time.Second

	switch provName {
	case "googleai":
		emb, err := googleaiEmb.NewEmbedder(ctx, &googleaiEmb.Config{
			APIKey:  provCfg.APIKey,
			Model:   vecCfg.Model,
			Timeout: timeout,
			RPS:     provCfg.RPS,
			Logger:  logger,
		})
		if err != nil {
			logger.Fatal("Failed to create googleai embedder", zap.Error(err))
		}
		return emb, emb
	default:
		emb := openaiEmb.NewEmbedder(&openaiEmb.Config{
			APIKey:     provCfg.APIKey,
			BaseURL:    provCfg.BaseURL,
			Model:      vecCfg.Model,
			Dimensions: vecCfg.Dimensions,
			Timeout:    timeout,
			RPS:        provCfg.RPS,
			Logger:     logger,
		})
		return emb, emb
	}
}

// buildEmbedder assembles the decorator chain: provider -> Cached -> Instrumented -> Instruction.
func buildEmbedder(
	base domain.Embedder,
	provName string,
	vecCfg config.VectorizerConfig,
	instruction string,
	store *dbBadger.Store,
	logger *zap.Logger,
) domain.Embedder {
	var embedder domain.Embedder = base
	if store != nil {
		embedder = embcache.New(base, store, metrics.EmbeddingCacheTotal, logger)
	}

	embedder = embeddinguc.NewInstrumentedEmbedder(embedder, provName, vecCfg.Model, logger)

	// Instruction prefix (outermost — cache key includes instruction)
	if instruction != "" {
		return domain.NewInstructionEmbedder(embedder, instruction)
	}

	return embedder
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
