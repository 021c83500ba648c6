// Package health implements the capability probe. The probe never errors: a
// provider outage is reported as a capability flag, not a failure.
package health

import "context"

// Report aggregates the engine's serving capabilities.
type Report struct {
	Status              string `json:"status"`
	DocumentCount       int    `json:"document_count"`
	EmbeddingsAvailable bool   `json:"embeddings_available"`
	ProviderActive      bool   `json:"provider_active"`
}

// Service coordinates the capability checks.
type Service struct {
	corpus   CorpusReader
	index    IndexReader
	provider ProviderChecker
}

// New creates a Service. provider can be nil when no provider is configured.
func New(corpus CorpusReader, index IndexReader, provider ProviderChecker) *Service {
	return &Service{corpus: corpus, index: index, provider: provider}
}

// Check builds the capability report.
func (s *Service) Check(ctx context.Context) Report {
	report := Report{
		Status:              "ok",
		DocumentCount:       s.corpus.Len(),
		EmbeddingsAvailable: s.index.Available(),
	}

	if s.provider != nil {
		report.ProviderActive = s.provider.HealthCheck(ctx) == nil
	}

	return report
}
