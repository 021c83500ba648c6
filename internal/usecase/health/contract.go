package health

import "context"

// CorpusReader reports the loaded record count.
type CorpusReader interface {
	Len() int
}

// IndexReader reports whether any record vectors exist.
type IndexReader interface {
	Available() bool
}

// ProviderChecker checks embedding provider availability.
type ProviderChecker interface {
	HealthCheck(ctx context.Context) error
}
