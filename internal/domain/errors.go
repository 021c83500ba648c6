package domain

import "errors"

var (
	// ErrProviderUnavailable signals that the embedding provider is
	// unreachable or timed out. Recovered locally by keyword fallback,
	// never surfaced to the caller as a failure.
	ErrProviderUnavailable = errors.New("embedding provider unavailable")
	// ErrEmptyCorpus signals a corpus with no records. Fatal at startup.
	ErrEmptyCorpus = errors.New("empty corpus")
	// ErrMalformedQuery signals an empty or whitespace-only query.
	ErrMalformedQuery = errors.New("malformed query")
	// ErrCategoryNotFound signals an unknown category kind or name.
	ErrCategoryNotFound = errors.New("category not found")
)
