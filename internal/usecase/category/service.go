// Package category exposes the derived archive groupings for browsing.
package category

import (
	"fmt"

	"github.com/archivio-cloud/archidex/internal/corpus"
	"github.com/archivio-cloud/archidex/internal/domain"
)

// Index is the read-only category grouping built at corpus load.
type Index interface {
	List() map[string][]corpus.CategoryEntry
	RecordsFor(kind, name string) ([]domain.Record, error)
}

// LinkedTitle is one browsable entry within a category.
type LinkedTitle struct {
	Title string `json:"title"`
	Link  string `json:"link"`
}

// Service answers category browsing requests.
type Service struct {
	index Index
}

// New creates a category service.
func New(index Index) *Service {
	return &Service{index: index}
}

// List returns every category kind with its sorted entries.
func (s *Service) List() map[string][]corpus.CategoryEntry {
	return s.index.List()
}

// Records resolves a category to its browsable titles. Name matching is
// exact but case-insensitive; an unknown kind or name yields
// domain.ErrCategoryNotFound.
func (s *Service) Records(kind, name string) ([]LinkedTitle, error) {
	records, err := s.index.RecordsFor(kind, name)
	if err != nil {
		return nil, fmt.Errorf("category %s/%s: %w", kind, name, err)
	}

	out := make([]LinkedTitle, 0, len(records))
	for _, rec := range records {
		out = append(out, LinkedTitle{Title: rec.Title, Link: rec.Link})
	}
	return out, nil
}
