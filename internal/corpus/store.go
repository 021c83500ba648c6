package corpus

import "github.com/archivio-cloud/archidex/internal/domain"

// Store is the immutable in-memory record collection. Built once at startup;
// safe for unsynchronized concurrent reads.
type Store struct {
	records []domain.Record
	byID    map[string]int
	docFreq map[string]int
}

// NewStore indexes the loaded records.
func NewStore(records []domain.Record) *Store {
	s := &Store{
		records: records,
		byID:    make(map[string]int, len(records)),
		docFreq: make(map[string]int),
	}
	for i, r := range records {
		s.byID[r.ID] = i

		seen := make(map[string]struct{})
		for _, tok := range Tokenize(r.Blob) {
			if _, dup := seen[tok]; dup {
				continue
			}
			seen[tok] = struct{}{}
			s.docFreq[tok]++
		}
	}
	return s
}

// Records returns all records in load order. Callers must not mutate.
func (s *Store) Records() []domain.Record {
	return s.records
}

// Len returns the number of records.
func (s *Store) Len() int {
	return len(s.records)
}

// ByID returns the record with the given id.
func (s *Store) ByID(id string) (domain.Record, bool) {
	i, ok := s.byID[id]
	if !ok {
		return domain.Record{}, false
	}
	return s.records[i], true
}

// TitleOf returns the title for a record id, or "" for unknown ids.
func (s *Store) TitleOf(id string) string {
	if r, ok := s.ByID(id); ok {
		return r.Title
	}
	return ""
}

// DocFreq returns the number of records whose blob contains the token at
// least once. Tokens are folded and stemmed blob tokens.
func (s *Store) DocFreq(token string) int {
	return s.docFreq[token]
}
