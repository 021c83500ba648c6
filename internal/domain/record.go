package domain

// Record is one archival-document description. Records are created once at
// corpus load and never mutated or destroyed during the process lifetime.
type Record struct {
	ID       string
	Title    string
	Creator  string
	Subjects []string
	Coverage string
	Link     string
	// Blob is the derived searchable text (weighted title, link slug,
	// subjects, creators, coverage) used for embedding and keyword scoring.
	Blob string
}

// ScoredRecord pairs a record with a retrieval score.
type ScoredRecord struct {
	Record Record
	Score  float64
}
