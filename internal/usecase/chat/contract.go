package chat

import (
	"context"

	"github.com/archivio-cloud/archidex/internal/dialogue"
	"github.com/archivio-cloud/archidex/internal/domain"
)

// Searcher runs the retrieval plan for an effective query.
type Searcher interface {
	Rank(ctx context.Context, query string, k int) ([]domain.ScoredRecord, error)
}

// Classifier assigns an intent to the turn text given the previous turn.
type Classifier interface {
	Classify(text string, prev *domain.ConversationTurn) domain.Intent
}

// Extractor pulls structured entities from free text.
type Extractor interface {
	Extract(text string) domain.Entities
}

// Comparator diffs the current result ids against the previous ones.
type Comparator interface {
	Compare(previousIDs, currentIDs []string) dialogue.Comparison
}

// Suggester proposes refined query strings for the current results.
type Suggester interface {
	Suggest(query string, results []domain.ScoredRecord, entities domain.Entities) []string
}

// Sessions is the conversational state store.
type Sessions interface {
	Get(id string) domain.Session
	AppendTurn(id string, turn domain.ConversationTurn, state domain.DialogState) domain.Session
}
