// Package chat implements the per-turn retrieval orchestrator: classify the
// turn, build the effective query, rank, compare against the previous result
// set, and compose the reply.
package chat

import (
	"context"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/archivio-cloud/archidex/internal/corpus"
	"github.com/archivio-cloud/archidex/internal/domain"
	"github.com/archivio-cloud/archidex/internal/metrics"
)

// User-facing reply fragments. The archive audience is Spanish-speaking.
const (
	closingMessage    = "¡Me alegra haber sido útil! 📚 ¿Deseas buscar más información sobre algún tema en particular?"
	clarifyingMessage = "Para afinar la búsqueda, ¿puedes indicarme un año, un tipo de documento o un tema específico?"
	noResultsMessage  = "🔍 No encontré documentos específicos para tu consulta."
	resultsHeader     = "📚 Encontré estos documentos relevantes:"
	apologyMessage    = "Lo siento, ocurrió un problema al procesar tu consulta. Inténtalo de nuevo."
)

// maxInheritedTopics bounds how many accumulated topic tokens join the
// effective query, so long sessions do not drift into noise.
const maxInheritedTopics = 3

// Document is one rendered result row.
type Document struct {
	ID       string
	Title    string
	Link     string
	Score    float64
	Repeated bool
}

// Reply is the rendered outcome of one turn.
type Reply struct {
	Message     string
	Documents   []Document
	Suggestions []string
	Intent      domain.Intent
	State       domain.DialogState
}

// Service is the per-turn orchestrator.
type Service struct {
	searcher   Searcher
	classifier Classifier
	extractor  Extractor
	comparator Comparator
	suggester  Suggester
	sessions   Sessions
	topK       int
	logger     *zap.Logger
}

// New creates the orchestrator. topK is the number of results per turn.
func New(
	searcher Searcher, classifier Classifier, extractor Extractor,
	comparator Comparator, suggester Suggester, sessions Sessions,
	topK int, logger *zap.Logger,
) *Service {
	return &Service{
		searcher:   searcher,
		classifier: classifier,
		extractor:  extractor,
		comparator: comparator,
		suggester:  suggester,
		sessions:   sessions,
		topK:       topK,
		logger:     logger,
	}
}

// Respond processes one conversational turn. Empty text returns
// domain.ErrMalformedQuery without recording a turn. Any unexpected fault is
// recovered here and converted into an apologetic reply, so one bad turn
// never corrupts session state or crashes the process.
func (s *Service) Respond(ctx context.Context, sessionID, text string) (reply Reply, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("turn panicked",
				zap.String("session_id", sessionID),
				zap.Any("panic", r),
				zap.ByteString("stack", debug.Stack()),
			)
			reply = Reply{Message: apologyMessage, State: domain.StateNew}
			err = nil
		}
	}()

	if strings.TrimSpace(text) == "" {
		return Reply{}, domain.ErrMalformedQuery
	}

	sess := s.sessions.Get(sessionID)
	prev := sess.LastTurn()

	intent := s.classifier.Classify(text, prev)
	metrics.ChatTurnsTotal.WithLabelValues(string(intent)).Inc()

	entities := s.extractor.Extract(text)
	now := time.Now()

	switch {
	case intent == domain.IntentSatisfied:
		updated := s.sessions.AppendTurn(sessionID, domain.ConversationTurn{
			RawText:   text,
			Intent:    intent,
			Entities:  entities,
			Timestamp: now,
		}, domain.StateResolved)
		return Reply{Message: closingMessage, Intent: intent, State: updated.State}, nil

	case intent == domain.IntentUnsatisfied && entities.Empty():
		updated := s.sessions.AppendTurn(sessionID, domain.ConversationTurn{
			RawText:   text,
			Intent:    intent,
			Timestamp: now,
		}, domain.StateAwaitingClarification)
		return Reply{Message: clarifyingMessage, Intent: intent, State: updated.State}, nil
	}

	query, effective := effectiveQuery(text, entities, sess.Accumulated)

	results, rankErr := s.searcher.Rank(ctx, query, s.topK)
	if rankErr != nil {
		s.logger.Error("turn failed",
			zap.String("session_id", sessionID),
			zap.String("query", query),
			zap.Error(rankErr),
		)
		return Reply{Message: apologyMessage, Intent: intent, State: sess.State}, nil
	}

	ids := make([]string, 0, len(results))
	for _, r := range results {
		ids = append(ids, r.Record.ID)
	}

	var repeated map[string]bool
	if prev != nil && followUpIntent(prev.Intent) && len(sess.LastResultIDs) > 0 {
		cmp := s.comparator.Compare(sess.LastResultIDs, ids)
		repeated = make(map[string]bool, len(cmp.Repeated))
		for _, id := range cmp.Repeated {
			repeated[id] = true
		}
	}

	suggestions := s.suggester.Suggest(query, results, effective)

	docs := make([]Document, 0, len(results))
	for _, r := range results {
		docs = append(docs, Document{
			ID:       r.Record.ID,
			Title:    r.Record.Title,
			Link:     r.Record.Link,
			Score:    r.Score,
			Repeated: repeated[r.Record.ID],
		})
	}

	updated := s.sessions.AppendTurn(sessionID, domain.ConversationTurn{
		RawText:   text,
		Intent:    intent,
		Entities:  entities,
		ResultIDs: ids,
		Timestamp: now,
	}, domain.StateNew)

	return Reply{
		Message:     composeMessage(docs, repeated != nil, suggestions),
		Documents:   docs,
		Suggestions: suggestions,
		Intent:      intent,
		State:       updated.State,
	}, nil
}

// followUpIntent reports whether the previous turn invites comparing result
// sets.
func followUpIntent(intent domain.Intent) bool {
	return intent == domain.IntentUnsatisfied || intent == domain.IntentRefinement
}

// effectiveQuery merges the normalized current text with accumulated entities
// the current text does not contradict: an explicit year suppresses
// accumulated years, likewise doc types and topics. Returns the query string
// and the entity view it reflects.
func effectiveQuery(text string, entities, acc domain.Entities) (string, domain.Entities) {
	query := corpus.NormalizeQuery(text)
	queryTokens := tokenSet(query)
	eff := entities

	var extra []string

	if len(entities.Years) == 0 {
		if eff.Period == nil {
			eff.Period = acc.Period
		}
		switch {
		case len(acc.Years) > 0:
			eff.Years = acc.Years
			for _, y := range acc.Years {
				extra = appendMissing(extra, queryTokens, strconv.Itoa(y))
			}
		case eff.Period != nil:
			extra = appendMissing(extra, queryTokens, strconv.Itoa(eff.Period.From))
			if eff.Period.To != eff.Period.From {
				extra = appendMissing(extra, queryTokens, strconv.Itoa(eff.Period.To))
			}
		}
	}

	if len(entities.DocTypes) == 0 && len(acc.DocTypes) > 0 {
		eff.DocTypes = acc.DocTypes
		for _, d := range acc.DocTypes {
			extra = appendMissing(extra, queryTokens, d)
		}
	}

	if len(entities.Topics) == 0 && len(acc.Topics) > 0 {
		eff.Topics = acc.Topics
		inherited := 0
		for _, t := range acc.Topics {
			if inherited == maxInheritedTopics {
				break
			}
			before := len(extra)
			extra = appendMissing(extra, queryTokens, t)
			if len(extra) > before {
				inherited++
			}
		}
	}

	if len(extra) > 0 {
		query = query + " " + strings.Join(extra, " ")
	}
	return query, eff
}

func tokenSet(query string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range strings.Fields(query) {
		set[tok] = struct{}{}
	}
	return set
}

func appendMissing(extra []string, queryTokens map[string]struct{}, token string) []string {
	if _, ok := queryTokens[token]; ok {
		return extra
	}
	queryTokens[token] = struct{}{}
	return append(extra, token)
}

// composeMessage renders the result listing. Repeat/novelty markers appear
// only when comparator data exists for this turn.
func composeMessage(docs []Document, annotated bool, suggestions []string) string {
	var b strings.Builder

	if len(docs) == 0 {
		b.WriteString(noResultsMessage)
	} else {
		b.WriteString(resultsHeader)
		for i, d := range docs {
			b.WriteString("\n")
			b.WriteString(strconv.Itoa(i + 1))
			b.WriteString(". ")
			if annotated {
				if d.Repeated {
					b.WriteString("🔄 ")
				} else {
					b.WriteString("✨ ")
				}
			}
			b.WriteString(d.Title)
		}
	}

	if len(suggestions) > 0 {
		b.WriteString("\n\n💡 También puedes probar:")
		for _, sg := range suggestions {
			b.WriteString("\n• ")
			b.WriteString(sg)
		}
	}

	return b.String()
}
