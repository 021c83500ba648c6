// Package session holds per-conversation state. The store is the single
// point of mutation for sessions; everything else reads snapshots.
package session

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/archivio-cloud/archidex/internal/domain"
	"github.com/archivio-cloud/archidex/internal/metrics"
)

// entry pairs a session with its own mutex so mutation is serialized per
// session id, never across sessions.
type entry struct {
	mu      sync.Mutex
	session domain.Session
}

// Store is a concurrency-safe session map. The outer mutex guards only the
// map; per-session work happens under the entry mutex.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*entry

	maxTurns int
	logger   *zap.Logger
	now      func() time.Time
}

// NewStore creates a store that caps each session's history at maxTurns.
func NewStore(maxTurns int, logger *zap.Logger) *Store {
	return &Store{
		sessions: make(map[string]*entry),
		maxTurns: maxTurns,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *Store) lookup(id string) *entry {
	s.mu.RLock()
	e, ok := s.sessions[id]
	s.mu.RUnlock()
	if ok {
		return e
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok = s.sessions[id]; ok {
		return e
	}
	now := s.now()
	e = &entry{session: domain.Session{
		ID:         id,
		State:      domain.StateNew,
		CreatedAt:  now,
		LastActive: now,
	}}
	s.sessions[id] = e
	metrics.ActiveSessions.Set(float64(len(s.sessions)))
	s.logger.Debug("session created", zap.String("session_id", id))
	return e
}

// Get returns a snapshot of the session, creating it when absent. An unknown
// id is not an error.
func (s *Store) Get(id string) domain.Session {
	e := s.lookup(id)
	e.mu.Lock()
	defer e.mu.Unlock()
	return snapshot(&e.session)
}

// AppendTurn records a completed turn: appends it to the history (capped),
// merges its entities into the accumulated ones, updates the last result set
// when the turn carried one, and moves the dialog state.
func (s *Store) AppendTurn(id string, turn domain.ConversationTurn, state domain.DialogState) domain.Session {
	e := s.lookup(id)
	e.mu.Lock()
	defer e.mu.Unlock()

	sess := &e.session
	sess.History = append(sess.History, turn)
	if len(sess.History) > s.maxTurns {
		sess.History = sess.History[len(sess.History)-s.maxTurns:]
	}
	sess.Accumulated = domain.MergeEntities(sess.Accumulated, turn.Entities)
	if turn.ResultIDs != nil {
		sess.LastResultIDs = turn.ResultIDs
	}
	sess.State = state
	sess.LastActive = s.now()
	return snapshot(sess)
}

// EvictIdle removes sessions idle longer than maxAge and returns how many
// were dropped.
func (s *Store) EvictIdle(maxAge time.Duration) int {
	cutoff := s.now().Add(-maxAge)

	s.mu.Lock()
	defer s.mu.Unlock()
	evicted := 0
	for id, e := range s.sessions {
		e.mu.Lock()
		idle := e.session.LastActive.Before(cutoff)
		e.mu.Unlock()
		if idle {
			delete(s.sessions, id)
			evicted++
		}
	}
	metrics.ActiveSessions.Set(float64(len(s.sessions)))
	if evicted > 0 {
		s.logger.Info("idle sessions evicted", zap.Int("count", evicted))
	}
	return evicted
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// snapshot deep-copies the mutable slices so callers never alias store
// memory.
func snapshot(sess *domain.Session) domain.Session {
	out := *sess
	out.History = append([]domain.ConversationTurn(nil), sess.History...)
	out.LastResultIDs = append([]string(nil), sess.LastResultIDs...)
	return out
}
