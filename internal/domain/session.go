package domain

import "time"

// ConversationTurn is one append-only entry in a session's history.
type ConversationTurn struct {
	RawText   string
	Intent    Intent
	Entities  Entities
	ResultIDs []string
	Timestamp time.Time
}

// Session is the server-held conversational state for one user. It is owned
// exclusively by the session store; other components operate on snapshots.
type Session struct {
	ID            string
	History       []ConversationTurn
	Accumulated   Entities
	LastResultIDs []string
	State         DialogState
	CreatedAt     time.Time
	LastActive    time.Time
}

// LastTurn returns the most recent turn, or nil for a fresh session.
// Only the last turn is consulted for per-turn decisions.
func (s *Session) LastTurn() *ConversationTurn {
	if len(s.History) == 0 {
		return nil
	}
	return &s.History[len(s.History)-1]
}
