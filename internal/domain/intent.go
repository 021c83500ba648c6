package domain

// Intent is the classified purpose of a conversational turn. The set is
// closed: the engine is a retrieval dialogue, not a general chat manager.
type Intent string

const (
	// IntentNewTopic starts a fresh search topic.
	IntentNewTopic Intent = "new_topic"
	// IntentSatisfied closes the current topic (gratitude, acceptance).
	IntentSatisfied Intent = "satisfied"
	// IntentUnsatisfied rejects the previous results.
	IntentUnsatisfied Intent = "unsatisfied"
	// IntentRefinement narrows the previous search with new information.
	IntentRefinement Intent = "refinement"
)

// DialogState is the orchestrator state carried between turns of a session.
type DialogState string

const (
	// StateNew accepts any turn.
	StateNew DialogState = "new"
	// StateAwaitingClarification means the engine asked for years/type/topic.
	StateAwaitingClarification DialogState = "awaiting_clarification"
	// StateResolved means the topic closed; the next turn starts fresh.
	StateResolved DialogState = "resolved"
)
