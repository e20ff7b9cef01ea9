package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "IDEA_SUBMITTED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the generic implementation used across the system.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// Domain event types.
const (
	TypeIdeaSubmitted    = "IDEA_SUBMITTED"
	TypeActionDispatched = "ACTION_DISPATCHED"
	TypeKnowledgeReady   = "KNOWLEDGE_READY"
)

// NewIdeaSubmitted is emitted after an idempotent submission resolves,
// whether it created a new artifact or found an existing one.
func NewIdeaSubmitted(connectionID, ideaID, title, origin string) BaseEvent {
	return BaseEvent{
		Type: TypeIdeaSubmitted,
		Data: map[string]interface{}{
			"connection_id": connectionID,
			"idea_id":       ideaID,
			"title":         title,
			"origin":        origin,
		},
		OccurredAt: time.Now(),
	}
}

// NewActionDispatched is emitted after the terminal action of a guided
// flow executed (or was policy-silenced).
func NewActionDispatched(connectionID, sessionKey, actionType string, executed bool) BaseEvent {
	return BaseEvent{
		Type: TypeActionDispatched,
		Data: map[string]interface{}{
			"connection_id": connectionID,
			"session_key":   sessionKey,
			"action_type":   actionType,
			"executed":      executed,
		},
		OccurredAt: time.Now(),
	}
}

// NewKnowledgeReady is emitted when a knowledge entry finished
// normalization and became retrievable.
func NewKnowledgeReady(connectionID, knowledgeID string, chunks int) BaseEvent {
	return BaseEvent{
		Type: TypeKnowledgeReady,
		Data: map[string]interface{}{
			"connection_id": connectionID,
			"knowledge_id":  knowledgeID,
			"chunks":        chunks,
		},
		OccurredAt: time.Now(),
	}
}
