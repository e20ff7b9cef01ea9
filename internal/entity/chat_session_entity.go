package entity

import (
	"time"

	"github.com/google/uuid"

	"ideabot-be/pkg/flow"
)

// ChatTurn is a single utterance in a session transcript.
type ChatTurn struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// ChatSession is the per-visitor conversation record. State carries the
// mode, guided-flow step and partial form answers; History grows one
// user/assistant pair per turn.
type ChatSession struct {
	Id           uuid.UUID
	SessionKey   string
	ConnectionID string
	State        flow.State
	History      []ChatTurn
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}

// AppendTurn records one utterance at the end of the transcript.
func (s *ChatSession) AppendTurn(role, text string) {
	s.History = append(s.History, ChatTurn{Role: role, Text: text})
}

// HistoryTail returns the last n turns for prompt context.
func (s *ChatSession) HistoryTail(n int) []ChatTurn {
	if n <= 0 || len(s.History) <= n {
		return s.History
	}
	return s.History[len(s.History)-n:]
}

// NewChatSession creates a fresh session in free chat.
func NewChatSession(sessionKey, connectionID string) *ChatSession {
	return &ChatSession{
		Id:           uuid.New(),
		SessionKey:   sessionKey,
		ConnectionID: connectionID,
		State:        flow.State{Mode: flow.ModeFreeChat, Step: flow.StepNone},
		History:      []ChatTurn{},
		CreatedAt:    time.Now(),
	}
}
