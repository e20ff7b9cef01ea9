package entity

import "time"

// Idea statuses and origins.
const (
	IdeaSourceChatbot = "CHATBOT"
	IdeaStatusNew     = "New"
)

// Idea is the artifact produced by a completed guided submission flow.
// IdempotencyKey deduplicates identical submissions within a session.
type Idea struct {
	Id             int64
	IdeaID         string
	ConnectionID   string
	Title          string
	Description    string
	ImpactedUsers  int
	IdempotencyKey string
	Source         string
	Status         string
	SubmittedAt    time.Time
}
