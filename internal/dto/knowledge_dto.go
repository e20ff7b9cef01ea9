package dto

import (
	"time"

	"github.com/google/uuid"
)

type AddKnowledgeRequest struct {
	ConnectionID string `json:"connection_id" validate:"required"`
	Content      string `json:"content" validate:"required"`
	SourceRef    string `json:"source_ref,omitempty"`
}

type AddKnowledgeResponse struct {
	Id     uuid.UUID `json:"id"`
	Status string    `json:"status"`
}

type GetKnowledgeResponse struct {
	Id           uuid.UUID  `json:"id"`
	ConnectionID string     `json:"connection_id"`
	SourceType   string     `json:"source_type"`
	SourceRef    string     `json:"source_ref,omitempty"`
	Content      string     `json:"content"`
	Status       string     `json:"status"`
	FailReason   string     `json:"fail_reason,omitempty"`
	ChunkIndex   int        `json:"chunk_index"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at"`
}

type ListKnowledgeResponse struct {
	Items []GetKnowledgeResponse `json:"items"`
	Total int                    `json:"total"`
}

// PublishNormalizeKnowledgeMessage is the async pipeline payload.
type PublishNormalizeKnowledgeMessage struct {
	KnowledgeId uuid.UUID `json:"knowledge_id"`
}
