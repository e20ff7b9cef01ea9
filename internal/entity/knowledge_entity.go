package entity

import (
	"time"

	"github.com/google/uuid"
)

// Knowledge source types.
const (
	KnowledgeSourceText = "TEXT"
	KnowledgeSourceURL  = "URL"
)

// Knowledge ingestion lifecycle.
const (
	KnowledgeStatusPending = "PENDING"
	KnowledgeStatusReady   = "READY"
	KnowledgeStatusFailed  = "FAILED"
)

// ConnectionKnowledge is one snippet of tenant reference material used
// by retrieval. Large submissions are normalized asynchronously and may
// be split into several READY rows.
type ConnectionKnowledge struct {
	Id           uuid.UUID
	ConnectionID string
	SourceType   string
	SourceRef    string
	Content      string
	Status       string
	FailReason   string
	ChunkIndex   int
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}
