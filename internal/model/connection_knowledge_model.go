package model

import (
	"time"

	"github.com/google/uuid"
)

type ConnectionKnowledge struct {
	Id           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ConnectionID string    `gorm:"type:varchar(100);not null;index"`
	SourceType   string    `gorm:"type:varchar(20);not null;default:'TEXT'"`
	SourceRef    string    `gorm:"type:text"`
	Content      string    `gorm:"type:text;not null"`
	Status       string    `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	FailReason   string    `gorm:"type:text"`
	ChunkIndex   int       `gorm:"default:0"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (ConnectionKnowledge) TableName() string {
	return "connection_knowledge"
}
