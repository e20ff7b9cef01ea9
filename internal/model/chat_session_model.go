package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ChatSession struct {
	Id           uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionKey   string         `gorm:"type:varchar(255);uniqueIndex;not null"`
	ConnectionID string         `gorm:"type:varchar(100);not null;index"`
	Mode         string         `gorm:"type:varchar(20);not null;default:'FREE_CHAT'"`
	Step         string         `gorm:"type:varchar(20);not null;default:'NONE'"`
	Scratch      datatypes.JSON `gorm:"type:jsonb"`
	History      datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt    time.Time      `gorm:"autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime"`
}

func (ChatSession) TableName() string {
	return "chat_sessions"
}
