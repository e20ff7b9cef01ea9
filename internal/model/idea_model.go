package model

import "time"

// Idea rows carry a unique idempotency key so a duplicate submission
// from the same session fails with a constraint violation instead of
// creating a second artifact.
type Idea struct {
	Id             int64     `gorm:"primaryKey;autoIncrement"`
	IdeaID         string    `gorm:"type:varchar(50);uniqueIndex;not null"`
	ConnectionID   string    `gorm:"type:varchar(100);not null;index"`
	Title          string    `gorm:"type:varchar(255);not null"`
	Description    string    `gorm:"type:text;not null"`
	ImpactedUsers  int       `gorm:"not null;default:0"`
	IdempotencyKey string    `gorm:"type:varchar(64);uniqueIndex;not null"`
	Source         string    `gorm:"type:varchar(50);not null;default:'CHATBOT'"`
	Status         string    `gorm:"type:varchar(50);not null;default:'New'"`
	SubmittedAt    time.Time `gorm:"autoCreateTime"`
}

func (Idea) TableName() string {
	return "ideas"
}
