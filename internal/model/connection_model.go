package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Connection rows are provisioned by an external admin surface. The
// JSON columns are stored as received and normalized in the mapper.
type Connection struct {
	Id                uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ConnectionID      string         `gorm:"type:varchar(100);uniqueIndex;not null"`
	Name              string         `gorm:"type:varchar(255);not null"`
	Domain            string         `gorm:"type:varchar(255)"`
	Permissions       datatypes.JSON `gorm:"type:jsonb"`
	BehaviorProfile   datatypes.JSON `gorm:"type:jsonb"`
	BehaviorOverrides datatypes.JSON `gorm:"type:jsonb"`
	ActionConfig      datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt         time.Time      `gorm:"autoCreateTime"`
	UpdatedAt         time.Time      `gorm:"autoUpdateTime"`
	DeletedAt         gorm.DeletedAt `gorm:"index"`
}

func (Connection) TableName() string {
	return "connections"
}
