package specification

import "gorm.io/gorm"

// BySessionKey filters chat sessions by the widget-issued session key
type BySessionKey struct {
	SessionKey string
}

func (s BySessionKey) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("session_key = ?", s.SessionKey)
}

// ByConnectionID filters rows belonging to one tenant connection
type ByConnectionID struct {
	ConnectionID string
}

func (s ByConnectionID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("connection_id = ?", s.ConnectionID)
}

// ByStatus filters by lifecycle status
type ByStatus struct {
	Status string
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}

// ByIdempotencyKey filters ideas by submission digest
type ByIdempotencyKey struct {
	Key string
}

func (s ByIdempotencyKey) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("idempotency_key = ?", s.Key)
}

// ByIdeaID filters ideas by their public reference id
type ByIdeaID struct {
	IdeaID string
}

func (s ByIdeaID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("idea_id = ?", s.IdeaID)
}
