package dto

import "time"

type GetIdeaResponse struct {
	IdeaID        string    `json:"idea_id"`
	ConnectionID  string    `json:"connection_id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	ImpactedUsers int       `json:"impacted_users"`
	Source        string    `json:"source"`
	Status        string    `json:"status"`
	SubmittedAt   time.Time `json:"submitted_at"`
}

type ListIdeasResponse struct {
	Ideas []GetIdeaResponse `json:"ideas"`
	Total int               `json:"total"`
}
