package dto

type SendMessageRequest struct {
	Message      string `json:"message" validate:"required"`
	SessionKey   string `json:"session_key" validate:"required"`
	ConnectionID string `json:"connection_id,omitempty"`
	PageURL      string `json:"page_url,omitempty"`
}

type ReplyMessage struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

type SendMessageResponse struct {
	Messages    []ReplyMessage         `json:"messages"`
	Suggestions []string               `json:"suggestions,omitempty"`
	AiMetadata  map[string]interface{} `json:"ai_metadata,omitempty"`
}
