package entity

import (
	"time"

	"github.com/google/uuid"

	"ideabot-be/pkg/permission"
	"ideabot-be/pkg/prompt"
)

// Action types a connection can configure for completed guided flows.
const (
	ActionSave    = "SAVE"
	ActionWebhook = "WEBHOOK"
	ActionEmail   = "EMAIL"
	ActionNone    = "NONE"
)

// ActionSettings are the per-type knobs of an action configuration.
type ActionSettings struct {
	URL     string            `json:"url,omitempty"`
	Email   string            `json:"email,omitempty"`
	Target  string            `json:"target,omitempty"`
	Headers map[string]string `json:"headers,omitempty"`
}

// ActionConfig describes the terminal action for a completed guided flow.
type ActionConfig struct {
	Type   string         `json:"type"`
	Config ActionSettings `json:"config"`
}

// DefaultActionConfig preserves behavior for connections created before
// action configuration existed: submissions are saved to the ideas table.
func DefaultActionConfig() ActionConfig {
	return ActionConfig{
		Type:   ActionSave,
		Config: ActionSettings{Target: "ideas_table"},
	}
}

// Connection is one configured tenant deployment of the assistant.
// Provisioning is owned externally; this core reads it.
type Connection struct {
	Id                uuid.UUID
	ConnectionID      string
	Name              string
	Domain            string
	Permissions       permission.Document
	BehaviorProfile   prompt.Profile
	BehaviorOverrides []prompt.Override
	ActionConfig      *ActionConfig
	CreatedAt         time.Time
	UpdatedAt         *time.Time
}

// EffectiveActionConfig resolves the configured action, falling back to
// the backward-compatible default.
func (c *Connection) EffectiveActionConfig() ActionConfig {
	if c == nil || c.ActionConfig == nil || c.ActionConfig.Type == "" {
		return DefaultActionConfig()
	}
	return *c.ActionConfig
}
