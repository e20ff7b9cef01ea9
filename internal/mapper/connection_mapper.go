package mapper

import (
	"encoding/json"
	"time"

	"ideabot-be/internal/entity"
	"ideabot-be/internal/model"
	"ideabot-be/pkg/permission"
	"ideabot-be/pkg/prompt"
)

// ConnectionMapper is the trust boundary for provisioned rows: the
// JSON columns are tolerated in every historical shape here, so the
// rest of the code only ever sees normalized values.
type ConnectionMapper struct{}

func NewConnectionMapper() *ConnectionMapper {
	return &ConnectionMapper{}
}

func (m *ConnectionMapper) ToEntity(c *model.Connection) *entity.Connection {
	if c == nil {
		return nil
	}

	var updatedAt *time.Time
	if !c.UpdatedAt.IsZero() {
		t := c.UpdatedAt
		updatedAt = &t
	}

	return &entity.Connection{
		Id:                c.Id,
		ConnectionID:      c.ConnectionID,
		Name:              c.Name,
		Domain:            c.Domain,
		Permissions:       permission.Normalize(c.Permissions),
		BehaviorProfile:   prompt.ParseProfile(c.BehaviorProfile),
		BehaviorOverrides: prompt.ParseOverrides(c.BehaviorOverrides),
		ActionConfig:      parseActionConfig(c.ActionConfig),
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         updatedAt,
	}
}

func (m *ConnectionMapper) ToEntities(conns []*model.Connection) []*entity.Connection {
	entities := make([]*entity.Connection, len(conns))
	for i, c := range conns {
		entities[i] = m.ToEntity(c)
	}
	return entities
}

// parseActionConfig tolerates a missing column, a plain object, or an
// object that was double-encoded as a JSON string. Anything unreadable
// yields nil, which resolves to the SAVE default downstream.
func parseActionConfig(raw []byte) *entity.ActionConfig {
	if len(raw) == 0 {
		return nil
	}

	var cfg entity.ActionConfig
	if err := json.Unmarshal(raw, &cfg); err == nil && cfg.Type != "" {
		return &cfg
	}

	var encoded string
	if err := json.Unmarshal(raw, &encoded); err == nil {
		if err := json.Unmarshal([]byte(encoded), &cfg); err == nil && cfg.Type != "" {
			return &cfg
		}
	}
	return nil
}
