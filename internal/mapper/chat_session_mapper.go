package mapper

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"ideabot-be/internal/entity"
	"ideabot-be/internal/model"
	"ideabot-be/pkg/flow"
)

type ChatSessionMapper struct{}

func NewChatSessionMapper() *ChatSessionMapper {
	return &ChatSessionMapper{}
}

func (m *ChatSessionMapper) ToEntity(s *model.ChatSession) *entity.ChatSession {
	if s == nil {
		return nil
	}

	var updatedAt *time.Time
	if !s.UpdatedAt.IsZero() {
		t := s.UpdatedAt
		updatedAt = &t
	}

	var scratch flow.Scratch
	if len(s.Scratch) > 0 {
		// a corrupt scratch column degrades to an empty form, the
		// flow engine re-asks from the current step
		_ = json.Unmarshal(s.Scratch, &scratch)
	}

	history := []entity.ChatTurn{}
	if len(s.History) > 0 {
		_ = json.Unmarshal(s.History, &history)
	}

	return &entity.ChatSession{
		Id:           s.Id,
		SessionKey:   s.SessionKey,
		ConnectionID: s.ConnectionID,
		State: flow.State{
			Mode:    parseMode(s.Mode),
			Step:    parseStep(s.Step),
			Scratch: scratch,
		},
		History:   history,
		CreatedAt: s.CreatedAt,
		UpdatedAt: updatedAt,
	}
}

func (m *ChatSessionMapper) ToModel(s *entity.ChatSession) *model.ChatSession {
	if s == nil {
		return nil
	}

	var updatedAt time.Time
	if s.UpdatedAt != nil {
		updatedAt = *s.UpdatedAt
	}

	scratch, _ := json.Marshal(s.State.Scratch)
	history, _ := json.Marshal(s.History)

	return &model.ChatSession{
		Id:           s.Id,
		SessionKey:   s.SessionKey,
		ConnectionID: s.ConnectionID,
		Mode:         string(s.State.Mode),
		Step:         string(s.State.Step),
		Scratch:      datatypes.JSON(scratch),
		History:      datatypes.JSON(history),
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    updatedAt,
	}
}

func parseMode(raw string) flow.Mode {
	if raw == string(flow.ModeGuidedFlow) {
		return flow.ModeGuidedFlow
	}
	return flow.ModeFreeChat
}

func parseStep(raw string) flow.Step {
	switch flow.Step(raw) {
	case flow.StepTitle, flow.StepDescription, flow.StepImpact, flow.StepConfirm, flow.StepSubmitted:
		return flow.Step(raw)
	default:
		return flow.StepNone
	}
}
