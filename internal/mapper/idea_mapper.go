package mapper

import (
	"ideabot-be/internal/entity"
	"ideabot-be/internal/model"
)

type IdeaMapper struct{}

func NewIdeaMapper() *IdeaMapper {
	return &IdeaMapper{}
}

func (m *IdeaMapper) ToEntity(i *model.Idea) *entity.Idea {
	if i == nil {
		return nil
	}

	return &entity.Idea{
		Id:             i.Id,
		IdeaID:         i.IdeaID,
		ConnectionID:   i.ConnectionID,
		Title:          i.Title,
		Description:    i.Description,
		ImpactedUsers:  i.ImpactedUsers,
		IdempotencyKey: i.IdempotencyKey,
		Source:         i.Source,
		Status:         i.Status,
		SubmittedAt:    i.SubmittedAt,
	}
}

func (m *IdeaMapper) ToModel(i *entity.Idea) *model.Idea {
	if i == nil {
		return nil
	}

	return &model.Idea{
		Id:             i.Id,
		IdeaID:         i.IdeaID,
		ConnectionID:   i.ConnectionID,
		Title:          i.Title,
		Description:    i.Description,
		ImpactedUsers:  i.ImpactedUsers,
		IdempotencyKey: i.IdempotencyKey,
		Source:         i.Source,
		Status:         i.Status,
		SubmittedAt:    i.SubmittedAt,
	}
}

func (m *IdeaMapper) ToEntities(rows []*model.Idea) []*entity.Idea {
	entities := make([]*entity.Idea, len(rows))
	for i, row := range rows {
		entities[i] = m.ToEntity(row)
	}
	return entities
}
