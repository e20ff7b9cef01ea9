package mapper

import (
	"time"

	"ideabot-be/internal/entity"
	"ideabot-be/internal/model"
)

type KnowledgeMapper struct{}

func NewKnowledgeMapper() *KnowledgeMapper {
	return &KnowledgeMapper{}
}

func (m *KnowledgeMapper) ToEntity(k *model.ConnectionKnowledge) *entity.ConnectionKnowledge {
	if k == nil {
		return nil
	}

	var updatedAt *time.Time
	if !k.UpdatedAt.IsZero() {
		t := k.UpdatedAt
		updatedAt = &t
	}

	return &entity.ConnectionKnowledge{
		Id:           k.Id,
		ConnectionID: k.ConnectionID,
		SourceType:   k.SourceType,
		SourceRef:    k.SourceRef,
		Content:      k.Content,
		Status:       k.Status,
		FailReason:   k.FailReason,
		ChunkIndex:   k.ChunkIndex,
		CreatedAt:    k.CreatedAt,
		UpdatedAt:    updatedAt,
	}
}

func (m *KnowledgeMapper) ToModel(k *entity.ConnectionKnowledge) *model.ConnectionKnowledge {
	if k == nil {
		return nil
	}

	var updatedAt time.Time
	if k.UpdatedAt != nil {
		updatedAt = *k.UpdatedAt
	}

	return &model.ConnectionKnowledge{
		Id:           k.Id,
		ConnectionID: k.ConnectionID,
		SourceType:   k.SourceType,
		SourceRef:    k.SourceRef,
		Content:      k.Content,
		Status:       k.Status,
		FailReason:   k.FailReason,
		ChunkIndex:   k.ChunkIndex,
		CreatedAt:    k.CreatedAt,
		UpdatedAt:    updatedAt,
	}
}

func (m *KnowledgeMapper) ToEntities(rows []*model.ConnectionKnowledge) []*entity.ConnectionKnowledge {
	entities := make([]*entity.ConnectionKnowledge, len(rows))
	for i, k := range rows {
		entities[i] = m.ToEntity(k)
	}
	return entities
}
