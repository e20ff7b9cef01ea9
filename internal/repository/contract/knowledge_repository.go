package contract

import (
	"context"

	"github.com/google/uuid"

	"ideabot-be/internal/entity"
	"ideabot-be/internal/repository/specification"
)

type KnowledgeRepository interface {
	Create(ctx context.Context, knowledge *entity.ConnectionKnowledge) error
	Update(ctx context.Context, knowledge *entity.ConnectionKnowledge) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ConnectionKnowledge, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ConnectionKnowledge, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
