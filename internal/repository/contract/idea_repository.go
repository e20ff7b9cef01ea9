package contract

import (
	"context"

	"ideabot-be/internal/entity"
	"ideabot-be/internal/repository/specification"
)

type IdeaRepository interface {
	Create(ctx context.Context, idea *entity.Idea) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Idea, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Idea, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
