package contract

import (
	"context"

	"ideabot-be/internal/entity"
	"ideabot-be/internal/repository/specification"
)

type ConnectionRepository interface {
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Connection, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Connection, error)
}
