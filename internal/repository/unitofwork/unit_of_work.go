package unitofwork

import (
	"context"

	"ideabot-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	ConnectionRepository() contract.ConnectionRepository
	ChatSessionRepository() contract.ChatSessionRepository
	KnowledgeRepository() contract.KnowledgeRepository
	IdeaRepository() contract.IdeaRepository
}
