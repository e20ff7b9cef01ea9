package service

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"ideabot-be/internal/entity"
	"ideabot-be/internal/repository/contract"
	"ideabot-be/internal/repository/specification"
	"ideabot-be/internal/repository/unitofwork"
	"ideabot-be/pkg/llm"
)

// memStore is a threadsafe in-memory stand-in for the database, shared
// by one factory and every unit of work it hands out.
type memStore struct {
	mu          sync.Mutex
	connections []*entity.Connection
	sessions    []*entity.ChatSession
	knowledge   []*entity.ConnectionKnowledge
	ideas       []*entity.Idea
	nextIdeaID  int64
}

type memFactory struct{ store *memStore }

func newMemFactory() *memFactory {
	return &memFactory{store: &memStore{}}
}

func (f *memFactory) NewUnitOfWork(_ context.Context) unitofwork.UnitOfWork {
	return &memUow{store: f.store}
}

type memUow struct{ store *memStore }

func (u *memUow) Begin(_ context.Context) error { return nil }
func (u *memUow) Commit() error                 { return nil }
func (u *memUow) Rollback() error               { return nil }

func (u *memUow) ConnectionRepository() contract.ConnectionRepository {
	return &memConnRepo{store: u.store}
}
func (u *memUow) ChatSessionRepository() contract.ChatSessionRepository {
	return &memSessionRepo{store: u.store}
}
func (u *memUow) KnowledgeRepository() contract.KnowledgeRepository {
	return &memKnowledgeRepo{store: u.store}
}
func (u *memUow) IdeaRepository() contract.IdeaRepository {
	return &memIdeaRepo{store: u.store}
}

// spec matching helpers

func matchConnectionID(specs []specification.Specification) (string, bool) {
	for _, s := range specs {
		if v, ok := s.(specification.ByConnectionID); ok {
			return v.ConnectionID, true
		}
	}
	return "", false
}

func matchStatus(specs []specification.Specification) (string, bool) {
	for _, s := range specs {
		if v, ok := s.(specification.ByStatus); ok {
			return v.Status, true
		}
	}
	return "", false
}

type memConnRepo struct{ store *memStore }

func (r *memConnRepo) FindOne(_ context.Context, specs ...specification.Specification) (*entity.Connection, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	id, _ := matchConnectionID(specs)
	for _, c := range r.store.connections {
		if c.ConnectionID == id {
			copied := *c
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *memConnRepo) FindAll(_ context.Context, _ ...specification.Specification) ([]*entity.Connection, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return append([]*entity.Connection{}, r.store.connections...), nil
}

type memSessionRepo struct{ store *memStore }

func (r *memSessionRepo) Create(_ context.Context, session *entity.ChatSession) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	copied := *session
	r.store.sessions = append(r.store.sessions, &copied)
	return nil
}

func (r *memSessionRepo) Update(_ context.Context, session *entity.ChatSession) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for i, s := range r.store.sessions {
		if s.SessionKey == session.SessionKey {
			copied := *session
			r.store.sessions[i] = &copied
			return nil
		}
	}
	copied := *session
	r.store.sessions = append(r.store.sessions, &copied)
	return nil
}

func (r *memSessionRepo) FindOne(_ context.Context, specs ...specification.Specification) (*entity.ChatSession, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, spec := range specs {
		if v, ok := spec.(specification.BySessionKey); ok {
			for _, s := range r.store.sessions {
				if s.SessionKey == v.SessionKey {
					copied := *s
					return &copied, nil
				}
			}
		}
	}
	return nil, nil
}

type memKnowledgeRepo struct{ store *memStore }

func (r *memKnowledgeRepo) Create(_ context.Context, k *entity.ConnectionKnowledge) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	copied := *k
	r.store.knowledge = append(r.store.knowledge, &copied)
	return nil
}

func (r *memKnowledgeRepo) Update(_ context.Context, k *entity.ConnectionKnowledge) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for i, row := range r.store.knowledge {
		if row.Id == k.Id {
			copied := *k
			r.store.knowledge[i] = &copied
			return nil
		}
	}
	copied := *k
	r.store.knowledge = append(r.store.knowledge, &copied)
	return nil
}

func (r *memKnowledgeRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for i, row := range r.store.knowledge {
		if row.Id == id {
			r.store.knowledge = append(r.store.knowledge[:i], r.store.knowledge[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *memKnowledgeRepo) FindOne(_ context.Context, specs ...specification.Specification) (*entity.ConnectionKnowledge, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, spec := range specs {
		if v, ok := spec.(specification.ByID); ok {
			for _, row := range r.store.knowledge {
				if row.Id == v.ID {
					copied := *row
					return &copied, nil
				}
			}
		}
	}
	return nil, nil
}

func (r *memKnowledgeRepo) FindAll(_ context.Context, specs ...specification.Specification) ([]*entity.ConnectionKnowledge, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	connID, hasConn := matchConnectionID(specs)
	status, hasStatus := matchStatus(specs)

	var out []*entity.ConnectionKnowledge
	for _, row := range r.store.knowledge {
		if hasConn && row.ConnectionID != connID {
			continue
		}
		if hasStatus && row.Status != status {
			continue
		}
		copied := *row
		out = append(out, &copied)
	}
	return out, nil
}

func (r *memKnowledgeRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	rows, _ := r.FindAll(ctx, specs...)
	return int64(len(rows)), nil
}

type memIdeaRepo struct{ store *memStore }

// Create mimics the unique index on idempotency_key: the second writer
// with the same key gets gorm.ErrDuplicatedKey.
func (r *memIdeaRepo) Create(_ context.Context, idea *entity.Idea) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, row := range r.store.ideas {
		if row.IdempotencyKey == idea.IdempotencyKey {
			return gorm.ErrDuplicatedKey
		}
	}
	r.store.nextIdeaID++
	idea.Id = r.store.nextIdeaID
	copied := *idea
	r.store.ideas = append(r.store.ideas, &copied)
	return nil
}

func (r *memIdeaRepo) FindOne(_ context.Context, specs ...specification.Specification) (*entity.Idea, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, spec := range specs {
		switch v := spec.(type) {
		case specification.ByIdempotencyKey:
			for _, row := range r.store.ideas {
				if row.IdempotencyKey == v.Key {
					copied := *row
					return &copied, nil
				}
			}
		case specification.ByIdeaID:
			for _, row := range r.store.ideas {
				if row.IdeaID == v.IdeaID {
					copied := *row
					return &copied, nil
				}
			}
		}
	}
	return nil, nil
}

func (r *memIdeaRepo) FindAll(_ context.Context, specs ...specification.Specification) ([]*entity.Idea, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	connID, hasConn := matchConnectionID(specs)

	var out []*entity.Idea
	for _, row := range r.store.ideas {
		if hasConn && row.ConnectionID != connID {
			continue
		}
		copied := *row
		out = append(out, &copied)
	}
	return out, nil
}

func (r *memIdeaRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	rows, _ := r.FindAll(ctx, specs...)
	return int64(len(rows)), nil
}

// nopLogger satisfies logger.ILogger for tests.
type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

// scriptedLLM replays canned replies for the oracle client.
type scriptedLLM struct {
	reply string
	err   error
}

func (s *scriptedLLM) Chat(_ context.Context, _ []llm.Message, _ ...llm.Option) (string, error) {
	return s.reply, s.err
}

func (s *scriptedLLM) Generate(_ context.Context, _ string, _ ...llm.Option) (string, error) {
	return s.reply, s.err
}
