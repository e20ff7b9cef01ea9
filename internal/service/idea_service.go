package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"ideabot-be/internal/dto"
	"ideabot-be/internal/entity"
	"ideabot-be/internal/pkg/logger"
	"ideabot-be/internal/repository/specification"
	"ideabot-be/internal/repository/unitofwork"
	"ideabot-be/pkg/events"
	"ideabot-be/pkg/flow"
	pkgNats "ideabot-be/pkg/nats"
)

// Submission origins reported back to the caller.
const (
	OriginNew      = "NEW"
	OriginExisting = "EXISTING"
)

type IIdeaService interface {
	// Submit resolves a completed answer set to exactly one idea row.
	// Resubmitting the same answers under the same session returns the
	// original row with origin EXISTING.
	Submit(ctx context.Context, connectionID, sessionKey string, scratch flow.Scratch) (*entity.Idea, string, error)
	List(ctx context.Context, connectionID string, limit, offset int) (*dto.ListIdeasResponse, error)
	Get(ctx context.Context, ideaID string) (*dto.GetIdeaResponse, error)
}

type ideaService struct {
	uowFactory     unitofwork.RepositoryFactory
	eventPublisher *pkgNats.Publisher
	log            logger.ILogger
}

func NewIdeaService(
	uowFactory unitofwork.RepositoryFactory,
	eventPublisher *pkgNats.Publisher,
	log logger.ILogger,
) IIdeaService {
	return &ideaService{
		uowFactory:     uowFactory,
		eventPublisher: eventPublisher,
		log:            log,
	}
}

// IdempotencyKey is the digest that identifies one submission attempt.
// Same session plus same answers means same key, session differences
// deliberately produce distinct artifacts.
func IdempotencyKey(sessionKey string, scratch flow.Scratch) string {
	payload := strings.Join([]string{
		sessionKey,
		scratch.Title,
		scratch.Description,
		fmt.Sprintf("%d", scratch.ImpactedUsers),
	}, "|")
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}

func (s *ideaService) Submit(ctx context.Context, connectionID, sessionKey string, scratch flow.Scratch) (*entity.Idea, string, error) {
	key := IdempotencyKey(sessionKey, scratch)

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, "", err
	}

	existing, err := uow.IdeaRepository().FindOne(ctx, specification.ByIdempotencyKey{Key: key})
	if err != nil {
		_ = uow.Rollback()
		return nil, "", err
	}
	if existing != nil {
		_ = uow.Rollback()
		s.publishSubmitted(ctx, existing, OriginExisting)
		return existing, OriginExisting, nil
	}

	idea := entity.Idea{
		IdeaID:         newIdeaRef(),
		ConnectionID:   connectionID,
		Title:          scratch.Title,
		Description:    scratch.Description,
		ImpactedUsers:  scratch.ImpactedUsers,
		IdempotencyKey: key,
		Source:         entity.IdeaSourceChatbot,
		Status:         entity.IdeaStatusNew,
		SubmittedAt:    time.Now(),
	}

	if err := uow.IdeaRepository().Create(ctx, &idea); err != nil {
		_ = uow.Rollback()
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost a race against an identical submission. The winner's
			// row is the artifact.
			return s.findWinner(ctx, key)
		}
		return nil, "", err
	}

	if err := uow.Commit(); err != nil {
		return nil, "", err
	}

	s.publishSubmitted(ctx, &idea, OriginNew)
	return &idea, OriginNew, nil
}

func (s *ideaService) findWinner(ctx context.Context, key string) (*entity.Idea, string, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	winner, err := uow.IdeaRepository().FindOne(ctx, specification.ByIdempotencyKey{Key: key})
	if err != nil {
		return nil, "", err
	}
	if winner == nil {
		return nil, "", fmt.Errorf("duplicate submission detected but winning row not found")
	}
	s.publishSubmitted(ctx, winner, OriginExisting)
	return winner, OriginExisting, nil
}

func (s *ideaService) publishSubmitted(ctx context.Context, idea *entity.Idea, origin string) {
	if s.eventPublisher == nil {
		return
	}
	evt := events.NewIdeaSubmitted(idea.ConnectionID, idea.IdeaID, idea.Title, origin)
	if err := s.eventPublisher.Publish(ctx, evt); err != nil {
		s.log.Warn("idea_service", "failed to publish IDEA_SUBMITTED event", map[string]interface{}{
			"idea_id": idea.IdeaID,
			"error":   err.Error(),
		})
	}
}

func (s *ideaService) List(ctx context.Context, connectionID string, limit, offset int) (*dto.ListIdeasResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	specs := []specification.Specification{
		specification.OrderBy{Field: "submitted_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: offset},
	}
	countSpecs := []specification.Specification{}
	if connectionID != "" {
		specs = append(specs, specification.ByConnectionID{ConnectionID: connectionID})
		countSpecs = append(countSpecs, specification.ByConnectionID{ConnectionID: connectionID})
	}

	ideas, err := uow.IdeaRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}
	total, err := uow.IdeaRepository().Count(ctx, countSpecs...)
	if err != nil {
		return nil, err
	}

	resp := &dto.ListIdeasResponse{
		Ideas: make([]dto.GetIdeaResponse, len(ideas)),
		Total: int(total),
	}
	for i, idea := range ideas {
		resp.Ideas[i] = toIdeaResponse(idea)
	}
	return resp, nil
}

func (s *ideaService) Get(ctx context.Context, ideaID string) (*dto.GetIdeaResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	idea, err := uow.IdeaRepository().FindOne(ctx, specification.ByIdeaID{IdeaID: ideaID})
	if err != nil {
		return nil, err
	}
	if idea == nil {
		return nil, nil
	}
	resp := toIdeaResponse(idea)
	return &resp, nil
}

func toIdeaResponse(idea *entity.Idea) dto.GetIdeaResponse {
	return dto.GetIdeaResponse{
		IdeaID:        idea.IdeaID,
		ConnectionID:  idea.ConnectionID,
		Title:         idea.Title,
		Description:   idea.Description,
		ImpactedUsers: idea.ImpactedUsers,
		Source:        idea.Source,
		Status:        idea.Status,
		SubmittedAt:   idea.SubmittedAt,
	}
}

func newIdeaRef() string {
	short := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:10])
	return "IDEA-" + short
}
