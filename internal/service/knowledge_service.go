package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"ideabot-be/internal/dto"
	"ideabot-be/internal/entity"
	"ideabot-be/internal/pkg/logger"
	"ideabot-be/internal/repository/specification"
	"ideabot-be/internal/repository/unitofwork"
	"ideabot-be/pkg/retrieval"
)

type IKnowledgeService interface {
	Add(ctx context.Context, req *dto.AddKnowledgeRequest) (*dto.AddKnowledgeResponse, error)
	List(ctx context.Context, connectionID string, limit, offset int) (*dto.ListKnowledgeResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// RetrieveContext ranks READY snippets of a connection against the
	// utterance and returns the bounded context block for the prompt.
	RetrieveContext(ctx context.Context, connectionID, utterance string) (string, error)
}

type knowledgeService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	log              logger.ILogger
}

func NewKnowledgeService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	log logger.ILogger,
) IKnowledgeService {
	return &knowledgeService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		log:              log,
	}
}

func (s *knowledgeService) Add(ctx context.Context, req *dto.AddKnowledgeRequest) (*dto.AddKnowledgeResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	knowledge := entity.ConnectionKnowledge{
		Id:           uuid.New(),
		ConnectionID: req.ConnectionID,
		SourceType:   entity.KnowledgeSourceText,
		SourceRef:    req.SourceRef,
		Content:      req.Content,
		Status:       entity.KnowledgeStatusPending,
		CreatedAt:    time.Now(),
	}

	if err := uow.KnowledgeRepository().Create(ctx, &knowledge); err != nil {
		return nil, err
	}

	msgPayload := dto.PublishNormalizeKnowledgeMessage{
		KnowledgeId: knowledge.Id,
	}
	msgJson, err := json.Marshal(msgPayload)
	if err != nil {
		return nil, err
	}
	if err := s.publisherService.Publish(ctx, msgJson); err != nil {
		return nil, err
	}

	return &dto.AddKnowledgeResponse{
		Id:     knowledge.Id,
		Status: knowledge.Status,
	}, nil
}

func (s *knowledgeService) List(ctx context.Context, connectionID string, limit, offset int) (*dto.ListKnowledgeResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	specs := []specification.Specification{
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: offset},
	}
	countSpecs := []specification.Specification{}
	if connectionID != "" {
		specs = append(specs, specification.ByConnectionID{ConnectionID: connectionID})
		countSpecs = append(countSpecs, specification.ByConnectionID{ConnectionID: connectionID})
	}

	rows, err := uow.KnowledgeRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}
	total, err := uow.KnowledgeRepository().Count(ctx, countSpecs...)
	if err != nil {
		return nil, err
	}

	resp := &dto.ListKnowledgeResponse{
		Items: make([]dto.GetKnowledgeResponse, len(rows)),
		Total: int(total),
	}
	for i, k := range rows {
		resp.Items[i] = dto.GetKnowledgeResponse{
			Id:           k.Id,
			ConnectionID: k.ConnectionID,
			SourceType:   k.SourceType,
			SourceRef:    k.SourceRef,
			Content:      k.Content,
			Status:       k.Status,
			FailReason:   k.FailReason,
			ChunkIndex:   k.ChunkIndex,
			CreatedAt:    k.CreatedAt,
			UpdatedAt:    k.UpdatedAt,
		}
	}
	return resp, nil
}

func (s *knowledgeService) Delete(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.KnowledgeRepository().Delete(ctx, id)
}

func (s *knowledgeService) RetrieveContext(ctx context.Context, connectionID, utterance string) (string, error) {
	if connectionID == "" {
		return "", nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	rows, err := uow.KnowledgeRepository().FindAll(ctx,
		specification.ByConnectionID{ConnectionID: connectionID},
		specification.ByStatus{Status: entity.KnowledgeStatusReady},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return "", err
	}

	snippets := make([]retrieval.Snippet, len(rows))
	for i, k := range rows {
		snippets[i] = retrieval.Snippet{
			ID:   k.Id.String(),
			Text: k.Content,
		}
	}
	return retrieval.Rank(utterance, snippets), nil
}
