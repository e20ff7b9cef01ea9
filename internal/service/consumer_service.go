package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"

	"ideabot-be/internal/dto"
	"ideabot-be/internal/entity"
	"ideabot-be/internal/pkg/logger"
	"ideabot-be/internal/repository/specification"
	"ideabot-be/internal/repository/unitofwork"
	"ideabot-be/pkg/events"
	pkgNats "ideabot-be/pkg/nats"
	"ideabot-be/pkg/utils"
)

// Normalization limits. Oversized entries are split into sibling rows
// so retrieval scores each chunk independently.
const (
	knowledgeChunkSize    = 4000
	knowledgeChunkOverlap = 200
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub         *gochannel.GoChannel
	topicName      string
	uowFactory     unitofwork.RepositoryFactory
	eventPublisher *pkgNats.Publisher
	log            logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	eventPublisher *pkgNats.Publisher,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:         pubSub,
		topicName:      topicName,
		uowFactory:     uowFactory,
		eventPublisher: eventPublisher,
		log:            log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishNormalizeKnowledgeMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.log.Error("consumer_service", "failed to unmarshal message", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack() // malformed, retrying will not help
		return
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	knowledge, err := uow.KnowledgeRepository().FindOne(ctx, specification.ByID{ID: payload.KnowledgeId})
	if err != nil {
		cs.log.Error("consumer_service", "failed to load knowledge entry", map[string]interface{}{
			"knowledge_id": payload.KnowledgeId,
			"error":        err.Error(),
		})
		msg.Nack()
		return
	}
	if knowledge == nil || knowledge.Status != entity.KnowledgeStatusPending {
		msg.Ack() // deleted or already processed
		return
	}

	if err := cs.normalize(ctx, uow, knowledge); err != nil {
		cs.log.Error("consumer_service", "normalization failed", map[string]interface{}{
			"knowledge_id": knowledge.Id,
			"error":        err.Error(),
		})
		msg.Nack()
		return
	}

	msg.Ack()
}

func (cs *consumerService) normalize(ctx context.Context, uow unitofwork.UnitOfWork, knowledge *entity.ConnectionKnowledge) error {
	cleaned := utils.NormalizeText(knowledge.Content)
	if cleaned == "" {
		knowledge.Status = entity.KnowledgeStatusFailed
		knowledge.FailReason = "content empty after normalization"
		return uow.KnowledgeRepository().Update(ctx, knowledge)
	}

	chunks := []string{cleaned}
	if len(cleaned) > knowledgeChunkSize {
		chunks = utils.SplitText(cleaned, knowledgeChunkSize, knowledgeChunkOverlap)
	}

	knowledge.Content = chunks[0]
	knowledge.Status = entity.KnowledgeStatusReady
	knowledge.ChunkIndex = 0
	if err := uow.KnowledgeRepository().Update(ctx, knowledge); err != nil {
		return err
	}

	for i, chunk := range chunks[1:] {
		sibling := entity.ConnectionKnowledge{
			Id:           uuid.New(),
			ConnectionID: knowledge.ConnectionID,
			SourceType:   knowledge.SourceType,
			SourceRef:    knowledge.SourceRef,
			Content:      chunk,
			Status:       entity.KnowledgeStatusReady,
			ChunkIndex:   i + 1,
			CreatedAt:    time.Now(),
		}
		if err := uow.KnowledgeRepository().Create(ctx, &sibling); err != nil {
			return err
		}
	}

	cs.publishReady(ctx, knowledge, len(chunks))
	return nil
}

func (cs *consumerService) publishReady(ctx context.Context, knowledge *entity.ConnectionKnowledge, chunks int) {
	if cs.eventPublisher == nil {
		return
	}
	evt := events.NewKnowledgeReady(knowledge.ConnectionID, knowledge.Id.String(), chunks)
	if err := cs.eventPublisher.Publish(ctx, evt); err != nil {
		cs.log.Warn("consumer_service", "failed to publish KNOWLEDGE_READY event", map[string]interface{}{
			"knowledge_id": knowledge.Id,
			"error":        err.Error(),
		})
	}
}
