package service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ideabot-be/internal/dto"
	"ideabot-be/internal/entity"
)

type capturePublisher struct {
	mu       sync.Mutex
	payloads [][]byte
}

func (p *capturePublisher) Publish(_ context.Context, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.payloads = append(p.payloads, payload)
	return nil
}

func (p *capturePublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.payloads)
}

func seedReadyKnowledge(store *memStore, connectionID, content string) {
	store.knowledge = append(store.knowledge, &entity.ConnectionKnowledge{
		Id:           uuid.New(),
		ConnectionID: connectionID,
		SourceType:   entity.KnowledgeSourceText,
		Content:      content,
		Status:       entity.KnowledgeStatusReady,
	})
}

func TestKnowledgeAddQueuesNormalization(t *testing.T) {
	factory := newMemFactory()
	pub := &capturePublisher{}
	svc := NewKnowledgeService(factory, pub, nopLogger{})

	res, err := svc.Add(context.Background(), &dto.AddKnowledgeRequest{
		ConnectionID: "conn-1",
		Content:      "Our refund policy lasts 30 days.",
		SourceRef:    "faq.md",
	})
	require.NoError(t, err)

	assert.Equal(t, entity.KnowledgeStatusPending, res.Status)
	require.Len(t, factory.store.knowledge, 1)
	assert.Equal(t, entity.KnowledgeSourceText, factory.store.knowledge[0].SourceType)

	require.Equal(t, 1, pub.count())
	var msg dto.PublishNormalizeKnowledgeMessage
	require.NoError(t, json.Unmarshal(pub.payloads[0], &msg))
	assert.Equal(t, res.Id, msg.KnowledgeId)
}

func TestKnowledgeListFiltersByConnection(t *testing.T) {
	factory := newMemFactory()
	svc := NewKnowledgeService(factory, &capturePublisher{}, nopLogger{})
	seedReadyKnowledge(factory.store, "conn-1", "first entry")
	seedReadyKnowledge(factory.store, "conn-1", "second entry")
	seedReadyKnowledge(factory.store, "conn-2", "other tenant")

	res, err := svc.List(context.Background(), "conn-1", 10, 0)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Total)
	require.Len(t, res.Items, 2)
	for _, item := range res.Items {
		assert.Equal(t, "conn-1", item.ConnectionID)
	}
}

func TestKnowledgeDeleteRemovesRow(t *testing.T) {
	factory := newMemFactory()
	svc := NewKnowledgeService(factory, &capturePublisher{}, nopLogger{})
	seedReadyKnowledge(factory.store, "conn-1", "to be removed")
	id := factory.store.knowledge[0].Id

	require.NoError(t, svc.Delete(context.Background(), id))
	assert.Empty(t, factory.store.knowledge)
}

func TestRetrieveContextRanksReadyRowsOnly(t *testing.T) {
	factory := newMemFactory()
	svc := NewKnowledgeService(factory, &capturePublisher{}, nopLogger{})
	seedReadyKnowledge(factory.store, "conn-1", "Refund policy lasts thirty days after purchase.")
	seedReadyKnowledge(factory.store, "conn-1", "Office plants need watering twice weekly.")
	factory.store.knowledge = append(factory.store.knowledge, &entity.ConnectionKnowledge{
		Id:           uuid.New(),
		ConnectionID: "conn-1",
		Content:      "Refund escalations go to support tier two.",
		Status:       entity.KnowledgeStatusPending,
	})

	out, err := svc.RetrieveContext(context.Background(), "conn-1", "how does your refund policy work")
	require.NoError(t, err)

	assert.Contains(t, out, "Refund policy lasts thirty days")
	assert.NotContains(t, out, "plants", "zero-score entries are excluded")
	assert.NotContains(t, out, "escalations", "pending rows are not retrievable")
}

func TestRetrieveContextEmptyWithoutConnection(t *testing.T) {
	factory := newMemFactory()
	svc := NewKnowledgeService(factory, &capturePublisher{}, nopLogger{})

	out, err := svc.RetrieveContext(context.Background(), "", "anything")
	require.NoError(t, err)
	assert.Empty(t, out)
}
