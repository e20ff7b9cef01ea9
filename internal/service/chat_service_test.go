package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"ideabot-be/internal/dto"
	"ideabot-be/internal/entity"
	"ideabot-be/internal/repository/memory"
	"ideabot-be/pkg/flow"
	"ideabot-be/pkg/oracle"
	"ideabot-be/pkg/permission"
	"ideabot-be/pkg/prompt"
)

type chatFixture struct {
	svc     IChatService
	factory *memFactory
	llm     *scriptedLLM
}

func newChatFixture(t *testing.T) *chatFixture {
	t.Helper()
	factory := newMemFactory()
	llmStub := &scriptedLLM{reply: "Hello! How can I help?"}
	oracleClient := oracle.NewClient(llmStub, nopLogger{})

	ideaService := NewIdeaService(factory, nil, nopLogger{})
	actionService := NewActionService(ideaService, nil, nil, time.Second, nopLogger{})
	knowledgeService := NewKnowledgeService(factory, noopPublisher{}, nopLogger{})

	svc := NewChatService(
		factory,
		memory.NewConnectionCache(time.Minute),
		oracleClient,
		knowledgeService,
		actionService,
		nopLogger{},
	)
	return &chatFixture{svc: svc, factory: factory, llm: llmStub}
}

type noopPublisher struct{}

func (noopPublisher) Publish(_ context.Context, _ []byte) error { return nil }

func (f *chatFixture) addConnection(perms string) {
	f.factory.store.connections = append(f.factory.store.connections, &entity.Connection{
		ConnectionID: "conn-1",
		Permissions:  permission.Normalize(datatypes.JSON(perms)),
	})
}

func (f *chatFixture) send(t *testing.T, message string) *dto.SendMessageResponse {
	t.Helper()
	res, err := f.svc.SendMessage(context.Background(), &dto.SendMessageRequest{
		Message:      message,
		SessionKey:   "sess-1",
		ConnectionID: "conn-1",
	})
	require.NoError(t, err)
	require.Len(t, res.Messages, 1)
	return res
}

func (f *chatFixture) session() *entity.ChatSession {
	for _, s := range f.factory.store.sessions {
		if s.SessionKey == "sess-1" {
			return s
		}
	}
	return nil
}

func TestSendMessageFreeChatReply(t *testing.T) {
	fx := newChatFixture(t)
	fx.addConnection(`{}`)

	res := fx.send(t, "hi there")

	assert.Equal(t, "assistant", res.Messages[0].Role)
	assert.Equal(t, "Hello! How can I help?", res.Messages[0].Text)

	session := fx.session()
	require.NotNil(t, session, "session must be persisted")
	assert.Equal(t, flow.ModeFreeChat, session.State.Mode)
	assert.Len(t, session.History, 2, "user and assistant turns recorded")
}

func TestSendMessageTriggerEntersGuidedFlow(t *testing.T) {
	fx := newChatFixture(t)
	fx.addConnection(`{}`)

	res := fx.send(t, "I want to Submit Idea please")

	assert.Contains(t, res.Messages[0].Text, "TITLE")
	session := fx.session()
	assert.Equal(t, flow.ModeGuidedFlow, session.State.Mode)
	assert.Equal(t, flow.StepTitle, session.State.Step)
}

func TestSendMessageTriggerDeniedByPermissions(t *testing.T) {
	fx := newChatFixture(t)
	fx.addConnection(`{"modes":["FREE_CHAT"]}`)

	res := fx.send(t, "submit idea")

	assert.Contains(t, res.Messages[0].Text, "not enabled")
	assert.Nil(t, fx.session(), "refused trigger must not create a session row")
}

func TestSendMessageTriggerDeniedLeavesSessionUntouched(t *testing.T) {
	fx := newChatFixture(t)
	fx.addConnection(`{"modes":["FREE_CHAT"]}`)

	fx.send(t, "hello")
	before := fx.session().History

	res := fx.send(t, "submit idea")

	assert.Contains(t, res.Messages[0].Text, "not enabled")
	session := fx.session()
	assert.Equal(t, flow.ModeFreeChat, session.State.Mode)
	assert.Equal(t, before, session.History, "refused trigger must not record history")
}

func TestSendMessageAIDisabledNotice(t *testing.T) {
	fx := newChatFixture(t)
	fx.addConnection(`{"aiEnabled":false}`)

	res := fx.send(t, "hello?")

	assert.Contains(t, res.Messages[0].Text, "AI Chat is disabled")
}

func TestSendMessageAIDisabledStillAllowsFlow(t *testing.T) {
	fx := newChatFixture(t)
	fx.addConnection(`{"aiEnabled":false}`)

	res := fx.send(t, "submit idea")

	assert.Contains(t, res.Messages[0].Text, "TITLE")
}

func TestSendMessageExitKeywordCancelsFlow(t *testing.T) {
	fx := newChatFixture(t)
	fx.addConnection(`{}`)

	fx.send(t, "submit idea")
	fx.send(t, "Dark mode")
	res := fx.send(t, "cancel")

	assert.Contains(t, res.Messages[0].Text, "Cancelled")
	session := fx.session()
	assert.Equal(t, flow.ModeFreeChat, session.State.Mode)
	assert.Equal(t, flow.StepNone, session.State.Step)
	assert.Equal(t, flow.Scratch{}, session.State.Scratch)
}

func TestSendMessageExitKeywordMustBeWholeUtterance(t *testing.T) {
	fx := newChatFixture(t)
	fx.addConnection(`{}`)

	fx.send(t, "submit idea")
	fx.send(t, "Cancel my subscription flow")

	session := fx.session()
	assert.Equal(t, flow.ModeGuidedFlow, session.State.Mode,
		"embedded exit word must be treated as an answer, not an exit")
}

func TestSendMessageFullGuidedFlow(t *testing.T) {
	fx := newChatFixture(t)
	fx.addConnection(`{}`)

	fx.send(t, "submit idea")
	fx.send(t, "Dark mode for dashboard")
	fx.send(t, "Night users are blinded by the white theme.")
	fx.send(t, "around 200")
	res := fx.send(t, "Yes, Submit")

	assert.Contains(t, res.Messages[0].Text, "Reference ID: IDEA-")
	assert.Len(t, fx.factory.store.ideas, 1)
	assert.Equal(t, 200, fx.factory.store.ideas[0].ImpactedUsers)

	session := fx.session()
	assert.Equal(t, flow.ModeFreeChat, session.State.Mode)
	assert.Equal(t, flow.StepSubmitted, session.State.Step)
	assert.Equal(t, flow.Scratch{}, session.State.Scratch)
}

func TestSendMessageUnknownConnectionFailsOpen(t *testing.T) {
	fx := newChatFixture(t)
	// no connection provisioned at all

	res := fx.send(t, "submit idea")

	assert.Contains(t, res.Messages[0].Text, "TITLE",
		"missing connection must not block the guided flow")
}

func TestSendMessageKnowledgeGroundsReply(t *testing.T) {
	fx := newChatFixture(t)
	fx.addConnection(`{}`)
	fx.factory.store.knowledge = append(fx.factory.store.knowledge, &entity.ConnectionKnowledge{
		Id:           uuid.New(),
		ConnectionID: "conn-1",
		Content:      "Our refund policy lasts 30 days.",
		Status:       entity.KnowledgeStatusReady,
	})

	res := fx.send(t, "what is your refund policy")

	// the scripted model always answers; the point is the turn survives
	// with retrieval in the loop
	assert.Equal(t, "Hello! How can I help?", res.Messages[0].Text)
}

func TestSendMessageBehaviorProfileSurvivesTurn(t *testing.T) {
	fx := newChatFixture(t)
	fx.factory.store.connections = append(fx.factory.store.connections, &entity.Connection{
		ConnectionID:    "conn-1",
		Permissions:     permission.Normalize(nil),
		BehaviorProfile: prompt.Profile{Tone: "formal"},
	})

	res := fx.send(t, "hello")
	assert.NotEmpty(t, res.Messages[0].Text)
}

func TestSendMessageHistoryAccumulates(t *testing.T) {
	fx := newChatFixture(t)
	fx.addConnection(`{}`)

	for i := 0; i < 4; i++ {
		fx.send(t, "hello again")
	}

	session := fx.session()
	assert.Len(t, session.History, 8)
	tail := session.HistoryTail(5)
	assert.Len(t, tail, 5)
	assert.Equal(t, session.History[3:], tail)
}
