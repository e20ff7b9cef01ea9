package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"ideabot-be/internal/entity"
	"ideabot-be/pkg/flow"
	"ideabot-be/pkg/permission"
)

func newTestActionService() (IActionService, *memFactory) {
	factory := newMemFactory()
	ideaService := NewIdeaService(factory, nil, nopLogger{})
	return NewActionService(ideaService, nil, nil, 2*time.Second, nopLogger{}), factory
}

func connWithAction(actionType string, settings entity.ActionSettings, perms string) *entity.Connection {
	return &entity.Connection{
		ConnectionID: "conn-1",
		Permissions:  permission.Normalize(datatypes.JSON(perms)),
		ActionConfig: &entity.ActionConfig{Type: actionType, Config: settings},
	}
}

var testScratch = flow.Scratch{Title: "Dark mode", Description: "A long description.", ImpactedUsers: 50}

func TestExecuteSaveProducesIdea(t *testing.T) {
	svc, factory := newTestActionService()
	conn := connWithAction(entity.ActionSave, entity.ActionSettings{}, `{}`)

	res := svc.Execute(context.Background(), conn, "sess-1", testScratch)

	assert.NotEmpty(t, res.IdeaID)
	assert.Contains(t, res.Message, "submitted")
	assert.Len(t, factory.store.ideas, 1)
}

func TestExecuteSaveDuplicateKeepsReference(t *testing.T) {
	svc, factory := newTestActionService()
	conn := connWithAction(entity.ActionSave, entity.ActionSettings{}, `{}`)

	first := svc.Execute(context.Background(), conn, "sess-1", testScratch)
	second := svc.Execute(context.Background(), conn, "sess-1", testScratch)

	assert.Equal(t, first.IdeaID, second.IdeaID)
	assert.Contains(t, second.Message, "already")
	assert.Len(t, factory.store.ideas, 1)
}

func TestExecuteMissingConfigDefaultsToSave(t *testing.T) {
	svc, factory := newTestActionService()
	conn := &entity.Connection{ConnectionID: "conn-1"}

	res := svc.Execute(context.Background(), conn, "sess-1", testScratch)

	assert.NotEmpty(t, res.IdeaID)
	assert.Len(t, factory.store.ideas, 1)
}

func TestExecutePolicySilencedLooksAccepted(t *testing.T) {
	svc, factory := newTestActionService()
	// actions list excludes SAVE
	conn := connWithAction(entity.ActionSave, entity.ActionSettings{}, `{"actions":["WEBHOOK"]}`)

	res := svc.Execute(context.Background(), conn, "sess-1", testScratch)

	assert.Contains(t, res.Message, "Thank you")
	assert.Empty(t, res.IdeaID)
	assert.Empty(t, factory.store.ideas, "silenced action must not execute")
}

func TestExecuteWebhookDeliversPayload(t *testing.T) {
	var got map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.Equal(t, "secret", r.Header.Get("X-Api-Key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	svc, factory := newTestActionService()
	conn := connWithAction(entity.ActionWebhook, entity.ActionSettings{
		URL:     server.URL,
		Headers: map[string]string{"X-Api-Key": "secret"},
	}, `{}`)

	res := svc.Execute(context.Background(), conn, "sess-1", testScratch)

	assert.Contains(t, res.Message, "Thank you")
	assert.Equal(t, "Dark mode", got["title"])
	assert.Equal(t, float64(50), got["impacted_users"])
	assert.Equal(t, "CHATBOT", got["source"])
	assert.Empty(t, factory.store.ideas, "webhook action must not write the ideas table")
}

func TestExecuteWebhookRejectsBadScheme(t *testing.T) {
	svc, _ := newTestActionService()
	conn := connWithAction(entity.ActionWebhook, entity.ActionSettings{URL: "ftp://example.com/hook"}, `{}`)

	res := svc.Execute(context.Background(), conn, "sess-1", testScratch)

	// rejected delivery still reads as accepted to the visitor
	assert.Contains(t, res.Message, "Thank you")
}

func TestExecuteWebhookDegradesOnReceiverError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	svc, _ := newTestActionService()
	conn := connWithAction(entity.ActionWebhook, entity.ActionSettings{URL: server.URL}, `{}`)

	res := svc.Execute(context.Background(), conn, "sess-1", testScratch)

	assert.Contains(t, res.Message, "Thank you")
}

func TestExecuteEmailStubWithoutSMTP(t *testing.T) {
	svc, factory := newTestActionService()
	conn := connWithAction(entity.ActionEmail, entity.ActionSettings{Email: "ops@example.com"}, `{}`)

	res := svc.Execute(context.Background(), conn, "sess-1", testScratch)

	assert.Contains(t, res.Message, "Thank you")
	assert.Empty(t, factory.store.ideas)
}

func TestExecuteNone(t *testing.T) {
	svc, factory := newTestActionService()
	conn := connWithAction(entity.ActionNone, entity.ActionSettings{}, `{"actions":[]}`)

	res := svc.Execute(context.Background(), conn, "sess-1", testScratch)

	assert.Contains(t, res.Message, "Thank you")
	assert.Empty(t, factory.store.ideas)
}
