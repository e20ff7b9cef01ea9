package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"ideabot-be/internal/entity"
	"ideabot-be/internal/pkg/logger"
	"ideabot-be/internal/pkg/mailer"
	"ideabot-be/pkg/events"
	"ideabot-be/pkg/flow"
	pkgNats "ideabot-be/pkg/nats"
)

const acceptedMessage = "✅ Thank you! Your idea has been submitted."

type IActionService interface {
	// Execute runs the connection's configured terminal action for a
	// completed answer set. It always reports acceptance to the visitor;
	// delivery problems and policy refusals are an operator concern.
	Execute(ctx context.Context, conn *entity.Connection, sessionKey string, scratch flow.Scratch) flow.DispatchResult
}

type actionService struct {
	ideaService    IIdeaService
	emailService   mailer.IEmailService
	eventPublisher *pkgNats.Publisher
	httpClient     *http.Client
	log            logger.ILogger
}

func NewActionService(
	ideaService IIdeaService,
	emailService mailer.IEmailService,
	eventPublisher *pkgNats.Publisher,
	webhookTimeout time.Duration,
	log logger.ILogger,
) IActionService {
	return &actionService{
		ideaService:    ideaService,
		emailService:   emailService,
		eventPublisher: eventPublisher,
		httpClient:     &http.Client{Timeout: webhookTimeout},
		log:            log,
	}
}

func (s *actionService) Execute(ctx context.Context, conn *entity.Connection, sessionKey string, scratch flow.Scratch) flow.DispatchResult {
	cfg := conn.EffectiveActionConfig()
	connectionID := ""
	if conn != nil {
		connectionID = conn.ConnectionID
	}

	// Policy refusal is silent: the visitor sees the normal acceptance
	// text, nothing is executed, operators see it on the event bus.
	if conn != nil && !conn.Permissions.AllowsAction(cfg.Type) {
		s.log.Warn("action_service", "action silenced by permissions", map[string]interface{}{
			"connection_id": connectionID,
			"action_type":   cfg.Type,
		})
		s.publishDispatched(ctx, connectionID, sessionKey, cfg.Type, false)
		return flow.DispatchResult{Message: acceptedMessage}
	}

	var result flow.DispatchResult
	executed := true

	switch cfg.Type {
	case entity.ActionSave:
		result = s.executeSave(ctx, connectionID, sessionKey, scratch)
	case entity.ActionWebhook:
		executed = s.executeWebhook(ctx, connectionID, sessionKey, cfg, scratch)
		result = flow.DispatchResult{Message: acceptedMessage}
	case entity.ActionEmail:
		executed = s.executeEmail(connectionID, cfg, scratch)
		result = flow.DispatchResult{Message: acceptedMessage}
	case entity.ActionNone:
		result = flow.DispatchResult{Message: acceptedMessage}
	default:
		s.log.Warn("action_service", "unknown action type, treating as NONE", map[string]interface{}{
			"connection_id": connectionID,
			"action_type":   cfg.Type,
		})
		result = flow.DispatchResult{Message: acceptedMessage}
	}

	s.publishDispatched(ctx, connectionID, sessionKey, cfg.Type, executed)
	return result
}

func (s *actionService) executeSave(ctx context.Context, connectionID, sessionKey string, scratch flow.Scratch) flow.DispatchResult {
	idea, origin, err := s.ideaService.Submit(ctx, connectionID, sessionKey, scratch)
	if err != nil {
		// The visitor's turn must not fail because storage hiccuped.
		s.log.Error("action_service", "idea save failed", map[string]interface{}{
			"connection_id": connectionID,
			"error":         err.Error(),
		})
		return flow.DispatchResult{Message: acceptedMessage}
	}

	message := acceptedMessage
	if origin == OriginExisting {
		message = "✅ This idea was already submitted."
	}
	return flow.DispatchResult{Message: message, IdeaID: idea.IdeaID}
}

func (s *actionService) executeWebhook(ctx context.Context, connectionID, sessionKey string, cfg entity.ActionConfig, scratch flow.Scratch) bool {
	target, err := url.Parse(cfg.Config.URL)
	if err != nil || (target.Scheme != "http" && target.Scheme != "https") {
		s.log.Warn("action_service", "webhook url rejected", map[string]interface{}{
			"connection_id": connectionID,
			"url":           cfg.Config.URL,
		})
		return false
	}

	payload := map[string]interface{}{
		"connection_id":  connectionID,
		"session_key":    sessionKey,
		"title":          scratch.Title,
		"description":    scratch.Description,
		"impacted_users": scratch.ImpactedUsers,
		"source":         entity.IdeaSourceChatbot,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target.String(), bytes.NewReader(body))
	if err != nil {
		return false
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range cfg.Config.Headers {
		req.Header.Set(k, v)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.log.Warn("action_service", "webhook delivery failed", map[string]interface{}{
			"connection_id": connectionID,
			"error":         err.Error(),
		})
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		s.log.Warn("action_service", "webhook rejected by receiver", map[string]interface{}{
			"connection_id": connectionID,
			"status":        resp.StatusCode,
		})
		return false
	}
	return true
}

func (s *actionService) executeEmail(connectionID string, cfg entity.ActionConfig, scratch flow.Scratch) bool {
	if s.emailService == nil || cfg.Config.Email == "" {
		// SMTP not configured. Log what would have been sent and move on.
		s.log.Info("action_service", "email action stubbed", map[string]interface{}{
			"connection_id": connectionID,
			"recipient":     cfg.Config.Email,
			"title":         scratch.Title,
		})
		return false
	}

	err := s.emailService.SendIdeaNotification(cfg.Config.Email, connectionID, scratch.Title, scratch.Description, scratch.ImpactedUsers)
	if err != nil {
		s.log.Warn("action_service", "email delivery failed", map[string]interface{}{
			"connection_id": connectionID,
			"error":         err.Error(),
		})
		return false
	}
	return true
}

func (s *actionService) publishDispatched(ctx context.Context, connectionID, sessionKey, actionType string, executed bool) {
	if s.eventPublisher == nil {
		return
	}
	evt := events.NewActionDispatched(connectionID, sessionKey, actionType, executed)
	if err := s.eventPublisher.Publish(ctx, evt); err != nil {
		s.log.Warn("action_service", fmt.Sprintf("failed to publish %s event", events.TypeActionDispatched), map[string]interface{}{
			"connection_id": connectionID,
			"error":         err.Error(),
		})
	}
}
