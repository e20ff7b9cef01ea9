package handler

import (
	"context"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/golang-jwt/jwt/v5"

	"ideabot-be/internal/pkg/logger"
	internalWS "ideabot-be/internal/websocket"
	"ideabot-be/pkg/events"
	pkgNats "ideabot-be/pkg/nats"
)

// EventFeedHandler exposes the live domain-event feed to admin
// dashboards: a websocket endpoint on the HTTP side and a durable NATS
// subscription feeding the hub on the other.
type EventFeedHandler struct {
	subscriber *pkgNats.Subscriber
	hub        *internalWS.Hub
	logger     logger.ILogger
}

func NewEventFeedHandler(subscriber *pkgNats.Subscriber, hub *internalWS.Hub, log logger.ILogger) *EventFeedHandler {
	return &EventFeedHandler{
		subscriber: subscriber,
		hub:        hub,
		logger:     log,
	}
}

// StartBridge subscribes to all domain events and forwards them to the hub.
func (h *EventFeedHandler) StartBridge() error {
	if h.subscriber == nil {
		h.logger.Warn("EventFeedHandler", "NATS not configured, event feed disabled", nil)
		return nil
	}
	return h.subscriber.Subscribe("events.>", "admin-feed", func(ctx context.Context, event events.Event) error {
		h.hub.Broadcast(event)
		return nil
	})
}

// ServeWs upgrades an authenticated admin connection to the feed.
func (h *EventFeedHandler) ServeWs(c *fiber.Ctx) error {
	// Browsers cannot set headers on websocket handshakes, so the token
	// also rides a query param.
	tokenStr := c.Query("token")
	if tokenStr == "" {
		authHeader := c.Get("Authorization")
		if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			tokenStr = authHeader[7:]
		}
	}
	if tokenStr == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing token (Query 'token' or Header 'Authorization')"})
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.ErrUnauthorized
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		h.logger.Warn("EventFeedHandler", "Invalid token in WS handshake", map[string]interface{}{"error": err})
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	subject := ""
	if claims, ok := token.Claims.(jwt.MapClaims); ok {
		if sub, ok := claims["sub"].(string); ok {
			subject = sub
		}
	}

	if websocket.IsWebSocketUpgrade(c) {
		return websocket.New(func(conn *websocket.Conn) {
			h.logger.Info("EventFeedHandler", "Starting feed session", map[string]interface{}{"subject": subject})
			internalWS.ServeWs(h.hub, conn, subject)
			h.logger.Info("EventFeedHandler", "Feed session ended", map[string]interface{}{"subject": subject})
		})(c)
	}
	return fiber.ErrUpgradeRequired
}

func (h *EventFeedHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/ws", h.ServeWs)
}
