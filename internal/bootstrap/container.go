package bootstrap

import (
	"context"
	"log"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"ideabot-be/internal/config"
	"ideabot-be/internal/controller"
	"ideabot-be/internal/handler"
	"ideabot-be/internal/pkg/logger"
	"ideabot-be/internal/pkg/mailer"
	"ideabot-be/internal/repository/memory"
	"ideabot-be/internal/repository/unitofwork"
	"ideabot-be/internal/service"
	"ideabot-be/internal/websocket"
	"ideabot-be/pkg/llm/factory"
	pkgNats "ideabot-be/pkg/nats"
	"ideabot-be/pkg/oracle"
)

const knowledgeTopic = "knowledge_normalize"

type Container struct {
	// Controllers
	ChatController      controller.IChatController
	IdeaController      controller.IIdeaController
	KnowledgeController controller.IKnowledgeController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets & Live Feed
	EventFeedHandler *handler.EventFeedHandler
	WebSocketHub     *websocket.Hub

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	var emailService mailer.IEmailService
	if cfg.SMTP.Host != "" {
		emailService = mailer.NewEmailService(
			cfg.SMTP.Host,
			cfg.SMTP.Port,
			cfg.SMTP.Email,
			cfg.SMTP.Password,
			cfg.SMTP.SenderName,
		)
	}

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// NATS
	natsPub, err := pkgNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pkgNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// WebSocket Hub
	wsHub := websocket.NewHub(rdb, sysLogger)
	go wsHub.Run()

	// 3. AI Oracle
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		llmBaseURL(cfg),
		cfg.Ai.OpenAIAPIKey,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	oracleClient := oracle.NewClient(llmProvider, sysLogger)

	// 4. Caches
	connectionCache := memory.NewConnectionCache(time.Duration(cfg.Chat.ConnectionCacheMinutes) * time.Minute)

	// 5. Services
	publisherService := service.NewPublisherService(pubSub, knowledgeTopic)
	consumerService := service.NewConsumerService(
		pubSub,
		knowledgeTopic,
		uowFactory,
		natsPub,
		sysLogger,
	)

	knowledgeService := service.NewKnowledgeService(uowFactory, publisherService, sysLogger)
	ideaService := service.NewIdeaService(uowFactory, natsPub, sysLogger)
	actionService := service.NewActionService(
		ideaService,
		emailService,
		natsPub,
		time.Duration(cfg.Chat.WebhookTimeoutSeconds)*time.Second,
		sysLogger,
	)
	chatService := service.NewChatService(
		uowFactory,
		connectionCache,
		oracleClient,
		knowledgeService,
		actionService,
		sysLogger,
	)

	// 6. Live Event Feed
	eventFeedHandler := handler.NewEventFeedHandler(natsSub, wsHub, sysLogger)
	if err := eventFeedHandler.StartBridge(); err != nil {
		log.Printf("[WARN] Failed to start event feed bridge: %v", err)
	}

	return &Container{
		ChatController:      controller.NewChatController(chatService),
		IdeaController:      controller.NewIdeaController(ideaService),
		KnowledgeController: controller.NewKnowledgeController(knowledgeService),
		ConsumerService:     consumerService,
		EventFeedHandler:    eventFeedHandler,
		WebSocketHub:        wsHub,
		Logger:              sysLogger,
	}
}

func llmBaseURL(cfg *config.Config) string {
	if cfg.Ai.LLMProvider == "ollama" {
		return cfg.Ai.OllamaBaseURL
	}
	return cfg.Ai.OpenAIBaseURL
}
