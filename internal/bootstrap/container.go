package bootstrap

import (
	"context"
	"log"

	"clinical-eval-be/internal/config"
	"clinical-eval-be/internal/controller"
	"clinical-eval-be/internal/pkg/logger"
	"clinical-eval-be/internal/repository/contract"
	"clinical-eval-be/internal/repository/memory"
	"clinical-eval-be/internal/repository/redisstore"
	"clinical-eval-be/internal/service"
	"clinical-eval-be/pkg/evaluation/item"
	"clinical-eval-be/pkg/evaluation/pipeline"
	"clinical-eval-be/pkg/evaluation/priority"
	"clinical-eval-be/pkg/evaluation/recommend"
	"clinical-eval-be/pkg/llm/factory"

	pkgNats "clinical-eval-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	SessionController     controller.ISessionController
	EligibilityController controller.IEligibilityController
	ChecklistController   controller.IChecklistController
	ChatController        controller.IChatController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	Logger logger.ILogger
}

// NewContainer wires the full dependency graph. db may be nil; the audit
// trail is simply skipped without it.
func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// LLM Provider
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.HuggingFaceKey,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// Session Storage
	var sessions contract.SessionStore
	if cfg.Sessions.Backend == "redis" {
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
		sessions = redisstore.NewSessionStore(rdb)
		log.Printf("[INFO] Using Session Store: REDIS")
	} else {
		sessions = memory.NewSessionStore()
		log.Printf("[INFO] Using Session Store: MEMORY")
	}

	// NATS (optional mirror for completion events)
	natsPub, err := pkgNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		natsPub = nil
	}

	// Evaluation Pipeline
	evaluator := item.NewEvaluator(llmProvider, sysLogger, cfg.Ai.CacheTTL)
	recommender := recommend.NewGenerator(llmProvider, sysLogger)
	orchestrator := pipeline.NewOrchestrator(
		sessions,
		evaluator,
		recommender,
		priority.NewKeywordPolicy(),
		sysLogger,
		cfg.Ai.MaxConcurrent,
	)

	// Services
	publisherService := service.NewPublisherService(pubSub, cfg.App.EvaluationTopic)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.App.EvaluationTopic,
		db,
		natsPub,
		sysLogger,
	)

	sessionService := service.NewSessionService(sessions, cfg.Sessions.Policies, sysLogger)
	eligibilityService := service.NewEligibilityService(orchestrator, publisherService, sysLogger)
	checklistService := service.NewChecklistService(orchestrator, publisherService, sysLogger)
	chatService := service.NewChatService(sessions, llmProvider, sysLogger)

	return &Container{
		SessionController:     controller.NewSessionController(sessionService),
		EligibilityController: controller.NewEligibilityController(eligibilityService),
		ChecklistController:   controller.NewChecklistController(checklistService),
		ChatController:        controller.NewChatController(chatService),
		ConsumerService:       consumerService,
		Logger:                sysLogger,
	}
}
