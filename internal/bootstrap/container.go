package bootstrap

import (
	"context"
	"log"
	"time"

	"vc-intel-be/internal/config"
	"vc-intel-be/internal/controller"
	"vc-intel-be/internal/handler"
	"vc-intel-be/internal/pkg/logger"
	"vc-intel-be/internal/pkg/mailer"
	"vc-intel-be/internal/repository/layerstore"
	"vc-intel-be/internal/service"
	"vc-intel-be/internal/websocket"
	"vc-intel-be/pkg/embedding"
	"vc-intel-be/pkg/layers"
	"vc-intel-be/pkg/workflow"

	pktNats "vc-intel-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const triggerJobTopic = "workflow.trigger.jobs"

type Container struct {
	// Controllers
	WorkflowController controller.IWorkflowController
	QueryController    controller.IQueryController

	// Background services (exposed for main.go to run)
	TriggerConsumerService service.ITriggerConsumerService

	// WebSockets & notification
	NotificationHandler *handler.NotificationHandler
	WebSocketHub        *websocket.Hub
}

// NewContainer wires the whole dependency graph. The db may be nil;
// layer lookups then fail per-layer and queries degrade instead of
// crashing.
func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// Each running instance gets an identity so lifecycle events it
	// publishes can be told apart from other instances' events.
	instanceID := uuid.NewString()

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// Event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
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

	// WebSocket hub doubles as the notification sink.
	wsLogger := logger.NewIsolatedLogger("logs/notification.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// Workflow core
	catalog := workflow.DefaultCatalog()
	sessionStore := workflow.NewSessionStore(
		time.Duration(cfg.Session.TerminalTTLMinutes)*time.Minute,
		time.Duration(cfg.Session.SweepIntervalMinutes)*time.Minute,
	)
	engine := workflow.NewHTTPEngine(cfg.Engine.BaseURL)

	publisherService := service.NewPublisherService(triggerJobTopic, pubSub)
	workflowService := service.NewWorkflowService(
		catalog,
		sessionStore,
		wsHub,
		publisherService,
		natsPub,
		instanceID,
		sysLogger,
	)
	triggerConsumerService := service.NewTriggerConsumerService(
		pubSub,
		triggerJobTopic,
		sessionStore,
		catalog,
		engine,
		wsHub,
		time.Duration(cfg.Engine.TriggerTimeout)*time.Second,
		natsPub,
		emailService,
		cfg.SMTP.OperatorEmail,
		instanceID,
		sysLogger,
	)

	// Query router
	var embeddingProvider embedding.Provider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Ai.GeminiAPIKey)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}

	// Founder intel and the research library hold prose documents, so
	// they search semantically. Fund ops is mostly structured records;
	// keyword matching works better there.
	executor := layers.NewExecutor(map[string]layers.Lookup{
		layers.LayerFounderIntel:    layerstore.NewSemanticLookup(db, embeddingProvider, layers.LayerFounderIntel),
		layers.LayerFundOps:         layerstore.NewKeywordLookup(db, layers.LayerFundOps),
		layers.LayerResearchLibrary: layerstore.NewSemanticLookup(db, embeddingProvider, layers.LayerResearchLibrary),
	})

	mergeCfg := layers.MergeConfig{
		SecondaryDiscount: cfg.Query.SecondaryDiscount,
		FallbackThreshold: cfg.Query.FallbackThreshold,
	}
	queryService := service.NewQueryService(layers.NewDefaultClassifier(), executor, layers.DefaultRegistry(), mergeCfg, sysLogger)

	// Notification delivery worker for events from other instances.
	if natsSub != nil {
		notifService := service.NewNotificationService(natsSub, wsHub, instanceID, wsLogger)
		go func() {
			if err := notifService.Start(); err != nil {
				log.Printf("[WARN] Notification delivery worker failed to start: %v", err)
			}
		}()
	}

	notifHandler := handler.NewNotificationHandler(wsHub, wsLogger)

	return &Container{
		WorkflowController: controller.NewWorkflowController(workflowService),
		QueryController:    controller.NewQueryController(queryService),

		TriggerConsumerService: triggerConsumerService,

		NotificationHandler: notifHandler,
		WebSocketHub:        wsHub,
	}
}
