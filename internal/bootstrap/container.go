package bootstrap

import (
	"context"
	"log"

	"notesearch-be/internal/config"
	"notesearch-be/internal/controller"
	"notesearch-be/internal/pkg/logger"
	"notesearch-be/internal/pkg/mailer"
	"notesearch-be/internal/pkg/serverutils"
	"notesearch-be/internal/repository/unitofwork"
	"notesearch-be/internal/service"
	"notesearch-be/pkg/embedding"
	pktNats "notesearch-be/pkg/nats"
	"notesearch-be/pkg/search"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	AuthController   controller.IAuthController
	NoteController   controller.INoteController
	SearchController controller.ISearchController

	// Background services, run by main.go
	ConsumerService service.IConsumerService

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// In-process queue for the embed pipeline
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermillLogger)

	var embeddingProvider embedding.Provider
	if cfg.Embedding.Provider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Embedding.OllamaBaseURL,
			cfg.Embedding.OllamaModel,
			cfg.Embedding.Dimensions,
		)
		log.Printf("[INFO] Using embedding provider: ollama (%s)", cfg.Embedding.OllamaModel)
	} else {
		embeddingProvider = embedding.NewOpenAIProvider(
			cfg.Embedding.OpenAIAPIKey,
			cfg.Embedding.OpenAIBaseURL,
			cfg.Embedding.OpenAIModel,
			cfg.Embedding.Dimensions,
		)
		log.Printf("[INFO] Using embedding provider: openai (%s)", cfg.Embedding.OpenAIModel)
	}
	embeddingClient := embedding.NewClient(embeddingProvider)

	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect NATS publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect NATS subscriber: %v", err)
	}

	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v, using it as a plain address", err)
		opt = &redis.Options{Addr: cfg.App.RedisURL}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	embeddingService := service.NewEmbeddingService(uowFactory, embeddingClient, sysLogger)

	publisherService := service.NewPublisherService(pubSub, cfg.App.EmbedTopicName)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.App.EmbedTopicName,
		uowFactory,
		embeddingService,
		sysLogger,
	)

	authService := service.NewAuthService(
		uowFactory,
		emailService,
		natsPub,
		cfg.App.JWTSecret,
		cfg.App.TokenExpiry,
		sysLogger,
	)
	noteService := service.NewNoteService(
		uowFactory,
		publisherService,
		embeddingService,
		emailService,
		natsPub,
		sysLogger,
	)

	searchAdapter := service.NewNoteSearchAdapter(uowFactory, rdb, sysLogger)
	semanticEngine := search.NewEngine(embeddingClient, embeddingService, sysLogger)
	orchestrator := search.NewOrchestrator(
		search.Config{
			KeywordWeight:              cfg.Search.KeywordWeight,
			SemanticWeight:             cfg.Search.SemanticWeight,
			HighPrecisionThreshold:     cfg.Search.HighPrecisionThreshold,
			HighRecallThreshold:        cfg.Search.HighRecallThreshold,
			MinResultsForHighPrecision: cfg.Search.MinResultsForHighPrecision,
			MaxSemanticResults:         cfg.Search.MaxSemanticResults,
		},
		semanticEngine,
		searchAdapter,
		searchAdapter,
		searchAdapter,
		sysLogger,
	)
	searchService := service.NewSearchService(orchestrator, sysLogger)

	// Domain-event audit trail (background worker)
	auditService := service.NewAuditService(natsSub, sysLogger)
	if natsSub != nil {
		go auditService.Start()
	}

	jwtAuth := serverutils.JwtMiddleware(cfg.App.JWTSecret)

	return &Container{
		AuthController:   controller.NewAuthController(authService),
		NoteController:   controller.NewNoteController(noteService, jwtAuth),
		SearchController: controller.NewSearchController(searchService, jwtAuth),
		ConsumerService:  consumerService,
		Logger:           sysLogger,
	}
}
