package bootstrap

import (
	"context"
	"log"
	"os"
	"path/filepath"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"mortgage-rag-be/internal/config"
	"mortgage-rag-be/internal/controller"
	"mortgage-rag-be/internal/pkg/logger"
	"mortgage-rag-be/internal/repository"
	"mortgage-rag-be/internal/repository/implementation"
	"mortgage-rag-be/internal/repository/unitofwork"
	"mortgage-rag-be/internal/service"
	"mortgage-rag-be/pkg/embedding"
	"mortgage-rag-be/pkg/llm/factory"
	"mortgage-rag-be/pkg/news"
	"mortgage-rag-be/pkg/rag/agent"
	"mortgage-rag-be/pkg/rag/fanout"
	"mortgage-rag-be/pkg/rag/gate"
	"mortgage-rag-be/pkg/rag/history"
	"mortgage-rag-be/pkg/rag/response"
	"mortgage-rag-be/pkg/rag/style"
	"mortgage-rag-be/pkg/rag/tutor"
	"mortgage-rag-be/pkg/store"
	"mortgage-rag-be/pkg/websearch"
)

type Container struct {
	// Controllers
	AuthController      controller.IAuthController
	ChatController      controller.IChatController
	WebSearchController controller.IWebSearchController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	SysLogger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	ragLogger := initRagLogger()

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Providers
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Keys.GoogleGemini,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	searcher := websearch.NewSerperClient(cfg.Keys.Serper, cfg.Rag.SearchCountry, cfg.Rag.SearchLanguage)

	// Redis (news brief cache)
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

	// 4. Retrieval Pipeline
	docIndex := repository.NewDocumentIndex(implementation.NewDocumentEmbeddingRepository(db))
	chatIndex := repository.NewChatHistoryIndex(implementation.NewChatHistoryEmbeddingRepository(db))

	domainGate := gate.New()
	retriever := fanout.NewRetriever(docIndex, chatIndex, searcher, domainGate, ragLogger)
	generator := response.NewGenerator(llmProvider, ragLogger)
	enforcer := style.NewEnforcer(llmProvider, ragLogger)
	kbTutor := tutor.New(docIndex, llmProvider, ragLogger)
	newsPipeline := news.NewPipeline(searcher, llmProvider, rdb, ragLogger)

	publisherService := service.NewPublisherService(cfg.Keys.TurnTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Keys.TurnTopic,
		uowFactory,
		embeddingProvider,
	)

	turnRecorder := service.NewTurnRecorder(uowFactory, publisherService)

	ragAgent := &agent.Agent{
		Gate:      domainGate,
		Embedder:  embeddingProvider,
		Retriever: retriever,
		Generator: generator,
		Enforcer:  enforcer,
		Tutor:     kbTutor,
		News:      newsPipeline,
		History:   history.NewWriter(turnRecorder, ragLogger),
		Logger:    ragLogger,
	}

	// 5. Services
	sessionStore := store.NewSessionStore()

	authService := service.NewAuthService(uowFactory, cfg)
	chatService := service.NewChatService(uowFactory, ragAgent, sessionStore, publisherService)
	webSearchService := service.NewWebSearchService(searcher)

	return &Container{
		AuthController:      controller.NewAuthController(authService),
		ChatController:      controller.NewChatController(chatService),
		WebSearchController: controller.NewWebSearchController(webSearchService),
		ConsumerService:     consumerService,
		SysLogger:           sysLogger,
	}
}

func initRagLogger() *log.Logger {
	logPath := filepath.Join(".", "logs", "llm_rag.log")
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		log.Printf("Failed to create logs directory: %v", err)
	}
	file, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return log.New(os.Stdout, "[LLM-RAG] ", log.LstdFlags)
	}
	return log.New(file, "", log.LstdFlags)
}
