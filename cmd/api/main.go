package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	pkgvalidator "github.com/avinci-labs/avinci/pkg/validator"

	"github.com/avinci-labs/avinci/internal/adapter/handler"
	"github.com/avinci-labs/avinci/internal/adapter/repository"
	"github.com/avinci-labs/avinci/internal/infrastructure/cache"
	"github.com/avinci-labs/avinci/internal/infrastructure/database"
	"github.com/avinci-labs/avinci/internal/infrastructure/realtime"
	"github.com/avinci-labs/avinci/internal/infrastructure/storage"
	"github.com/avinci-labs/avinci/internal/usecase/compiler"
	"github.com/avinci-labs/avinci/internal/usecase/interview"
	"github.com/avinci-labs/avinci/internal/usecase/speech"
	pkgai "github.com/avinci-labs/avinci/pkg/ai"
	"github.com/avinci-labs/avinci/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize Echo instance
	e := echo.New()

	// Register validator for request validation
	e.Validator = pkgvalidator.New()

	// Configure Echo
	e.HideBanner = true
	e.HidePort = false

	// Custom logger format
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))

	// Recover from panics
	e.Use(middleware.Recover())

	// CORS middleware
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))

	// Initialize dependencies
	log.Println("🔧 Initializing dependencies...")

	// Initialize Database
	log.Println("📦 Connecting to database...")
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	// Run migrations only when explicitly enabled in config.
	// Production deployments should manage schema via sql-migrate.
	if cfg.Database.AutoMigrate {
		if cfg.Server.Environment == "production" {
			log.Fatalf("AutoMigrate is enabled in production. Disable DB_AUTO_MIGRATE or manage schema with sql-migrate.")
		}
		log.Println("🔄 Applying migrations (development only) ...")
		if err := database.AutoMigrate(db); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
	} else {
		log.Println("🔄 Skipping migrations; use sql-migrate for schema migrations in CI/CD/production")
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Conversation cache: Redis when enabled, in-process otherwise
	var convs cache.ConversationCache
	if cfg.Redis.Enabled {
		log.Println("📦 Connecting to Redis...")
		redisClient, err := cache.NewRedisClient(cfg)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
		convs = cache.NewRedisConversationCache(redisClient)
	} else {
		log.Println("⚠️  Redis disabled, using in-process conversation cache")
		convs = cache.NewMemoryConversationCache()
	}

	// Initialize audio storage
	log.Println("🗄️  Connecting to object storage...")
	minioClient, err := storage.NewMinIOClient(&cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to initialize object storage: %v", err)
	}

	// Initialize repositories
	log.Println("⚙️  Initializing repositories...")
	personaRepo := repository.NewPersonaRepository(db)
	callRepo := repository.NewCallRepository(db)

	// Initialize provider clients
	log.Println("🤖 Initializing AI components...")
	openaiClient := pkgai.NewOpenAIClient(&cfg.OpenAI)
	elevenClient := pkgai.NewElevenLabsClient(&cfg.ElevenLabs)
	transcriber := pkgai.NewTranscriberClient(&cfg.Assembly)

	// Initialize realtime hub
	hub := realtime.NewHub(logger)

	// Initialize persona compiler
	log.Println("🧬 Initializing persona compiler...")
	compilerService := compiler.NewService(openaiClient, personaRepo, logger)

	// Initialize interview pipeline
	log.Println("🎙️  Initializing interview service...")
	generator := interview.NewGenerator(openaiClient)
	pipeline := interview.NewPipeline(generator, logger)
	synthesizer := speech.NewSynthesizer(elevenClient, minioClient, logger)
	scheduler := interview.NewScheduler(callRepo, convs, hub, logger)
	interviewService := interview.NewService(callRepo, personaRepo, pipeline, synthesizer, scheduler, transcriber, convs, logger)

	// Initialize handlers
	log.Println("🚀 Initializing handlers...")
	personaHandler := handler.NewPersona(compilerService, logger)
	callHandler := handler.NewCall(interviewService, hub, logger)

	// Setup router with handlers
	log.Println("🛣️  Setting up routes...")
	router := handler.NewRouter(cfg, personaHandler, callHandler)
	router.Setup(e)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		log.Printf("🚀 Starting server on %s", addr)
		log.Printf("📝 Environment: %s", cfg.Server.Environment)
		log.Printf("🔗 Health check: http://%s/health", addr)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server stopped gracefully")
}
