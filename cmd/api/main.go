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

	pkgvalidator "github.com/johnquangdev/video-chat/pkg/validator"

	"github.com/johnquangdev/video-chat/internal/adapter/handler"
	"github.com/johnquangdev/video-chat/internal/adapter/repository"
	"github.com/johnquangdev/video-chat/internal/domain/repositories"
	"github.com/johnquangdev/video-chat/internal/index"
	"github.com/johnquangdev/video-chat/internal/infrastructure/cache"
	"github.com/johnquangdev/video-chat/internal/infrastructure/storage"
	chatuse "github.com/johnquangdev/video-chat/internal/usecase/chat"
	"github.com/johnquangdev/video-chat/internal/usecase/transcript"
	pkgai "github.com/johnquangdev/video-chat/pkg/ai"
	"github.com/johnquangdev/video-chat/pkg/config"
	"github.com/johnquangdev/video-chat/pkg/youtube"
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
		AllowOrigins: cfg.Server.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))

	// Initialize dependencies
	log.Println("🔧 Initializing dependencies...")

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize storage backend
	log.Printf("📦 Initializing %s storage...", cfg.Storage.Type)
	var store storage.FileStore
	switch cfg.Storage.Type {
	case "minio":
		minioStore, err := storage.NewMinIOStore(&cfg.Storage)
		if err != nil {
			log.Fatalf("Failed to connect to MinIO: %v", err)
		}
		store = minioStore
	default:
		localStore, err := storage.NewLocalStore(cfg.Storage.DataDir)
		if err != nil {
			log.Fatalf("Failed to initialize local storage: %v", err)
		}
		store = localStore
	}

	// Initialize session history backend
	log.Printf("📦 Initializing %s session store...", cfg.Chat.HistoryBackend)
	var sessions repositories.SessionRepository
	switch cfg.Chat.HistoryBackend {
	case "redis":
		redisStore, err := cache.NewRedisSessionStore(cfg)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisStore.Close()
		sessions = redisStore
	default:
		sessions = cache.NewMemorySessionStore()
	}

	// Initialize repositories
	log.Println("⚙️  Initializing repositories...")
	transcriptRepo := repository.NewTranscriptRepository(store)

	// Initialize AI components
	log.Println("🤖 Initializing AI components...")
	geminiClient := pkgai.NewGeminiClient(&cfg.Gemini)
	chunker := index.NewChunker(cfg.Index.ChunkSize, cfg.Index.ChunkOverlap)
	indexManager := index.NewManager(store, geminiClient, chunker, cfg.Index.MaxConcurrentBuilds, logger)

	// Initialize caption source
	log.Println("🎬 Initializing caption source...")
	captionClient := youtube.NewClient(&cfg.YouTube)

	// Initialize services
	log.Println("✨ Initializing services...")
	transcriptService := transcript.NewService(
		captionClient,
		transcriptRepo,
		indexManager,
		cfg.YouTube.PreferredLanguage,
		logger,
	)
	chatService := chatuse.NewService(
		indexManager,
		geminiClient,
		sessions,
		cfg.Index.TopK,
		cfg.Chat.MaxHistoryTurns,
		logger,
	)

	// Initialize handlers
	log.Println("🚀 Initializing handlers...")
	videoHandler := handler.NewVideo(transcriptService, logger)
	chatHandler := handler.NewChat(chatService, logger)

	// Setup router with handlers
	log.Println("🛣️  Setting up routes...")
	router := handler.NewRouter(cfg, videoHandler, chatHandler)
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
