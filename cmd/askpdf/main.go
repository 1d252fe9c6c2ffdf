package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/liliang-cn/askpdf/internal/api"
	"github.com/liliang-cn/askpdf/internal/config"
	"github.com/liliang-cn/askpdf/internal/llm"
	applog "github.com/liliang-cn/askpdf/internal/logger"
	"github.com/liliang-cn/askpdf/internal/pdftext"
	"github.com/liliang-cn/askpdf/internal/repository"
	"github.com/liliang-cn/askpdf/internal/service"
	"github.com/liliang-cn/askpdf/internal/session"
	"go.uber.org/zap"
)

var (
	configPath = flag.String("config", "", "Path to config file")
	envPath    = flag.String("env", ".env", "Path to .env file")
)

func main() {
	flag.Parse()

	// .env is optional; real environment variables win
	if err := godotenv.Load(*envPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("Failed to load %s: %v", *envPath, err)
	}

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	// Initialize logger
	logger, err := applog.New(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	printBanner()

	// Initialize ledger database (uploads and token usage; chat sessions stay in memory)
	db, err := repository.NewDB(cfg.Database.Path)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	uploadRepo := repository.NewUploadRepository(db)
	usageRepo := repository.NewUsageRepository(db)

	generator, err := llm.NewOpenAIClient(llm.OpenAIConfig{
		BaseURL:     cfg.LLM.BaseURL,
		APIKey:      cfg.LLM.APIKey,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		HTTPClient:  &http.Client{Timeout: 90 * time.Second},
	})
	if err != nil {
		logger.Fatal("Failed to create LLM client", zap.Error(err))
	}

	// Initialize services
	chatService := service.NewChatService(generator, usageRepo, logger.Named("chat"))

	ingestService, err := service.NewIngestService(cfg, pdftext.NewReader(), uploadRepo, logger.Named("ingest"))
	if err != nil {
		logger.Fatal("Failed to create ingest service", zap.Error(err))
	}

	sessions := session.NewStore(cfg.Session.TTL, cfg.Session.CleanupInterval, chatService.NewEngine)

	adminService := service.NewAdminService(uploadRepo, usageRepo, sessions)

	// Setup router
	router := api.SetupRouter(adminService, ingestService, chatService, sessions, logger, api.RouterConfig{
		APIKey:         cfg.Admin.APIKey,
		AllowOrigins:   cfg.Server.AllowOrigins,
		SessionTTL:     cfg.Session.TTL,
		SecureCookie:   cfg.Server.SecureCookie,
		StaticDir:      cfg.UI.StaticDir,
		Title:          cfg.UI.Title,
		DefaultPrompt:  cfg.UI.DefaultPrompt,
		MaxUploadBytes: cfg.Storage.MaxUploadMB << 20,
	})

	// Create HTTP server; a chat turn makes two model calls
	srv := &http.Server{
		Addr:         cfg.Address(),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 3 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Starting AskPDF server",
			zap.String("address", cfg.Address()),
			zap.String("base_url", cfg.Server.BaseURL),
			zap.String("llm_provider", cfg.LLM.Provider),
			zap.String("llm_model", cfg.LLM.Model),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

func printBanner() {
	banner := `
    ___         __   ____  ____  ______
   /   |  _____/ /__/ __ \/ __ \/ ____/
  / /| | / ___/ //_/ /_/ / / / / /_
 / ___ |(__  ) ,< / ____/ /_/ / __/
/_/  |_/____/_/|_/_/   /_____/_/
`

	fmt.Println(banner)
}
