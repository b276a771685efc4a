package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/outreachly/crm-sync/internal/config"
	"github.com/outreachly/crm-sync/internal/infrastructure/crypto"
	"github.com/outreachly/crm-sync/internal/infrastructure/database"
	httpServer "github.com/outreachly/crm-sync/internal/infrastructure/http"
	"github.com/outreachly/crm-sync/internal/infrastructure/oauth"
	"github.com/outreachly/crm-sync/internal/infrastructure/provider"
	"github.com/outreachly/crm-sync/internal/usecase"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize database connection
	db, err := database.NewConnection(&cfg.Database, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := database.Close(db, logger); err != nil {
			logger.Error("Failed to close database connection", zap.Error(err))
		}
	}()

	// Run database migrations
	if err := database.Migrate(db, logger); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	// Initialize repositories
	repos := database.NewRepositories(db, logger)

	// Credential encryption and provider clients
	encryption, err := crypto.NewAESEncryptionService(cfg.Service.EncryptionKey)
	if err != nil {
		logger.Fatal("Failed to initialize encryption service", zap.Error(err))
	}
	oauthClient := oauth.NewClient(logger)
	factory := provider.NewFactory(cfg, repos.Integration, encryption, oauthClient, logger)

	syncService := usecase.NewSyncService(
		repos.Lead,
		repos.Action,
		repos.Integration,
		repos.Mapping,
		repos.SyncLog,
		factory,
		logger,
	)

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	httpSrv := httpServer.NewServer(cfg, logger, syncService)

	go func() {
		if err := httpSrv.Start(); err != nil {
			logger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down server...")

	if err := httpSrv.Shutdown(ctx); err != nil {
		logger.Error("Failed to shutdown HTTP server", zap.Error(err))
	}

	logger.Info("Server shut down successfully")
}
