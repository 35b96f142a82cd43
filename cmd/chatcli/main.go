package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/unifiedhq/chatcli/internal/api"
	"github.com/unifiedhq/chatcli/internal/app"
	"github.com/unifiedhq/chatcli/internal/auth"
	"github.com/unifiedhq/chatcli/internal/chat"
	"github.com/unifiedhq/chatcli/internal/storage"
	"github.com/unifiedhq/chatcli/pkg/config"
	"go.uber.org/zap"
)

func main() {
	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Load a local .env if present, then the configuration
	_ = godotenv.Load()
	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err), zap.String("path", "config.yaml"))
	}

	// Initialize credential storage
	var store storage.Storage
	if cfg.Storage.UseInMemory {
		logger.Info("Using in-memory credential storage")
		store = storage.NewMemoryStorage()
	} else {
		path, err := cfg.Storage.CredentialsPath()
		if err != nil {
			logger.Fatal("Failed to resolve credentials path", zap.Error(err))
		}
		store, err = storage.NewFileStorage(path, logger)
		if err != nil {
			logger.Fatal("Failed to initialize credential storage", zap.Error(err))
		}
	}
	defer store.Close()

	// Initialize the gateway client and the auth state
	client := api.New(cfg.API.BaseURL, cfg.API.RequestTimeout, logger)
	authenticator := auth.New(store, logger)

	// Any 401 anywhere ends the session process-wide
	client.SetUnauthorizedHandler(func() {
		if err := authenticator.Logout(); err != nil {
			logger.Error("Failed to clear session after 401", zap.Error(err))
		}
	})

	reconciler := chat.NewReconciler(client, logger)

	// Run the interactive app
	a := app.New(client, authenticator, reconciler, logger, os.Stdin, os.Stdout)
	if err := a.Run(context.Background()); err != nil {
		logger.Fatal("App error", zap.Error(err))
	}
}
