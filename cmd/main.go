package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/PatxiBS/ud2-storageFork/internal/api"
	"github.com/PatxiBS/ud2-storageFork/internal/config"
	"github.com/PatxiBS/ud2-storageFork/internal/engine"
	"github.com/PatxiBS/ud2-storageFork/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load environment variables from .env file if it exists
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	setupLogging(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	provider, err := newProvider(ctx, cfg)
	if err != nil {
		logrus.Fatalf("Failed to initialize storage: %v", err)
	}
	logrus.WithField("driver", cfg.StorageDriver).Info("Storage initialized")

	fileStore := engine.NewFileStoreService(provider)
	apiServer := api.NewServer(fileStore, cfg.EventBufferSize)

	// Report edits made directly in the storage directory
	if fsProvider, ok := provider.(*storage.FileSystemProvider); ok && cfg.WatchStorage {
		watcher, err := engine.NewWatcher(fsProvider.GetPath(), cfg.WatchDebounce)
		if err != nil {
			logrus.Fatalf("Failed to create storage watcher: %v", err)
		}
		watcher.SetEventCallback(apiServer.NotifyEvent)
		go func() {
			if err := watcher.Run(ctx); err != nil {
				logrus.Errorf("Watcher error: %v", err)
			}
		}()
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- apiServer.Start(cfg.Port)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			logrus.Fatalf("HTTP server failed: %v", err)
		}
	case <-ctx.Done():
	}

	logrus.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()

	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}
	logrus.Info("Server exited")
}

func setupLogging(cfg *config.Config) {
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(logrus.InfoLevel)
	gin.SetMode(gin.ReleaseMode)
	if cfg.Debug {
		logrus.SetLevel(logrus.DebugLevel)
		gin.SetMode(gin.DebugMode)
	}
	if cfg.LogFormat == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}

func newProvider(ctx context.Context, cfg *config.Config) (storage.StorageProvider, error) {
	switch cfg.StorageDriver {
	case config.DriverFilesystem:
		return storage.NewFileSystemProvider(cfg.StoragePath)
	case config.DriverMemory:
		return storage.NewMemoryProvider(), nil
	case config.DriverAzure:
		if cfg.AzureConnectionString != "" {
			return storage.NewAzureBlobProviderFromConnectionString(ctx, cfg.AzureConnectionString, cfg.AzureContainer)
		}
		return storage.NewAzureBlobProvider(ctx, cfg.AzureAccount, cfg.AzureContainer)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}
