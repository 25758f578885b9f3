package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hairizuan-noorazman/std-generator/cmd/backend/handlers"
	"github.com/hairizuan-noorazman/std-generator/internal/provider"
	"github.com/hairizuan-noorazman/std-generator/logger"
	"github.com/hairizuan-noorazman/std-generator/session"
	"github.com/hairizuan-noorazman/std-generator/stdgen"
	"github.com/hairizuan-noorazman/std-generator/storage"
	"github.com/spf13/cobra"
)

var configFile string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServer,
}

func init() {
	serveCmd.Flags().StringVarP(&configFile, "config", "c", "", "config file path")
	rootCmd.AddCommand(serveCmd)
}

func runServer(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	// Load configuration
	cfg, err := LoadConfig(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	log := logger.NewLogrusLogger(cfg.Log.Level)
	log.Info(ctx, "starting server", map[string]interface{}{
		"version": Version,
		"commit":  Commit,
		"date":    BuildDate,
	})

	// Model catalog and generation pipeline
	catalog, err := stdgen.NewModelCatalog(cfg.Generation.Models, cfg.Generation.DefaultModel)
	if err != nil {
		return fmt.Errorf("failed to build model catalog: %w", err)
	}
	pipeline := stdgen.NewPipeline(catalog, log)

	settings := providerSettings(cfg)
	factory, err := provider.NewGeneratorFactory(ctx, settings)
	if err != nil {
		return err
	}

	if cfg.Generation.Provider == provider.OpenAI && cfg.OpenAI.APIKey == "" {
		log.Warn(ctx, "no OpenAI API key configured, sessions must supply one", nil)
	}

	captioner, vision := provider.NewCaptioner(settings, cfg.OpenAI.APIKey)

	log.Info(ctx, "generation configured", map[string]interface{}{
		"provider":      cfg.Generation.Provider,
		"models":        catalog.Models(),
		"default_model": catalog.Default(),
		"captioning":    vision,
	})

	// Initialize staged upload storage
	blobStorage, err := storage.NewBlobStorage(ctx, storage.Config{
		Type:     cfg.Storage.Type,
		BaseDir:  cfg.Storage.BaseDir,
		S3Bucket: cfg.Storage.S3Bucket,
		S3Region: cfg.Storage.S3Region,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	log.Info(ctx, "storage initialized", map[string]interface{}{
		"type": cfg.Storage.Type,
	})

	// Initialize session manager
	sessionManager := session.NewManager(cfg.Session.Duration, log)
	sessionManager.OnExpire(handlers.DeleteStagedImages(blobStorage, log))
	sessionManager.StartCleanup(cfg.Session.CleanupInterval)
	defer sessionManager.StopCleanup()

	log.Info(ctx, "session manager initialized", map[string]interface{}{
		"duration": cfg.Session.Duration.String(),
	})

	// Setup router
	router := handlers.NewRouter(handlers.RouterConfig{
		SessionManager: sessionManager,
		Pipeline:       pipeline,
		Factory:        factory,
		DefaultAPIKey:  cfg.OpenAI.APIKey,
		Captioner:      captioner,
		Storage:        blobStorage,
		CookieName:     cfg.Session.CookieName,
		CookieSecret:   cfg.Session.CookieSecret,
		CookieSecure:   cfg.Session.Secure,
		CookieMaxAge:   cfg.Session.Duration,
		Version:        Version,
		Logger:         log,
	})

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in a goroutine
	go func() {
		log.Info(ctx, "server listening", map[string]interface{}{
			"address": addr,
		})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error(ctx, "server error", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info(ctx, "shutting down server", nil)

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info(ctx, "server stopped", nil)
	return nil
}

func providerSettings(cfg *Config) provider.Settings {
	return provider.Settings{
		Provider:      cfg.Generation.Provider,
		OpenAIBaseURL: cfg.OpenAI.BaseURL,
		Bedrock: stdgen.BedrockConfig{
			Region:    cfg.Bedrock.Region,
			AccessKey: cfg.Bedrock.AccessKey,
			SecretKey: cfg.Bedrock.SecretKey,
		},
		CaptionEnabled: cfg.Caption.Enabled,
		CaptionModel:   cfg.Caption.Model,
	}
}
