package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	storage_go "github.com/supabase-community/storage-go"
	"go.uber.org/zap"

	"github.com/CodeGza/alma-fotografia/internal/config"
	"github.com/CodeGza/alma-fotografia/internal/http/handlers"
	"github.com/CodeGza/alma-fotografia/internal/http/routes"
	"github.com/CodeGza/alma-fotografia/internal/services/activity"
	"github.com/CodeGza/alma-fotografia/internal/services/export"
	"github.com/CodeGza/alma-fotografia/internal/services/normalize"
	"github.com/CodeGza/alma-fotografia/internal/services/notify"
	"github.com/CodeGza/alma-fotografia/internal/services/store"
)

func main() {
	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Sync()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Initialize services
	db, err := store.NewService(cfg.Database.DSN, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	recorder := activity.NewRecorder(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	defer recorder.Close()

	notifier, err := notify.NewPublisher(cfg.RabbitMQ.URL, logger)
	if err != nil {
		logger.Warn("Failed to initialize event publisher", zap.Error(err))
		// Exports still work without completion events
		notifier = nil
	} else {
		defer notifier.Close()
	}

	fetcher := export.NewFetcher(cfg.Export.FetchTimeout, cfg.Export.MaxPhotoBytes, logger)
	if cfg.Supabase.URL != "" && cfg.Supabase.KEY != "" && cfg.Supabase.BUCKET != "" {
		sbClient := storage_go.NewClient(cfg.Supabase.URL+"/storage/v1", cfg.Supabase.KEY, nil)
		fetcher = fetcher.WithSupabase(sbClient, cfg.Supabase.URL, cfg.Supabase.BUCKET)
	}

	pipeline := export.NewPipeline(
		db,
		db,
		fetcher,
		export.NewResolver(cfg.Export.CDNHost),
		normalize.NewNormalizer(cfg.Export.MaxImageWidth, cfg.Export.JPEGQuality, logger),
		logger,
		export.Options{
			BatchSize: cfg.Export.BatchSize,
			Deadline:  cfg.Export.PipelineDeadline,
		},
	)

	// Initialize handlers
	exportHandler := handlers.NewExportHandler(pipeline, db, db, recorder, notifier, logger, cfg)

	router := routes.NewRouter(exportHandler, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		Handler:      router.SetupRoutes(),
	}

	// Start server
	go func() {
		logger.Info("Starting server", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
