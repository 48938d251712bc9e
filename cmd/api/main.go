package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/docuguard/docuguard/internal/api"
	"github.com/docuguard/docuguard/internal/audit"
	"github.com/docuguard/docuguard/internal/config"
	"github.com/docuguard/docuguard/internal/database"
	"github.com/docuguard/docuguard/internal/face"
	"github.com/docuguard/docuguard/internal/repository"
	"github.com/docuguard/docuguard/internal/resource"
	"github.com/docuguard/docuguard/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Environment)
	slog.SetDefault(logger)

	logger.Info("starting DocuGuard API",
		slog.String("environment", cfg.Environment),
		slog.Int("port", cfg.Port),
		slog.String("face_provider", cfg.FaceProvider),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Database
	pool, err := database.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	// Face backend
	faceProvider, err := face.NewFaceProvider(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create face provider: %w", err)
	}

	// Repositories
	galleryRepo := repository.NewGalleryRepository(pool)
	auditRepo := repository.NewVerificationAuditRepository(pool)

	// Services
	retry := resource.RetryPolicy{
		MaxAttempts: cfg.MaxRetries,
		Delay:       cfg.RetryDelay,
		Backoff:     cfg.RetryBackoff,
		Logger:      logger,
	}
	verification := service.NewVerificationService(
		faceProvider,
		galleryRepo,
		auditRepo,
		audit.NewSlogLogger(logger),
		resource.NewSystemMonitor(cfg.MinMemoryMB),
		retry,
		service.VerificationServiceConfig{
			MaxImageSizeMB:   cfg.MaxImageSizeMB,
			DefaultThreshold: cfg.SimilarityThreshold,
		},
		logger,
	)
	identity := service.NewIdentityService(faceProvider, galleryRepo, cfg.MaxImageSizeMB, logger)

	// Warm the models before taking traffic; failure is non-fatal, the
	// readiness probe keeps retrying.
	if err := verification.EnsureReady(ctx); err != nil {
		logger.Warn("face backend warm-up failed", slog.Any("error", err))
	}

	// Router
	router := api.NewRouter(logger, &api.Dependencies{
		Verification: verification,
		Identity:     identity,
		DB:           pool,
	})
	router.Setup()

	// Start server in goroutine
	errChan := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Port)
		logger.Info("server listening", slog.String("addr", addr))
		if err := router.Listen(addr); err != nil {
			errChan <- err
		}
	}()

	// Wait for shutdown signal or error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	}

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger.Info("shutting down server...")
	if err := router.Shutdown(); err != nil {
		logger.Error("shutdown error", slog.Any("error", err))
	}

	<-shutdownCtx.Done()
	logger.Info("server stopped")

	return nil
}
