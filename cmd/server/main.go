package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"linkbox/internal/cache"
	"linkbox/internal/config"
	"linkbox/internal/dbauth"
	"linkbox/internal/handler"
	"linkbox/internal/logger"
	"linkbox/internal/repository/postgres"
	"linkbox/internal/router"
	"linkbox/internal/service"
	"linkbox/internal/storage"
)

// @title Linkbox API
// @version 1.0
// @description Presigned upload and download grants for files shared by short id.
// @BasePath /api
func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.New(cfg.Log)
	if cfg.Server.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	creds, err := dbauth.New(ctx, &cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to set up database credentials: %w", err)
	}
	if cfg.DB.IAMAuth {
		log.Info().Str("endpoint", cfg.DB.Endpoint()).Msg("using RDS IAM database authentication")
	}

	db, err := postgres.NewDB(ctx, &cfg.DB, creds)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories and infrastructure
	fileRepo := postgres.NewFileObjectRepo(db)

	issuer, err := storage.NewCredentialIssuer(ctx, &cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to initialize credential issuer: %w", err)
	}

	fileCache, err := cache.NewFileObjectCache(ctx, cfg.Cache)
	if err != nil {
		return fmt.Errorf("failed to initialize metadata cache: %w", err)
	}

	// Initialize services and handlers
	transferSvc := service.NewTransferService(fileRepo, issuer, fileCache, cfg, log)
	transferH := handler.NewTransferHandler(transferSvc)
	healthH := handler.NewHealthHandler(db)

	r := router.Setup(cfg, log, transferH, healthH)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", cfg.Server.Port).
			Str("storage_provider", cfg.Storage.Provider).
			Str("bucket", cfg.Storage.Bucket).
			Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
