package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"

	"github.com/jverdu-r/42-transcendence-sub000/brackets"
	"github.com/jverdu-r/42-transcendence-sub000/config"
	"github.com/jverdu-r/42-transcendence-sub000/db"
	"github.com/jverdu-r/42-transcendence-sub000/handlers"
	"github.com/jverdu-r/42-transcendence-sub000/matchmaker"
	"github.com/jverdu-r/42-transcendence-sub000/queue"
	"github.com/jverdu-r/42-transcendence-sub000/repositories"
	api "github.com/jverdu-r/42-transcendence-sub000/routes"
	"github.com/jverdu-r/42-transcendence-sub000/services"
	"github.com/jverdu-r/42-transcendence-sub000/storage"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		}
	}()
	logger.Info("database connection established")

	// Optional bracket archive storage (Cloudflare R2).
	var uploader storage.FileUploader
	if cfg.ArchivingEnabled() {
		uploader, err = storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("bracket archiving enabled")
	} else {
		logger.Info("bracket archiving disabled (R2 not configured)")
	}

	wsHub := brackets.NewHub(logger)
	go wsHub.Run()
	logger.Info("WebSocket hub started")

	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	participantRepo := repositories.NewPostgresParticipantRepository(dbConn)
	scoreRepo := repositories.NewPostgresScoreRepository(dbConn)
	logger.Info("repositories initialized")

	writeQueue := queue.NewPostgresQueue(dbConn)
	provisioner := matchmaker.NewClient(cfg.MatchmakerURL, cfg.MatchmakerTimeout, cfg.MatchmakerRPS)

	tournamentService := services.NewTournamentService(
		tournamentRepo,
		matchRepo,
		participantRepo,
		scoreRepo,
		uploader,
		logger,
	)
	progressionService := services.NewProgressionService(
		tournamentRepo,
		matchRepo,
		participantRepo,
		writeQueue,
		provisioner,
		wsHub,
		tournamentService,
		cfg.QueuePollAttempts,
		cfg.QueuePollDelay,
		logger,
	)
	matchService := services.NewMatchService(
		matchRepo,
		participantRepo,
		writeQueue,
		progressionService,
		wsHub,
		logger,
	)
	reconciler := services.NewReconcilerService(
		matchRepo,
		participantRepo,
		writeQueue,
		provisioner,
		logger,
	)
	logger.Info("services initialized")

	// Periodic re-provisioning of human matches the matchmaker call failed
	// on. Runs once at startup, then on the ticker.
	go func() {
		ticker := time.NewTicker(cfg.ReconcileInterval)
		defer ticker.Stop()
		logger.Info("provisioning reconciler started", slog.Duration("interval", cfg.ReconcileInterval))

		if repaired, err := reconciler.ReconcileUnprovisioned(context.Background()); err != nil {
			logger.Error("reconciler: initial run failed", slog.Any("error", err))
		} else if repaired > 0 {
			logger.Info("reconciler: initial run repaired matches", slog.Int("repaired", repaired))
		}

		for range ticker.C {
			if repaired, err := reconciler.ReconcileUnprovisioned(context.Background()); err != nil {
				logger.Error("reconciler: periodic run failed", slog.Any("error", err))
			} else if repaired > 0 {
				logger.Info("reconciler: repaired matches", slog.Int("repaired", repaired))
			}
		}
	}()

	tournamentHandler := handlers.NewTournamentHandler(progressionService, tournamentService)
	matchHandler := handlers.NewMatchHandler(matchService)
	webSocketHandler := handlers.NewWebSocketHandler(wsHub)
	logger.Info("HTTP handlers initialized")

	router := chi.NewRouter()
	api.SetupRoutes(router, tournamentHandler, matchHandler, webSocketHandler, cfg.JWTSecretKey)
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}
