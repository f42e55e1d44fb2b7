package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/anoexpected/stemhub-backend/internal/authz"
	"github.com/anoexpected/stemhub-backend/internal/config"
	"github.com/anoexpected/stemhub-backend/internal/database"
	"github.com/anoexpected/stemhub-backend/internal/handler"
	"github.com/anoexpected/stemhub-backend/internal/lifecycle"
	"github.com/anoexpected/stemhub-backend/internal/logger"
	"github.com/anoexpected/stemhub-backend/internal/repository"
	"github.com/anoexpected/stemhub-backend/internal/router"
	"github.com/anoexpected/stemhub-backend/internal/service"
	"github.com/anoexpected/stemhub-backend/internal/validator"
	"github.com/anoexpected/stemhub-backend/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting STEM Hub Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	actorRepo := repository.NewActorRepository(pool)
	contentRepo := repository.NewContentRepository(pool)
	curriculumRepo := repository.NewCurriculumRepository(pool)

	// ─── Authorization + Lifecycle Policy ──────────────────────────────
	gate := authz.NewGate(authz.DefaultTable())
	machine := lifecycle.NewMachine(lifecycle.DefaultConfig())

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(cfg, rdb)
	userService := service.NewUserService(actorRepo, authService, gate, log)
	contentService := service.NewContentService(contentRepo, gate, machine, rdb, cfg.PublishedCacheTTL, log)
	curriculumService := service.NewCurriculumService(curriculumRepo, gate, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:       handler.NewAuthHandler(authService, userService),
		Content:    handler.NewContentHandler(contentService),
		Review:     handler.NewReviewHandler(contentService),
		Curriculum: handler.NewCurriculumHandler(curriculumService),
		User:       handler.NewUserHandler(userService),
		WS:         handler.NewWSHandler(rdb, log, cfg.AllowedOrigins),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	sweeper := worker.NewPendingSweeper(contentRepo, rdb, log, cfg.PendingReminderAfter, cfg.PendingSweepInterval)
	go sweeper.Start(workerCtx)

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, gate, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop the background sweeper.
	workerCancel()

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
