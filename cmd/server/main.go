package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/prepforge/cbt-backend/internal/config"
	"github.com/prepforge/cbt-backend/internal/database"
	"github.com/prepforge/cbt-backend/internal/graphql"
	"github.com/prepforge/cbt-backend/internal/handler"
	"github.com/prepforge/cbt-backend/internal/logger"
	"github.com/prepforge/cbt-backend/internal/mailer"
	"github.com/prepforge/cbt-backend/internal/repository"
	"github.com/prepforge/cbt-backend/internal/router"
	"github.com/prepforge/cbt-backend/internal/service"
	"github.com/prepforge/cbt-backend/internal/validator"
	"github.com/prepforge/cbt-backend/internal/worker"
)

func main() {
	cfg := config.Load()

	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting PrepForge Backend")

	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	sesMailer, err := mailer.NewSESMailer(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize mailer")
	}

	// Repositories
	userRepo := repository.NewUserRepository(pool)
	subjectRepo := repository.NewSubjectRepository(pool)
	topicRepo := repository.NewTopicRepository(pool)
	examRepo := repository.NewExamRepository(pool)
	examSubjectRepo := repository.NewExamSubjectRepository(pool)
	questionRepo := repository.NewQuestionRepository(pool)
	sessionRepo := repository.NewSessionRepository(pool)

	// Services
	authService := service.NewAuthService(cfg, rdb)
	userService := service.NewUserService(userRepo, authService, sesMailer, log)
	subjectService := service.NewSubjectService(subjectRepo, log)
	topicService := service.NewTopicService(topicRepo, subjectRepo, log)
	examService := service.NewExamService(examRepo, examSubjectRepo, subjectRepo, log)
	questionService := service.NewQuestionService(questionRepo, examSubjectRepo, log)
	statsService := service.NewStatsService(rdb, log)
	sessionService := service.NewSessionService(sessionRepo, questionRepo, examSubjectRepo, statsService, log)

	// GraphQL schema over the same services.
	resolver := graphql.NewResolver(userService, subjectService, topicService, examService, questionService, sessionService)
	schema, err := graphql.NewSchema(resolver)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build GraphQL schema")
	}

	handlers := &router.Handlers{
		Auth:     handler.NewAuthHandler(userService),
		User:     handler.NewUserHandler(userService),
		Subject:  handler.NewSubjectHandler(subjectService, topicService),
		Topic:    handler.NewTopicHandler(topicService),
		Exam:     handler.NewExamHandler(examService),
		Question: handler.NewQuestionHandler(questionService),
		Session:  handler.NewSessionHandler(sessionService),
		Stats:    handler.NewStatsHandler(statsService),
		GraphQL:  graphql.NewHandler(schema, authService, log),
	}

	// Background workers
	workerCtx, workerCancel := context.WithCancel(context.Background())
	activityWorker := worker.NewActivityWorker(rdb, log)
	go activityWorker.Start(workerCtx)

	r := router.SetupRouter(authService, handlers, cfg)

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// Stop background workers and wait for queues to drain.
	workerCancel()
	time.Sleep(2 * time.Second)

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
