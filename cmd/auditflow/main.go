package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/auditflow/auditflow/internal/app"
	"github.com/auditflow/auditflow/internal/observability"
	"github.com/auditflow/auditflow/internal/platform/cache"
	"github.com/auditflow/auditflow/internal/tools"
	"github.com/auditflow/auditflow/internal/transcribe"
	"github.com/auditflow/auditflow/internal/variance"
	"github.com/auditflow/auditflow/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	source, closeSource, err := app.OpenLedger(ctx, cfg, logger)
	if err != nil {
		logger.Error("open ledger", slog.Any("error", err))
		os.Exit(1)
	}
	defer closeSource()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	redisOpts := asynq.RedisClientOpt{Addr: cfg.RedisAddr}
	jobClient := jobs.NewClient(redisOpts)
	defer func() {
		_ = jobClient.Close()
	}()
	inspector := asynq.NewInspector(redisOpts)
	defer func() {
		_ = inspector.Close()
	}()

	metrics := observability.NewMetrics()

	varianceService := variance.NewService(source, logger)
	toolService := tools.NewService(source, varianceService)
	toolHandler := tools.NewHandler(logger, toolService, metrics)

	var transcriber transcribe.Transcriber = transcribe.Disabled{}
	if cfg.GeminiAPIKey != "" {
		gemini, err := transcribe.NewGeminiTranscriber(ctx, cfg.GeminiAPIKey)
		if err != nil {
			logger.Error("init transcriber", slog.Any("error", err))
			os.Exit(1)
		}
		transcriber = gemini
	} else {
		logger.Warn("GEMINI_API_KEY not set, transcription disabled")
	}
	transcribeHandler := transcribe.NewHandler(logger, transcriber, cfg.TranscribeModel, cfg.TranscribeMaxBytes)

	router := app.NewRouter(app.RouterParams{
		Logger:            logger,
		Config:            cfg,
		ToolsHandler:      toolHandler,
		TranscribeHandler: transcribeHandler,
		JobHandler:        jobs.NewHandler(inspector, jobClient, logger),
		Readiness: []app.ReadinessCheck{
			{Name: "ledger", Pinger: source},
			{Name: "redis", Pinger: cache.Checker{Client: redisClient}},
		},
		Metrics: metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
