package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/OlricBeyy/telegram-tracking-bot/internal/config"
	"github.com/OlricBeyy/telegram-tracking-bot/internal/fetcher"
	"github.com/OlricBeyy/telegram-tracking-bot/internal/metrics"
	"github.com/OlricBeyy/telegram-tracking-bot/internal/notifier"
	"github.com/OlricBeyy/telegram-tracking-bot/internal/ratelimit"
	"github.com/OlricBeyy/telegram-tracking-bot/internal/scheduler"
	"github.com/OlricBeyy/telegram-tracking-bot/internal/service"
	"github.com/OlricBeyy/telegram-tracking-bot/internal/storage/postgres"
	"github.com/OlricBeyy/telegram-tracking-bot/internal/store"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	logger := setupLogger("info")

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger = setupLogger(cfg.LogLevel)

	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Error("failed to ping database", "error", err)
		os.Exit(1)
	}
	logger.Info("connected to database")

	rabbitMQ, err := notifier.NewRabbitMQ(notifier.Config{
		URL:        cfg.RabbitMQ.URL,
		Exchange:   cfg.RabbitMQ.Exchange,
		RoutingKey: cfg.RabbitMQ.RoutingKey,
		QueueName:  cfg.RabbitMQ.QueueName,
	}, logger)
	if err != nil {
		logger.Error("failed to connect to rabbitmq", "error", err)
		os.Exit(1)
	}
	defer rabbitMQ.Close()

	productStore := postgres.NewProductStore(db)
	stateStore := postgres.NewStateStore(db)
	failureStore := postgres.NewFailureStore(db)
	txManager := postgres.NewTxManager(db)

	limiter := ratelimit.New(ratelimit.Config{
		RequestsPerWindow: cfg.RateLimit.RequestsPerWindow,
		Window:            cfg.RateLimit.Window,
		Jitter:            cfg.RateLimit.Jitter,
	})

	pageFetcher := fetcher.New(fetcher.Config{
		Timeout:        cfg.HTTP.Timeout,
		UserAgent:      cfg.HTTP.UserAgent,
		AcceptLanguage: cfg.HTTP.AcceptLanguage,
		MaxAttempts:    cfg.HTTP.Retry.MaxAttempts,
		InitialBackoff: cfg.HTTP.Retry.InitialBackoff,
		MaxBackoff:     cfg.HTTP.Retry.MaxBackoff,
	}, limiter, logger)

	collector := metrics.NewCollector()

	pollService := service.NewPollService(
		productStore,
		stateStore,
		failureStore,
		pageFetcher,
		store.NewRegistry(),
		rabbitMQ,
		txManager,
		collector,
		logger,
		cfg.Poll,
	)

	sched := scheduler.NewScheduler(pollService, cfg.Poll.Interval, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", collector.Handler())
		logger.Info("metrics listener started", "addr", cfg.Metrics.Addr)
		if err := http.ListenAndServe(cfg.Metrics.Addr, mux); err != nil {
			logger.Error("metrics listener failed", "error", err)
		}
	}()

	logger.Info("starting price tracker",
		"interval", cfg.Poll.Interval,
		"concurrency", cfg.Poll.Concurrency,
		"dormancy_threshold", cfg.Poll.DormancyThreshold,
	)

	if err := sched.Start(ctx); err != nil && err != context.Canceled {
		logger.Error("scheduler error", "error", err)
		os.Exit(1)
	}
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(handler)
}
