package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"brandpost/internal/api/handlers"
	"brandpost/internal/config"
	"brandpost/internal/generator"
	"brandpost/internal/publisher"
	"brandpost/internal/scheduler"
	"brandpost/internal/service"
	"brandpost/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	// Setup logger
	logger := setupLogger("info")

	// Load configuration
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

	// Initialize RabbitMQ publisher
	rabbitMQ, err := publisher.NewRabbitMQ(publisher.Config{
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

	// Initialize stores
	postStore := postgres.NewPostStore(db)
	analyticsStore := postgres.NewAnalyticsStore(db)
	profileStore := postgres.NewProfileStore(db)
	txManager := postgres.NewTransactionManager(db)

	// Initialize Groq text generator
	groq := generator.New(generator.Config{
		BaseURL:        cfg.Groq.BaseURL,
		APIKey:         cfg.Groq.APIKey,
		Model:          cfg.Groq.Model,
		MaxTokens:      cfg.Groq.MaxTokens,
		Timeout:        cfg.Groq.Timeout,
		MaxAttempts:    cfg.Groq.Retry.MaxAttempts,
		InitialBackoff: cfg.Groq.Retry.InitialBackoff,
		MaxBackoff:     cfg.Groq.Retry.MaxBackoff,
	}, logger)

	// Timer service: one-shot publish triggers plus the recurring sweep
	sched := scheduler.New(logger)

	clock := service.SystemClock{}
	simulator := service.NewEngagementSimulator(cfg.Engagement, time.Now().UnixNano())

	publishService := service.NewPublishService(
		postStore,
		analyticsStore,
		txManager,
		rabbitMQ,
		clock,
		simulator,
		logger,
		cfg.Sweep.PublishTimeout,
	)
	sweepService := service.NewSweepService(postStore, publishService, clock, logger)
	contentService := service.NewContentService(postStore, groq, sched, publishService, clock, logger)
	analyticsService := service.NewAnalyticsService(postStore, analyticsStore, logger)
	profileService := service.NewProfileService(profileStore, logger)
	trendsService := service.NewTrendsService(time.Now().UnixNano())

	if err := sched.ScheduleRecurring(cfg.Sweep.Interval, sweepService.Run); err != nil {
		logger.Error("failed to register sweep", "error", err)
		os.Exit(1)
	}
	sched.Start()

	app := fiber.New(fiber.Config{
		AppName: "brandpost",
	})
	app.Use(fiberlogger.New())

	registerRoutes(app, contentService, analyticsService, profileService, trendsService)

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := sched.Shutdown(shutdownCtx); err != nil {
			logger.Warn("scheduler shutdown incomplete", "error", err)
		}
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			logger.Warn("server shutdown incomplete", "error", err)
		}
	}()

	logger.Info("starting server",
		"addr", cfg.Server.Addr,
		"sweep_interval", cfg.Sweep.Interval,
	)

	if err := app.Listen(cfg.Server.Addr); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

func registerRoutes(
	app *fiber.App,
	content *service.ContentService,
	analytics *service.AnalyticsService,
	profiles *service.ProfileService,
	trends *service.TrendsService,
) {
	contentHandler := handlers.NewContentHandler(content)
	analyticsHandler := handlers.NewAnalyticsHandler(analytics)
	profileHandler := handlers.NewProfileHandler(profiles)
	trendsHandler := handlers.NewTrendsHandler(trends)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "brandpost is running"})
	})

	app.Post("/content/generate", contentHandler.Generate)
	app.Get("/content/list", contentHandler.List)
	app.Post("/content/schedule", contentHandler.Schedule)
	app.Post("/content/publish", contentHandler.Publish)
	app.Post("/content/cancel", contentHandler.Cancel)
	app.Get("/content/analytics", analyticsHandler.Rows)

	app.Get("/analytics", analyticsHandler.Summary)
	app.Get("/analytics/post/:id", analyticsHandler.ForPost)
	app.Get("/analytics/top-performing", analyticsHandler.TopPerforming)

	app.Post("/profile", profileHandler.Create)
	app.Get("/profile", profileHandler.Get)
	app.Get("/profile/analysis", profileHandler.Analyze)

	app.Get("/trends", trendsHandler.Trends)
	app.Get("/trends/suggestions", trendsHandler.Suggestions)
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
