package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/tair/mini-erp/internal/app"
	"github.com/tair/mini-erp/kafka"
	"github.com/tair/mini-erp/pkg/cache"
	"github.com/tair/mini-erp/pkg/config"
	"github.com/tair/mini-erp/pkg/database"
	"github.com/tair/mini-erp/pkg/health"
	"github.com/tair/mini-erp/pkg/logger"
	"github.com/tair/mini-erp/pkg/tracing"
)

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize logger
	logger.Init(cfg.ServiceName, cfg.Version, cfg.IsDevelopment())
	logger.SetLevel(cfg.LogLevel)

	logger.Logger.Info().
		Str("environment", cfg.Environment).
		Str("log_level", cfg.LogLevel).
		Str("supplier_store", cfg.SupplierStore).
		Msg("Starting ERP service")

	tp, err := tracing.InitTracer(cfg.ServiceName, cfg.Version, cfg.Tracing)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize tracer")
	}

	// Connect to database
	db, err := database.NewGormConnection(cfg.Database)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to get database instance")
	}
	defer sqlDB.Close()

	if err := app.Migrate(db); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to run migrations")
	}
	logger.Logger.Info().Msg("Database initialized successfully")

	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	publisher := newPublisher(cfg.Kafka)
	defer publisher.Close()

	// Initialize API with Wire DI
	api, err := app.InitializeAPI(db, cfg, redisClient, publisher, prometheus.DefaultRegisterer)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize API")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer := startStockAlerts(ctx, cfg.Kafka, api.StockAlerts)
	if consumer != nil {
		defer consumer.Close()
	}

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           api.Router(cfg.ServiceName, newHealthChecker(cfg, db, redisClient, publisher)),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Logger.Info().
			Str("port", cfg.HTTPPort).
			Str("metrics_endpoint", "/metrics").
			Str("swagger", "/swagger/index.html").
			Msg("HTTP server started")

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Logger.Fatal().Err(err).Msg("Failed to start HTTP server")
		}
	}()

	<-ctx.Done()
	logger.Logger.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Logger.Error().Err(err).Msg("HTTP server shutdown failed")
	}
	if err := tracing.Shutdown(shutdownCtx, tp); err != nil {
		logger.Logger.Error().Err(err).Msg("Tracer shutdown failed")
	}
}

func newPublisher(cfg config.KafkaConfig) kafka.EventPublisher {
	if !cfg.Enabled() {
		logger.Logger.Info().Msg("Kafka not configured, purchase order events disabled")
		return kafka.NoopPublisher{}
	}

	publisher, err := kafka.NewPublisher(cfg.Brokers)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to create Kafka publisher")
	}
	return kafka.NewBreakingPublisher(publisher, 5, 30*time.Second)
}

func startStockAlerts(ctx context.Context, cfg config.KafkaConfig, alerter *app.StockAlerter) *kafka.Consumer {
	if !cfg.Enabled() {
		return nil
	}

	consumer, err := kafka.NewConsumer(cfg.Brokers, cfg.ConsumerGroup, []string{kafka.TopicPurchaseOrders})
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to create Kafka consumer, stock alerts disabled")
		return nil
	}
	consumer.RegisterHandler(kafka.EventTypeOrderConfirmed, alerter.HandleOrderConfirmed)

	if err := consumer.Start(ctx); err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to start Kafka consumer")
	}
	return consumer
}

func newHealthChecker(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, publisher kafka.EventPublisher) *health.Checker {
	checker := health.NewChecker(cfg.ServiceName, cfg.Version)
	checker.Register("database", true, func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	})
	if redisClient != nil {
		checker.Register("redis", false, func(ctx context.Context) error {
			return cache.Ping(ctx, redisClient)
		})
	}
	if breaker, ok := publisher.(*kafka.BreakingPublisher); ok {
		checker.Register("kafka", false, breaker.Healthy)
	}
	return checker
}
