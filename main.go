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

	"github.com/aws/aws-xray-sdk-go/xray"
	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/Eursukkul/room-booking-service/config"
	"github.com/Eursukkul/room-booking-service/internal/cache"
	"github.com/Eursukkul/room-booking-service/internal/client"
	"github.com/Eursukkul/room-booking-service/internal/consumer"
	"github.com/Eursukkul/room-booking-service/internal/events"
	"github.com/Eursukkul/room-booking-service/internal/handler"
	"github.com/Eursukkul/room-booking-service/internal/middleware"
	"github.com/Eursukkul/room-booking-service/internal/repository"
	"github.com/Eursukkul/room-booking-service/internal/service"
	"github.com/Eursukkul/room-booking-service/pkg/database"
	"github.com/Eursukkul/room-booking-service/pkg/logger"
	"github.com/Eursukkul/room-booking-service/pkg/metrics"
	"github.com/Eursukkul/room-booking-service/pkg/rabbitmq"
	redisclient "github.com/Eursukkul/room-booking-service/pkg/redis"
)

const serviceName = "booking-service"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	logger.Set(logger.NewLogger(cfg.AppEnv))
	defer logger.Sync()

	m := metrics.New()

	if cfg.TracingEnabled {
		if err := xray.Configure(xray.Config{DaemonAddr: cfg.TracingDaemon, ServiceVersion: "1.0.0"}); err != nil {
			logger.Fatal("failed to configure tracing", zap.Error(err))
		}
	}

	// Database
	db, err := database.NewPostgresDB(cfg.DSN())
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("failed to get database handle", zap.Error(err))
	}
	defer sqlDB.Close()

	if err := database.RunMigrations(sqlDB, cfg.MigrationsPath); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	// RabbitMQ
	publisher, err := rabbitmq.NewPublisher(cfg.RabbitURL)
	if err != nil {
		logger.Fatal("failed to connect publisher to RabbitMQ", zap.Error(err))
	}
	defer publisher.Close()

	mqConsumer, err := rabbitmq.NewConsumer(cfg.RabbitURL)
	if err != nil {
		logger.Fatal("failed to connect consumer to RabbitMQ", zap.Error(err))
	}
	defer mqConsumer.Close()

	// Directory clients, one breaker per downstream service
	httpClient := client.NewHTTPClient(cfg.TracingEnabled)
	rooms := client.NewRoomClient(cfg.RoomsServiceURL, httpClient, client.NewBreaker("Rooms", cfg.Breaker, m))
	userClient := client.NewUserClient(cfg.UsersServiceURL, httpClient, client.NewBreaker("Users", cfg.Breaker, m))

	var users service.UserDirectory = userClient
	if cfg.RedisAddr != "" {
		rdb := redisclient.NewClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		defer rdb.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := redisclient.Ping(pingCtx, rdb); err != nil {
			logger.Warn("redis unavailable, user lookups fall back to the directory", zap.Error(err))
		}
		cancel()
		users = cache.NewCachedUsers(userClient, cache.NewUserCache(rdb, cfg.UserCacheTTL))
	}

	// Service
	bookingRepo := repository.NewBookingRepository(db)
	emitter := events.NewEmitter(publisher, m)
	bookingSvc := service.NewBookingService(bookingRepo, rooms, users, emitter, m)

	// Receipt consumer
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	msgs, err := mqConsumer.Consume(ctx)
	if err != nil {
		logger.Fatal("failed to start consuming", zap.Error(err))
	}
	consumerDone := consumer.NewReceiptConsumer(bookingSvc, m).Start(ctx, msgs)

	// Echo
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = middleware.ErrorHandler
	e.Validator = middleware.NewValidator()
	if cfg.TracingEnabled {
		e.Use(middleware.Tracing(serviceName))
	}
	e.Use(echoMw.RequestID())
	e.Use(middleware.RequestLogger())
	e.Use(middleware.Prometheus(m))
	e.Use(echoMw.Recover())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok", "service": serviceName})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()), middleware.MetricsBasicAuth(cfg.MetricsUser, cfg.MetricsPassword))

	handler.NewBookingHandler(bookingSvc).RegisterRoutes(e)

	go func() {
		logger.Info("booking service starting", zap.String("port", cfg.ServerPort))
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	failed := false
	if err := awaitStop(ctx, consumerDone, publisher.NotifyClose(), mqConsumer.NotifyClose()); err != nil {
		logger.Error("broker link lost, shutting down for restart", zap.Error(err))
		failed = true
		stop()
	}
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}

	select {
	case <-consumerDone:
	case <-shutdownCtx.Done():
		logger.Warn("consumer did not stop before deadline")
	}
	logger.Info("shutdown complete")

	if failed {
		logger.Sync()
		os.Exit(1)
	}
}

// awaitStop blocks until a shutdown signal or until the receipt consumer or
// either broker connection dies.
func awaitStop(ctx context.Context, consumerDone <-chan struct{}, publisherClosed, consumerClosed <-chan *amqp.Error) error {
	select {
	case <-ctx.Done():
		return nil
	case <-consumerDone:
		if ctx.Err() != nil {
			return nil
		}
		return errors.New("receipt consumer stopped")
	case err := <-publisherClosed:
		return fmt.Errorf("publisher connection closed: %v", err)
	case err := <-consumerClosed:
		return fmt.Errorf("consumer connection closed: %v", err)
	}
}
