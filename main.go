package main

import (
	"context"
	"fmt"
	"inventory/domain"
	"inventory/infra/rabbitmq"
	"inventory/internal/server"
	"inventory/internal/storage"
	"inventory/pkg/aws"
	"inventory/pkg/config"
	"inventory/pkg/events"
	"inventory/pkg/logger"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func main() {
	log := logger.Init()
	defer log.Sync()

	appConfig := config.Read()
	zap.L().Info("app starting...", zap.String("service", appConfig.ServiceName))

	policy, ok := domain.ParseDeletePolicy(appConfig.CategoryDeletePolicy)
	if !ok {
		zap.L().Fatal("Invalid CATEGORY_DELETE_POLICY", zap.String("value", appConfig.CategoryDeletePolicy))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	store, err := storage.Open(ctx, appConfig)
	cancel()
	if err != nil {
		zap.L().Fatal("Failed to open storage", zap.Error(err))
	}
	defer store.Close()

	var publisher events.Publisher
	if appConfig.RabbitMQURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		p, err := rabbitmq.NewPublisher(ctx, appConfig.RabbitMQURL, appConfig.ServiceName)
		cancel()
		if err != nil {
			zap.L().Fatal("Failed to connect event publisher", zap.Error(err))
		}
		defer p.Close()
		publisher = p
	} else {
		zap.L().Info("RABBITMQ_URL is empty, catalog events are not published")
	}

	var sessions fiber.Storage
	if appConfig.SessionStorage == "s3" {
		s3 := aws.NewSessionStorage(appConfig)
		defer s3.Close()
		sessions = s3
	}

	app := server.New(server.Config{
		CategoryDeletePolicy:   policy,
		RequireIdentityHeaders: appConfig.RequireIdentityHeaders,
		CookieSecure:           appConfig.CookieSecure,
		SessionStorage:         sessions,
	}, store, publisher)

	go func() {
		if err := app.Listen(fmt.Sprintf("0.0.0.0:%s", appConfig.Port)); err != nil {
			zap.L().Error("Failed to start server", zap.Error(err))
			os.Exit(1)
		}
	}()

	zap.L().Info("Server started on port",
		zap.String("port", appConfig.Port),
		zap.String("storage", appConfig.StorageDriver),
		zap.String("deletePolicy", string(policy)),
	)

	gracefulShutdown(app)
}

func gracefulShutdown(app *fiber.App) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	zap.L().Info("Shutting down server...")

	if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
		zap.L().Error("Error during server shutdown", zap.Error(err))
	}

	zap.L().Info("Server gracefully stopped")
}
