package main

import (
	"context"
	"inventory/infra/grpc"
	"inventory/internal/storage"
	"inventory/pkg/config"
	"inventory/pkg/logger"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

func main() {
	log := logger.Init()
	defer log.Sync()

	zap.L().Info("Inventory gRPC Service starting...")

	appConfig := config.Read()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	store, err := storage.Open(ctx, appConfig)
	cancel()
	if err != nil {
		zap.L().Error("failed to open storage", zap.Error(err))
		os.Exit(1)
	}
	defer store.Close()

	grpcServer, err := grpc.NewServer(appConfig.GRPCPort)
	if err != nil {
		zap.L().Error("failed to create grpc server", zap.Error(err))
		os.Exit(1)
	}

	grpcServer.RegisterCatalog(grpc.NewCatalogService(store, store))

	zap.L().Info("starting gRPC server...", zap.String("port", appConfig.GRPCPort))
	go func() {
		if err := grpcServer.Start(); err != nil {
			zap.L().Error("failed to start grpc server", zap.Error(err))
			os.Exit(1)
		}
	}()

	gracefulShutdown(grpcServer)
}

func gracefulShutdown(grpcServer *grpc.Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	zap.L().Info("Shutting down server...")

	if err := grpcServer.GracefulStop(); err != nil {
		zap.L().Error("Error during server shutdown", zap.Error(err))
	}

	zap.L().Info("Server gracefully stopped")
}
