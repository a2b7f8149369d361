package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"github.com/txninsight/txn-insight-backend/internal/api/rest"
	"github.com/txninsight/txn-insight-backend/internal/infrastructure/config"
	"github.com/txninsight/txn-insight-backend/internal/infrastructure/telemetry"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.LoadWithPath(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := telemetry.SetupLogger(cfg.LogLevel)

	server, err := rest.NewServer(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("starting",
		"version", cfg.Version,
		"environment", cfg.Environment,
		"port", cfg.Server.Port,
	)

	if err := server.Start(ctx); err != nil {
		logger.Error("server error", "error", err)
		stop()
		log.Fatalf("Server error: %v", err)
	}
}
