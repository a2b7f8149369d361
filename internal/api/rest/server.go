package rest

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/txninsight/txn-insight-backend/internal/infrastructure/config"
	"github.com/txninsight/txn-insight-backend/internal/infrastructure/mlmodel"
	"github.com/txninsight/txn-insight-backend/internal/service/anomaly"
	"github.com/txninsight/txn-insight-backend/internal/service/ingest"
	"github.com/txninsight/txn-insight-backend/internal/service/logparse"
	"github.com/txninsight/txn-insight-backend/internal/service/preprocess"
)

// Server is the HTTP front of the analysis pipeline.
type Server struct {
	config     *config.Config
	logger     *slog.Logger
	httpServer *http.Server
}

// NewServer wires services, middleware, and routes from config.
func NewServer(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var modelClient anomaly.ModelClient
	if cfg.Scorer.ModelURL != "" {
		modelClient = mlmodel.NewClient(cfg.Scorer.ModelURL, cfg.Scorer.Timeout)
	}

	services := &Services{
		Ingest:     ingest.NewService(logger),
		Preprocess: preprocess.NewService(logger),
		Anomaly:    anomaly.NewService(modelClient, logger),
		Logs:       logparse.NewService(logger),
	}

	handler := NewHandler(services, logger, cfg.Version)

	middlewares := []Middleware{
		requestIDMiddleware,
		loggingMiddleware(logger),
		recoveryMiddleware(logger),
		corsMiddleware,
	}
	if cfg.RateLimit.Enabled {
		middlewares = append(middlewares, rateLimitMiddleware(buildRateLimiter(cfg, logger)))
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      Chain(NewRouter(handler), middlewares...),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return &Server{
		config:     cfg,
		logger:     logger,
		httpServer: httpServer,
	}, nil
}

// buildRateLimiter prefers the distributed limiter when Redis is
// configured and reachable.
func buildRateLimiter(cfg *config.Config, logger *slog.Logger) RateLimiter {
	if cfg.Redis.URL != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.URL,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err == nil {
			return NewRedisRateLimiter(client, cfg.RateLimit.RequestsPerSecond)
		}
		logger.Warn("redis unreachable, falling back to local rate limiting", "addr", cfg.Redis.URL)
	}
	return NewLocalRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.BurstSize)
}

// Start serves until ctx is canceled, then drains within the configured
// shutdown timeout.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server starting", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
	defer cancel()

	s.logger.Info("http server shutting down")
	return s.httpServer.Shutdown(shutdownCtx)
}
