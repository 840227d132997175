package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"mvphrm/internal/config"
	"mvphrm/internal/logship"
	"mvphrm/internal/queue"
	"mvphrm/internal/store"
)

// Worker drains forwarded log entries from the redis queue and posts them to
// the log sink. With QUEUE_BACKEND=memory the web process ships its own logs
// and this worker has nothing to do.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		logger = zap.NewExample()
	}
	defer func() { _ = logger.Sync() }()

	if cfg.QueueBackend != "redis" {
		logger.Fatal("worker requires QUEUE_BACKEND=redis", zap.String("queue_backend", cfg.QueueBackend))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("shutdown signal received")
		cancel()
	}()

	redisClient := store.NewRedis(cfg.RedisAddr)
	defer func() { _ = redisClient.Close() }()
	if !redisClient.Healthy(ctx) {
		logger.Warn("redis not reachable, consumer will keep retrying", zap.String("addr", cfg.RedisAddr))
	}

	q := queue.NewRedisQueue(redisClient.Client, queue.DefaultRedisKey)
	shipper := logship.NewShipper(cfg.LogSinkURL, logger)
	if err := shipper.Run(ctx, q); err != nil {
		logger.Fatal("log shipper failed", zap.Error(err))
	}
	logger.Info("worker stopped")
}
