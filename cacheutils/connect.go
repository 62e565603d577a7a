package cacheutils

import (
	"context"
	"crypto/tls"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/utpal74/ai-task-scheduler/config"
	"github.com/utpal74/ai-task-scheduler/logger"
	"go.uber.org/zap"
)

// Connect returns a valid connection with the redis instance named by cfg.URL.
// In production the URL is parsed as a redis:// or rediss:// URL and TLS is enabled.
func Connect(ctx context.Context, cfg config.RedisConfig, production bool) (*redis.Client, error) {
	logger := logger.FromCtx(ctx)

	opt, err := redis.ParseURL(cfg.URL)
	if err != nil {
		// plain host:port, recommended in local development setup
		opt = &redis.Options{Addr: cfg.URL, DB: 0}
	}

	if production {
		logger.Info("Attempt redis connection in production mode")
		opt.TLSConfig = &tls.Config{
			ServerName: cfg.ServerName,
			MinVersion: tls.VersionTLS12,
		}
	}
	client := redis.NewClient(opt)

	logger.Info("Redis client initialized",
		zap.String("Addr", opt.Addr),
		zap.Bool("TLS", opt.TLSConfig != nil),
	)

	pong, err := client.Ping(ctx).Result()
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("error connecting to Redis: %w", err)
	}

	logger.Info("got response from redis client", zap.String("ping", pong))
	return client, nil
}
