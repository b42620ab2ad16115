package common

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"flightops/aerodata/internal/config"
	"flightops/aerodata/internal/logging"
)

// NewRedisClient connects to the rate limiter's backing store. A failed ping
// is logged but the client is still returned, the pool reconnects on its own.
func NewRedisClient(cfg *config.Config) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr(),
		Password:     cfg.RedisPassword,
		DB:           0,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logging.Warn("Failed to ping Redis, continuing without it", "addr", cfg.RedisAddr(), "error", err.Error())
		return client
	}

	logging.Info("Connected to Redis", "addr", cfg.RedisAddr())
	return client
}
