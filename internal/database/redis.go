package database

import (
	"context"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"quote-pipeline-api/internal/config"
)

var redisClient *redis.Client

// InitRedis connects the shared redis client used for board read caching.
// A redis:// URL takes precedence over the addr/password pair.
func InitRedis(cfg config.RedisConfig, log *zap.Logger) error {
	var client *redis.Client

	if cfg.URL != "" {
		opts, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return err
		}
		client = redis.NewClient(opts)
	} else {
		client = redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		})
	}

	if err := client.Ping(context.Background()).Err(); err != nil {
		return err
	}

	redisClient = client
	log.Info("Redis connection established",
		zap.String("addr", cfg.Addr),
		zap.Int("db", cfg.DB),
	)
	return nil
}

// GetRedis returns the shared redis client. Returns nil when redis was
// never initialized so callers can degrade to the database.
func GetRedis() *redis.Client {
	return redisClient
}
