package database

import (
	"context"

	"github.com/go-redis/redis/v8"
	"github.com/ruralpay/webbank/internal/config"
	"github.com/sirupsen/logrus"
)

// InitRedis initializes the Redis client. It returns nil when Redis is
// unreachable and the service runs without cross-instance locks or token revocation.
func InitRedis(cfg config.RedisConfig) *redis.Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx := context.Background()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logrus.Warnf("Redis connection failed, continuing without Redis: %v", err)
		rdb.Close()
		return nil
	}

	logrus.WithField("addr", cfg.Addr()).Info("Redis connection established")
	return rdb
}
