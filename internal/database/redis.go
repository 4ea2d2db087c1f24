package database

import (
	"aidirectory-backend/config"
	"context"

	"github.com/go-redis/redis/v8"
)

var (
	RedisClient *redis.Client
	Ctx         = context.Background()
)

// ConnectRedis pings the configured server. On failure RedisClient stays nil and
// callers fall back to running without cache, revocation or the contribution queue.
func ConnectRedis(cfg *config.Config) error {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisFullAddr(),
		Password: cfg.RedisPassword,
		DB:       0, // use default DB
	})

	if _, err := client.Ping(Ctx).Result(); err != nil {
		client.Close()
		RedisClient = nil
		return err
	}
	RedisClient = client
	return nil
}
