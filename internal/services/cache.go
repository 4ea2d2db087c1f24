package services

import (
	"aidirectory-backend/internal/database"
	"aidirectory-backend/pkg/logger"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// The helpers below treat Redis as optional: with no client configured every
// lookup misses and every write is skipped.

func cacheGet(key string, dest interface{}) bool {
	if database.RedisClient == nil {
		return false
	}
	val, err := database.RedisClient.Get(database.Ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			logger.Log.Warn("Cache read failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal([]byte(val), dest); err != nil {
		logger.Log.Warn("Discarding undecodable cache entry", zap.String("key", key), zap.Error(err))
		database.RedisClient.Del(database.Ctx, key)
		return false
	}
	return true
}

func cacheSet(key string, value interface{}, ttl time.Duration) {
	if database.RedisClient == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := database.RedisClient.Set(database.Ctx, key, data, ttl).Err(); err != nil {
		logger.Log.Warn("Cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func cacheDel(keys ...string) {
	if database.RedisClient == nil || len(keys) == 0 {
		return
	}
	if err := database.RedisClient.Del(database.Ctx, keys...).Err(); err != nil {
		logger.Log.Warn("Cache invalidation failed", zap.Strings("keys", keys), zap.Error(err))
	}
}
