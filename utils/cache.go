package utils

import (
	"context"
	"sync"
	"time"

	"lefri/config"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

var (
	// CacheClient backs the constitution cache and conversation context.
	CacheClient *redis.Client
	// AuthCacheClient holds revoked app tokens.
	AuthCacheClient *redis.Client

	cacheOnce sync.Once
	authOnce  sync.Once
)

// newRedis dials the configured Redis DB. A missing address or a failed ping
// returns nil so callers fall back to in-process state.
func newRedis(db int, name string) *redis.Client {
	addr := config.AppConfig.RedisAddr
	if addr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: config.AppConfig.RedisPassword,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		GetLogger().Warn("Redis unavailable, continuing without it",
			zap.String("client", name), zap.Error(err))
		_ = client.Close()
		return nil
	}
	return client
}

// GetCacheClient returns the generic cache client, or nil when Redis is not configured.
func GetCacheClient() *redis.Client {
	cacheOnce.Do(func() {
		CacheClient = newRedis(config.AppConfig.RedisCacheDB, "cache")
	})
	return CacheClient
}

// GetAuthCacheClient returns the Redis client for token revocation, or nil.
func GetAuthCacheClient() *redis.Client {
	authOnce.Do(func() {
		AuthCacheClient = newRedis(config.AppConfig.RedisAuthDB, "auth")
	})
	return AuthCacheClient
}

// CloseCaches releases any open Redis connections.
func CloseCaches() {
	for _, c := range []*redis.Client{CacheClient, AuthCacheClient} {
		if c != nil {
			_ = c.Close()
		}
	}
}
