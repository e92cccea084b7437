package cache

import (
	"context"
	"time"

	"dayflow-api/core/config"
	"dayflow-api/core/constants"
	"dayflow-api/core/logger"

	"github.com/redis/go-redis/v9"
)

// Cache holds the short-lived request-scoped state this core needs outside
// Postgres. Today that is only the one-time-use registry for OAuth state
// tokens.
type Cache interface {
	// RegisterOAuthState marks a state token id as issued, with expiry.
	RegisterOAuthState(ctx context.Context, jti string, ttl time.Duration) error
	// ConsumeOAuthState atomically checks and burns a state token id.
	// Returns false when the id was never issued, expired, or already used.
	ConsumeOAuthState(ctx context.Context, jti string) (bool, error)
	Close() error
}

type redisCache struct {
	client *redis.Client
}

func NewRedisCache(cfg config.RedisConfig) (Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to connect to redis", "addr", cfg.Addr, "error", err)
		return nil, err
	}

	logger.Info("Redis initialized successfully", "addr", cfg.Addr, "db", cfg.DB)
	return &redisCache{client: client}, nil
}

func (c *redisCache) RegisterOAuthState(ctx context.Context, jti string, ttl time.Duration) error {
	return c.client.Set(ctx, constants.RedisKeyOAuthState+jti, "1", ttl).Err()
}

func (c *redisCache) ConsumeOAuthState(ctx context.Context, jti string) (bool, error) {
	res, err := c.client.GetDel(ctx, constants.RedisKeyOAuthState+jti).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return res != "", nil
}

func (c *redisCache) Close() error {
	return c.client.Close()
}
