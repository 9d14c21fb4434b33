package gateway

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"shareit/internal/config"
)

// RateLimiter answers whether one more request from the keyed caller fits
// into the configured window.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RedisLimiter counts requests per caller in a fixed redis window, so the
// limit holds across gateway replicas.
type RedisLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
}

func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

func NewRedisLimiter(client *redis.Client, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{client: client, limit: limit, window: window}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	if l.client == nil {
		return false, fmt.Errorf("redis client is nil")
	}
	redisKey := "rate_limit:" + key
	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, fmt.Errorf("failed to increment rate limit: %w", err)
	}
	if count == 1 {
		l.client.Expire(ctx, redisKey, l.window)
	}
	return count <= int64(l.limit), nil
}

// LocalLimiter keeps one token bucket per caller in process.
type LocalLimiter struct {
	limiters sync.Map
	rps      rate.Limit
	burst    int
}

func NewLocalLimiter(limit int, window time.Duration) *LocalLimiter {
	return &LocalLimiter{
		rps:   rate.Limit(float64(limit) / window.Seconds()),
		burst: limit,
	}
}

func (l *LocalLimiter) Allow(ctx context.Context, key string) (bool, error) {
	if v, ok := l.limiters.Load(key); ok {
		return v.(*rate.Limiter).Allow(), nil
	}
	lim := rate.NewLimiter(l.rps, l.burst)
	actual, _ := l.limiters.LoadOrStore(key, lim)
	return actual.(*rate.Limiter).Allow(), nil
}

// FailoverLimiter prefers the shared redis window and falls back to the
// in-process bucket when redis is unavailable.
type FailoverLimiter struct {
	primary  RateLimiter
	fallback RateLimiter
	logger   *zerolog.Logger
}

func NewFailoverLimiter(primary, fallback RateLimiter, logger *zerolog.Logger) *FailoverLimiter {
	return &FailoverLimiter{primary: primary, fallback: fallback, logger: logger}
}

func (l *FailoverLimiter) Allow(ctx context.Context, key string) (bool, error) {
	if l.primary != nil {
		ok, err := l.primary.Allow(ctx, key)
		if err == nil {
			return ok, nil
		}
		l.logger.Warn().Err(err).Msg("primary rate limiter failed, using fallback")
	}
	return l.fallback.Allow(ctx, key)
}
