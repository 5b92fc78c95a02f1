package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/tresgarza/fincentiva-feb21-2025-sub000/pkg/loans"
	"github.com/tresgarza/fincentiva-feb21-2025-sub000/pkg/optimization"
	"go.uber.org/zap"
)

// storedPlan keeps the solver summaries that the plan's own JSON omits.
type storedPlan struct {
	loans.PaymentPlan
	PaymentSummary optimization.Summary `json:"paymentSummary"`
	IRRSummary     optimization.Summary `json:"irrSummary"`
}

// RedisCache stores plans as JSON strings with a TTL.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisCache connects to addr.
func NewRedisCache(addr, password string, db int, ttl time.Duration, logger *zap.Logger) *RedisCache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return NewRedisCacheWithClient(rdb, ttl, logger)
}

// NewRedisCacheWithClient wraps an existing client.
func NewRedisCacheWithClient(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisCache{client: client, ttl: ttl, logger: logger}
}

// Get returns cached plans. Connection and decoding failures are logged and
// reported as a miss.
func (r *RedisCache) Get(ctx context.Context, key string) ([]loans.PaymentPlan, bool) {
	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.Warn("redis get failed",
				zap.String("op", "cache.RedisCache.Get"),
				zap.String("key", key),
				zap.Error(err),
			)
		}
		return nil, false
	}

	var stored []storedPlan
	if err := json.Unmarshal([]byte(val), &stored); err != nil {
		r.logger.Warn("discarding undecodable cache entry",
			zap.String("op", "cache.RedisCache.Get"),
			zap.String("key", key),
			zap.Error(err),
		)
		return nil, false
	}

	plans := make([]loans.PaymentPlan, len(stored))
	for i, s := range stored {
		plans[i] = s.PaymentPlan
		plans[i].PaymentSummary = s.PaymentSummary
		plans[i].IRRSummary = s.IRRSummary
	}
	return plans, true
}

// Set stores plans under key with the configured TTL.
func (r *RedisCache) Set(ctx context.Context, key string, plans []loans.PaymentPlan) error {
	stored := make([]storedPlan, len(plans))
	for i, p := range plans {
		stored[i] = storedPlan{PaymentPlan: p, PaymentSummary: p.PaymentSummary, IRRSummary: p.IRRSummary}
	}

	data, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("failed to encode plans: %w", err)
	}
	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache plans: %w", err)
	}
	return nil
}

// Ping checks connectivity.
func (r *RedisCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the client.
func (r *RedisCache) Close() error {
	return r.client.Close()
}
