// Package cache provides the redis-backed account cache.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"bancor/internal/models"
)

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

func NewRedisClient(cfg *RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// AccountCache is a cache-aside store for account reads. Balance mutations
// invalidate rather than update, so the database stays the source of truth.
type AccountCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewAccountCache(client *redis.Client, ttl time.Duration) *AccountCache {
	return &AccountCache{client: client, ttl: ttl}
}

// ErrCacheMiss is returned when no entry exists for the key.
var ErrCacheMiss = redis.Nil

func (c *AccountCache) GetAccount(ctx context.Context, id uint) (*models.Account, error) {
	val, err := c.client.Get(ctx, accountKey(id)).Bytes()
	if err != nil {
		return nil, err
	}
	var account models.Account
	if err := json.Unmarshal(val, &account); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached account: %w", err)
	}
	return &account, nil
}

func (c *AccountCache) SetAccount(ctx context.Context, account *models.Account) error {
	data, err := json.Marshal(account)
	if err != nil {
		return fmt.Errorf("failed to marshal account: %w", err)
	}
	return c.client.Set(ctx, accountKey(account.ID), data, c.ttl).Err()
}

func (c *AccountCache) InvalidateAccounts(ctx context.Context, ids ...uint) error {
	if len(ids) == 0 {
		return nil
	}
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, accountKey(id))
	}
	return c.client.Del(ctx, keys...).Err()
}

func (c *AccountCache) HealthCheck(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis connection failed: %w", err)
	}
	return nil
}

func accountKey(id uint) string {
	return fmt.Sprintf("account:%d", id)
}
