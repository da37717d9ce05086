package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"lumora/internal/models"

	"github.com/redis/go-redis/v9"
)

// CacheService wraps the shared Redis client: read caches, distributed
// counters for the velocity limiter, and short-lived locks.
type CacheService struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCacheService(client *redis.Client, defaultTTL time.Duration) *CacheService {
	return &CacheService{
		client: client,
		ttl:    defaultTTL,
	}
}

// Client exposes the underlying redis client for components that consume
// raw counter/lock primitives.
func (s *CacheService) Client() *redis.Client {
	return s.client
}

// Base operations

func (s *CacheService) Set(ctx context.Context, key string, value interface{}) error {
	return s.SetWithTTL(ctx, key, value, s.ttl)
}

func (s *CacheService) SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	return s.client.Set(ctx, key, data, ttl).Err()
}

// Get loads a key into dest, reporting whether the key existed.
func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, fmt.Errorf("failed to get cache value: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cache value: %w", err)
	}
	return true, nil
}

func (s *CacheService) Delete(ctx context.Context, keys ...string) error {
	return s.client.Del(ctx, keys...).Err()
}

// Wallet caching

func walletKey(userID uint) string {
	return fmt.Sprintf("wallet:%d", userID)
}

func (s *CacheService) CacheWallet(ctx context.Context, wallet *models.Wallet) error {
	return s.SetWithTTL(ctx, walletKey(wallet.UserID), wallet, 5*time.Minute)
}

func (s *CacheService) GetWallet(ctx context.Context, userID uint) (*models.Wallet, error) {
	var wallet models.Wallet
	found, err := s.Get(ctx, walletKey(userID), &wallet)
	if err != nil || !found {
		return nil, redis.Nil
	}
	return &wallet, nil
}

func (s *CacheService) InvalidateWallet(ctx context.Context, userID uint) error {
	return s.Delete(ctx, walletKey(userID))
}

// Locking. AcquireLock is SET NX with a TTL so a crashed holder cannot
// wedge the key forever; ReleaseLock is best-effort.

func (s *CacheService) AcquireLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, key, 1, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire lock %s: %w", key, err)
	}
	return ok, nil
}

func (s *CacheService) ReleaseLock(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}

// FlushAll clears the whole cache. Startup-only.
func (s *CacheService) FlushAll(ctx context.Context) error {
	return s.client.FlushAll(ctx).Err()
}

func (s *CacheService) HealthCheck(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis connection failed: %w", err)
	}
	return nil
}

func (s *CacheService) Close() error {
	return s.client.Close()
}
