// Package velocity enforces per-sender spend-rate caps. Gifting is a
// classic value-laundering vector, so checks run before any wallet or
// ledger mutation and the limiter fails closed when Redis is down.
package velocity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrLimitExceeded means the sender blew a spend cap. Retry only after
// the window cools down.
var ErrLimitExceeded = errors.New("spend velocity limit exceeded")

// Config holds the two sliding-window ceilings, in coins.
type Config struct {
	PerSecondLimit int64
	PerHourLimit   int64
}

// DefaultConfig matches the platform's abuse thresholds.
func DefaultConfig() Config {
	return Config{
		PerSecondLimit: 5_000,
		PerHourLimit:   1_000_000,
	}
}

// Limiter checks and consumes spend budget for a sender.
type Limiter interface {
	// CheckAndConsume increments both window counters by amount, then
	// enforces the ceilings. Increments wasted by a later validation
	// failure are accepted; there is no decrement path.
	CheckAndConsume(ctx context.Context, senderID uint, amount int64) error
}

type limiter struct {
	client *redis.Client
	config Config
}

// NewLimiter creates a Redis-backed velocity limiter.
func NewLimiter(client *redis.Client, config Config) Limiter {
	if client == nil {
		panic("redis client is required")
	}
	if config.PerSecondLimit <= 0 || config.PerHourLimit <= 0 {
		config = DefaultConfig()
	}
	return &limiter{client: client, config: config}
}

func (l *limiter) CheckAndConsume(ctx context.Context, senderID uint, amount int64) error {
	now := time.Now().UTC()

	secTotal, err := l.bump(ctx, secondKey(senderID, now), amount, 2*time.Second)
	if err != nil {
		// Fail closed: an unreachable counter service blocks spending
		// rather than disabling the abuse control.
		return fmt.Errorf("velocity counter unavailable: %w", err)
	}
	hourTotal, err := l.bump(ctx, hourKey(senderID, now), amount, 2*time.Hour)
	if err != nil {
		return fmt.Errorf("velocity counter unavailable: %w", err)
	}

	if secTotal > l.config.PerSecondLimit || hourTotal > l.config.PerHourLimit {
		return ErrLimitExceeded
	}
	return nil
}

// bump INCRBYs the bucket and stamps the expiry on first increment.
func (l *limiter) bump(ctx context.Context, key string, amount int64, expiry time.Duration) (int64, error) {
	total, err := l.client.IncrBy(ctx, key, amount).Result()
	if err != nil {
		return 0, err
	}
	if total == amount {
		if err := l.client.Expire(ctx, key, expiry).Err(); err != nil {
			return 0, err
		}
	}
	return total, nil
}

func secondKey(senderID uint, now time.Time) string {
	return fmt.Sprintf("velocity:sec:%d:%d", senderID, now.Unix())
}

func hourKey(senderID uint, now time.Time) string {
	return fmt.Sprintf("velocity:hour:%d:%d", senderID, now.Unix()/3600)
}
