package velocity

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiter_CheckAndConsume(t *testing.T) {
	ctx := context.Background()
	cfg := Config{PerSecondLimit: 5_000, PerHourLimit: 1_000_000}

	t.Run("allows spend under both ceilings", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		mock.Regexp().ExpectIncrBy(`velocity:sec:1:\d+`, 100).SetVal(100)
		mock.Regexp().ExpectExpire(`velocity:sec:1:\d+`, 2*time.Second).SetVal(true)
		mock.Regexp().ExpectIncrBy(`velocity:hour:1:\d+`, 100).SetVal(100)
		mock.Regexp().ExpectExpire(`velocity:hour:1:\d+`, 2*time.Hour).SetVal(true)

		err := NewLimiter(client, cfg).CheckAndConsume(ctx, 1, 100)
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects when the second bucket overflows", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		mock.Regexp().ExpectIncrBy(`velocity:sec:1:\d+`, 200).SetVal(5_100)
		mock.Regexp().ExpectIncrBy(`velocity:hour:1:\d+`, 200).SetVal(9_000)

		err := NewLimiter(client, cfg).CheckAndConsume(ctx, 1, 200)
		assert.ErrorIs(t, err, ErrLimitExceeded)
	})

	t.Run("rejects when the hour bucket overflows", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		mock.Regexp().ExpectIncrBy(`velocity:sec:1:\d+`, 200).SetVal(200)
		mock.Regexp().ExpectExpire(`velocity:sec:1:\d+`, 2*time.Second).SetVal(true)
		mock.Regexp().ExpectIncrBy(`velocity:hour:1:\d+`, 200).SetVal(1_000_200)

		err := NewLimiter(client, cfg).CheckAndConsume(ctx, 1, 200)
		assert.ErrorIs(t, err, ErrLimitExceeded)
	})

	t.Run("fails closed when redis is unavailable", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		mock.Regexp().ExpectIncrBy(`velocity:sec:1:\d+`, 50).SetErr(assert.AnError)

		err := NewLimiter(client, cfg).CheckAndConsume(ctx, 1, 50)
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrLimitExceeded)
	})
}
