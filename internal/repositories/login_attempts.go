package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sbilibin2017/gw-storage-portal/internal/logger"
)

// LoginAttemptCacheRepository counts failed login attempts per username in Redis.
type LoginAttemptCacheRepository struct {
	client *redis.Client
	limit  int64         // failed attempts allowed inside the window
	window time.Duration // counter lifetime
}

// NewLoginAttemptCacheRepository creates a new repository instance.
func NewLoginAttemptCacheRepository(client *redis.Client, limit int64, window time.Duration) *LoginAttemptCacheRepository {
	return &LoginAttemptCacheRepository{
		client: client,
		limit:  limit,
		window: window,
	}
}

func loginAttemptKey(username string) string {
	return fmt.Sprintf("login_attempts:%s", username)
}

// Increment records one failed attempt and returns the current count.
// The expiration window starts at the first failure.
func (r *LoginAttemptCacheRepository) Increment(ctx context.Context, username string) (int64, error) {
	key := loginAttemptKey(username)

	count, err := r.client.Incr(ctx, key).Result()
	if err == nil && count == 1 {
		err = r.client.Expire(ctx, key, r.window).Err()
	}

	logger.Log.Infow(
		"key", key,
		"result", count,
		"error", err,
	)

	return count, err
}

// TooMany reports whether the username has exceeded the allowed failed attempts.
func (r *LoginAttemptCacheRepository) TooMany(ctx context.Context, username string) (bool, error) {
	key := loginAttemptKey(username)

	count, err := r.client.Get(ctx, key).Int64()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		logger.Log.Infow(
			"key", key,
			"result", count,
			"error", err,
		)
		return false, err
	}

	return count >= r.limit, nil
}

// Reset clears the failure counter after a successful login.
func (r *LoginAttemptCacheRepository) Reset(ctx context.Context, username string) error {
	key := loginAttemptKey(username)
	err := r.client.Del(ctx, key).Err()

	logger.Log.Infow(
		"key", key,
		"result", "ok",
		"error", err,
	)

	return err
}
