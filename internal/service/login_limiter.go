package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// LoginLimiter throttles repeated failed login attempts per account.
type LoginLimiter interface {
	// TooManyAttempts reports whether the account has exhausted its attempt
	// budget within the current window.
	TooManyAttempts(ctx context.Context, email string) (bool, error)

	// RecordFailure counts one failed attempt against the account.
	RecordFailure(ctx context.Context, email string) error

	// Reset clears the failure counter after a successful login.
	Reset(ctx context.Context, email string) error
}

// RedisLoginLimiter counts failed attempts in Redis with a sliding expiry.
type RedisLoginLimiter struct {
	client      *redis.Client
	maxAttempts int
	window      time.Duration
}

// NewRedisLoginLimiter creates a limiter allowing maxAttempts failures per window.
func NewRedisLoginLimiter(client *redis.Client, maxAttempts int, window time.Duration) *RedisLoginLimiter {
	return &RedisLoginLimiter{
		client:      client,
		maxAttempts: maxAttempts,
		window:      window,
	}
}

func (l *RedisLoginLimiter) key(email string) string {
	return "login_attempts:" + strings.ToLower(email)
}

// TooManyAttempts reports whether the account has exhausted its attempt budget.
func (l *RedisLoginLimiter) TooManyAttempts(ctx context.Context, email string) (bool, error) {
	count, err := l.client.Get(ctx, l.key(email)).Int()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get login attempts: %w", err)
	}
	return count >= l.maxAttempts, nil
}

// RecordFailure counts one failed attempt and refreshes the window expiry.
func (l *RedisLoginLimiter) RecordFailure(ctx context.Context, email string) error {
	key := l.key(email)

	pipe := l.client.TxPipeline()
	pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("record login failure: %w", err)
	}

	return nil
}

// Reset clears the failure counter after a successful login.
func (l *RedisLoginLimiter) Reset(ctx context.Context, email string) error {
	if err := l.client.Del(ctx, l.key(email)).Err(); err != nil {
		return fmt.Errorf("reset login attempts: %w", err)
	}
	return nil
}
