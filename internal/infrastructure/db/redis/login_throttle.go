package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// LoginThrottle counts failed logins per email in Redis and refuses further
// attempts once the limit is reached inside the window.
// Key format: login:fail:<email>
type LoginThrottle struct {
	client      *redis.Client
	maxAttempts int
	window      time.Duration
}

// NewLoginThrottle wraps the given client. A non-positive maxAttempts
// disables throttling.
func NewLoginThrottle(client *redis.Client, maxAttempts int, window time.Duration) *LoginThrottle {
	return &LoginThrottle{client: client, maxAttempts: maxAttempts, window: window}
}

// Allow reports whether another login attempt is permitted for email.
func (l *LoginThrottle) Allow(ctx context.Context, email string) (bool, error) {
	if l.maxAttempts <= 0 {
		return true, nil
	}

	val, err := l.client.Get(ctx, failureKey(email)).Result()
	if errors.Is(err, redis.Nil) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("login throttle get: %w", err)
	}

	n, err := strconv.Atoi(val)
	if err != nil {
		return false, fmt.Errorf("login throttle parse %q: %w", val, err)
	}
	return n < l.maxAttempts, nil
}

// RecordFailure increments the failure counter. The window starts on the
// first failure and is not extended by later ones.
func (l *LoginThrottle) RecordFailure(ctx context.Context, email string) error {
	key := failureKey(email)
	pipe := l.client.TxPipeline()
	pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("login throttle record: %w", err)
	}
	return nil
}

// Reset clears the failure counter after a successful login.
func (l *LoginThrottle) Reset(ctx context.Context, email string) error {
	if err := l.client.Del(ctx, failureKey(email)).Err(); err != nil {
		return fmt.Errorf("login throttle reset: %w", err)
	}
	return nil
}

func failureKey(email string) string {
	return "login:fail:" + email
}
