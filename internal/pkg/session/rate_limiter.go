// internal/pkg/session/rate_limiter.go
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	maxLoginAttempts  = 10
	loginWindow       = 15 * time.Minute
	maxResetRequests  = 3
	resetWindow       = 10 * time.Minute
)

// RateLimiter throttles login and password-reset attempts per identifier
// using Redis counters with a rolling window TTL.
type RateLimiter struct {
	client *redis.Client
}

func NewRateLimiter(client *redis.Client) *RateLimiter {
	return &RateLimiter{client: client}
}

// CheckLoginAttempt records one login attempt for ip+email and reports
// whether the caller is still under the limit.
func (r *RateLimiter) CheckLoginAttempt(ctx context.Context, ip, email string) (bool, error) {
	key := fmt.Sprintf("ratelimit:login:%s:%s", ip, email)
	return r.check(ctx, key, maxLoginAttempts, loginWindow)
}

// ResetLoginAttempts clears the counter after a successful login.
func (r *RateLimiter) ResetLoginAttempts(ctx context.Context, ip, email string) error {
	key := fmt.Sprintf("ratelimit:login:%s:%s", ip, email)
	return r.client.Del(ctx, key).Err()
}

// CheckPasswordResetAttempt records one reset-code request for email.
func (r *RateLimiter) CheckPasswordResetAttempt(ctx context.Context, email string) (bool, error) {
	key := fmt.Sprintf("ratelimit:pwreset:%s", email)
	return r.check(ctx, key, maxResetRequests, resetWindow)
}

func (r *RateLimiter) check(ctx context.Context, key string, max int64, window time.Duration) (bool, error) {
	count, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("rate limiter: %w", err)
	}
	if count == 1 {
		if err := r.client.Expire(ctx, key, window).Err(); err != nil {
			return false, fmt.Errorf("rate limiter: %w", err)
		}
	}
	return count <= max, nil
}
