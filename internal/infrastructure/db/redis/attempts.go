package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// AttemptLimiter caps how many verification step submissions a single user id
// may make per window. Fixed-window counter, one key per user per window:
//
//	kyc:attempts:<user_id>:<window_number>
//
// The limiter protects the paid OCR / face-match provider from abuse; it is
// not a correctness mechanism (the level gate is).
type AttemptLimiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
}

// NewAttemptLimiter creates an AttemptLimiter allowing limit submissions per
// window. A non-positive window defaults to one hour.
func NewAttemptLimiter(client *redis.Client, limit int64, window time.Duration) *AttemptLimiter {
	if window <= 0 {
		window = time.Hour
	}
	return &AttemptLimiter{client: client, limit: limit, window: window}
}

// Allow reports whether this submission is within the user's budget. The
// counter is incremented on every call, so refused attempts still consume
// budget. On a Redis error the limiter fails open and returns the error for
// the caller to log.
func (l *AttemptLimiter) Allow(ctx context.Context, userID string) (bool, error) {
	key := l.key(userID)

	n, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return true, fmt.Errorf("attempt limiter: %w", err)
	}
	if n == 1 {
		// First hit in this window owns the expiry.
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			return true, fmt.Errorf("attempt limiter: %w", err)
		}
	}
	return n <= l.limit, nil
}

func (l *AttemptLimiter) key(userID string) string {
	return fmt.Sprintf("kyc:attempts:%s:%d", userID, time.Now().Unix()/int64(l.window.Seconds()))
}
