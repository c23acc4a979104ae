// internal/pkg/session/reset_store.go
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const resetCodeTTL = 2 * time.Minute

// ResetStore keeps password-reset codes in Redis. A code lives for two
// minutes, is bound to one email, and is consumed on first successful
// verification. Issuing a new code replaces any outstanding one.
type ResetStore struct {
	client *redis.Client
}

func NewResetStore(client *redis.Client) *ResetStore {
	return &ResetStore{client: client}
}

func (s *ResetStore) resetKey(email string) string {
	return fmt.Sprintf("pwreset:code:%s", email)
}

// SaveCode stores code for email, replacing any previous code.
func (s *ResetStore) SaveCode(ctx context.Context, email, code string) error {
	if err := s.client.Set(ctx, s.resetKey(email), code, resetCodeTTL).Err(); err != nil {
		return fmt.Errorf("failed to store reset code: %w", err)
	}
	return nil
}

// ConsumeCode checks code against the stored value for email and deletes
// it on match, so a code can only be used once.
func (s *ResetStore) ConsumeCode(ctx context.Context, email, code string) (bool, error) {
	key := s.resetKey(email)

	stored, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read reset code: %w", err)
	}
	if stored != code {
		return false, nil
	}

	if err := s.client.Del(ctx, key).Err(); err != nil {
		return false, fmt.Errorf("failed to consume reset code: %w", err)
	}
	return true, nil
}
