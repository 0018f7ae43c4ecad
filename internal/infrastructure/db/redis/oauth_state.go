package redis

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/codetutor/tutor-api/internal/core/domain"
)

const defaultStateTTL = 10 * time.Minute

// StateStore keeps OAuth state values as single-use keys.
// Key format: oauth:state:<value>
type StateStore struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewStateStore wraps a Redis client. A non-positive ttl falls back to ten minutes.
func NewStateStore(client redis.Cmdable, ttl time.Duration) *StateStore {
	if ttl <= 0 {
		ttl = defaultStateTTL
	}
	return &StateStore{client: client, ttl: ttl}
}

// Issue creates and records a fresh random state value.
func (s *StateStore) Issue(ctx context.Context) (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("oauth state: %w", err)
	}
	state := base64.RawURLEncoding.EncodeToString(buf)

	if err := s.client.Set(ctx, s.key(state), "1", s.ttl).Err(); err != nil {
		return "", fmt.Errorf("oauth state: %w", err)
	}
	return state, nil
}

// Consume deletes the state and fails unless it existed, so each value can be
// redeemed once.
func (s *StateStore) Consume(ctx context.Context, state string) error {
	if state == "" {
		return domain.ErrOAuthState
	}
	n, err := s.client.Del(ctx, s.key(state)).Result()
	if err != nil {
		return fmt.Errorf("oauth state: %w", err)
	}
	if n == 0 {
		return domain.ErrOAuthState
	}
	return nil
}

func (s *StateStore) key(state string) string {
	return "oauth:state:" + state
}
