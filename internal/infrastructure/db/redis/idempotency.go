package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hbnb-clone/hbnb-api/internal/core/domain"
)

const idempotencyTTL = 24 * time.Hour

// IdempotencyStore maps create request keys to the id of the object they
// produced. Key format: idem:<Kind>:<key>
type IdempotencyStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewIdempotencyStore creates an IdempotencyStore wrapping the given client.
func NewIdempotencyStore(client *redis.Client) *IdempotencyStore {
	return &IdempotencyStore{client: client, ttl: idempotencyTTL}
}

// Lookup returns the recorded id, or "" when the key is unknown or expired.
func (s *IdempotencyStore) Lookup(ctx context.Context, kind domain.Kind, key string) (string, error) {
	id, err := s.client.Get(ctx, s.key(kind, key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("idempotency lookup: %w", err)
	}
	return id, nil
}

// Remember records id for key unless another request already claimed it.
func (s *IdempotencyStore) Remember(ctx context.Context, kind domain.Kind, key, id string) error {
	if err := s.client.SetNX(ctx, s.key(kind, key), id, s.ttl).Err(); err != nil {
		return fmt.Errorf("idempotency remember: %w", err)
	}
	return nil
}

func (s *IdempotencyStore) key(kind domain.Kind, key string) string {
	return fmt.Sprintf("idem:%s:%s", kind, key)
}
