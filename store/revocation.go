package store

import (
	"context"
	"sync"
	"time"

	"clientconnect-backend/models"

	"github.com/redis/go-redis/v9"
)

const revokedKeyPrefix = "revoked:"

// MemoryRevocationStore tracks revoked token ids in process memory. Entries
// are dropped lazily once their token would have expired anyway.
type MemoryRevocationStore struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	now     func() time.Time
}

// NewMemoryRevocationStore constructs an empty revocation list.
func NewMemoryRevocationStore() *MemoryRevocationStore {
	return &MemoryRevocationStore{
		revoked: make(map[string]time.Time),
		now:     time.Now,
	}
}

func (s *MemoryRevocationStore) Revoke(_ context.Context, jti string, until time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[jti] = until
	return nil
}

func (s *MemoryRevocationStore) IsRevoked(_ context.Context, jti string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	until, ok := s.revoked[jti]
	if !ok {
		return false, nil
	}
	if !s.now().Before(until) {
		delete(s.revoked, jti)
		return false, nil
	}
	return true, nil
}

// RedisRevocationStore keeps one key per revoked token id with a TTL equal to
// the token's remaining lifetime, so revocations are shared across replicas.
type RedisRevocationStore struct {
	client *redis.Client
}

// NewRedisRevocationStore wraps a connected redis client.
func NewRedisRevocationStore(client *redis.Client) *RedisRevocationStore {
	return &RedisRevocationStore{client: client}
}

func (s *RedisRevocationStore) Revoke(ctx context.Context, jti string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, revokedKeyPrefix+jti, 1, ttl).Err(); err != nil {
		return models.ErrStorageWithCause("failed to revoke token", err)
	}
	return nil
}

func (s *RedisRevocationStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := s.client.Exists(ctx, revokedKeyPrefix+jti).Result()
	if err != nil {
		return false, models.ErrStorageWithCause("failed to check token revocation", err)
	}
	return n > 0, nil
}
