package repository

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/course-service/internal/auth"
)

const revokedKeyPrefix = "revoked:"

// RedisRevocationStore keeps revoked credentials as Redis keys that expire together with
// the credential.
type RedisRevocationStore struct {
	client redis.Cmdable
	now    func() time.Time
}

// NewRedisRevocationStore constructs the store.
func NewRedisRevocationStore(client redis.Cmdable) *RedisRevocationStore {
	return &RedisRevocationStore{client: client, now: time.Now}
}

func (s *RedisRevocationStore) Record(ctx context.Context, raw, subjectID string, expiresAt time.Time) error {
	return s.client.SetNX(ctx, revokedKey(raw), subjectID, revocationTTL(s.now(), expiresAt)).Err()
}

func (s *RedisRevocationStore) Contains(ctx context.Context, raw string) (bool, error) {
	n, err := s.client.Exists(ctx, revokedKey(raw)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func revokedKey(raw string) string {
	return revokedKeyPrefix + auth.HashCredential(raw)
}

// revocationTTL keeps a record at least one second so an already expired credential is
// still reported as revoked right after logout.
func revocationTTL(now, expiresAt time.Time) time.Duration {
	ttl := expiresAt.Sub(now)
	if ttl < time.Second {
		return time.Second
	}
	return ttl
}

var _ auth.RevocationStore = (*RedisRevocationStore)(nil)
