package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"github.com/spec-kit/course-service/internal/domain"
)

// RevocationStore is the append-only set of credentials that must no longer be honored.
// Record must be idempotent: logging out twice with the same credential is not an error.
type RevocationStore interface {
	Record(ctx context.Context, raw, subjectID string, expiresAt time.Time) error
	Contains(ctx context.Context, raw string) (bool, error)
}

// RevocationPruner deletes records whose credential expired before the cutoff.
type RevocationPruner interface {
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

// HashCredential returns the storage key for a raw credential.
func HashCredential(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// MemoryRevocationStore keeps revoked credentials in process memory.
type MemoryRevocationStore struct {
	mu      sync.RWMutex
	records map[string]domain.RevokedToken
	now     func() time.Time
}

// NewMemoryRevocationStore builds an empty store.
func NewMemoryRevocationStore() *MemoryRevocationStore {
	return &MemoryRevocationStore{
		records: make(map[string]domain.RevokedToken),
		now:     time.Now,
	}
}

func (s *MemoryRevocationStore) Record(_ context.Context, raw, subjectID string, expiresAt time.Time) error {
	hash := HashCredential(raw)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[hash]; exists {
		return nil
	}
	s.records[hash] = domain.RevokedToken{
		TokenHash: hash,
		SubjectID: subjectID,
		RevokedAt: s.now(),
		ExpiresAt: expiresAt,
	}
	return nil
}

func (s *MemoryRevocationStore) Contains(_ context.Context, raw string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.records[HashCredential(raw)]
	return ok, nil
}

func (s *MemoryRevocationStore) DeleteExpired(_ context.Context, before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64
	for hash, rec := range s.records {
		if rec.ExpiresAt.Before(before) {
			delete(s.records, hash)
			deleted++
		}
	}
	return deleted, nil
}

// Len returns the number of stored records.
func (s *MemoryRevocationStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
