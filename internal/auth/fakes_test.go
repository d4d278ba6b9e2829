package auth

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/course-service/internal/domain"
)

type fakeSubjects struct {
	mu    sync.Mutex
	users map[string]*domain.User
	calls int
}

func newFakeSubjects(users ...*domain.User) *fakeSubjects {
	f := &fakeSubjects{users: make(map[string]*domain.User)}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeSubjects) GetByID(_ context.Context, id string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	u, ok := f.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *u
	return &cp, nil
}

func (f *fakeSubjects) setRole(id string, role domain.Role) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[id].Role = role
}

// countingStore wraps the memory store and counts lookups.
type countingStore struct {
	*MemoryRevocationStore
	lookups int
}

func (s *countingStore) Contains(ctx context.Context, raw string) (bool, error) {
	s.lookups++
	return s.MemoryRevocationStore.Contains(ctx, raw)
}

type failingStore struct{ err error }

func (s failingStore) Record(context.Context, string, string, time.Time) error { return s.err }
func (s failingStore) Contains(context.Context, string) (bool, error)          { return false, s.err }
