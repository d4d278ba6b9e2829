package http

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/course-service/internal/domain"
	"github.com/spec-kit/course-service/internal/repository"
)

type memUsers struct {
	mu   sync.Mutex
	byID map[string]domain.User
}

func (m *memUsers) Create(_ context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now()
	m.byID[user.ID] = *user
	return nil
}

func (m *memUsers) Update(_ context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	m.byID[user.ID] = *user
	return nil
}

func (m *memUsers) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.byID, id)
	return nil
}

func (m *memUsers) SetActive(_ context.Context, id string, active bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	u.Active = active
	m.byID[id] = u
	return nil
}

func (m *memUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &u, nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *memUsers) List(_ context.Context) ([]domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.User, 0, len(m.byID))
	for _, u := range m.byID {
		out = append(out, u)
	}
	return out, nil
}

type memResets struct {
	mu     sync.Mutex
	tokens map[string]domain.PasswordResetToken
}

func (m *memResets) Create(_ context.Context, token *domain.PasswordResetToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	token.ID = uuid.NewString()
	m.tokens[token.Token] = *token
	return nil
}

func (m *memResets) GetByToken(_ context.Context, token string) (*domain.PasswordResetToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tokens[token]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &t, nil
}

func (m *memResets) MarkUsed(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, t := range m.tokens {
		if t.ID == id && t.UsedAt == nil {
			now := time.Now()
			t.UsedAt = &now
			m.tokens[key] = t
			return nil
		}
	}
	return pgx.ErrNoRows
}

type inlineTx struct{}

var _ repository.Transactor = inlineTx{}

func (inlineTx) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memModules struct {
	mu   sync.Mutex
	byID map[string]domain.Module
}

func (m *memModules) Create(_ context.Context, module *domain.Module) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	module.ID = uuid.NewString()
	m.byID[module.ID] = *module
	return nil
}

func (m *memModules) Update(_ context.Context, module *domain.Module) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[module.ID] = *module
	return nil
}

func (m *memModules) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byID, id)
	return nil
}

func (m *memModules) GetByID(_ context.Context, id string) (*domain.Module, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	mod, ok := m.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &mod, nil
}

func (m *memModules) List(_ context.Context, _ repository.ModuleFilter) ([]domain.Module, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Module, 0, len(m.byID))
	for _, mod := range m.byID {
		out = append(out, mod)
	}
	return out, len(out), nil
}

type memCourses struct {
	mu   sync.Mutex
	byID map[string]domain.Course
}

func (m *memCourses) Create(_ context.Context, course *domain.Course) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	course.ID = uuid.NewString()
	course.CreatedAt = time.Now()
	m.byID[course.ID] = *course
	return nil
}

func (m *memCourses) Update(_ context.Context, course *domain.Course) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[course.ID]; !ok {
		return pgx.ErrNoRows
	}
	m.byID[course.ID] = *course
	return nil
}

func (m *memCourses) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.byID, id)
	return nil
}

func (m *memCourses) GetByID(_ context.Context, id string) (*domain.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &c, nil
}

func (m *memCourses) List(_ context.Context, _ repository.CourseFilter) ([]domain.Course, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Course, 0, len(m.byID))
	for _, c := range m.byID {
		out = append(out, c)
	}
	return out, len(out), nil
}

func (m *memCourses) ListByModule(_ context.Context, moduleID string) ([]domain.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Course{}
	for _, c := range m.byID {
		if c.ModuleID != nil && *c.ModuleID == moduleID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memCourses) SetModule(_ context.Context, courseID string, moduleID *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.byID[courseID]
	if !ok {
		return pgx.ErrNoRows
	}
	c.ModuleID = moduleID
	m.byID[courseID] = c
	return nil
}

func (m *memCourses) DetachModule(_ context.Context, moduleID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, c := range m.byID {
		if c.ModuleID != nil && *c.ModuleID == moduleID {
			c.ModuleID = nil
			m.byID[id] = c
		}
	}
	return nil
}

func (m *memCourses) DeleteByModule(_ context.Context, moduleID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, c := range m.byID {
		if c.ModuleID != nil && *c.ModuleID == moduleID {
			delete(m.byID, id)
			n++
		}
	}
	return n, nil
}

func (m *memCourses) UpdateOrder(_ context.Context, order repository.CourseOrder) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.byID[order.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	c.PublicationOrder = order.PublicationOrder
	m.byID[order.ID] = c
	return nil
}

type memActivities struct {
	mu    sync.Mutex
	items []domain.Activity
}

func (m *memActivities) Create(_ context.Context, activity *domain.Activity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	activity.ID = uuid.NewString()
	activity.CreatedAt = time.Now()
	m.items = append([]domain.Activity{*activity}, m.items...)
	return nil
}

func (m *memActivities) List(_ context.Context, _ int) ([]domain.Activity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Activity(nil), m.items...), nil
}

func (m *memActivities) DeleteOlderThan(_ context.Context, _ time.Time) (int64, error) {
	return 0, nil
}
