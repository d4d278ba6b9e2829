package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/course-service/internal/domain"
	"github.com/spec-kit/course-service/internal/mail"
	"github.com/spec-kit/course-service/internal/repository"
)

type fakeUsers struct {
	mu    sync.Mutex
	byID  map[string]*domain.User
	calls int
}

func newFakeUsers(users ...*domain.User) *fakeUsers {
	f := &fakeUsers{byID: map[string]*domain.User{}}
	for _, u := range users {
		if u.ID == "" {
			u.ID = uuid.NewString()
		}
		f.byID[u.ID] = u
	}
	return f
}

func (f *fakeUsers) Create(_ context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now()
	cp := *user
	f.byID[user.ID] = &cp
	return nil
}

func (f *fakeUsers) Update(_ context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	cp := *user
	f.byID[user.ID] = &cp
	return nil
}

func (f *fakeUsers) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeUsers) SetActive(_ context.Context, id string, active bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	u.Active = active
	return nil
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	u, ok := f.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUsers) List(context.Context) ([]domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.User, 0, len(f.byID))
	for _, u := range f.byID {
		out = append(out, *u)
	}
	return out, nil
}

type fakeResets struct {
	mu     sync.Mutex
	tokens map[string]*domain.PasswordResetToken
}

func newFakeResets() *fakeResets {
	return &fakeResets{tokens: map[string]*domain.PasswordResetToken{}}
}

func (f *fakeResets) Create(_ context.Context, token *domain.PasswordResetToken) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	token.ID = uuid.NewString()
	cp := *token
	f.tokens[token.Token] = &cp
	return nil
}

func (f *fakeResets) GetByToken(_ context.Context, token string) (*domain.PasswordResetToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tokens[token]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *t
	return &cp, nil
}

func (f *fakeResets) MarkUsed(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tokens {
		if t.ID == id && t.UsedAt == nil {
			now := time.Now()
			t.UsedAt = &now
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (f *fakeResets) only() *domain.PasswordResetToken {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tokens {
		return t
	}
	return nil
}

// passthroughTx runs fn directly and counts invocations.
type passthroughTx struct{ calls int }

func (p *passthroughTx) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	p.calls++
	return fn(ctx)
}

type fakeModules struct {
	mu      sync.Mutex
	byID    map[string]*domain.Module
	courses *fakeCourses
}

func newFakeModules(courses *fakeCourses) *fakeModules {
	return &fakeModules{byID: map[string]*domain.Module{}, courses: courses}
}

func (f *fakeModules) Create(_ context.Context, module *domain.Module) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	module.ID = uuid.NewString()
	module.CreatedAt = time.Now()
	cp := *module
	f.byID[module.ID] = &cp
	return nil
}

func (f *fakeModules) Update(_ context.Context, module *domain.Module) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[module.ID]; !ok {
		return pgx.ErrNoRows
	}
	cp := *module
	f.byID[module.ID] = &cp
	return nil
}

func (f *fakeModules) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeModules) GetByID(_ context.Context, id string) (*domain.Module, error) {
	f.mu.Lock()
	m, ok := f.byID[id]
	f.mu.Unlock()
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *m
	cp.CourseIDs = f.courses.idsFor(id)
	return &cp, nil
}

func (f *fakeModules) List(_ context.Context, filter repository.ModuleFilter) ([]domain.Module, int, error) {
	f.mu.Lock()
	out := make([]domain.Module, 0, len(f.byID))
	for _, m := range f.byID {
		out = append(out, *m)
	}
	f.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	total := len(out)
	if filter.Offset < len(out) {
		out = out[filter.Offset:]
	} else {
		out = nil
	}
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, total, nil
}

type fakeCourses struct {
	mu       sync.Mutex
	byID     map[string]*domain.Course
	lastList repository.CourseFilter
	failID   string
}

func newFakeCourses() *fakeCourses {
	return &fakeCourses{byID: map[string]*domain.Course{}}
}

func (f *fakeCourses) Create(_ context.Context, course *domain.Course) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	course.ID = uuid.NewString()
	course.CreatedAt = time.Now()
	cp := *course
	f.byID[course.ID] = &cp
	return nil
}

func (f *fakeCourses) Update(_ context.Context, course *domain.Course) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[course.ID]; !ok {
		return pgx.ErrNoRows
	}
	cp := *course
	f.byID[course.ID] = &cp
	return nil
}

func (f *fakeCourses) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeCourses) GetByID(_ context.Context, id string) (*domain.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCourses) List(_ context.Context, filter repository.CourseFilter) ([]domain.Course, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastList = filter
	out := []domain.Course{}
	for _, c := range f.byID {
		out = append(out, *c)
	}
	return out, len(out), nil
}

func (f *fakeCourses) ListByModule(_ context.Context, moduleID string) ([]domain.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.Course{}
	for _, c := range f.byID {
		if c.ModuleID != nil && *c.ModuleID == moduleID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PublicationOrder < out[j].PublicationOrder })
	return out, nil
}

func (f *fakeCourses) SetModule(_ context.Context, courseID string, moduleID *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.byID[courseID]
	if !ok {
		return pgx.ErrNoRows
	}
	c.ModuleID = moduleID
	return nil
}

func (f *fakeCourses) DetachModule(_ context.Context, moduleID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.byID {
		if c.ModuleID != nil && *c.ModuleID == moduleID {
			c.ModuleID = nil
		}
	}
	return nil
}

func (f *fakeCourses) DeleteByModule(_ context.Context, moduleID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for id, c := range f.byID {
		if c.ModuleID != nil && *c.ModuleID == moduleID {
			delete(f.byID, id)
			n++
		}
	}
	return n, nil
}

func (f *fakeCourses) UpdateOrder(_ context.Context, order repository.CourseOrder) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.byID[order.ID]
	if !ok || order.ID == f.failID {
		return pgx.ErrNoRows
	}
	c.PublicationOrder = order.PublicationOrder
	return nil
}

func (f *fakeCourses) idsFor(moduleID string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := []string{}
	for id, c := range f.byID {
		if c.ModuleID != nil && *c.ModuleID == moduleID {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

type fakeActivities struct {
	mu    sync.Mutex
	items []domain.Activity
}

func (f *fakeActivities) Create(_ context.Context, activity *domain.Activity) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	activity.ID = uuid.NewString()
	if activity.CreatedAt.IsZero() {
		activity.CreatedAt = time.Now()
	}
	f.items = append(f.items, *activity)
	return nil
}

func (f *fakeActivities) List(_ context.Context, _ int) ([]domain.Activity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := append([]domain.Activity{}, f.items...)
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeActivities) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.items[:0]
	var n int64
	for _, a := range f.items {
		if a.CreatedAt.Before(cutoff) {
			n++
			continue
		}
		kept = append(kept, a)
	}
	f.items = kept
	return n, nil
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []mail.Message
	err  error
}

func (m *recordingMailer) Send(_ context.Context, msg mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

var (
	_ repository.UserRepository          = (*fakeUsers)(nil)
	_ repository.PasswordResetRepository = (*fakeResets)(nil)
	_ repository.Transactor              = (*passthroughTx)(nil)
	_ repository.ModuleRepository        = (*fakeModules)(nil)
	_ repository.CourseRepository        = (*fakeCourses)(nil)
	_ repository.ActivityRepository      = (*fakeActivities)(nil)
)
