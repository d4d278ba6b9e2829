package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/course-service/internal/domain"
	apperrors "github.com/spec-kit/course-service/pkg/util"
)

type moduleFixture struct {
	svc     *ModuleService
	courses *fakeCourses
	modules *fakeModules
	tx      *passthroughTx
}

func newModuleFixture() *moduleFixture {
	courses := newFakeCourses()
	modules := newFakeModules(courses)
	tx := &passthroughTx{}
	return &moduleFixture{
		svc:     NewModuleService(modules, courses, tx, nil),
		courses: courses,
		modules: modules,
		tx:      tx,
	}
}

func (f *moduleFixture) addCourse(t *testing.T, moduleID *string, order int) *domain.Course {
	t.Helper()
	c := &domain.Course{Title: "c", Description: "d", ContentFormat: domain.ContentFormatText, Duration: 5, PublicationOrder: order, ModuleID: moduleID, Status: domain.CourseStatusDraft}
	require.NoError(t, f.courses.Create(context.Background(), c))
	return c
}

func TestModuleService_CreateAndGet(t *testing.T) {
	f := newModuleFixture()
	ctx := context.Background()

	_, err := f.svc.Create(ctx, ModuleInput{Title: " ", Description: ""})
	require.Error(t, err)
	assert.Contains(t, apperrors.ToDomainError(err).Message, msgModuleTitleRequired)
	assert.Contains(t, apperrors.ToDomainError(err).Message, msgModuleDescRequired)

	module, err := f.svc.Create(ctx, ModuleInput{Title: "Go", Description: "Backend"})
	require.NoError(t, err)

	second := f.addCourse(t, &module.ID, 2)
	first := f.addCourse(t, &module.ID, 1)

	got, err := f.svc.Get(ctx, module.ID, true)
	require.NoError(t, err)
	require.Len(t, got.Courses, 2)
	assert.Equal(t, first.ID, got.Courses[0].ID)
	assert.Equal(t, second.ID, got.Courses[1].ID)
	assert.Len(t, got.CourseIDs, 2)

	got, err = f.svc.Get(ctx, module.ID, false)
	require.NoError(t, err)
	assert.Nil(t, got.Courses)

	_, err = f.svc.Get(ctx, uuid.NewString(), true)
	assert.Equal(t, http.StatusNotFound, statusOf(err))
	_, err = f.svc.Get(ctx, "xyz", true)
	assert.Equal(t, msgInvalidModule, apperrors.ToDomainError(err).Message)
}

func TestModuleService_Update(t *testing.T) {
	f := newModuleFixture()
	ctx := context.Background()
	module, err := f.svc.Create(ctx, ModuleInput{Title: "Go", Description: "Backend"})
	require.NoError(t, err)

	title := "Go avancé"
	updated, err := f.svc.Update(ctx, module.ID, ModulePatch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Go avancé", updated.Title)
	assert.Equal(t, "Backend", updated.Description)

	empty := ""
	_, err = f.svc.Update(ctx, module.ID, ModulePatch{Description: &empty})
	assert.Equal(t, http.StatusBadRequest, statusOf(err))
}

func TestModuleService_Delete(t *testing.T) {
	tests := []struct {
		name          string
		deleteCourses bool
	}{
		{name: "deletes member courses", deleteCourses: true},
		{name: "detaches member courses", deleteCourses: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newModuleFixture()
			ctx := context.Background()
			module, err := f.svc.Create(ctx, ModuleInput{Title: "Go", Description: "Backend"})
			require.NoError(t, err)
			member := f.addCourse(t, &module.ID, 1)
			outsider := f.addCourse(t, nil, 1)

			deleted, err := f.svc.Delete(ctx, module.ID, tt.deleteCourses)
			require.NoError(t, err)
			assert.Equal(t, module.ID, deleted.ID)
			assert.Equal(t, 1, f.tx.calls)

			_, err = f.courses.GetByID(ctx, outsider.ID)
			assert.NoError(t, err)

			got, err := f.courses.GetByID(ctx, member.ID)
			if tt.deleteCourses {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Nil(t, got.ModuleID)
			}

			_, err = f.svc.Delete(ctx, module.ID, tt.deleteCourses)
			assert.Equal(t, http.StatusNotFound, statusOf(err))
		})
	}
}

func TestModuleService_Membership(t *testing.T) {
	f := newModuleFixture()
	ctx := context.Background()
	module, err := f.svc.Create(ctx, ModuleInput{Title: "Go", Description: "Backend"})
	require.NoError(t, err)
	course := f.addCourse(t, nil, 1)

	got, err := f.svc.AddCourse(ctx, module.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{course.ID}, got.CourseIDs)
	require.Len(t, got.Courses, 1)

	_, err = f.svc.AddCourse(ctx, module.ID, course.ID)
	require.Error(t, err)
	assert.Equal(t, msgCourseAlreadyInModule, apperrors.ToDomainError(err).Message)

	got, err = f.svc.RemoveCourse(ctx, module.ID, course.ID)
	require.NoError(t, err)
	assert.Empty(t, got.CourseIDs)

	_, err = f.svc.RemoveCourse(ctx, module.ID, course.ID)
	require.Error(t, err)
	assert.Equal(t, msgCourseNotInModule, apperrors.ToDomainError(err).Message)

	_, err = f.svc.AddCourse(ctx, module.ID, uuid.NewString())
	assert.Equal(t, msgCourseNotFound, apperrors.ToDomainError(err).Message)

	_, err = f.svc.AddCourse(ctx, "bad", course.ID)
	assert.Equal(t, msgInvalidModuleOrCourse, apperrors.ToDomainError(err).Message)
}

func TestModuleService_ListIncludesCourses(t *testing.T) {
	f := newModuleFixture()
	ctx := context.Background()
	module, err := f.svc.Create(ctx, ModuleInput{Title: "Go", Description: "Backend"})
	require.NoError(t, err)
	f.addCourse(t, &module.ID, 1)

	page, err := f.svc.List(ctx, ModuleQuery{IncludeCourses: true})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Len(t, page.Items[0].Courses, 1)
	assert.Equal(t, 1, page.Total)
	assert.Equal(t, 1, page.TotalPages)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 10, page.Limit)
}
