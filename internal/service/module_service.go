package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/course-service/internal/domain"
	"github.com/spec-kit/course-service/internal/repository"
	apperrors "github.com/spec-kit/course-service/pkg/util"
)

const (
	msgInvalidModule         = "ID de module invalide"
	msgInvalidModuleOrCourse = "ID de module ou de cours invalide"
	msgModuleTitleRequired   = "Le titre du module est obligatoire"
	msgModuleDescRequired    = "La description du module est obligatoire"
	msgCourseAlreadyInModule = "Le cours est déjà associé à ce module"
	msgCourseNotInModule     = "Le cours n'est pas associé à ce module"
)

// ModuleInput carries module fields.
type ModuleInput struct {
	Title       string
	Description string
	Image       string
}

// ModulePatch carries optional module changes. The course list is not part of it.
type ModulePatch struct {
	Title       *string
	Description *string
	Image       *string
}

// ModuleQuery holds listing parameters in their public form.
type ModuleQuery struct {
	Title          string
	SortBy         string
	Order          string
	IncludeCourses bool
	Pagination
}

// ModuleService implements module management and course membership.
type ModuleService struct {
	modules repository.ModuleRepository
	courses repository.CourseRepository
	tx      repository.Transactor
	logger  *zap.Logger
}

// NewModuleService constructs the service.
func NewModuleService(modules repository.ModuleRepository, courses repository.CourseRepository, tx repository.Transactor, logger *zap.Logger) *ModuleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ModuleService{
		modules: modules,
		courses: courses,
		tx:      tx,
		logger:  logger.With(zap.String("component", "service.modules")),
	}
}

// List returns one page of modules, optionally with their courses.
func (s *ModuleService) List(ctx context.Context, q ModuleQuery) (Page[domain.Module], error) {
	p := q.Pagination.normalized()
	filter := repository.ModuleFilter{
		SortBy: q.SortBy,
		Asc:    strings.EqualFold(q.Order, "asc"),
		Limit:  p.Limit,
		Offset: p.offset(),
	}
	if strings.TrimSpace(q.Title) != "" {
		filter.Title = &q.Title
	}

	modules, total, err := s.modules.List(ctx, filter)
	if err != nil {
		return Page[domain.Module]{}, apperrors.MapError(err)
	}
	if q.IncludeCourses {
		for i := range modules {
			if err := s.loadCourses(ctx, &modules[i]); err != nil {
				return Page[domain.Module]{}, err
			}
		}
	}
	return newPage(modules, total, p), nil
}

// Get returns one module, optionally with its courses.
func (s *ModuleService) Get(ctx context.Context, id string, includeCourses bool) (*domain.Module, error) {
	if err := requireID(id, msgInvalidModule); err != nil {
		return nil, err
	}
	module, err := s.modules.GetByID(ctx, id)
	if err != nil {
		return nil, moduleError(err)
	}
	if includeCourses {
		if err := s.loadCourses(ctx, module); err != nil {
			return nil, err
		}
	}
	return module, nil
}

// Create stores a module.
func (s *ModuleService) Create(ctx context.Context, input ModuleInput) (*domain.Module, error) {
	module := &domain.Module{
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		Image:       input.Image,
		CourseIDs:   []string{},
	}
	if err := validateModule(module); err != nil {
		return nil, err
	}
	if err := s.modules.Create(ctx, module); err != nil {
		return nil, apperrors.MapError(err)
	}
	return module, nil
}

// Update changes module fields.
func (s *ModuleService) Update(ctx context.Context, id string, patch ModulePatch) (*domain.Module, error) {
	module, err := s.Get(ctx, id, false)
	if err != nil {
		return nil, err
	}
	if patch.Title != nil {
		module.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		module.Description = *patch.Description
	}
	if patch.Image != nil {
		module.Image = *patch.Image
	}
	if err := validateModule(module); err != nil {
		return nil, err
	}
	if err := s.modules.Update(ctx, module); err != nil {
		return nil, moduleError(err)
	}
	return module, nil
}

// Delete removes a module. Its courses are deleted with it when deleteCourses is set,
// otherwise they are detached.
func (s *ModuleService) Delete(ctx context.Context, id string, deleteCourses bool) (*domain.Module, error) {
	if err := requireID(id, msgInvalidModule); err != nil {
		return nil, err
	}

	var deleted *domain.Module
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		module, err := s.modules.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if deleteCourses {
			n, err := s.courses.DeleteByModule(ctx, id)
			if err != nil {
				return err
			}
			s.logger.Debug("module courses deleted", zap.String("module_id", id), zap.Int64("count", n))
		} else if err := s.courses.DetachModule(ctx, id); err != nil {
			return err
		}
		if err := s.modules.Delete(ctx, id); err != nil {
			return err
		}
		deleted = module
		return nil
	})
	if err != nil {
		return nil, moduleError(err)
	}
	return deleted, nil
}

// AddCourse attaches a course to a module.
func (s *ModuleService) AddCourse(ctx context.Context, moduleID, courseID string) (*domain.Module, error) {
	return s.changeMembership(ctx, moduleID, courseID, true)
}

// RemoveCourse detaches a course from a module.
func (s *ModuleService) RemoveCourse(ctx context.Context, moduleID, courseID string) (*domain.Module, error) {
	return s.changeMembership(ctx, moduleID, courseID, false)
}

func (s *ModuleService) changeMembership(ctx context.Context, moduleID, courseID string, attach bool) (*domain.Module, error) {
	if requireID(moduleID, msgInvalidModuleOrCourse) != nil || requireID(courseID, msgInvalidModuleOrCourse) != nil {
		return nil, apperrors.NewValidationError(msgInvalidModuleOrCourse, nil)
	}

	var module *domain.Module
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		var err error
		if _, err = s.modules.GetByID(ctx, moduleID); err != nil {
			return moduleError(err)
		}
		course, err := s.courses.GetByID(ctx, courseID)
		if err != nil {
			return courseError(err)
		}

		member := course.ModuleID != nil && *course.ModuleID == moduleID
		switch {
		case attach && member:
			return apperrors.NewValidationError(msgCourseAlreadyInModule, nil)
		case !attach && !member:
			return apperrors.NewValidationError(msgCourseNotInModule, nil)
		}

		var target *string
		if attach {
			target = &moduleID
		}
		if err := s.courses.SetModule(ctx, courseID, target); err != nil {
			return courseError(err)
		}

		module, err = s.modules.GetByID(ctx, moduleID)
		if err != nil {
			return moduleError(err)
		}
		return s.loadCourses(ctx, module)
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return module, nil
}

func (s *ModuleService) loadCourses(ctx context.Context, module *domain.Module) error {
	courses, err := s.courses.ListByModule(ctx, module.ID)
	if err != nil {
		return apperrors.MapError(err)
	}
	module.Courses = courses
	return nil
}

func validateModule(module *domain.Module) error {
	var problems []string
	if module.Title == "" {
		problems = append(problems, msgModuleTitleRequired)
	}
	if strings.TrimSpace(module.Description) == "" {
		problems = append(problems, msgModuleDescRequired)
	}
	if len(problems) > 0 {
		return apperrors.NewValidationError(strings.Join(problems, ", "), nil)
	}
	return nil
}

func moduleError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound(msgModuleNotFound)
	}
	return apperrors.MapError(err)
}
