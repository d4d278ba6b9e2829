package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/course-service/internal/domain"
	"github.com/spec-kit/course-service/internal/events"
	"github.com/spec-kit/course-service/internal/repository"
	apperrors "github.com/spec-kit/course-service/pkg/util"
)

const (
	msgCourseNotFound      = "Cours non trouvé"
	msgInvalidCourseID     = "ID de cours invalide"
	msgInvalidModuleID     = "ID du module invalide"
	msgModuleNotFound      = "Module non trouvé"
	msgTitleRequired       = "Le titre du cours est obligatoire"
	msgDescriptionRequired = "La description du cours est obligatoire"
	msgFormatInvalid       = "Le format du contenu doit être video, texte, image ou pdf"
	msgContentRequired     = "Le contenu du cours est obligatoire"
	msgDurationRequired    = "La durée estimée est obligatoire"
	msgDurationPositive    = "La durée doit être supérieure à 0"
	msgOrderRequired       = "L'ordre de publication est obligatoire"
	msgModuleRequired      = "Le module est obligatoire"
	msgStatusInvalid       = "Le statut doit être Brouillon ou Publié"
	msgReorderInvalid      = "Format de données invalide pour un ou plusieurs cours"
	msgReorderEmpty        = "Format de données invalide, un tableau d'objets est attendu"
)

// CourseInput carries the fields of a new course.
type CourseInput struct {
	Title            string
	Description      string
	ContentFormat    domain.ContentFormat
	Content          json.RawMessage
	Duration         *int
	PublicationOrder *int
	ModuleID         string
	Status           domain.CourseStatus
	Tags             []string
}

// CoursePatch carries optional changes to a course. Nil fields are left untouched.
type CoursePatch struct {
	Title            *string
	Description      *string
	ContentFormat    *domain.ContentFormat
	Content          json.RawMessage
	Duration         *int
	PublicationOrder *int
	ModuleID         *string
	Status           *domain.CourseStatus
	Tags             []string
	TagsSet          bool
}

// CourseQuery holds listing parameters in their public form.
type CourseQuery struct {
	ModuleID      string
	ContentFormat string
	Status        string
	Title         string
	Tags          string
	SortBy        string
	Order         string
	Pagination
}

// CourseService implements course management.
type CourseService struct {
	courses    repository.CourseRepository
	modules    repository.ModuleRepository
	tx         repository.Transactor
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

// CourseDependencies encapsulates collaborators for the course service.
type CourseDependencies struct {
	CourseRepo repository.CourseRepository
	ModuleRepo repository.ModuleRepository
	Transactor repository.Transactor
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewCourseService constructs the service.
func NewCourseService(deps CourseDependencies) *CourseService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{
		courses:    deps.CourseRepo,
		modules:    deps.ModuleRepo,
		tx:         deps.Transactor,
		dispatcher: deps.Dispatcher,
		logger:     logger.With(zap.String("component", "service.courses")),
		now:        time.Now,
	}
}

// List returns one page of courses matching q.
func (s *CourseService) List(ctx context.Context, q CourseQuery) (Page[domain.Course], error) {
	p := q.Pagination.normalized()
	filter := repository.CourseFilter{
		SortBy: q.SortBy,
		Desc:   strings.EqualFold(q.Order, "desc"),
		Limit:  p.Limit,
		Offset: p.offset(),
	}
	if q.ModuleID != "" {
		if err := requireID(q.ModuleID, msgInvalidModuleID); err != nil {
			return Page[domain.Course]{}, err
		}
		filter.ModuleID = &q.ModuleID
	}
	if q.ContentFormat != "" {
		format := domain.ContentFormat(q.ContentFormat)
		filter.ContentFormat = &format
	}
	if q.Status != "" {
		status := domain.CourseStatus(q.Status)
		filter.Status = &status
	}
	if strings.TrimSpace(q.Title) != "" {
		filter.Title = &q.Title
	}
	if q.Tags != "" {
		filter.Tags = SplitTags(q.Tags)
	}

	courses, total, err := s.courses.List(ctx, filter)
	if err != nil {
		return Page[domain.Course]{}, apperrors.MapError(err)
	}
	return newPage(courses, total, p), nil
}

// Get returns one course.
func (s *CourseService) Get(ctx context.Context, id string) (*domain.Course, error) {
	if err := requireID(id, msgInvalidCourseID); err != nil {
		return nil, err
	}
	course, err := s.courses.GetByID(ctx, id)
	if err != nil {
		return nil, courseError(err)
	}
	return course, nil
}

// Create validates and stores a course inside an existing module.
func (s *CourseService) Create(ctx context.Context, input CourseInput) (*domain.Course, error) {
	course := &domain.Course{
		Title:         strings.TrimSpace(input.Title),
		Description:   input.Description,
		ContentFormat: input.ContentFormat,
		Content:       input.Content,
		Status:        input.Status,
		Tags:          cleanTags(input.Tags),
	}
	if course.Status == "" {
		course.Status = domain.CourseStatusDraft
	}

	var problems []string
	if input.Duration == nil {
		problems = append(problems, msgDurationRequired)
	} else {
		course.Duration = *input.Duration
	}
	if input.PublicationOrder == nil {
		problems = append(problems, msgOrderRequired)
	} else {
		course.PublicationOrder = *input.PublicationOrder
	}
	if strings.TrimSpace(input.ModuleID) == "" {
		problems = append(problems, msgModuleRequired)
	} else {
		moduleID := strings.TrimSpace(input.ModuleID)
		course.ModuleID = &moduleID
	}
	problems = append(problems, courseProblems(course, input.Duration != nil)...)
	if len(problems) > 0 {
		return nil, apperrors.NewValidationError(strings.Join(problems, ", "), nil)
	}

	if err := s.ensureModule(ctx, *course.ModuleID); err != nil {
		return nil, err
	}
	if err := s.courses.Create(ctx, course); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishCourseEvent(ctx, events.EventCourseCreated, course)
	return course, nil
}

// Update applies a partial change to a course.
func (s *CourseService) Update(ctx context.Context, id string, patch CoursePatch) (*domain.Course, error) {
	course, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		course.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		course.Description = *patch.Description
	}
	if patch.ContentFormat != nil {
		course.ContentFormat = *patch.ContentFormat
	}
	if patch.Content != nil {
		course.Content = patch.Content
	}
	if patch.Duration != nil {
		course.Duration = *patch.Duration
	}
	if patch.PublicationOrder != nil {
		course.PublicationOrder = *patch.PublicationOrder
	}
	if patch.Status != nil {
		course.Status = *patch.Status
	}
	if patch.TagsSet {
		course.Tags = cleanTags(patch.Tags)
	}
	if patch.ModuleID != nil {
		moduleID := strings.TrimSpace(*patch.ModuleID)
		if moduleID == "" {
			return nil, apperrors.NewValidationError(msgModuleRequired, nil)
		}
		if course.ModuleID == nil || *course.ModuleID != moduleID {
			if err := s.ensureModule(ctx, moduleID); err != nil {
				return nil, err
			}
		}
		course.ModuleID = &moduleID
	}

	if problems := courseProblems(course, true); len(problems) > 0 {
		return nil, apperrors.NewValidationError(strings.Join(problems, ", "), nil)
	}
	if err := s.courses.Update(ctx, course); err != nil {
		return nil, courseError(err)
	}

	s.publishCourseEvent(ctx, events.EventCourseUpdated, course)
	return course, nil
}

// Delete removes a course and returns it.
func (s *CourseService) Delete(ctx context.Context, id string) (*domain.Course, error) {
	course, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.courses.Delete(ctx, id); err != nil {
		return nil, courseError(err)
	}

	s.publishCourseEvent(ctx, events.EventCourseDeleted, course)
	return course, nil
}

// Publish marks a course as published.
func (s *CourseService) Publish(ctx context.Context, id string) (*domain.Course, error) {
	status := domain.CourseStatusPublished
	return s.Update(ctx, id, CoursePatch{Status: &status})
}

// ListByModule returns a module's courses in publication order.
func (s *CourseService) ListByModule(ctx context.Context, moduleID string) ([]domain.Course, error) {
	if err := requireID(moduleID, msgInvalidModuleID); err != nil {
		return nil, err
	}
	courses, err := s.courses.ListByModule(ctx, moduleID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return courses, nil
}

// Reorder assigns publication orders. Every entry is validated before anything is written
// and all updates share one transaction.
func (s *CourseService) Reorder(ctx context.Context, orders []repository.CourseOrder) error {
	if len(orders) == 0 {
		return apperrors.NewValidationError(msgReorderEmpty, nil)
	}
	for _, order := range orders {
		if order.ID == "" || order.PublicationOrder == 0 {
			return apperrors.NewValidationError(msgReorderInvalid, nil)
		}
		if err := requireID(order.ID, msgReorderInvalid); err != nil {
			return err
		}
	}

	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		for _, order := range orders {
			if err := s.courses.UpdateOrder(ctx, order); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return courseError(err)
	}
	return nil
}

func (s *CourseService) ensureModule(ctx context.Context, moduleID string) error {
	if err := requireID(moduleID, msgInvalidModuleID); err != nil {
		return err
	}
	if _, err := s.modules.GetByID(ctx, moduleID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound(msgModuleNotFound)
		}
		return apperrors.MapError(err)
	}
	return nil
}

func (s *CourseService) publishCourseEvent(ctx context.Context, eventType events.EventType, course *domain.Course) {
	publishEvent(ctx, s.dispatcher, s.logger, s.now, events.Event{
		Type:      eventType,
		SubjectID: course.ID,
		Payload: events.CourseChangedPayload{
			CourseID: course.ID,
			Title:    course.Title,
		},
	})
}

// courseProblems lists field violations. durationSet reports whether a duration was supplied.
func courseProblems(course *domain.Course, durationSet bool) []string {
	var problems []string
	if course.Title == "" {
		problems = append(problems, msgTitleRequired)
	}
	if strings.TrimSpace(course.Description) == "" {
		problems = append(problems, msgDescriptionRequired)
	}
	if !course.ContentFormat.Valid() {
		problems = append(problems, msgFormatInvalid)
	}
	if len(course.Content) == 0 || string(course.Content) == "null" {
		problems = append(problems, msgContentRequired)
	}
	if durationSet && course.Duration < 1 {
		problems = append(problems, msgDurationPositive)
	}
	if !course.Status.Valid() {
		problems = append(problems, msgStatusInvalid)
	}
	return problems
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			out = append(out, tag)
		}
	}
	return out
}

func courseError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound(msgCourseNotFound)
	}
	return apperrors.MapError(err)
}
