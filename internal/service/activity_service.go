package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/course-service/internal/domain"
	"github.com/spec-kit/course-service/internal/events"
	"github.com/spec-kit/course-service/internal/repository"
	apperrors "github.com/spec-kit/course-service/pkg/util"
)

var courseActivityTitles = map[events.EventType]struct {
	title string
	kind  domain.ActivityType
}{
	events.EventCourseCreated: {title: "Création d'un cours", kind: domain.ActivityCreate},
	events.EventCourseUpdated: {title: "Modification d'un cours", kind: domain.ActivityUpdate},
	events.EventCourseDeleted: {title: "Suppression d'un cours", kind: domain.ActivityDelete},
}

// ActivityService maintains the short-lived dashboard activity feed.
type ActivityService struct {
	activities repository.ActivityRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	retention  time.Duration
}

// NewActivityService constructs the service.
func NewActivityService(activities repository.ActivityRepository, dispatcher events.Dispatcher, logger *zap.Logger, retention time.Duration) *ActivityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ActivityService{
		activities: activities,
		dispatcher: dispatcher,
		logger:     logger.With(zap.String("component", "service.activities")),
		retention:  retention,
	}
}

// RegisterHandlers records an activity for every course mutation.
func (s *ActivityService) RegisterHandlers() {
	if s.dispatcher == nil {
		return
	}
	for eventType := range courseActivityTitles {
		s.dispatcher.Subscribe(eventType, s.handleCourseEvent)
	}
}

func (s *ActivityService) handleCourseEvent(ctx context.Context, event events.Event) error {
	meta, ok := courseActivityTitles[event.Type]
	if !ok {
		return nil
	}
	payload, ok := event.Payload.(events.CourseChangedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T", event.Payload)
	}
	activity := &domain.Activity{
		Title:       meta.title,
		Description: payload.Title,
		Type:        meta.kind,
	}
	if err := s.activities.Create(ctx, activity); err != nil {
		return fmt.Errorf("record activity: %w", err)
	}
	return nil
}

// List returns the feed, newest first.
func (s *ActivityService) List(ctx context.Context) ([]domain.Activity, error) {
	activities, err := s.activities.List(ctx, 0)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return activities, nil
}

// Prune deletes entries older than the retention window measured from now.
func (s *ActivityService) Prune(ctx context.Context, now time.Time) (int64, error) {
	if s.retention <= 0 {
		return 0, nil
	}
	return s.activities.DeleteOlderThan(ctx, now.Add(-s.retention))
}
