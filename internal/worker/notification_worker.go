package worker

import (
	"github.com/spec-kit/course-service/internal/service"
)

// StartEventHandlers registers the services that react to domain events.
func StartEventHandlers(notifications *service.NotificationService, activities *service.ActivityService) {
	if notifications != nil {
		notifications.RegisterHandlers()
	}
	if activities != nil {
		activities.RegisterHandlers()
	}
}
