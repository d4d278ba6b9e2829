package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/course-service/internal/api/dto"
	"github.com/spec-kit/course-service/internal/service"
)

// ActivitiesHandler exposes the dashboard feed.
type ActivitiesHandler struct {
	activities *service.ActivityService
}

// NewActivitiesHandler constructs handler.
func NewActivitiesHandler(activities *service.ActivityService) *ActivitiesHandler {
	return &ActivitiesHandler{activities: activities}
}

// List handles GET /activities.
func (h *ActivitiesHandler) List(c *fiber.Ctx) error {
	items, err := h.activities.List(c.UserContext())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Liste des activités récupérée avec succès", dto.NewActivityResponses(items))
}
