package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/course-service/internal/api/dto"
	"github.com/spec-kit/course-service/internal/repository"
	"github.com/spec-kit/course-service/internal/service"
	apperrors "github.com/spec-kit/course-service/pkg/util"
)

const msgReorderFormat = "Format de données invalide, un tableau d'objets est attendu"

// CoursesHandler exposes course management.
type CoursesHandler struct {
	courses *service.CourseService
}

// NewCoursesHandler constructs handler.
func NewCoursesHandler(courses *service.CourseService) *CoursesHandler {
	return &CoursesHandler{courses: courses}
}

// List handles GET /courses.
func (h *CoursesHandler) List(c *fiber.Ctx) error {
	page, err := h.courses.List(c.UserContext(), service.CourseQuery{
		ModuleID:      c.Query("module"),
		ContentFormat: c.Query("formatContenu"),
		Status:        c.Query("statut"),
		Title:         c.Query("titre"),
		Tags:          c.Query("tags"),
		SortBy:        c.Query("sortBy"),
		Order:         c.Query("order"),
		Pagination:    pagination(c),
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success":     true,
		"count":       len(page.Items),
		"total":       page.Total,
		"totalPages":  page.TotalPages,
		"currentPage": page.Page,
		"data":        dto.NewCourseResponses(page.Items),
	})
}

// Get handles GET /courses/:id.
func (h *CoursesHandler) Get(c *fiber.Ctx) error {
	course, err := h.courses.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Cours récupéré avec succès", dto.NewCourseResponse(course))
}

// Create handles POST /courses.
func (h *CoursesHandler) Create(c *fiber.Ctx) error {
	var req dto.CourseRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	course, err := h.courses.Create(c.UserContext(), service.CourseInput{
		Title:            deref(req.Title),
		Description:      deref(req.Description),
		ContentFormat:    deref(req.ContentFormat),
		Content:          req.Content,
		Duration:         req.Duration,
		PublicationOrder: req.PublicationOrder,
		ModuleID:         deref(req.Module),
		Status:           deref(req.Status),
		Tags:             req.Tags.Values,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "Cours créé avec succès", dto.NewCourseResponse(course))
}

// Update handles PUT /courses/:id.
func (h *CoursesHandler) Update(c *fiber.Ctx) error {
	var req dto.CourseRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	course, err := h.courses.Update(c.UserContext(), c.Params("id"), service.CoursePatch{
		Title:            req.Title,
		Description:      req.Description,
		ContentFormat:    req.ContentFormat,
		Content:          req.Content,
		Duration:         req.Duration,
		PublicationOrder: req.PublicationOrder,
		ModuleID:         req.Module,
		Status:           req.Status,
		Tags:             req.Tags.Values,
		TagsSet:          req.Tags.Set,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Cours mis à jour avec succès", dto.NewCourseResponse(course))
}

// Delete handles DELETE /courses/:id.
func (h *CoursesHandler) Delete(c *fiber.Ctx) error {
	course, err := h.courses.Delete(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Cours supprimé avec succès", dto.NewCourseResponse(course))
}

// Publish handles PATCH /courses/:id.
func (h *CoursesHandler) Publish(c *fiber.Ctx) error {
	course, err := h.courses.Publish(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Cours publié avec succès", dto.NewCourseResponse(course))
}

// ListByModule handles GET /courses/module/:moduleId.
func (h *CoursesHandler) ListByModule(c *fiber.Ctx) error {
	courses, err := h.courses.ListByModule(c.UserContext(), c.Params("moduleId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"count":   len(courses),
		"data":    dto.NewCourseResponses(courses),
	})
}

// Reorder handles PUT /courses/reorder.
func (h *CoursesHandler) Reorder(c *fiber.Ctx) error {
	var req dto.ReorderRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError(msgReorderFormat, nil)
	}

	orders := make([]repository.CourseOrder, 0, len(req.CourseOrders))
	for _, item := range req.CourseOrders {
		orders = append(orders, repository.CourseOrder{ID: item.ID, PublicationOrder: item.PublicationOrder})
	}
	if err := h.courses.Reorder(c.UserContext(), orders); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Ordre des cours mis à jour avec succès", nil)
}

func pagination(c *fiber.Ctx) service.Pagination {
	return service.Pagination{Page: c.QueryInt("page", 1), Limit: c.QueryInt("limit", 10)}
}

func deref[T any](v *T) T {
	var zero T
	if v == nil {
		return zero
	}
	return *v
}
