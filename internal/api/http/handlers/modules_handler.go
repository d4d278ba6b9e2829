package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/course-service/internal/api/dto"
	"github.com/spec-kit/course-service/internal/domain"
	"github.com/spec-kit/course-service/internal/service"
	apperrors "github.com/spec-kit/course-service/pkg/util"
)

// ModulesHandler exposes module management and course membership.
type ModulesHandler struct {
	modules *service.ModuleService
}

// NewModulesHandler constructs handler.
func NewModulesHandler(modules *service.ModuleService) *ModulesHandler {
	return &ModulesHandler{modules: modules}
}

// List handles GET /modules.
func (h *ModulesHandler) List(c *fiber.Ctx) error {
	page, err := h.modules.List(c.UserContext(), service.ModuleQuery{
		Title:          c.Query("titre"),
		SortBy:         c.Query("sortBy"),
		Order:          c.Query("order"),
		IncludeCourses: c.QueryBool("includeCourses", false),
		Pagination:     pagination(c),
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
		"data":        moduleResponses(page.Items),
	})
}

// Get handles GET /modules/:id.
func (h *ModulesHandler) Get(c *fiber.Ctx) error {
	module, err := h.modules.Get(c.UserContext(), c.Params("id"), c.QueryBool("includeCourses", true))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Module récupéré avec succès", dto.NewModuleResponse(module))
}

// Create handles POST /modules.
func (h *ModulesHandler) Create(c *fiber.Ctx) error {
	var req dto.ModuleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	module, err := h.modules.Create(c.UserContext(), service.ModuleInput{
		Title:       deref(req.Title),
		Description: deref(req.Description),
		Image:       deref(req.Image),
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "Module créé avec succès", dto.NewModuleResponse(module))
}

// Update handles PUT /modules/:id.
func (h *ModulesHandler) Update(c *fiber.Ctx) error {
	var req dto.ModuleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	module, err := h.modules.Update(c.UserContext(), c.Params("id"), service.ModulePatch{
		Title:       req.Title,
		Description: req.Description,
		Image:       req.Image,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Module mis à jour avec succès", dto.NewModuleResponse(module))
}

// Delete handles DELETE /modules/:id?deleteCourses=false.
func (h *ModulesHandler) Delete(c *fiber.Ctx) error {
	module, err := h.modules.Delete(c.UserContext(), c.Params("id"), c.QueryBool("deleteCourses", true))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Module supprimé avec succès", dto.NewModuleResponse(module))
}

// AddCourse handles POST /modules/:id/courses/:courseId.
func (h *ModulesHandler) AddCourse(c *fiber.Ctx) error {
	module, err := h.modules.AddCourse(c.UserContext(), c.Params("id"), c.Params("courseId"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Cours ajouté au module avec succès", dto.NewModuleResponse(module))
}

// RemoveCourse handles DELETE /modules/:id/courses/:courseId.
func (h *ModulesHandler) RemoveCourse(c *fiber.Ctx) error {
	module, err := h.modules.RemoveCourse(c.UserContext(), c.Params("id"), c.Params("courseId"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Cours retiré du module avec succès", dto.NewModuleResponse(module))
}

func moduleResponses(modules []domain.Module) []dto.ModuleResponse {
	out := make([]dto.ModuleResponse, 0, len(modules))
	for i := range modules {
		out = append(out, dto.NewModuleResponse(&modules[i]))
	}
	return out
}
