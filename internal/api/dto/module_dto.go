package dto

import (
	"time"

	"github.com/spec-kit/course-service/internal/domain"
)

// ModuleRequest is used for both creation and updates. Course membership has its own
// endpoints, so a "cours" key is ignored here.
type ModuleRequest struct {
	Title       *string `json:"titre"`
	Description *string `json:"description"`
	Image       *string `json:"image"`
}

// ModuleResponse is the public view of a module. Cours holds course ids, or full
// courses when they were requested.
type ModuleResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"titre"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	Courses     any       `json:"cours"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// NewModuleResponse maps a domain module.
func NewModuleResponse(m *domain.Module) ModuleResponse {
	resp := ModuleResponse{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		Image:       m.Image,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
	switch {
	case m.Courses != nil:
		resp.Courses = NewCourseResponses(m.Courses)
	case m.CourseIDs != nil:
		resp.Courses = m.CourseIDs
	default:
		resp.Courses = []string{}
	}
	return resp
}

// ActivityResponse is the public view of a feed entry.
type ActivityResponse struct {
	ID          string              `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Type        domain.ActivityType `json:"type"`
	CreatedAt   time.Time           `json:"createdAt"`
}

// NewActivityResponses maps feed entries.
func NewActivityResponses(items []domain.Activity) []ActivityResponse {
	out := make([]ActivityResponse, 0, len(items))
	for _, a := range items {
		out = append(out, ActivityResponse{
			ID:          a.ID,
			Title:       a.Title,
			Description: a.Description,
			Type:        a.Type,
			CreatedAt:   a.CreatedAt,
		})
	}
	return out
}
