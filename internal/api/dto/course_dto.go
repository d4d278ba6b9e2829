package dto

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/spec-kit/course-service/internal/domain"
)

// Tags accepts either a JSON array or a comma separated string.
type Tags struct {
	Values []string
	Set    bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Tags) UnmarshalJSON(data []byte) error {
	t.Set = true
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		t.Values = []string{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		t.Values = []string{}
		for _, tag := range strings.Split(raw, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				t.Values = append(t.Values, tag)
			}
		}
		return nil
	}
	return json.Unmarshal(data, &t.Values)
}

// CourseRequest is used for both creation and partial updates.
type CourseRequest struct {
	Title            *string               `json:"titre"`
	Description      *string               `json:"description"`
	ContentFormat    *domain.ContentFormat `json:"formatContenu"`
	Content          json.RawMessage       `json:"contenu"`
	Duration         *int                  `json:"duree"`
	PublicationOrder *int                  `json:"ordrePublication"`
	Module           *string               `json:"module"`
	Status           *domain.CourseStatus  `json:"statut"`
	Tags             Tags                  `json:"tags"`
}

// ReorderRequest payload for PUT /courses/reorder.
type ReorderRequest struct {
	CourseOrders []CourseOrderItem `json:"courseOrders"`
}

// CourseOrderItem assigns a publication order to one course.
type CourseOrderItem struct {
	ID               string `json:"id"`
	PublicationOrder int    `json:"ordrePublication"`
}

// ModuleRef is the embedded module summary of a course.
type ModuleRef struct {
	ID    string `json:"id"`
	Title string `json:"titre,omitempty"`
}

// CourseResponse is the public view of a course.
type CourseResponse struct {
	ID               string               `json:"id"`
	Title            string               `json:"titre"`
	Description      string               `json:"description"`
	ContentFormat    domain.ContentFormat `json:"formatContenu"`
	Content          json.RawMessage      `json:"contenu"`
	Duration         int                  `json:"duree"`
	PublicationOrder int                  `json:"ordrePublication"`
	Module           *ModuleRef           `json:"module"`
	Status           domain.CourseStatus  `json:"statut"`
	Tags             []string             `json:"tags"`
	CreatedAt        time.Time            `json:"createdAt"`
	UpdatedAt        time.Time            `json:"updatedAt"`
}

// NewCourseResponse maps a domain course.
func NewCourseResponse(c *domain.Course) CourseResponse {
	resp := CourseResponse{
		ID:               c.ID,
		Title:            c.Title,
		Description:      c.Description,
		ContentFormat:    c.ContentFormat,
		Content:          c.Content,
		Duration:         c.Duration,
		PublicationOrder: c.PublicationOrder,
		Status:           c.Status,
		Tags:             c.Tags,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
	if resp.Tags == nil {
		resp.Tags = []string{}
	}
	if c.ModuleID != nil {
		resp.Module = &ModuleRef{ID: *c.ModuleID}
		if c.ModuleTitle != nil {
			resp.Module.Title = *c.ModuleTitle
		}
	}
	return resp
}

// NewCourseResponses maps a slice of courses.
func NewCourseResponses(courses []domain.Course) []CourseResponse {
	out := make([]CourseResponse, 0, len(courses))
	for i := range courses {
		out = append(out, NewCourseResponse(&courses[i]))
	}
	return out
}
