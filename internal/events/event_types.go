package events

import (
	"time"

	"github.com/spec-kit/course-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserCreated            EventType = "user.created"
	EventPasswordResetRequested EventType = "password_reset.requested"
	EventPasswordResetCompleted EventType = "password_reset.completed"
	EventCourseCreated          EventType = "course.created"
	EventCourseUpdated          EventType = "course.updated"
	EventCourseDeleted          EventType = "course.deleted"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	SubjectID string    `json:"subject_id"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

// UserCreatedPayload carries what the welcome email needs.
type UserCreatedPayload struct {
	Email     string      `json:"email"`
	FirstName string      `json:"first_name"`
	LastName  string      `json:"last_name"`
	Role      domain.Role `json:"role"`
}

// PasswordResetRequestedPayload payload.
type PasswordResetRequestedPayload struct {
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	ResetURL  string    `json:"reset_url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// PasswordResetCompletedPayload payload.
type PasswordResetCompletedPayload struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
}

// CourseChangedPayload describes a course mutation for the activity feed.
type CourseChangedPayload struct {
	CourseID string `json:"course_id"`
	Title    string `json:"title"`
}
