package domain

import "time"

// Module groups courses. CourseIDs is derived from the courses referencing it.
type Module struct {
	ID          string
	Title       string
	Description string
	Image       string
	CourseIDs   []string
	Courses     []Course
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
