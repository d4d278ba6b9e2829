package domain

import (
	"encoding/json"
	"time"
)

// ContentFormat enumerates how a course body is delivered.
type ContentFormat string

const (
	ContentFormatVideo ContentFormat = "video"
	ContentFormatText  ContentFormat = "texte"
	ContentFormatImage ContentFormat = "image"
	ContentFormatPDF   ContentFormat = "pdf"
)

// Valid reports whether f is a known format.
func (f ContentFormat) Valid() bool {
	switch f {
	case ContentFormatVideo, ContentFormatText, ContentFormatImage, ContentFormatPDF:
		return true
	}
	return false
}

// CourseStatus enumerates publication states.
type CourseStatus string

const (
	CourseStatusDraft     CourseStatus = "Brouillon"
	CourseStatusPublished CourseStatus = "Publié"
)

// Valid reports whether s is a known status.
func (s CourseStatus) Valid() bool {
	return s == CourseStatusDraft || s == CourseStatusPublished
}

// Course is a unit of teaching material attached to a module.
type Course struct {
	ID               string
	Title            string
	Description      string
	ContentFormat    ContentFormat
	Content          json.RawMessage
	Duration         int
	PublicationOrder int
	ModuleID         *string
	ModuleTitle      *string
	Status           CourseStatus
	Tags             []string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
