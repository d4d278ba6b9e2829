package service

import (
	"regexp"
	"strings"

	"github.com/google/uuid"

	apperrors "github.com/spec-kit/course-service/pkg/util"
)

var (
	nameRegex  = regexp.MustCompile(`^[a-zA-Z\s]{4,}$`)
	emailRegex = regexp.MustCompile(`^[\w\-.]+@([\w-]+\.)+[\w-]{2,4}$`)
)

const (
	msgInvalidName  = "First name and last name must be at least 4 characters long and contain only letters and spaces!"
	msgInvalidEmail = "Invalid email format!"
	msgEmailTaken   = "Invalid Email!"
)

func validName(name string) bool {
	return nameRegex.MatchString(name)
}

func validEmail(email string) bool {
	return emailRegex.MatchString(email)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// requireID rejects identifiers that are not UUIDs with message.
func requireID(id, message string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperrors.NewValidationError(message, map[string]any{"id": id})
	}
	return nil
}

// SplitTags turns a comma separated list into trimmed, non-empty tags.
func SplitTags(raw string) []string {
	tags := []string{}
	for _, tag := range strings.Split(raw, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

const (
	defaultLimit = 10
	maxLimit     = 100
	// maxPage keeps (page-1)*limit well inside a 32-bit offset.
	maxPage = 1_000_000
)

// Pagination resolves page/limit into an offset. Non-positive values fall back to page 1
// and 10 items; limit is capped at 100 and page at one million.
type Pagination struct {
	Page  int
	Limit int
}

func (p Pagination) normalized() Pagination {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Page > maxPage {
		p.Page = maxPage
	}
	if p.Limit < 1 {
		p.Limit = defaultLimit
	}
	if p.Limit > maxLimit {
		p.Limit = maxLimit
	}
	return p
}

func (p Pagination) offset() int {
	return (p.Page - 1) * p.Limit
}

// Page is one page of a listing.
type Page[T any] struct {
	Items      []T
	Total      int
	Page       int
	Limit      int
	TotalPages int
}

func newPage[T any](items []T, total int, p Pagination) Page[T] {
	pages := 0
	if p.Limit > 0 {
		pages = (total + p.Limit - 1) / p.Limit
	}
	return Page[T]{Items: items, Total: total, Page: p.Page, Limit: p.Limit, TotalPages: pages}
}
