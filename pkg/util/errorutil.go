package util

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
)

// Error codes carried by DomainError. They are logged and counted, never shown to clients.
const (
	CodeValidation   = "VALIDATION_FAILED"
	CodeNotFound     = "NOT_FOUND"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeTimeout      = "TIMEOUT"
	CodeInternal     = "INTERNAL_ERROR"
)

// DomainError is an error with a client-safe message and the HTTP status it maps to.
// Err keeps the underlying cause for logs.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

func newError(code string, status int, message string, details map[string]any, cause error) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details, Err: cause}
}

// NewValidationError reports rejected input (400).
func NewValidationError(message string, details map[string]any) error {
	return newError(CodeValidation, http.StatusBadRequest, message, details, nil)
}

// NewNotFound reports a missing resource (404).
func NewNotFound(message string) error {
	return newError(CodeNotFound, http.StatusNotFound, message, nil, nil)
}

// NewUnauthorized wraps cause so logs keep the precise reason while the client sees message.
func NewUnauthorized(message string, cause ...error) error {
	return newError(CodeUnauthorized, http.StatusUnauthorized, message, nil, errors.Join(cause...))
}

// NewForbidden reports a caller lacking the required role (403).
func NewForbidden(message string, cause ...error) error {
	return newError(CodeForbidden, http.StatusForbidden, message, nil, errors.Join(cause...))
}

// NewInternalError hides err behind a generic message (500).
func NewInternalError(err error) error {
	return newError(CodeInternal, http.StatusInternalServerError, "internal server error", nil, err)
}

// ToDomainError classifies err. Missing rows become 404, expired deadlines 504 and
// anything unrecognised 500.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	switch {
	case errors.As(err, &domainErr):
		return domainErr
	case errors.Is(err, pgx.ErrNoRows), errors.Is(err, sql.ErrNoRows):
		return newError(CodeNotFound, http.StatusNotFound, "resource not found", nil, err)
	case errors.Is(err, context.DeadlineExceeded):
		return newError(CodeTimeout, http.StatusGatewayTimeout, "request timed out", nil, err)
	default:
		return newError(CodeInternal, http.StatusInternalServerError, "internal server error", nil, err)
	}
}

// MapError is ToDomainError returned as an error, for repository results passed upward.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	return ToDomainError(err)
}
