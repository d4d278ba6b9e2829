package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	apperrors "github.com/spec-kit/course-service/pkg/util"
)

const identityKey = "auth_identity"

// RejectionRecorder counts rejected requests by reason.
type RejectionRecorder interface {
	RecordAuthRejection(reason string)
}

// AuthMiddleware validates bearer tokens and loads identities.
type AuthMiddleware struct {
	validator *Validator
	logger    *zap.Logger
	recorder  RejectionRecorder
}

// NewAuthMiddleware constructs middleware. recorder may be nil.
func NewAuthMiddleware(validator *Validator, logger *zap.Logger, recorder RejectionRecorder) *AuthMiddleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthMiddleware{
		validator: validator,
		logger:    logger.With(zap.String("component", "auth.middleware")),
		recorder:  recorder,
	}
}

// Handle enforces authentication for protected routes. Every failure yields the same
// client-facing response; the precise reason is only logged and counted.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	identity, err := m.validator.Validate(c.UserContext(), BearerToken(c.Get(fiber.HeaderAuthorization)))
	if err != nil {
		reason := Reason(err)
		if m.recorder != nil {
			m.recorder.RecordAuthRejection(reason)
		}
		if reason == "internal" {
			m.logger.Error("credential validation failed", zap.Error(err), zap.String("path", c.Path()))
		} else {
			m.logger.Debug("credential rejected", zap.String("reason", reason), zap.String("path", c.Path()))
		}
		return apperrors.NewUnauthorized(msgAuthenticationRequired, err)
	}

	c.Locals(identityKey, identity)
	return c.Next()
}

// BearerToken extracts the credential from an Authorization header value.
// A header without the Bearer scheme is treated as the raw credential; the scheme alone
// yields an empty credential.
func BearerToken(header string) string {
	header = strings.TrimSpace(header)
	scheme, rest, found := strings.Cut(header, " ")
	if strings.EqualFold(scheme, "Bearer") {
		if !found {
			return ""
		}
		return strings.TrimSpace(rest)
	}
	return header
}

// IdentityFromContext retrieves the authenticated identity.
func IdentityFromContext(c *fiber.Ctx) (*Identity, bool) {
	val := c.Locals(identityKey)
	if val == nil {
		return nil, false
	}
	identity, ok := val.(*Identity)
	return identity, ok && identity != nil
}
