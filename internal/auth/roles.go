package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/course-service/internal/domain"
	apperrors "github.com/spec-kit/course-service/pkg/util"
)

const (
	msgAuthenticationRequired = "Authentication required!"
	msgInsufficientPerms      = "Access denied. Insufficient permissions."
)

// Authorize is a pure membership test of the identity's live role against allowed.
func Authorize(identity *Identity, allowed ...domain.Role) error {
	if identity == nil {
		return ErrMissingCredential
	}
	for _, role := range allowed {
		if identity.Role == role {
			return nil
		}
	}
	return ErrInsufficientPermissions
}

// RequireRole gates a route on a static allow-list of roles.
func RequireRole(allowed ...domain.Role) fiber.Handler {
	roles := append([]domain.Role(nil), allowed...)

	return func(c *fiber.Ctx) error {
		identity, ok := IdentityFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized(msgAuthenticationRequired, ErrMissingCredential)
		}
		if err := Authorize(identity, roles...); err != nil {
			return apperrors.NewForbidden(msgInsufficientPerms, err)
		}
		return c.Next()
	}
}
