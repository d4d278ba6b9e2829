package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/course-service/internal/api/dto"
	"github.com/spec-kit/course-service/internal/auth"
	"github.com/spec-kit/course-service/internal/service"
	apperrors "github.com/spec-kit/course-service/pkg/util"
)

// AuthHandler exposes the session endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	user, token, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Login successful!", dto.LoginResponse{
		User:  dto.NewUserResponse(user),
		Token: token,
	})
}

// Logout handles POST /auth/logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	if err := h.auth.Logout(c.UserContext(), identity); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Logged out successfully", nil)
}

// ValidToken handles GET /auth/validToken/:token. Only signature and expiry are checked.
func (h *AuthHandler) ValidToken(c *fiber.Ctx) error {
	token := c.Params("token")
	if token == "" {
		return apperrors.NewUnauthorized("No token provided", auth.ErrMissingCredential)
	}
	if err := h.auth.ValidToken(token); err != nil {
		return apperrors.NewUnauthorized("Invalid token !", err)
	}
	return respond(c, http.StatusOK, "Valid token !", nil)
}

// Infos handles GET /auth/infos.
func (h *AuthHandler) Infos(c *fiber.Ctx) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "User information", dto.NewUserResponse(identity.User))
}

// UpdateProfile handles PUT /auth/profile.
func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	var updates map[string]json.RawMessage
	if err := json.Unmarshal(c.Body(), &updates); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	user := *identity.User
	if err := h.auth.UpdateProfile(c.UserContext(), &user, updates); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Profile updated successfully", dto.NewUserResponse(&user))
}

// ChangePassword handles PUT /auth/password.
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	var req dto.PasswordChangeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	user := *identity.User
	if err := h.auth.ChangePassword(c.UserContext(), &user, req.OldPassword, req.NewPassword, req.ConfirmPassword); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Password updated successfully", nil)
}

// RequestPasswordReset handles POST /auth/password/reset/request.
func (h *AuthHandler) RequestPasswordReset(c *fiber.Ctx) error {
	var req dto.PasswordResetRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.auth.RequestPasswordReset(c.UserContext(), req.Email); err != nil {
		return err
	}
	return respond(c, http.StatusAccepted, "If the account exists, a reset link has been sent", nil)
}

// ConfirmPasswordReset handles POST /auth/password/reset/confirm.
func (h *AuthHandler) ConfirmPasswordReset(c *fiber.Ctx) error {
	var req dto.PasswordResetConfirmRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.auth.ConfirmPasswordReset(c.UserContext(), req.Token, req.NewPassword, req.ConfirmPassword); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Password reset successfully", nil)
}

func currentIdentity(c *fiber.Ctx) (*auth.Identity, error) {
	identity, ok := auth.IdentityFromContext(c)
	if !ok || identity.User == nil {
		return nil, apperrors.NewUnauthorized("Authentication required!", auth.ErrMissingCredential)
	}
	return identity, nil
}
