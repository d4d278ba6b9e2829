package dto

import (
	"time"

	"github.com/spec-kit/course-service/internal/domain"
)

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the signed-in user and their token.
type LoginResponse struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token"`
}

// PasswordChangeRequest payload for PUT /auth/password.
type PasswordChangeRequest struct {
	OldPassword     string `json:"oldPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

// PasswordResetRequest payload for requesting a reset link.
type PasswordResetRequest struct {
	Email string `json:"email"`
}

// PasswordResetConfirmRequest payload for redeeming a reset token.
type PasswordResetConfirmRequest struct {
	Token           string `json:"token"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

// SocialsPayload mirrors domain.Socials on the wire.
type SocialsPayload struct {
	LinkedIn string `json:"linkedin"`
	Website  string `json:"website"`
	GitHub   string `json:"github"`
	Bio      string `json:"bio"`
}

// CreateUserRequest payload for POST /users.
type CreateUserRequest struct {
	FirstName  string         `json:"fName"`
	LastName   string         `json:"lName"`
	Email      string         `json:"email"`
	Password   string         `json:"password"`
	Address    string         `json:"adresse"`
	Role       domain.Role    `json:"role"`
	Socials    SocialsPayload `json:"socials"`
	ProfilePic string         `json:"profilePic"`
}

// UpdateUserRequest payload for PUT /users/:id.
type UpdateUserRequest struct {
	FirstName  *string         `json:"fName"`
	LastName   *string         `json:"lName"`
	Email      *string         `json:"email"`
	Password   *string         `json:"password"`
	Address    *string         `json:"adresse"`
	Role       *domain.Role    `json:"role"`
	Active     *bool           `json:"active"`
	Socials    *SocialsPayload `json:"socials"`
	ProfilePic *string         `json:"profilePic"`
}

// UserResponse is the public view of an account. The password hash is never exposed.
type UserResponse struct {
	ID         string         `json:"id"`
	FirstName  string         `json:"fName"`
	LastName   string         `json:"lName"`
	Email      string         `json:"email"`
	Address    string         `json:"adresse"`
	Active     bool           `json:"active"`
	Role       domain.Role    `json:"role"`
	Socials    SocialsPayload `json:"socials"`
	ProfilePic string         `json:"profilePic"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
}

// NewUserResponse maps a domain user.
func NewUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:         u.ID,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Email:      u.Email,
		Address:    u.Address,
		Active:     u.Active,
		Role:       u.Role,
		Socials:    SocialsPayload(u.Socials),
		ProfilePic: u.ProfilePic,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

// ToDomain converts the payload.
func (s SocialsPayload) ToDomain() domain.Socials {
	return domain.Socials(s)
}
