package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/course-service/internal/auth"
	"github.com/spec-kit/course-service/internal/domain"
	"github.com/spec-kit/course-service/internal/events"
	"github.com/spec-kit/course-service/internal/repository"
	apperrors "github.com/spec-kit/course-service/pkg/util"
)

const (
	msgRequireAllFields  = "Require all fields!"
	msgInvalidLogin      = "Invalid email or password!"
	msgInvalidUpdates    = "Invalid updates!"
	msgAllFieldsRequired = "All fields are required"
	msgWrongPassword     = "Current password is incorrect"
	msgPasswordMismatch  = "New password and confirm password do not match"
	msgInvalidResetToken = "Invalid or expired reset token"
)

// profileFields lists the keys a user may change on their own profile.
var profileFields = map[string]struct{}{
	"profilePic": {},
	"fName":      {},
	"lName":      {},
	"email":      {},
	"adresse":    {},
	"socials":    {},
}

// AuthService coordinates login, logout and self-service account flows.
type AuthService struct {
	users       repository.UserRepository
	resets      repository.PasswordResetRepository
	tx          repository.Transactor
	tokens      *auth.TokenManager
	validator   *auth.Validator
	revocations auth.RevocationStore
	dispatcher  events.Dispatcher
	logger      *zap.Logger
	bcryptCost  int
	resetTTL    time.Duration
	clientURL   string
	now         func() time.Time
}

// AuthDependencies encapsulates collaborators for the auth service.
type AuthDependencies struct {
	UserRepo          repository.UserRepository
	PasswordResetRepo repository.PasswordResetRepository
	Transactor        repository.Transactor
	Tokens            *auth.TokenManager
	Validator         *auth.Validator
	Revocations       auth.RevocationStore
	Dispatcher        events.Dispatcher
	Logger            *zap.Logger
	BcryptCost        int
	ResetTTL          time.Duration
	ClientURL         string
	Now               func() time.Time
}

// NewAuthService builds the service.
func NewAuthService(deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	resetTTL := deps.ResetTTL
	if resetTTL <= 0 {
		resetTTL = time.Hour
	}
	return &AuthService{
		users:       deps.UserRepo,
		resets:      deps.PasswordResetRepo,
		tx:          deps.Transactor,
		tokens:      deps.Tokens,
		validator:   deps.Validator,
		revocations: deps.Revocations,
		dispatcher:  deps.Dispatcher,
		logger:      logger.With(zap.String("component", "service.auth")),
		bcryptCost:  deps.BcryptCost,
		resetTTL:    resetTTL,
		clientURL:   strings.TrimRight(deps.ClientURL, "/"),
		now:         now,
	}
}

// Login checks the credentials and issues a token. Unknown emails and wrong passwords
// produce the same error.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, "", apperrors.NewValidationError(msgRequireAllFields, nil)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", apperrors.NewUnauthorized(msgInvalidLogin, auth.ErrAuthenticationFailed)
		}
		return nil, "", apperrors.NewInternalError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", apperrors.NewUnauthorized(msgInvalidLogin, auth.ErrAuthenticationFailed)
	}

	if !user.Active {
		if err := s.users.SetActive(ctx, user.ID, true); err != nil {
			return nil, "", apperrors.NewInternalError(err)
		}
		user.Active = true
	}

	token, _, err := s.tokens.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, "", apperrors.NewInternalError(err)
	}
	return user, token, nil
}

// Logout revokes the presented credential and marks the account inactive.
func (s *AuthService) Logout(ctx context.Context, identity *auth.Identity) error {
	if identity == nil {
		return apperrors.NewUnauthorized("Authentication required!", auth.ErrMissingCredential)
	}
	if err := s.revocations.Record(ctx, identity.Credential, identity.SubjectID, identity.ExpiresAt); err != nil {
		return apperrors.NewInternalError(fmt.Errorf("record revocation: %w", err))
	}
	if identity.Active {
		if err := s.users.SetActive(ctx, identity.SubjectID, false); err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewInternalError(err)
		}
	}
	return nil
}

// ValidToken reports whether raw carries a valid signature and has not expired.
// The revocation store is not consulted, so a logged-out credential is still reported
// valid here until it expires.
func (s *AuthService) ValidToken(raw string) error {
	return s.validator.Verify(raw)
}

// UpdateProfile applies allow-listed changes to the caller's own account.
func (s *AuthService) UpdateProfile(ctx context.Context, user *domain.User, updates map[string]json.RawMessage) error {
	for key := range updates {
		if _, ok := profileFields[key]; !ok {
			return apperrors.NewValidationError(msgInvalidUpdates, map[string]any{"field": key})
		}
	}

	updated := *user
	for key, raw := range updates {
		var err error
		switch key {
		case "profilePic":
			err = json.Unmarshal(raw, &updated.ProfilePic)
		case "fName":
			err = json.Unmarshal(raw, &updated.FirstName)
		case "lName":
			err = json.Unmarshal(raw, &updated.LastName)
		case "adresse":
			err = json.Unmarshal(raw, &updated.Address)
		case "socials":
			err = json.Unmarshal(raw, &updated.Socials)
		case "email":
			err = json.Unmarshal(raw, &updated.Email)
			updated.Email = normalizeEmail(updated.Email)
		}
		if err != nil {
			return apperrors.NewValidationError(msgInvalidUpdates, map[string]any{"field": key})
		}
	}

	if updated.Email != user.Email {
		if !validEmail(updated.Email) {
			return apperrors.NewValidationError(msgInvalidEmail, nil)
		}
		if err := s.ensureEmailFree(ctx, updated.Email, user.ID); err != nil {
			return err
		}
	}

	if err := s.users.Update(ctx, &updated); err != nil {
		return apperrors.MapError(err)
	}
	*user = updated
	return nil
}

// ChangePassword replaces the caller's password after checking the current one.
func (s *AuthService) ChangePassword(ctx context.Context, user *domain.User, oldPassword, newPassword, confirmPassword string) error {
	if oldPassword == "" || newPassword == "" || confirmPassword == "" {
		return apperrors.NewValidationError(msgAllFieldsRequired, nil)
	}
	if err := auth.ComparePassword(user.PasswordHash, oldPassword); err != nil {
		return apperrors.NewValidationError(msgWrongPassword, nil)
	}
	if newPassword != confirmPassword {
		return apperrors.NewValidationError(msgPasswordMismatch, nil)
	}
	if err := auth.ValidatePassword(newPassword); err != nil {
		return apperrors.NewValidationError(err.Error(), nil)
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	updated := *user
	updated.PasswordHash = hash
	if err := s.users.Update(ctx, &updated); err != nil {
		return apperrors.MapError(err)
	}
	*user = updated
	return nil
}

// RequestPasswordReset stores a reset token and emails the link. Unknown emails are
// accepted silently so callers cannot probe for accounts.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return apperrors.NewValidationError(msgRequireAllFields, nil)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Debug("password reset requested for unknown email")
			return nil
		}
		return apperrors.NewInternalError(err)
	}

	token := &domain.PasswordResetToken{
		UserID:    user.ID,
		Token:     uuid.NewString(),
		ExpiresAt: s.now().Add(s.resetTTL),
	}
	if err := s.resets.Create(ctx, token); err != nil {
		return apperrors.NewInternalError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:      events.EventPasswordResetRequested,
		SubjectID: user.ID,
		Payload: events.PasswordResetRequestedPayload{
			Email:     user.Email,
			FirstName: user.FirstName,
			ResetURL:  s.clientURL + "/reset-password/" + token.Token,
			ExpiresAt: token.ExpiresAt,
		},
	})
	return nil
}

// ConfirmPasswordReset redeems a reset token and sets the new password.
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, tokenStr, newPassword, confirmPassword string) error {
	if tokenStr == "" || newPassword == "" || confirmPassword == "" {
		return apperrors.NewValidationError(msgAllFieldsRequired, nil)
	}
	if newPassword != confirmPassword {
		return apperrors.NewValidationError(msgPasswordMismatch, nil)
	}
	if err := auth.ValidatePassword(newPassword); err != nil {
		return apperrors.NewValidationError(err.Error(), nil)
	}

	var user *domain.User
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		token, err := s.resets.GetByToken(ctx, tokenStr)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewValidationError(msgInvalidResetToken, nil)
			}
			return err
		}
		if !token.Usable(s.now()) {
			return apperrors.NewValidationError(msgInvalidResetToken, nil)
		}

		user, err = s.users.GetByID(ctx, token.UserID)
		if err != nil {
			return err
		}
		hash, err := auth.HashPassword(newPassword, s.bcryptCost)
		if err != nil {
			return err
		}
		user.PasswordHash = hash
		if err := s.users.Update(ctx, user); err != nil {
			return err
		}
		if err := s.resets.MarkUsed(ctx, token.ID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewValidationError(msgInvalidResetToken, nil)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:      events.EventPasswordResetCompleted,
		SubjectID: user.ID,
		Payload: events.PasswordResetCompletedPayload{
			Email:     user.Email,
			FirstName: user.FirstName,
		},
	})
	return nil
}

func (s *AuthService) ensureEmailFree(ctx context.Context, email, selfID string) error {
	existing, err := s.users.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return nil
	case err != nil:
		return apperrors.NewInternalError(err)
	case existing.ID != selfID:
		return apperrors.NewValidationError(msgEmailTaken, nil)
	}
	return nil
}

func (s *AuthService) publishEvent(ctx context.Context, event events.Event) {
	publishEvent(ctx, s.dispatcher, s.logger, s.now, event)
}

func publishEvent(ctx context.Context, dispatcher events.Dispatcher, logger *zap.Logger, now func() time.Time, event events.Event) {
	if dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = now().UTC()
	}
	if err := dispatcher.Publish(ctx, event); err != nil {
		logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}
