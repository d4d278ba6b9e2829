package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/course-service/internal/auth"
	"github.com/spec-kit/course-service/internal/domain"
	"github.com/spec-kit/course-service/internal/events"
	"github.com/spec-kit/course-service/internal/repository"
	apperrors "github.com/spec-kit/course-service/pkg/util"
)

const (
	msgUserNotFound = "Utilisateur non trouvé"
	msgInvalidUser  = "ID utilisateur invalide"
	msgInvalidRole  = "Invalid role!"
)

// UserInput carries the fields of a new account.
type UserInput struct {
	FirstName  string
	LastName   string
	Email      string
	Password   string
	Address    string
	Role       domain.Role
	Socials    domain.Socials
	ProfilePic string
}

// UserPatch carries optional changes to an account. Nil fields are left untouched.
type UserPatch struct {
	FirstName  *string
	LastName   *string
	Email      *string
	Password   *string
	Address    *string
	Role       *domain.Role
	Active     *bool
	Socials    *domain.Socials
	ProfilePic *string
}

// UserService implements account administration.
type UserService struct {
	users      repository.UserRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	bcryptCost int
	now        func() time.Time
}

// NewUserService constructs the service.
func NewUserService(users repository.UserRepository, dispatcher events.Dispatcher, logger *zap.Logger, bcryptCost int) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{
		users:      users,
		dispatcher: dispatcher,
		logger:     logger.With(zap.String("component", "service.users")),
		bcryptCost: bcryptCost,
		now:        time.Now,
	}
}

// List returns every account.
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return users, nil
}

// Get returns one account.
func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	if err := requireID(id, msgInvalidUser); err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, userError(err)
	}
	return user, nil
}

// Create validates and stores a new account, then announces it.
func (s *UserService) Create(ctx context.Context, input UserInput) (*domain.User, error) {
	input.Email = normalizeEmail(input.Email)
	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)
	if input.FirstName == "" || input.LastName == "" || input.Email == "" || input.Password == "" {
		return nil, apperrors.NewValidationError(msgRequireAllFields, nil)
	}
	if !validName(input.FirstName) || !validName(input.LastName) {
		return nil, apperrors.NewValidationError(msgInvalidName, nil)
	}
	if !validEmail(input.Email) {
		return nil, apperrors.NewValidationError(msgInvalidEmail, nil)
	}
	if input.Role == "" {
		input.Role = domain.RoleFormateur
	}
	if !input.Role.Valid() {
		return nil, apperrors.NewValidationError(msgInvalidRole, map[string]any{"role": input.Role})
	}
	if err := auth.ValidatePassword(input.Password); err != nil {
		return nil, apperrors.NewValidationError(err.Error(), nil)
	}

	if _, err := s.users.GetByEmail(ctx, input.Email); err == nil {
		return nil, apperrors.NewValidationError(msgEmailTaken, nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewInternalError(err)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        input.Email,
		PasswordHash: hash,
		Address:      input.Address,
		Role:         input.Role,
		Socials:      input.Socials,
		ProfilePic:   input.ProfilePic,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}

	publishEvent(ctx, s.dispatcher, s.logger, s.now, events.Event{
		Type:      events.EventUserCreated,
		SubjectID: user.ID,
		Payload: events.UserCreatedPayload{
			Email:     user.Email,
			FirstName: user.FirstName,
			LastName:  user.LastName,
			Role:      user.Role,
		},
	})
	return user, nil
}

// Update applies an administrative patch. A supplied password is re-validated and hashed.
func (s *UserService) Update(ctx context.Context, id string, patch UserPatch) (*domain.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.FirstName != nil {
		if !validName(strings.TrimSpace(*patch.FirstName)) {
			return nil, apperrors.NewValidationError(msgInvalidName, nil)
		}
		user.FirstName = strings.TrimSpace(*patch.FirstName)
	}
	if patch.LastName != nil {
		if !validName(strings.TrimSpace(*patch.LastName)) {
			return nil, apperrors.NewValidationError(msgInvalidName, nil)
		}
		user.LastName = strings.TrimSpace(*patch.LastName)
	}
	if patch.Email != nil {
		email := normalizeEmail(*patch.Email)
		if !validEmail(email) {
			return nil, apperrors.NewValidationError(msgInvalidEmail, nil)
		}
		if email != user.Email {
			if existing, err := s.users.GetByEmail(ctx, email); err == nil && existing.ID != user.ID {
				return nil, apperrors.NewValidationError(msgEmailTaken, nil)
			} else if err != nil && !errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewInternalError(err)
			}
		}
		user.Email = email
	}
	if patch.Password != nil {
		if err := auth.ValidatePassword(*patch.Password); err != nil {
			return nil, apperrors.NewValidationError(err.Error(), nil)
		}
		hash, err := auth.HashPassword(*patch.Password, s.bcryptCost)
		if err != nil {
			return nil, apperrors.NewInternalError(err)
		}
		user.PasswordHash = hash
	}
	if patch.Role != nil {
		if !patch.Role.Valid() {
			return nil, apperrors.NewValidationError(msgInvalidRole, map[string]any{"role": *patch.Role})
		}
		user.Role = *patch.Role
	}
	if patch.Address != nil {
		user.Address = *patch.Address
	}
	if patch.Active != nil {
		user.Active = *patch.Active
	}
	if patch.Socials != nil {
		user.Socials = *patch.Socials
	}
	if patch.ProfilePic != nil {
		user.ProfilePic = *patch.ProfilePic
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, userError(err)
	}
	return user, nil
}

// Delete removes an account.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := requireID(id, msgInvalidUser); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return userError(err)
	}
	return nil
}

func userError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound(msgUserNotFound)
	}
	return apperrors.MapError(err)
}
