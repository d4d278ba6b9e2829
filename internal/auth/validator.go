package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/course-service/internal/domain"
)

// SubjectRepository resolves the live record behind a credential.
type SubjectRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

// Identity is the resolved principal attached to a request.
// Role and Active come from the live subject record, not from the token.
type Identity struct {
	SubjectID  string
	Role       domain.Role
	Active     bool
	User       *domain.User
	Credential string
	ExpiresAt  time.Time
}

// Validator authenticates raw credentials.
type Validator struct {
	tokens      *TokenManager
	revocations RevocationStore
	subjects    SubjectRepository
}

// NewValidator wires the validator to its stores.
func NewValidator(tokens *TokenManager, revocations RevocationStore, subjects SubjectRepository) *Validator {
	return &Validator{tokens: tokens, revocations: revocations, subjects: subjects}
}

// Validate checks, in order: presence, revocation, signature and expiry, subject existence.
// Revocation is consulted before cryptographic verification.
func (v *Validator) Validate(ctx context.Context, raw string) (*Identity, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrMissingCredential
	}

	revoked, err := v.revocations.Contains(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("revocation lookup: %w", err)
	}
	if revoked {
		return nil, ErrRevokedCredential
	}

	claims, err := v.tokens.ParseToken(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOrExpiredCredential, err)
	}

	user, err := v.subjects.GetByID(ctx, claims.SubjectID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUnknownSubject
		}
		return nil, fmt.Errorf("load subject: %w", err)
	}
	if user == nil {
		return nil, ErrUnknownSubject
	}

	identity := &Identity{
		SubjectID:  user.ID,
		Role:       user.Role,
		Active:     user.Active,
		User:       user,
		Credential: raw,
	}
	if claims.ExpiresAt != nil {
		identity.ExpiresAt = claims.ExpiresAt.Time
	}
	return identity, nil
}

// Verify checks signature and expiry only. It does not consult the revocation store,
// so a logged-out credential still verifies here until it expires.
func (v *Validator) Verify(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ErrMissingCredential
	}
	if _, err := v.tokens.ParseToken(raw); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOrExpiredCredential, err)
	}
	return nil
}
