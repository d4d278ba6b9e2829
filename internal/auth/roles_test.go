package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/course-service/internal/domain"
)

func TestAuthorize(t *testing.T) {
	admin := &Identity{SubjectID: "a", Role: domain.RoleAdmin}
	trainer := &Identity{SubjectID: "t", Role: domain.RoleFormateur}

	tests := []struct {
		name     string
		identity *Identity
		allowed  []domain.Role
		wantErr  error
	}{
		{name: "admin on admin route", identity: admin, allowed: []domain.Role{domain.RoleAdmin}},
		{name: "trainer on admin route", identity: trainer, allowed: []domain.Role{domain.RoleAdmin}, wantErr: ErrInsufficientPermissions},
		{name: "trainer on shared route", identity: trainer, allowed: []domain.Role{domain.RoleAdmin, domain.RoleFormateur}},
		{name: "empty allow-list denies", identity: admin, wantErr: ErrInsufficientPermissions},
		{name: "no identity", identity: nil, allowed: []domain.Role{domain.RoleAdmin}, wantErr: ErrMissingCredential},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := Identity{}
			if tt.identity != nil {
				before = *tt.identity
			}
			err := Authorize(tt.identity, tt.allowed...)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.identity != nil {
				assert.Equal(t, before, *tt.identity)
			}
		})
	}
}

func TestReason(t *testing.T) {
	assert.Equal(t, "", Reason(nil))
	assert.Equal(t, "missing", Reason(ErrMissingCredential))
	assert.Equal(t, "revoked", Reason(ErrRevokedCredential))
	assert.Equal(t, "invalid_or_expired", Reason(ErrInvalidOrExpiredCredential))
	assert.Equal(t, "unknown_subject", Reason(ErrUnknownSubject))
	assert.Equal(t, "insufficient_permissions", Reason(ErrInsufficientPermissions))
}
