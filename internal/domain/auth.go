package domain

import "time"

// RevokedToken records a credential invalidated by logout.
// TokenHash is the hex SHA-256 of the raw credential.
type RevokedToken struct {
	TokenHash string
	SubjectID string
	RevokedAt time.Time
	ExpiresAt time.Time
}

// PasswordResetToken is a single-use reset link token.
type PasswordResetToken struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
	UsedAt    *time.Time
	CreatedAt time.Time
}

// Usable reports whether the token can still be redeemed at now.
func (t *PasswordResetToken) Usable(now time.Time) bool {
	return t.UsedAt == nil && now.Before(t.ExpiresAt)
}
