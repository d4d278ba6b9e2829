package auth

import "errors"

// Authentication failures. They are terminal for the request and never surfaced
// individually to clients.
var (
	ErrMissingCredential          = errors.New("missing credential")
	ErrRevokedCredential          = errors.New("revoked credential")
	ErrInvalidOrExpiredCredential = errors.New("invalid or expired credential")
	ErrUnknownSubject             = errors.New("unknown subject")
	ErrInsufficientPermissions    = errors.New("insufficient permissions")
	ErrAuthenticationFailed       = errors.New("authentication failed")

	ErrSigningKeyMissing = errors.New("signing key missing")
)

// Reason returns a short label for err, used for logs and metrics.
func Reason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMissingCredential):
		return "missing"
	case errors.Is(err, ErrRevokedCredential):
		return "revoked"
	case errors.Is(err, ErrInvalidOrExpiredCredential):
		return "invalid_or_expired"
	case errors.Is(err, ErrUnknownSubject):
		return "unknown_subject"
	case errors.Is(err, ErrInsufficientPermissions):
		return "insufficient_permissions"
	case errors.Is(err, ErrAuthenticationFailed):
		return "authentication_failed"
	default:
		return "internal"
	}
}
