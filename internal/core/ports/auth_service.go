package ports

import (
	"context"
	"time"

	"github.com/koptay/client-portal/internal/core/domain"
)

// AuthService implements the credential-for-token exchange and everything
// that mutates a user's own credentials.
type AuthService interface {
	// Login resolves username as email (contains '@'), national ID or tax
	// number, verifies the password and, for 2FA-enabled accounts, the TOTP
	// code. Returns a signed bearer token and the identity on success.
	// A 2FA account without otpCode fails with domain.ErrTwoFactorRequired.
	Login(ctx context.Context, username, password, otpCode string) (string, *domain.User, error)
	// Me returns the fresh identity record for an authenticated user.
	Me(ctx context.Context, userID int64) (*domain.User, error)
	// ChangePassword verifies currentPassword, stores the new hash, clears
	// the must-change-password flag and revokes the presenting token.
	ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword, token string) error
	// Logout revokes the presenting token until its natural expiry.
	Logout(ctx context.Context, token string) error
}

// TokenDenylist marks bearer tokens as revoked before they expire.
type TokenDenylist interface {
	Revoke(ctx context.Context, token string, ttl time.Duration) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}
