// Package portal is the client-side companion to the backend API: it keeps
// the authenticated session, decides which view a navigation request lands
// on, and talks to the auth endpoints with the bearer token attached.
package portal

import "errors"

var (
	// ErrTwoFactorRequired signals that the login must be repeated with the
	// same credentials plus a one-time code.
	ErrTwoFactorRequired = errors.New("2FA code required")

	// ErrInvalidCredentials is any login rejection other than the 2FA prompt.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrSessionExpired is returned when an authenticated call comes back 401.
	// The token is gone on the server side; the caller should clear the
	// session and send the user back to login.
	ErrSessionExpired = errors.New("session expired")
)

// Role mirrors the backend's user_type field.
type Role string

const (
	RoleIndividual Role = "individual"
	RoleCorporate  Role = "corporate"
	RoleAdmin      Role = "admin"
	RoleLawyer     Role = "lawyer"
)

// Staff reports whether the role belongs to firm personnel.
func (r Role) Staff() bool {
	return r == RoleAdmin || r == RoleLawyer
}

// Identity is the profile snapshot the backend returns at login and from
// GET /auth/me.
type Identity struct {
	ID                 int64  `json:"id"`
	FullName           string `json:"full_name"`
	Email              string `json:"email"`
	Phone              string `json:"phone,omitempty"`
	Role               Role   `json:"user_type"`
	MustChangePassword bool   `json:"must_change_password"`
}

// Session is the current authentication context: who is logged in and with
// what credential. The zero value is a logged-out session.
type Session struct {
	User  *Identity `json:"user"`
	Token string    `json:"token"`
}

// Authenticated reports whether both the identity and the credential are
// present. One without the other counts as logged out.
func (s Session) Authenticated() bool {
	return s.User != nil && s.Token != ""
}
