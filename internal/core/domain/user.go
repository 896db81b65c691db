package domain

import (
	"errors"
	"time"
)

// Role classifies an account. Individual and corporate accounts belong to
// clients of the firm; admin and lawyer are staff roles.
type Role string

const (
	RoleIndividual Role = "individual"
	RoleCorporate  Role = "corporate"
	RoleAdmin      Role = "admin"
	RoleLawyer     Role = "lawyer"
)

var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrInactiveAccount = errors.New("account is not active")
var ErrTwoFactorRequired = errors.New("2FA code required")

// IsStaff reports whether the role belongs to firm staff.
func (r Role) IsStaff() bool {
	return r == RoleAdmin || r == RoleLawyer
}

// IsClient reports whether the role belongs to a client of the firm.
func (r Role) IsClient() bool {
	return r == RoleIndividual || r == RoleCorporate
}

// Valid reports whether r is one of the four known roles.
func (r Role) Valid() bool {
	return r.IsStaff() || r.IsClient()
}

// User models an account in the portal. Individual clients are identified by
// their national ID (TC kimlik), corporate clients by their tax number; staff
// log in with email.
type User struct {
	ID                 int64      `json:"id" bson:"_id"`
	Email              string     `json:"email" bson:"email"`
	PasswordHash       string     `json:"-" bson:"password_hash"`
	FullName           string     `json:"full_name" bson:"full_name"`
	Phone              string     `json:"phone,omitempty" bson:"phone,omitempty"`
	NationalID         string     `json:"tc_kimlik,omitempty" bson:"tc_kimlik,omitempty"`
	TaxNumber          string     `json:"tax_number,omitempty" bson:"tax_number,omitempty"`
	CompanyName        string     `json:"company_name,omitempty" bson:"company_name,omitempty"`
	Address            string     `json:"address,omitempty" bson:"address,omitempty"`
	BankAccountInfo    string     `json:"bank_account_info,omitempty" bson:"bank_account_info,omitempty"`
	Role               Role       `json:"user_type" bson:"user_type"`
	IsActive           bool       `json:"is_active" bson:"is_active"`
	IsVerified         bool       `json:"is_verified" bson:"is_verified"`
	TOTPSecret         string     `json:"-" bson:"totp_secret,omitempty"`
	TwoFactorEnabled   bool       `json:"is_2fa_enabled" bson:"is_2fa_enabled"`
	MustChangePassword bool       `json:"must_change_password" bson:"must_change_password"`
	CreatedAt          time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at,omitempty" bson:"updated_at,omitempty"`
	LastLogin          *time.Time `json:"last_login,omitempty" bson:"last_login,omitempty"`
}
