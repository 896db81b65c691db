package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pquerna/otp/totp"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/koptay/client-portal/internal/api/metrics"
	"github.com/koptay/client-portal/internal/core/domain"
	"github.com/koptay/client-portal/internal/core/ports"
)

// AuthService implements the credential-for-token exchange. Staff log in with
// email; individual clients with their national ID, corporate clients with
// their tax number. Which lookup runs is decided by the presence of '@'.
type AuthService struct {
	repo      ports.UserRepository
	denylist  ports.TokenDenylist
	jwtSecret string
	tokenTTL  time.Duration
	logger    zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, denylist ports.TokenDenylist, jwtSecret string, tokenTTL time.Duration, logger zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{repo: repo, denylist: denylist, jwtSecret: jwtSecret, tokenTTL: tokenTTL, logger: logger}
}

func (s *AuthService) Login(ctx context.Context, username, password, otpCode string) (string, *domain.User, error) {
	if username == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.findByLoginName(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// Same answer as a wrong password so login names can't be probed.
			metrics.LoginFailuresTotal.WithLabelValues("unknown_user").Inc()
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		metrics.LoginFailuresTotal.WithLabelValues("bad_password").Inc()
		return "", nil, domain.ErrInvalidCredentials
	}

	if !user.IsActive {
		metrics.LoginFailuresTotal.WithLabelValues("inactive").Inc()
		return "", nil, domain.ErrInactiveAccount
	}

	if user.TwoFactorEnabled {
		if otpCode == "" {
			metrics.LoginFailuresTotal.WithLabelValues("otp_missing").Inc()
			return "", nil, domain.ErrTwoFactorRequired
		}
		if !totp.Validate(otpCode, user.TOTPSecret) {
			metrics.LoginFailuresTotal.WithLabelValues("otp_invalid").Inc()
			return "", nil, domain.ErrInvalidCredentials
		}
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}

	now := time.Now().UTC()
	user.LastLogin = &now
	if err := s.repo.Update(ctx, user); err != nil {
		// Last-login is best effort; the login itself already succeeded.
		s.logger.Warn().Err(err).Int64("user_id", user.ID).Msg("failed to record last login")
	}

	metrics.LoginsTotal.WithLabelValues(string(user.Role)).Inc()
	s.logger.Info().Int64("user_id", user.ID).Str("role", string(user.Role)).Msg("login succeeded")

	return token, user, nil
}

func (s *AuthService) Me(ctx context.Context, userID int64) (*domain.User, error) {
	return s.repo.FindByID(ctx, userID)
}

func (s *AuthService) ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword, token string) error {
	if newPassword == "" {
		return domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)) != nil {
		return domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user.PasswordHash = string(hash)
	user.MustChangePassword = false
	user.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, user); err != nil {
		return err
	}

	// The old credential was just invalidated; the token issued against it
	// goes with it. The client logs in again with the new password.
	if token != "" {
		if err := s.denylist.Revoke(ctx, token, s.tokenTTL); err != nil {
			s.logger.Warn().Err(err).Int64("user_id", userID).Msg("failed to revoke token after password change")
		}
	}

	s.logger.Info().Int64("user_id", userID).Msg("password changed")
	return nil
}

func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.denylist.Revoke(ctx, token, s.tokenTTL)
}

// findByLoginName resolves the login name the way the login form is used:
// an '@' means staff email, an all-digit 10-char string is a tax number,
// anything else is tried as national ID first, then tax number.
func (s *AuthService) findByLoginName(ctx context.Context, username string) (*domain.User, error) {
	if strings.Contains(username, "@") {
		return s.repo.FindByEmail(ctx, username)
	}
	user, err := s.repo.FindByNationalID(ctx, username)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}
	return s.repo.FindByTaxNumber(ctx, username)
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": string(user.Role),
		"name": user.FullName,
		"exp":  time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
