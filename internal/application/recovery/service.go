package recovery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-auth-api/internal/domain"
	jwtinfra "github.com/go-auth-api/internal/infrastructure/jwt"
	"github.com/go-auth-api/internal/pkg/otp"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

// Service drives the three-step password recovery flow:
// request a code, trade the code for a reset-scoped token, redeem the token.
// Each step is gated by the artifact of the previous one.
type Service interface {
	RequestReset(ctx context.Context, email string) error
	VerifyCode(ctx context.Context, email, code string) (string, error)
	ResetPassword(ctx context.Context, email, resetToken, newPassword string) error
}

type userStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
}

type mailer interface {
	SendResetCode(to, name, code string) error
}

type tokenProvider interface {
	SignReset(userID, email string) (string, error)
	Verify(token string) (*jwtinfra.Claims, error)
}

type service struct {
	users  userStore
	mailer mailer
	tokens tokenProvider
}

type ServiceDeps struct {
	UserRepo    userStore
	Mailer      mailer
	JWTProvider tokenProvider
}

func NewService(deps ServiceDeps) Service {
	return &service{users: deps.UserRepo, mailer: deps.Mailer, tokens: deps.JWTProvider}
}

// RequestReset stores a fresh reset code on the account and emails it.
// It reports success whether or not the email is registered, so callers
// cannot probe for account existence. A failed email dispatch is logged
// and still reported as success for the same reason.
func (s *service) RequestReset(ctx context.Context, email string) error {
	if email == "" {
		return fmt.Errorf("email is required: %w", domain.ErrValidation)
	}
	u, err := s.users.GetByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			slog.Debug("reset requested for unknown email", "email", email)
			return nil
		}
		return fmt.Errorf("look up account: %w", err)
	}

	code, expiresAt, err := otp.Generate()
	if err != nil {
		return err
	}
	if err := s.users.Update(ctx, u.UserID, map[string]interface{}{
		"reset_code":            &code,
		"reset_code_expires_at": &expiresAt,
	}); err != nil {
		return err
	}

	if err := s.mailer.SendResetCode(u.Email, u.Name, code); err != nil {
		slog.Warn("failed to send reset code email", "email", u.Email, "err", err)
	}
	return nil
}

// VerifyCode checks the supplied code against the stored one and, when it
// matches before expiry, issues a purpose=reset token bound to the account.
// The stored code is left in place; ResetPassword clears it.
func (s *service) VerifyCode(ctx context.Context, email, code string) (string, error) {
	if email == "" || code == "" {
		return "", fmt.Errorf("email and code are required: %w", domain.ErrValidation)
	}
	u, err := s.users.GetByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", domain.ErrInvalidCode
		}
		return "", fmt.Errorf("look up account: %w", err)
	}
	if u.ResetCode == nil || u.ResetCodeExpiresAt == nil || *u.ResetCode != code {
		return "", domain.ErrInvalidCode
	}
	// Strict boundary: a check at the exact expiry instant already fails.
	if !time.Now().Before(*u.ResetCodeExpiresAt) {
		return "", domain.ErrInvalidCode
	}
	return s.tokens.SignReset(u.UserID, u.Email)
}

// ResetPassword redeems a reset-scoped token for a password change and
// closes the flow by clearing the stored code pair.
func (s *service) ResetPassword(ctx context.Context, email, resetToken, newPassword string) error {
	if email == "" || resetToken == "" {
		return fmt.Errorf("email and reset token are required: %w", domain.ErrValidation)
	}
	if len(newPassword) < minPasswordLength {
		return fmt.Errorf("password must have at least %d characters: %w", minPasswordLength, domain.ErrValidation)
	}

	claims, err := s.tokens.Verify(resetToken)
	if err != nil {
		return fmt.Errorf("%v: %w", err, domain.ErrInvalidToken)
	}
	switch claims.Purpose {
	case jwtinfra.PurposeReset:
	case jwtinfra.PurposeSession:
		return fmt.Errorf("session token is not valid for password reset: %w", domain.ErrInvalidToken)
	default:
		return fmt.Errorf("unknown token purpose %q: %w", claims.Purpose, domain.ErrInvalidToken)
	}

	normalized := domain.NormalizeEmail(email)
	if claims.Email != normalized {
		return fmt.Errorf("token is not bound to this email: %w", domain.ErrInvalidToken)
	}

	u, err := s.users.GetByEmail(ctx, normalized)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("look up account: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.users.Update(ctx, u.UserID, map[string]interface{}{
		"password_hash":         string(hash),
		"reset_code":            (*string)(nil),
		"reset_code_expires_at": (*time.Time)(nil),
	})
}
