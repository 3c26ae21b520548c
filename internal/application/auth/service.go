package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-auth-api/internal/domain"
	jwtinfra "github.com/go-auth-api/internal/infrastructure/jwt"
	"github.com/go-auth-api/internal/pkg/id"
	"github.com/go-auth-api/internal/pkg/validate"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*domain.User, string, error)
	Login(ctx context.Context, req LoginRequest) (*domain.User, string, error)
	VerifySession(ctx context.Context, token string) (*domain.User, error)
	ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error
	DeleteAccount(ctx context.Context, userID, password string) error
}

type userStore interface {
	Put(ctx context.Context, u *domain.User) error
	Get(ctx context.Context, userID string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
	Delete(ctx context.Context, userID string) error
}

type settingsStore interface {
	Delete(ctx context.Context, userID string) error
}

type mailer interface {
	SendWelcome(to, name string) error
}

type tokenProvider interface {
	SignSession(userID, email string) (string, error)
	Verify(token string) (*jwtinfra.Claims, error)
}

type service struct {
	users    userStore
	settings settingsStore
	mailer   mailer
	tokens   tokenProvider
}

type ServiceDeps struct {
	UserRepo     userStore
	SettingsRepo settingsStore
	Mailer       mailer
	JWTProvider  tokenProvider
}

func NewService(deps ServiceDeps) Service {
	return &service{
		users:    deps.UserRepo,
		settings: deps.SettingsRepo,
		mailer:   deps.Mailer,
		tokens:   deps.JWTProvider,
	}
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*domain.User, string, error) {
	// Normalize before validation so a trimmable address is not rejected
	// by the email tag.
	req.Email = domain.NormalizeEmail(req.Email)
	if err := validate.Struct(&req); err != nil {
		return nil, "", fmt.Errorf("%s: %w", err.Error(), domain.ErrValidation)
	}
	switch _, err := s.users.GetByEmail(ctx, req.Email); {
	case err == nil:
		return nil, "", domain.ErrDuplicateEmail
	case !errors.Is(err, domain.ErrUserNotFound):
		return nil, "", fmt.Errorf("check email availability: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}
	now := time.Now().UTC()
	u := &domain.User{
		UserID:       id.New(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Put(ctx, u); err != nil {
		return nil, "", err
	}

	token, err := s.tokens.SignSession(u.UserID, u.Email)
	if err != nil {
		return nil, "", err
	}

	// The welcome email is dispatched outside the request path; a delivery
	// failure never affects the registration result.
	go func(email, name string) {
		if err := s.mailer.SendWelcome(email, name); err != nil {
			slog.Warn("failed to send welcome email", "email", email, "err", err)
		}
	}(u.Email, u.Name)

	return u, token, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*domain.User, string, error) {
	if err := validate.Struct(&req); err != nil {
		return nil, "", fmt.Errorf("%s: %w", err.Error(), domain.ErrValidation)
	}
	u, err := s.users.GetByEmail(ctx, domain.NormalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// Unknown email and wrong password are indistinguishable to the caller.
			return nil, "", domain.ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("look up account: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, "", domain.ErrInvalidCredentials
	}
	token, err := s.tokens.SignSession(u.UserID, u.Email)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (s *service) VerifySession(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrInvalidToken)
	}
	switch claims.Purpose {
	case jwtinfra.PurposeSession:
	case jwtinfra.PurposeReset:
		return nil, fmt.Errorf("reset token is not a session token: %w", domain.ErrInvalidToken)
	default:
		return nil, fmt.Errorf("unknown token purpose %q: %w", claims.Purpose, domain.ErrInvalidToken)
	}
	u, err := s.users.Get(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("token subject no longer exists: %w", domain.ErrInvalidToken)
	}
	return u, nil
}

func (s *service) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	if currentPassword == "" || newPassword == "" {
		return fmt.Errorf("current and new password are required: %w", domain.ErrValidation)
	}
	if len(newPassword) < minPasswordLength {
		return fmt.Errorf("new password must have at least %d characters: %w", minPasswordLength, domain.ErrValidation)
	}
	if newPassword == currentPassword {
		return fmt.Errorf("new password must differ from the current one: %w", domain.ErrValidation)
	}
	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(currentPassword)); err != nil {
		return domain.ErrInvalidCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.users.Update(ctx, userID, map[string]interface{}{"password_hash": string(hash)})
}

func (s *service) DeleteAccount(ctx context.Context, userID, password string) error {
	if password == "" {
		return fmt.Errorf("password is required to confirm deletion: %w", domain.ErrValidation)
	}
	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return domain.ErrInvalidCredentials
	}
	if err := s.users.Delete(ctx, userID); err != nil {
		return err
	}
	// Cascade: the settings record goes with the account.
	if err := s.settings.Delete(ctx, userID); err != nil {
		slog.Warn("failed to delete settings for removed account", "user_id", userID, "err", err)
	}
	return nil
}
