package http

import (
	"context"

	"github.com/go-auth-api/internal/domain"
	jwtinfra "github.com/go-auth-api/internal/infrastructure/jwt"
	"github.com/go-auth-api/internal/infrastructure/mail"
)

// UserRepository is the full user store contract the router requires.
// Both the DynamoDB and the in-memory drivers satisfy it; callers pass
// normalized (lowercased) emails.
type UserRepository interface {
	Put(ctx context.Context, u *domain.User) error
	Get(ctx context.Context, userID string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
	Delete(ctx context.Context, userID string) error
}

// SettingsRepository is the settings store contract the router requires.
type SettingsRepository interface {
	Put(ctx context.Context, s *domain.Settings) error
	Get(ctx context.Context, userID string) (*domain.Settings, error)
	Delete(ctx context.Context, userID string) error
}

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	UserRepo     UserRepository
	SettingsRepo SettingsRepository
	Mailer       mail.Mailer
	JWTProvider  *jwtinfra.Provider
}
