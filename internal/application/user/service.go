package user

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-auth-api/internal/domain"
)

// Attribute names used in partial update maps, shared by both store drivers.
const (
	fieldName      = "name"
	fieldUsername  = "username"
	fieldPhone     = "phone"
	fieldBio       = "bio"
	fieldAvatarURL = "avatar_url"
)

// maxAvatarLength bounds the stored data-URL string (~500KB of base64).
const maxAvatarLength = 700000

type UpdateProfileRequest struct {
	Name     *string `json:"name"`
	Username *string `json:"username"`
	Phone    *string `json:"phone"`
	Bio      *string `json:"bio"`
}

type UpdateSettingsRequest struct {
	Theme              *string `json:"theme"`
	Language           *string `json:"language"`
	EmailNotifications *bool   `json:"email_notifications"`
}

type Service interface {
	GetProfile(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (*domain.User, error)
	UpdateAvatar(ctx context.Context, userID, avatarURL string) error
	GetSettings(ctx context.Context, userID string) (*domain.Settings, error)
	UpdateSettings(ctx context.Context, userID string, req UpdateSettingsRequest) (*domain.Settings, error)
}

type userStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
}

type settingsStore interface {
	Get(ctx context.Context, userID string) (*domain.Settings, error)
	Put(ctx context.Context, s *domain.Settings) error
}

type service struct {
	users    userStore
	settings settingsStore
}

type ServiceDeps struct {
	UserRepo     userStore
	SettingsRepo settingsStore
}

func NewService(deps ServiceDeps) Service {
	return &service{users: deps.UserRepo, settings: deps.SettingsRepo}
}

func (s *service) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.Get(ctx, userID)
}

func (s *service) UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (*domain.User, error) {
	updates := map[string]interface{}{}
	if req.Name != nil {
		updates[fieldName] = *req.Name
	}
	if req.Username != nil {
		updates[fieldUsername] = *req.Username
	}
	if req.Phone != nil {
		updates[fieldPhone] = *req.Phone
	}
	if req.Bio != nil {
		updates[fieldBio] = *req.Bio
	}
	if len(updates) == 0 {
		return s.users.Get(ctx, userID)
	}
	if err := s.users.Update(ctx, userID, updates); err != nil {
		return nil, err
	}
	return s.users.Get(ctx, userID)
}

// UpdateAvatar stores the avatar as a data-URL string on the record.
// The image itself is never decoded or processed server-side.
func (s *service) UpdateAvatar(ctx context.Context, userID, avatarURL string) error {
	if avatarURL == "" {
		return fmt.Errorf("avatar is required: %w", domain.ErrValidation)
	}
	if !strings.HasPrefix(avatarURL, "data:image/") {
		return fmt.Errorf("avatar must be a data-URL image: %w", domain.ErrValidation)
	}
	if len(avatarURL) > maxAvatarLength {
		return fmt.Errorf("avatar image too large: %w", domain.ErrValidation)
	}
	if _, err := s.users.Get(ctx, userID); err != nil {
		return domain.ErrUserNotFound
	}
	return s.users.Update(ctx, userID, map[string]interface{}{fieldAvatarURL: avatarURL})
}

// GetSettings returns the stored settings record, or defaults when the user
// has never saved one.
func (s *service) GetSettings(ctx context.Context, userID string) (*domain.Settings, error) {
	settings, err := s.settings.Get(ctx, userID)
	if err != nil {
		return &domain.Settings{
			UserID:             userID,
			Theme:              "light",
			Language:           "en",
			EmailNotifications: true,
		}, nil
	}
	return settings, nil
}

func (s *service) UpdateSettings(ctx context.Context, userID string, req UpdateSettingsRequest) (*domain.Settings, error) {
	current, err := s.GetSettings(ctx, userID)
	if err != nil {
		return nil, err
	}
	if req.Theme != nil {
		current.Theme = *req.Theme
	}
	if req.Language != nil {
		current.Language = *req.Language
	}
	if req.EmailNotifications != nil {
		current.EmailNotifications = *req.EmailNotifications
	}
	current.UserID = userID
	current.UpdatedAt = time.Now().UTC()
	if err := s.settings.Put(ctx, current); err != nil {
		return nil, err
	}
	return current, nil
}
