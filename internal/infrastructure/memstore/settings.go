package memstore

import (
	"context"
	"sync"

	"github.com/go-auth-api/internal/domain"
)

// SettingsRepo stores per-user settings records keyed by user id.
type SettingsRepo struct {
	mu       sync.RWMutex
	settings map[string]*domain.Settings
}

func NewSettingsRepo() *SettingsRepo {
	return &SettingsRepo{settings: make(map[string]*domain.Settings)}
}

func (r *SettingsRepo) Put(_ context.Context, s *domain.Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *s
	r.settings[s.UserID] = &cp
	return nil
}

func (r *SettingsRepo) Get(_ context.Context, userID string) (*domain.Settings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.settings[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *SettingsRepo) Delete(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.settings, userID)
	return nil
}
