// Package memstore provides mutex-guarded in-memory implementations of the
// persistence interfaces. It is selected at startup when STORAGE_DRIVER=memory
// and backs development setups and tests; data does not survive a restart.
package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/go-auth-api/internal/domain"
)

// UserRepo stores user records in a map keyed by user id, with a secondary
// map from normalized email to id to enforce the uniqueness invariant.
type UserRepo struct {
	mu      sync.RWMutex
	users   map[string]*domain.User
	byEmail map[string]string
}

func NewUserRepo() *UserRepo {
	return &UserRepo{
		users:   make(map[string]*domain.User),
		byEmail: make(map[string]string),
	}
}

func (r *UserRepo) Put(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *u
	r.users[u.UserID] = &cp
	r.byEmail[u.Email] = u.UserID
	return nil
}

func (r *UserRepo) Get(_ context.Context, userID string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *r.users[id]
	return &cp, nil
}

// Update applies a partial field map to the stored record. Field names match
// the dynamodbav attribute names so both store implementations accept the
// same update maps. Unknown fields are ignored; last write wins.
func (r *UserRepo) Update(_ context.Context, userID string, updates map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	for k, v := range updates {
		switch k {
		case "name":
			u.Name, _ = v.(string)
		case "username":
			u.Username, _ = v.(string)
		case "phone":
			u.Phone, _ = v.(string)
		case "bio":
			u.Bio, _ = v.(string)
		case "avatar_url":
			u.AvatarURL, _ = v.(string)
		case "password_hash":
			u.PasswordHash, _ = v.(string)
		case "reset_code":
			u.ResetCode, _ = v.(*string)
		case "reset_code_expires_at":
			u.ResetCodeExpiresAt, _ = v.(*time.Time)
		}
	}
	u.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *UserRepo) Delete(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	delete(r.byEmail, u.Email)
	delete(r.users, userID)
	return nil
}
