package domain

import (
	"strings"
	"time"
)

// User is the persistent account record. PasswordHash and the reset-code pair
// never leave the server; JSON tags hide them from every response body.
type User struct {
	UserID             string     `json:"id" dynamodbav:"user_id"`
	Name               string     `json:"name" dynamodbav:"name"`
	Email              string     `json:"email" dynamodbav:"email"`
	Username           string     `json:"username,omitempty" dynamodbav:"username"`
	Phone              string     `json:"phone,omitempty" dynamodbav:"phone"`
	Bio                string     `json:"bio,omitempty" dynamodbav:"bio"`
	AvatarURL          string     `json:"avatar_url,omitempty" dynamodbav:"avatar_url"`
	PasswordHash       string     `json:"-" dynamodbav:"password_hash"`
	ResetCode          *string    `json:"-" dynamodbav:"reset_code"`
	ResetCodeExpiresAt *time.Time `json:"-" dynamodbav:"reset_code_expires_at"`
	CreatedAt          time.Time  `json:"created" dynamodbav:"created_at"`
	UpdatedAt          time.Time  `json:"updated" dynamodbav:"updated_at"`
}

// NormalizeEmail lowercases and trims an email address. Every lookup and
// every stored email goes through this so the uniqueness invariant holds
// regardless of input casing.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
