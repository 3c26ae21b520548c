package domain

import "time"

// Settings is the per-user preferences record. It lives in its own table and
// is deleted in cascade when the owning account is deleted.
type Settings struct {
	UserID             string    `json:"-" dynamodbav:"user_id"`
	Theme              string    `json:"theme" dynamodbav:"theme"`
	Language           string    `json:"language" dynamodbav:"language"`
	EmailNotifications bool      `json:"email_notifications" dynamodbav:"email_notifications"`
	UpdatedAt          time.Time `json:"updated" dynamodbav:"updated_at"`
}
