package models

import "time"

// User represents an account holder. PasswordHash is a bcrypt hash and is
// never serialized.
type User struct {
	ID           int64      `json:"id"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"-"`
	DisplayName  string     `json:"display_name,omitempty"`
	Avatar       string     `json:"avatar,omitempty"`
	LastSyncDate *time.Time `json:"last_sync_date,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
