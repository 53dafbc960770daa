package models

import (
	"time"
)

// PasswordHistory keeps the hashes of a user's previous passwords so recent ones cannot be reused
type PasswordHistory struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	CreatedAt time.Time `json:"created_at"`
	UserID    uint      `json:"user_id" gorm:"index;not null"`
	Password  string    `json:"-" gorm:"not null"` // bcrypt hash
}
