package models

import (
	"strings"
	"time"
)

// User represents an identity created on first successful login
type User struct {
	ID        int64     `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// TableName returns the table name for the User model
func (User) TableName() string {
	return "users"
}

// NewUser creates a new User instance. Emails are compared case-insensitively.
func NewUser(email string) *User {
	return &User{
		Email:     NormalizeEmail(email),
		CreatedAt: time.Now(),
	}
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SuperUser grants global authority to a user
type SuperUser struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	Email     string    `json:"email" db:"email"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// TableName returns the table name for the SuperUser model
func (SuperUser) TableName() string {
	return "super_users"
}
