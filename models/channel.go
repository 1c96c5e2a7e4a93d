package models

import (
	"time"
)

// Visibility controls who may read a channel
type Visibility string

const (
	VisibilityPublic  Visibility = "PUBLIC"
	VisibilityPrivate Visibility = "PRIVATE"
)

// IsValid reports whether v is a known visibility
func (v Visibility) IsValid() bool {
	return v == VisibilityPublic || v == VisibilityPrivate
}

// Channel groups links under a shared access policy
type Channel struct {
	ID          int64      `json:"id" db:"id"`
	Name        string     `json:"name" db:"name"`
	Description string     `json:"description" db:"description"`
	Visibility  Visibility `json:"visibility" db:"visibility"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}

// TableName returns the table name for the Channel model
func (Channel) TableName() string {
	return "channels"
}

// NewChannel creates a new Channel instance
func NewChannel(name, description string, visibility Visibility) *Channel {
	return &Channel{
		Name:        name,
		Description: description,
		Visibility:  visibility,
		CreatedAt:   time.Now(),
	}
}

// IsPrivate returns true if the channel requires membership to read
func (c *Channel) IsPrivate() bool {
	return c.Visibility == VisibilityPrivate
}

// ChannelFilter narrows channel listings
type ChannelFilter struct {
	Search string
	Limit  int
	Offset int
}
