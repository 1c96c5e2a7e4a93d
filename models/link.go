package models

import (
	"time"
)

// Link is a personal bookmark owned by a user
type Link struct {
	ID          int64     `json:"id" db:"id"`
	UserID      int64     `json:"user_id" db:"user_id"`
	URL         string    `json:"url" db:"url"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// TableName returns the table name for the Link model
func (Link) TableName() string {
	return "links"
}

// NewLink creates a new Link instance
func NewLink(userID int64, url, title, description string) *Link {
	return &Link{
		UserID:      userID,
		URL:         url,
		Title:       title,
		Description: description,
		CreatedAt:   time.Now(),
	}
}

// ChannelLink is a user's link posted into a channel
type ChannelLink struct {
	ID        int64     `json:"id" db:"id"`
	ChannelID int64     `json:"channel_id" db:"channel_id"`
	LinkID    int64     `json:"link_id" db:"link_id"`
	Title     string    `json:"title" db:"title"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// Joined from links
	URL    string `json:"url" db:"url"`
	UserID int64  `json:"user_id" db:"user_id"`
}

// TableName returns the table name for the ChannelLink model
func (ChannelLink) TableName() string {
	return "channel_links"
}

// NewChannelLink creates a new ChannelLink instance
func NewChannelLink(channelID int64, link *Link, title string) *ChannelLink {
	return &ChannelLink{
		ChannelID: channelID,
		LinkID:    link.ID,
		Title:     title,
		URL:       link.URL,
		UserID:    link.UserID,
		CreatedAt: time.Now(),
	}
}

// LinkFilter narrows link listings
type LinkFilter struct {
	Search string
	Limit  int
	Offset int
}
