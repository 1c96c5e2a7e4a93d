package models

import (
	"fmt"
	"time"
)

// Relation is a per-channel membership tier
type Relation string

const (
	RelationOwner  Relation = "owner"
	RelationAdmin  Relation = "admin"
	RelationMember Relation = "member"
)

// Relations lists every relation from the highest tier down
var Relations = []Relation{RelationOwner, RelationAdmin, RelationMember}

// TableName returns the join table backing the relation
func (r Relation) TableName() string {
	switch r {
	case RelationOwner:
		return "channel_owners"
	case RelationAdmin:
		return "channel_admins"
	case RelationMember:
		return "channel_members"
	default:
		panic(fmt.Sprintf("unknown relation %q", string(r)))
	}
}

// IsValid reports whether r is a known relation
func (r Relation) IsValid() bool {
	return r == RelationOwner || r == RelationAdmin || r == RelationMember
}

// Membership links a user to a channel under one relation
type Membership struct {
	ID        int64     `json:"id" db:"id"`
	ChannelID int64     `json:"channel_id" db:"channel_id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	Email     string    `json:"email" db:"email"`
	Relation  Relation  `json:"relation" db:"-"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
