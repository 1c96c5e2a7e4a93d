package repositories

import (
	"context"

	"github.com/upb/channel-links/models"
)

// TransactionManager manages database transactions
type TransactionManager interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) (Transaction, error)

	// InTransaction executes fn within a transaction carried by the context
	// passed to fn. Commits if fn succeeds, rolls back on error.
	InTransaction(ctx context.Context, fn func(ctx context.Context, tx Transaction) error) error
}

// Transaction represents a database transaction
type Transaction interface {
	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Context returns the transaction context
	Context() context.Context
}

// UserRepository handles user data operations
type UserRepository interface {
	// Create inserts a user and sets its generated ID
	Create(ctx context.Context, user *models.User) error

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id int64) (*models.User, error)

	// GetByEmail retrieves a user by email
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// List retrieves users whose email contains search (case-insensitive)
	List(ctx context.Context, search string) ([]*models.User, error)

	// Count returns the number of users
	Count(ctx context.Context) (int, error)

	// Delete deletes a user
	Delete(ctx context.Context, id int64) error
}

// SuperUserRepository handles the global super user set
type SuperUserRepository interface {
	Add(ctx context.Context, userID int64) (*models.SuperUser, error)
	Remove(ctx context.Context, userID int64) error
	Exists(ctx context.Context, userID int64) (bool, error)
	Count(ctx context.Context) (int, error)
	List(ctx context.Context) ([]*models.SuperUser, error)
}

// ChannelRepository handles channel data operations
type ChannelRepository interface {
	// Create inserts a channel and sets its generated ID
	Create(ctx context.Context, channel *models.Channel) error

	// GetByID retrieves a channel by ID
	GetByID(ctx context.Context, id int64) (*models.Channel, error)

	// List retrieves every channel matching the filter
	List(ctx context.Context, filter models.ChannelFilter) ([]*models.Channel, error)

	// ListVisibleTo retrieves public channels plus channels where the user
	// holds any membership relation
	ListVisibleTo(ctx context.Context, userID int64, filter models.ChannelFilter) ([]*models.Channel, error)

	// Update updates name, description and visibility
	Update(ctx context.Context, channel *models.Channel) error

	// Delete deletes a channel and, by cascade, its memberships and links
	Delete(ctx context.Context, id int64) error
}

// MembershipRepository handles the owner, admin and member relations
type MembershipRepository interface {
	Add(ctx context.Context, relation models.Relation, channelID, userID int64) (*models.Membership, error)
	Remove(ctx context.Context, relation models.Relation, channelID, userID int64) error
	Exists(ctx context.Context, relation models.Relation, channelID, userID int64) (bool, error)
	Count(ctx context.Context, relation models.Relation, channelID int64) (int, error)
	List(ctx context.Context, relation models.Relation, channelID int64) ([]*models.Membership, error)
}

// LinkRepository handles personal link data operations
type LinkRepository interface {
	Create(ctx context.Context, link *models.Link) error
	GetByID(ctx context.Context, id int64) (*models.Link, error)
	ListByUser(ctx context.Context, userID int64, filter models.LinkFilter) ([]*models.Link, error)
	Update(ctx context.Context, link *models.Link) error
	Delete(ctx context.Context, id int64) error
}

// ChannelLinkRepository handles links posted into channels
type ChannelLinkRepository interface {
	Create(ctx context.Context, link *models.ChannelLink) error
	GetByID(ctx context.Context, channelID, id int64) (*models.ChannelLink, error)
	ListByChannel(ctx context.Context, channelID int64, filter models.LinkFilter) ([]*models.ChannelLink, error)
	Update(ctx context.Context, link *models.ChannelLink) error
	Delete(ctx context.Context, channelID, id int64) error
}

// Repositories aggregates all repository interfaces
type Repositories struct {
	Users        UserRepository
	SuperUsers   SuperUserRepository
	Channels     ChannelRepository
	Memberships  MembershipRepository
	Links        LinkRepository
	ChannelLinks ChannelLinkRepository
}
