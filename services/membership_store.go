package services

import (
	"context"

	"github.com/upb/channel-links/internal/auth"
	"github.com/upb/channel-links/models"
	"github.com/upb/channel-links/repositories"
)

// RepositoryMembershipStore answers role lookups from the relation tables.
type RepositoryMembershipStore struct {
	superUsers  repositories.SuperUserRepository
	memberships repositories.MembershipRepository
}

var _ auth.MembershipStore = (*RepositoryMembershipStore)(nil)

// NewMembershipStore creates a membership store backed by repositories.
func NewMembershipStore(superUsers repositories.SuperUserRepository, memberships repositories.MembershipRepository) *RepositoryMembershipStore {
	return &RepositoryMembershipStore{superUsers: superUsers, memberships: memberships}
}

func (s *RepositoryMembershipStore) IsSuperUser(ctx context.Context, userID int64) (bool, error) {
	return s.superUsers.Exists(ctx, userID)
}

func (s *RepositoryMembershipStore) IsOwner(ctx context.Context, userID, channelID int64) (bool, error) {
	return s.memberships.Exists(ctx, models.RelationOwner, channelID, userID)
}

func (s *RepositoryMembershipStore) IsAdmin(ctx context.Context, userID, channelID int64) (bool, error) {
	return s.memberships.Exists(ctx, models.RelationAdmin, channelID, userID)
}

func (s *RepositoryMembershipStore) IsMember(ctx context.Context, userID, channelID int64) (bool, error) {
	return s.memberships.Exists(ctx, models.RelationMember, channelID, userID)
}
