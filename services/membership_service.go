package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/upb/channel-links/internal/auth"
	"github.com/upb/channel-links/internal/shared"
	"github.com/upb/channel-links/models"
	"github.com/upb/channel-links/repositories"
)

// MembershipService manages the owner, admin and member relations of a channel.
// Owners are managed by owners; admins and members by admins.
type MembershipService struct {
	channels    repositories.ChannelRepository
	users       repositories.UserRepository
	memberships repositories.MembershipRepository
	txMgr       repositories.TransactionManager
	guard       *auth.AccessGuard
	logger      *zap.Logger
}

// NewMembershipService creates a new membership service
func NewMembershipService(repos *repositories.Repositories, txMgr repositories.TransactionManager, guard *auth.AccessGuard, logger *zap.Logger) *MembershipService {
	return &MembershipService{
		channels:    repos.Channels,
		users:       repos.Users,
		memberships: repos.Memberships,
		txMgr:       txMgr,
		guard:       guard,
		logger:      logger,
	}
}

// RequiredRole returns the minimum role that manages relation.
func RequiredRole(relation models.Relation) auth.Role {
	if relation == models.RelationOwner {
		return auth.RoleOwner
	}
	return auth.RoleAdmin
}

// List returns the users holding relation in the channel.
func (s *MembershipService) List(ctx context.Context, actor auth.Identity, channelID int64, relation models.Relation) ([]*models.Membership, error) {
	if err := s.authorize(ctx, actor, channelID, relation); err != nil {
		return nil, err
	}
	return s.memberships.List(ctx, relation, channelID)
}

// Add grants relation in the channel to userID.
func (s *MembershipService) Add(ctx context.Context, actor auth.Identity, channelID int64, relation models.Relation, userID int64) (*models.Membership, error) {
	if err := s.authorize(ctx, actor, channelID, relation); err != nil {
		return nil, err
	}

	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	exists, err := s.memberships.Exists(ctx, relation, channelID, userID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.ErrAlreadyMember.
			WithDetail("relation", string(relation)).
			WithDetail("user_id", userID)
	}

	membership, err := s.memberships.Add(ctx, relation, channelID, userID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("channel relation granted",
		zap.Int64("channel_id", channelID),
		zap.Int64("user_id", userID),
		zap.String("relation", string(relation)),
		zap.Int64("granted_by", actor.ID),
	)
	return membership, nil
}

// Remove revokes relation in the channel from userID. A channel always
// keeps at least one owner.
func (s *MembershipService) Remove(ctx context.Context, actor auth.Identity, channelID int64, relation models.Relation, userID int64) error {
	if err := s.authorize(ctx, actor, channelID, relation); err != nil {
		return err
	}

	err := WithTransaction(ctx, s.txMgr, func(ctx context.Context, _ repositories.Transaction) error {
		exists, err := s.memberships.Exists(ctx, relation, channelID, userID)
		if err != nil {
			return err
		}
		if !exists {
			return shared.ErrMembershipNotFound.
				WithDetail("relation", string(relation)).
				WithDetail("user_id", userID)
		}

		if relation == models.RelationOwner {
			count, err := s.memberships.Count(ctx, relation, channelID)
			if err != nil {
				return err
			}
			if count <= 1 {
				return shared.ErrLastOwner
			}
		}

		return s.memberships.Remove(ctx, relation, channelID, userID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("channel relation revoked",
		zap.Int64("channel_id", channelID),
		zap.Int64("user_id", userID),
		zap.String("relation", string(relation)),
		zap.Int64("revoked_by", actor.ID),
	)
	return nil
}

func (s *MembershipService) authorize(ctx context.Context, actor auth.Identity, channelID int64, relation models.Relation) error {
	if !relation.IsValid() {
		return shared.ErrInvalidInput.WithDetail("relation", string(relation))
	}
	if _, err := s.channels.GetByID(ctx, channelID); err != nil {
		return err
	}
	return s.guard.RequireScopeRole(ctx, actor, channelID, RequiredRole(relation))
}
