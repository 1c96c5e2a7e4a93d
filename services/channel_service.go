package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/upb/channel-links/internal/auth"
	"github.com/upb/channel-links/models"
	"github.com/upb/channel-links/repositories"
)

// ChannelInput carries the editable fields of a channel.
type ChannelInput struct {
	Name        string            `json:"name" validate:"required,min=3,max=50"`
	Description string            `json:"description" validate:"max=255"`
	Visibility  models.Visibility `json:"visibility" validate:"required,oneof=PUBLIC PRIVATE"`
}

// ChannelService manages channels.
type ChannelService struct {
	channels    repositories.ChannelRepository
	memberships repositories.MembershipRepository
	txMgr       repositories.TransactionManager
	guard       *auth.AccessGuard
	logger      *zap.Logger
}

// NewChannelService creates a new channel service
func NewChannelService(repos *repositories.Repositories, txMgr repositories.TransactionManager, guard *auth.AccessGuard, logger *zap.Logger) *ChannelService {
	return &ChannelService{
		channels:    repos.Channels,
		memberships: repos.Memberships,
		txMgr:       txMgr,
		guard:       guard,
		logger:      logger,
	}
}

// List returns the channels visible to actor. Super users see every channel;
// everyone else sees public channels plus those they hold a relation in.
func (s *ChannelService) List(ctx context.Context, actor auth.Identity, filter models.ChannelFilter) ([]*models.Channel, error) {
	role, err := s.guard.Resolver().GlobalRole(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if role == auth.RoleSuperUser {
		return s.channels.List(ctx, filter)
	}
	return s.channels.ListVisibleTo(ctx, actor.ID, filter)
}

// Get returns a channel. Private channels require membership.
func (s *ChannelService) Get(ctx context.Context, actor auth.Identity, id int64) (*models.Channel, error) {
	channel, err := s.channels.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.requireReadable(ctx, actor, channel); err != nil {
		return nil, err
	}
	return channel, nil
}

// Role returns actor's effective role in the channel, or the global role
// when channelID is nil.
func (s *ChannelService) Role(ctx context.Context, actor auth.Identity, channelID *int64) (auth.Role, error) {
	if channelID == nil {
		return s.guard.Resolver().GlobalRole(ctx, actor.ID)
	}
	if _, err := s.channels.GetByID(ctx, *channelID); err != nil {
		return auth.RoleNotAllowed, err
	}
	return s.guard.Resolver().RoleInScope(ctx, actor.ID, *channelID)
}

// Create creates a channel owned by actor.
func (s *ChannelService) Create(ctx context.Context, actor auth.Identity, input ChannelInput) (*models.Channel, error) {
	channel := models.NewChannel(input.Name, input.Description, input.Visibility)

	err := WithTransaction(ctx, s.txMgr, func(ctx context.Context, _ repositories.Transaction) error {
		if err := s.channels.Create(ctx, channel); err != nil {
			return err
		}
		_, err := s.memberships.Add(ctx, models.RelationOwner, channel.ID, actor.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("channel created",
		zap.Int64("channel_id", channel.ID),
		zap.Int64("owner_id", actor.ID),
		zap.String("visibility", string(channel.Visibility)),
	)
	return channel, nil
}

// Update replaces a channel's editable fields. Requires owner.
func (s *ChannelService) Update(ctx context.Context, actor auth.Identity, id int64, input ChannelInput) (*models.Channel, error) {
	channel, err := s.channels.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.guard.RequireScopeRole(ctx, actor, id, auth.RoleOwner); err != nil {
		return nil, err
	}

	channel.Name = input.Name
	channel.Description = input.Description
	channel.Visibility = input.Visibility
	if err := s.channels.Update(ctx, channel); err != nil {
		return nil, err
	}

	s.logger.Info("channel updated", zap.Int64("channel_id", id), zap.Int64("updated_by", actor.ID))
	return channel, nil
}

// Delete removes a channel with its memberships and links. Requires owner.
func (s *ChannelService) Delete(ctx context.Context, actor auth.Identity, id int64) error {
	if _, err := s.channels.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.guard.RequireScopeRole(ctx, actor, id, auth.RoleOwner); err != nil {
		return err
	}
	if err := s.channels.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("channel deleted", zap.Int64("channel_id", id), zap.Int64("deleted_by", actor.ID))
	return nil
}

func (s *ChannelService) requireReadable(ctx context.Context, actor auth.Identity, channel *models.Channel) error {
	if !channel.IsPrivate() {
		return nil
	}
	return s.guard.RequireScopeRole(ctx, actor, channel.ID, auth.RoleMember)
}
