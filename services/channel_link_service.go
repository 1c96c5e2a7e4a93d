package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/upb/channel-links/internal/auth"
	"github.com/upb/channel-links/internal/shared"
	"github.com/upb/channel-links/models"
	"github.com/upb/channel-links/repositories"
)

// ChannelLinkInput posts one of the caller's links into a channel.
// An empty title falls back to the link's own title.
type ChannelLinkInput struct {
	LinkID int64  `json:"link_id" validate:"required,gt=0"`
	Title  string `json:"title" validate:"omitempty,min=3,max=100"`
}

// ChannelLinkUpdate carries the editable fields of a posted link.
type ChannelLinkUpdate struct {
	Title string `json:"title" validate:"required,min=3,max=100"`
}

// ChannelLinkService manages links posted into channels. Reading and posting
// in a private channel requires membership; editing or removing a post
// requires being its author or an admin of the channel.
type ChannelLinkService struct {
	channels     repositories.ChannelRepository
	links        repositories.LinkRepository
	channelLinks repositories.ChannelLinkRepository
	guard        *auth.AccessGuard
	logger       *zap.Logger
}

// NewChannelLinkService creates a new channel link service
func NewChannelLinkService(repos *repositories.Repositories, guard *auth.AccessGuard, logger *zap.Logger) *ChannelLinkService {
	return &ChannelLinkService{
		channels:     repos.Channels,
		links:        repos.Links,
		channelLinks: repos.ChannelLinks,
		guard:        guard,
		logger:       logger,
	}
}

// List returns the links posted in a channel.
func (s *ChannelLinkService) List(ctx context.Context, actor auth.Identity, channelID int64, filter models.LinkFilter) ([]*models.ChannelLink, error) {
	if err := s.requireAccess(ctx, actor, channelID); err != nil {
		return nil, err
	}
	return s.channelLinks.ListByChannel(ctx, channelID, filter)
}

// Get returns a single posted link.
func (s *ChannelLinkService) Get(ctx context.Context, actor auth.Identity, channelID, id int64) (*models.ChannelLink, error) {
	if err := s.requireAccess(ctx, actor, channelID); err != nil {
		return nil, err
	}
	return s.channelLinks.GetByID(ctx, channelID, id)
}

// Create posts one of actor's links into the channel.
func (s *ChannelLinkService) Create(ctx context.Context, actor auth.Identity, channelID int64, input ChannelLinkInput) (*models.ChannelLink, error) {
	if err := s.requireAccess(ctx, actor, channelID); err != nil {
		return nil, err
	}

	link, err := s.links.GetByID(ctx, input.LinkID)
	if err != nil {
		return nil, err
	}
	if link.UserID != actor.ID {
		return nil, shared.ErrLinkNotFound.WithDetail("link_id", input.LinkID)
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		title = link.Title
	}

	channelLink := models.NewChannelLink(channelID, link, title)
	if err := s.channelLinks.Create(ctx, channelLink); err != nil {
		return nil, err
	}

	s.logger.Info("link posted",
		zap.Int64("channel_id", channelID),
		zap.Int64("channel_link_id", channelLink.ID),
		zap.Int64("user_id", actor.ID),
	)
	return channelLink, nil
}

// Update retitles a posted link.
func (s *ChannelLinkService) Update(ctx context.Context, actor auth.Identity, channelID, id int64, input ChannelLinkUpdate) (*models.ChannelLink, error) {
	channelLink, err := s.authorizeEdit(ctx, actor, channelID, id)
	if err != nil {
		return nil, err
	}

	channelLink.Title = input.Title
	if err := s.channelLinks.Update(ctx, channelLink); err != nil {
		return nil, err
	}
	return channelLink, nil
}

// Delete removes a posted link. The personal link itself is kept.
func (s *ChannelLinkService) Delete(ctx context.Context, actor auth.Identity, channelID, id int64) error {
	if _, err := s.authorizeEdit(ctx, actor, channelID, id); err != nil {
		return err
	}
	if err := s.channelLinks.Delete(ctx, channelID, id); err != nil {
		return err
	}

	s.logger.Info("posted link removed",
		zap.Int64("channel_id", channelID),
		zap.Int64("channel_link_id", id),
		zap.Int64("removed_by", actor.ID),
	)
	return nil
}

func (s *ChannelLinkService) requireAccess(ctx context.Context, actor auth.Identity, channelID int64) error {
	channel, err := s.channels.GetByID(ctx, channelID)
	if err != nil {
		return err
	}
	if !channel.IsPrivate() {
		return nil
	}
	return s.guard.RequireScopeRole(ctx, actor, channelID, auth.RoleMember)
}

func (s *ChannelLinkService) authorizeEdit(ctx context.Context, actor auth.Identity, channelID, id int64) (*models.ChannelLink, error) {
	channelLink, err := s.channelLinks.GetByID(ctx, channelID, id)
	if err != nil {
		return nil, err
	}
	if err := s.guard.RequireSelfOrRole(ctx, actor, channelLink.UserID, channelID, auth.RoleAdmin); err != nil {
		return nil, err
	}
	return channelLink, nil
}
