package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/upb/channel-links/internal/auth"
	"github.com/upb/channel-links/internal/shared"
	"github.com/upb/channel-links/models"
	"github.com/upb/channel-links/repositories"
)

// LinkInput carries the editable fields of a personal link.
type LinkInput struct {
	URL         string `json:"url" validate:"required,url"`
	Title       string `json:"title" validate:"required,min=3,max=100"`
	Description string `json:"description" validate:"max=255"`
}

// LinkService manages a user's personal links. Links are only visible to
// their owner; anyone else gets not found.
type LinkService struct {
	links  repositories.LinkRepository
	logger *zap.Logger
}

// NewLinkService creates a new link service
func NewLinkService(repos *repositories.Repositories, logger *zap.Logger) *LinkService {
	return &LinkService{links: repos.Links, logger: logger}
}

// List returns actor's links, optionally filtered by title.
func (s *LinkService) List(ctx context.Context, actor auth.Identity, filter models.LinkFilter) ([]*models.Link, error) {
	return s.links.ListByUser(ctx, actor.ID, filter)
}

// Get returns one of actor's links.
func (s *LinkService) Get(ctx context.Context, actor auth.Identity, id int64) (*models.Link, error) {
	link, err := s.links.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if link.UserID != actor.ID {
		return nil, shared.ErrLinkNotFound.WithDetail("link_id", id)
	}
	return link, nil
}

// Create stores a new link owned by actor.
func (s *LinkService) Create(ctx context.Context, actor auth.Identity, input LinkInput) (*models.Link, error) {
	link := models.NewLink(actor.ID, input.URL, input.Title, input.Description)
	if err := s.links.Create(ctx, link); err != nil {
		return nil, err
	}
	s.logger.Debug("link created", zap.Int64("link_id", link.ID), zap.Int64("user_id", actor.ID))
	return link, nil
}

// Update replaces the fields of one of actor's links.
func (s *LinkService) Update(ctx context.Context, actor auth.Identity, id int64, input LinkInput) (*models.Link, error) {
	link, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	link.URL = input.URL
	link.Title = input.Title
	link.Description = input.Description
	if err := s.links.Update(ctx, link); err != nil {
		return nil, err
	}
	return link, nil
}

// Delete removes one of actor's links and, by cascade, its channel postings.
func (s *LinkService) Delete(ctx context.Context, actor auth.Identity, id int64) error {
	if _, err := s.Get(ctx, actor, id); err != nil {
		return err
	}
	if err := s.links.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Debug("link deleted", zap.Int64("link_id", id), zap.Int64("user_id", actor.ID))
	return nil
}
