package handlers

import (
	"context"
	"net/http"

	"github.com/upb/channel-links/internal/auth"
	"github.com/upb/channel-links/models"
	"github.com/upb/channel-links/services"
	"github.com/upb/channel-links/utils"
	"go.uber.org/zap"
)

// ChannelLinkService manages links posted into a channel
type ChannelLinkService interface {
	List(ctx context.Context, actor auth.Identity, channelID int64, filter models.LinkFilter) ([]*models.ChannelLink, error)
	Get(ctx context.Context, actor auth.Identity, channelID, id int64) (*models.ChannelLink, error)
	Create(ctx context.Context, actor auth.Identity, channelID int64, input services.ChannelLinkInput) (*models.ChannelLink, error)
	Update(ctx context.Context, actor auth.Identity, channelID, id int64, input services.ChannelLinkUpdate) (*models.ChannelLink, error)
	Delete(ctx context.Context, actor auth.Identity, channelID, id int64) error
}

// ChannelLinkHandler handles /api/channel/{id}/links
type ChannelLinkHandler struct {
	channelLinks ChannelLinkService
	logger       *zap.Logger
}

// NewChannelLinkHandler creates a new ChannelLinkHandler
func NewChannelLinkHandler(channelLinks ChannelLinkService, logger *zap.Logger) *ChannelLinkHandler {
	return &ChannelLinkHandler{channelLinks: channelLinks, logger: logger}
}

func (h *ChannelLinkHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireIdentity(w, r, h.logger)
	if !ok {
		return
	}
	channelID, err := pathID(r, "id")
	if err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}
	query, err := parseListQuery(r)
	if err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	links, err := h.channelLinks.List(r.Context(), actor, channelID, models.LinkFilter{
		Search: query.Search,
		Limit:  query.Limit,
		Offset: query.Offset,
	})
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeOK(w, links, h.logger)
}

func (h *ChannelLinkHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	actor, channelID, id, ok := h.linkTarget(w, r)
	if !ok {
		return
	}

	link, err := h.channelLinks.Get(r.Context(), actor, channelID, id)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeOK(w, link, h.logger)
}

func (h *ChannelLinkHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireIdentity(w, r, h.logger)
	if !ok {
		return
	}
	channelID, err := pathID(r, "id")
	if err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}
	var input services.ChannelLinkInput
	if err := decodeJSON(r, &input); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	link, err := h.channelLinks.Create(r.Context(), actor, channelID, input)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeCreated(w, link, h.logger)
}

func (h *ChannelLinkHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	actor, channelID, id, ok := h.linkTarget(w, r)
	if !ok {
		return
	}
	var input services.ChannelLinkUpdate
	if err := decodeJSON(r, &input); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	link, err := h.channelLinks.Update(r.Context(), actor, channelID, id, input)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeOK(w, link, h.logger)
}

func (h *ChannelLinkHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	actor, channelID, id, ok := h.linkTarget(w, r)
	if !ok {
		return
	}

	if err := h.channelLinks.Delete(r.Context(), actor, channelID, id); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	utils.WriteNoContent(w)
}

// linkTarget reads the caller plus the {id} and {linkId} path parameters.
func (h *ChannelLinkHandler) linkTarget(w http.ResponseWriter, r *http.Request) (auth.Identity, int64, int64, bool) {
	actor, ok := requireIdentity(w, r, h.logger)
	if !ok {
		return auth.Identity{}, 0, 0, false
	}
	channelID, err := pathID(r, "id")
	if err != nil {
		HandleValidationError(w, err, h.logger)
		return auth.Identity{}, 0, 0, false
	}
	id, err := pathID(r, "linkId")
	if err != nil {
		HandleValidationError(w, err, h.logger)
		return auth.Identity{}, 0, 0, false
	}
	return actor, channelID, id, true
}
