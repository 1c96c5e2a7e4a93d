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

// ChannelService is the channel surface exposed over HTTP
type ChannelService interface {
	List(ctx context.Context, actor auth.Identity, filter models.ChannelFilter) ([]*models.Channel, error)
	Get(ctx context.Context, actor auth.Identity, id int64) (*models.Channel, error)
	Role(ctx context.Context, actor auth.Identity, channelID *int64) (auth.Role, error)
	Create(ctx context.Context, actor auth.Identity, input services.ChannelInput) (*models.Channel, error)
	Update(ctx context.Context, actor auth.Identity, id int64, input services.ChannelInput) (*models.Channel, error)
	Delete(ctx context.Context, actor auth.Identity, id int64) error
}

// RoleResponse reports the caller's effective role
type RoleResponse struct {
	ChannelID *int64    `json:"channel_id,omitempty"`
	Role      auth.Role `json:"role"`
}

// ChannelHandler handles /api/channel
type ChannelHandler struct {
	channels ChannelService
	logger   *zap.Logger
}

// NewChannelHandler creates a new ChannelHandler
func NewChannelHandler(channels ChannelService, logger *zap.Logger) *ChannelHandler {
	return &ChannelHandler{channels: channels, logger: logger}
}

// HandleList handles GET /api/channel?search=
func (h *ChannelHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireIdentity(w, r, h.logger)
	if !ok {
		return
	}
	query, err := parseListQuery(r)
	if err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	channels, err := h.channels.List(r.Context(), actor, models.ChannelFilter{
		Search: query.Search,
		Limit:  query.Limit,
		Offset: query.Offset,
	})
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeOK(w, channels, h.logger)
}

// HandleRole handles GET /api/channel/role?channelId=
func (h *ChannelHandler) HandleRole(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireIdentity(w, r, h.logger)
	if !ok {
		return
	}
	channelID, err := optionalQueryID(r, "channelId")
	if err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	role, err := h.channels.Role(r.Context(), actor, channelID)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeOK(w, RoleResponse{ChannelID: channelID, Role: role}, h.logger)
}

// HandleGet handles GET /api/channel/{id}
func (h *ChannelHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireIdentity(w, r, h.logger)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	channel, err := h.channels.Get(r.Context(), actor, id)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeOK(w, channel, h.logger)
}

// HandleCreate handles POST /api/channel
func (h *ChannelHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireIdentity(w, r, h.logger)
	if !ok {
		return
	}
	var input services.ChannelInput
	if err := decodeJSON(r, &input); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	channel, err := h.channels.Create(r.Context(), actor, input)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeCreated(w, channel, h.logger)
}

// HandleUpdate handles PUT /api/channel/{id}
func (h *ChannelHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireIdentity(w, r, h.logger)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}
	var input services.ChannelInput
	if err := decodeJSON(r, &input); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	channel, err := h.channels.Update(r.Context(), actor, id, input)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeOK(w, channel, h.logger)
}

// HandleDelete handles DELETE /api/channel/{id}
func (h *ChannelHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireIdentity(w, r, h.logger)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	if err := h.channels.Delete(r.Context(), actor, id); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	utils.WriteNoContent(w)
}
