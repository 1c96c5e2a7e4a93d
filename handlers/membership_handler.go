package handlers

import (
	"context"
	"net/http"

	"github.com/upb/channel-links/internal/auth"
	"github.com/upb/channel-links/models"
	"github.com/upb/channel-links/utils"
	"go.uber.org/zap"
)

// MembershipService manages the owner, admin and member relations of a channel
type MembershipService interface {
	List(ctx context.Context, actor auth.Identity, channelID int64, relation models.Relation) ([]*models.Membership, error)
	Add(ctx context.Context, actor auth.Identity, channelID int64, relation models.Relation, userID int64) (*models.Membership, error)
	Remove(ctx context.Context, actor auth.Identity, channelID int64, relation models.Relation, userID int64) error
}

// MembershipRequest names the user to grant a relation to
type MembershipRequest struct {
	UserID int64 `json:"user_id" validate:"required,gt=0"`
}

// MembershipHandler handles one relation's endpoints, e.g. /api/channel/{id}/admins
type MembershipHandler struct {
	relation    models.Relation
	memberships MembershipService
	logger      *zap.Logger
}

// NewMembershipHandler creates a handler bound to relation
func NewMembershipHandler(relation models.Relation, memberships MembershipService, logger *zap.Logger) *MembershipHandler {
	return &MembershipHandler{
		relation:    relation,
		memberships: memberships,
		logger:      logger.With(zap.String("relation", string(relation))),
	}
}

// HandleList handles GET /api/channel/{id}/<relation>s
func (h *MembershipHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireIdentity(w, r, h.logger)
	if !ok {
		return
	}
	channelID, err := pathID(r, "id")
	if err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	memberships, err := h.memberships.List(r.Context(), actor, channelID, h.relation)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeOK(w, memberships, h.logger)
}

// HandleAdd handles POST /api/channel/{id}/<relation>s
func (h *MembershipHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireIdentity(w, r, h.logger)
	if !ok {
		return
	}
	channelID, err := pathID(r, "id")
	if err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}
	var req MembershipRequest
	if err := decodeJSON(r, &req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	membership, err := h.memberships.Add(r.Context(), actor, channelID, h.relation, req.UserID)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeCreated(w, membership, h.logger)
}

// HandleRemove handles DELETE /api/channel/{id}/<relation>s/{userId}
func (h *MembershipHandler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireIdentity(w, r, h.logger)
	if !ok {
		return
	}
	channelID, err := pathID(r, "id")
	if err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}
	userID, err := pathID(r, "userId")
	if err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	if err := h.memberships.Remove(r.Context(), actor, channelID, h.relation, userID); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	utils.WriteNoContent(w)
}
