package handlers

import (
	"context"
	"net/http"

	"github.com/upb/channel-links/internal/auth"
	"github.com/upb/channel-links/models"
	"github.com/upb/channel-links/utils"
	"go.uber.org/zap"
)

// SuperUserService manages the global super user set
type SuperUserService interface {
	List(ctx context.Context, actor auth.Identity) ([]*models.SuperUser, error)
	Add(ctx context.Context, actor auth.Identity, userID int64) (*models.SuperUser, error)
	Remove(ctx context.Context, actor auth.Identity, userID int64) error
}

// SuperUserHandler handles /api/superuser
type SuperUserHandler struct {
	superUsers SuperUserService
	logger     *zap.Logger
}

// NewSuperUserHandler creates a new SuperUserHandler
func NewSuperUserHandler(superUsers SuperUserService, logger *zap.Logger) *SuperUserHandler {
	return &SuperUserHandler{superUsers: superUsers, logger: logger}
}

// HandleList handles GET /api/superuser
func (h *SuperUserHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireIdentity(w, r, h.logger)
	if !ok {
		return
	}

	superUsers, err := h.superUsers.List(r.Context(), actor)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeOK(w, superUsers, h.logger)
}

// HandleAdd handles POST /api/superuser/{userId}
func (h *SuperUserHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireIdentity(w, r, h.logger)
	if !ok {
		return
	}
	userID, err := pathID(r, "userId")
	if err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	superUser, err := h.superUsers.Add(r.Context(), actor, userID)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeCreated(w, superUser, h.logger)
}

// HandleRemove handles DELETE /api/superuser/{userId}
func (h *SuperUserHandler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireIdentity(w, r, h.logger)
	if !ok {
		return
	}
	userID, err := pathID(r, "userId")
	if err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	if err := h.superUsers.Remove(r.Context(), actor, userID); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	utils.WriteNoContent(w)
}
