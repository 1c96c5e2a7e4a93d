package handlers

import (
	"context"
	"net/http"

	"github.com/upb/channel-links/internal/auth"
	"github.com/upb/channel-links/models"
	"github.com/upb/channel-links/utils"
	"go.uber.org/zap"
)

// UserService is the user surface exposed over HTTP
type UserService interface {
	List(ctx context.Context, search string) ([]*models.User, error)
	Get(ctx context.Context, id int64) (*models.User, error)
	Self(ctx context.Context, actor auth.Identity) (*models.User, error)
	Delete(ctx context.Context, actor auth.Identity, id int64) error
}

// UserHandler handles /api/user
type UserHandler struct {
	users  UserService
	logger *zap.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(users UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger}
}

// HandleList handles GET /api/user?search=
func (h *UserHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	query, err := parseListQuery(r)
	if err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	users, err := h.users.List(r.Context(), query.Search)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeOK(w, users, h.logger)
}

// HandleSelf handles GET /api/user/self
func (h *UserHandler) HandleSelf(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireIdentity(w, r, h.logger)
	if !ok {
		return
	}

	user, err := h.users.Self(r.Context(), actor)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeOK(w, user, h.logger)
}

// HandleGet handles GET /api/user/{id}
func (h *UserHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	user, err := h.users.Get(r.Context(), id)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeOK(w, user, h.logger)
}

// HandleDelete handles DELETE /api/user/{id}
func (h *UserHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireIdentity(w, r, h.logger)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	if err := h.users.Delete(r.Context(), actor, id); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	utils.WriteNoContent(w)
}
