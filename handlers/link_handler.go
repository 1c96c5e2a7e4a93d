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

// LinkService manages the caller's personal links
type LinkService interface {
	List(ctx context.Context, actor auth.Identity, filter models.LinkFilter) ([]*models.Link, error)
	Get(ctx context.Context, actor auth.Identity, id int64) (*models.Link, error)
	Create(ctx context.Context, actor auth.Identity, input services.LinkInput) (*models.Link, error)
	Update(ctx context.Context, actor auth.Identity, id int64, input services.LinkInput) (*models.Link, error)
	Delete(ctx context.Context, actor auth.Identity, id int64) error
}

// LinkHandler handles /api/link
type LinkHandler struct {
	links  LinkService
	logger *zap.Logger
}

// NewLinkHandler creates a new LinkHandler
func NewLinkHandler(links LinkService, logger *zap.Logger) *LinkHandler {
	return &LinkHandler{links: links, logger: logger}
}

func (h *LinkHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireIdentity(w, r, h.logger)
	if !ok {
		return
	}
	query, err := parseListQuery(r)
	if err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	links, err := h.links.List(r.Context(), actor, models.LinkFilter{
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

func (h *LinkHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireIdentity(w, r, h.logger)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	link, err := h.links.Get(r.Context(), actor, id)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeOK(w, link, h.logger)
}

func (h *LinkHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireIdentity(w, r, h.logger)
	if !ok {
		return
	}
	var input services.LinkInput
	if err := decodeJSON(r, &input); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	link, err := h.links.Create(r.Context(), actor, input)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeCreated(w, link, h.logger)
}

func (h *LinkHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireIdentity(w, r, h.logger)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}
	var input services.LinkInput
	if err := decodeJSON(r, &input); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	link, err := h.links.Update(r.Context(), actor, id, input)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeOK(w, link, h.logger)
}

func (h *LinkHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireIdentity(w, r, h.logger)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	if err := h.links.Delete(r.Context(), actor, id); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	utils.WriteNoContent(w)
}
