package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/upb/channel-links/internal/auth"
	"github.com/upb/channel-links/middleware"
	"github.com/upb/channel-links/utils"
	"go.uber.org/zap"
)

const (
	defaultListLimit = 50
	maxRequestBody   = 1 << 20
)

// ListQuery holds the common search and paging parameters of list endpoints
type ListQuery struct {
	Search string `json:"search" validate:"max=100"`
	Limit  int    `json:"limit" validate:"gte=0,lte=100"`
	Offset int    `json:"offset" validate:"gte=0"`
}

// parseListQuery reads ?search=&limit=&offset=
func parseListQuery(r *http.Request) (ListQuery, error) {
	q := r.URL.Query()
	query := ListQuery{
		Search: strings.TrimSpace(q.Get("search")),
		Limit:  defaultListLimit,
	}

	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return query, fmt.Errorf("limit must be an integer")
		}
		query.Limit = limit
	}
	if raw := q.Get("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil {
			return query, fmt.Errorf("offset must be an integer")
		}
		query.Offset = offset
	}

	if err := utils.ValidateStruct(&query); err != nil {
		return query, err
	}
	return query, nil
}

// pathID parses a positive int64 URL parameter
func pathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", name, raw)
	}
	return id, nil
}

// optionalQueryID parses an optional positive int64 query parameter
func optionalQueryID(r *http.Request, name string) (*int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil, fmt.Errorf("invalid %s: %q", name, raw)
	}
	return &id, nil
}

// decodeJSON decodes and validates a request body into dst
func decodeJSON(r *http.Request, dst interface{}) error {
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody))
	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is required")
		}
		return errors.New("invalid request body")
	}
	return utils.ValidateStruct(dst)
}

// requireIdentity returns the caller, writing a 401 when absent.
// RequireAuth runs first on every route that calls this.
func requireIdentity(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (auth.Identity, bool) {
	identity, ok := middleware.GetIdentityFromContext(r.Context())
	if !ok {
		if err := utils.WriteUnauthorized(w, "Authentication required"); err != nil {
			logger.Error("failed to write unauthorized response", zap.Error(err))
		}
		return auth.Identity{}, false
	}
	return identity, true
}

// writeOK writes a 200 and logs encoding failures
func writeOK(w http.ResponseWriter, data interface{}, logger *zap.Logger) {
	if err := utils.WriteOK(w, data); err != nil {
		logger.Error("failed to write response", zap.Error(err))
	}
}

// writeCreated writes a 201 and logs encoding failures
func writeCreated(w http.ResponseWriter, data interface{}, logger *zap.Logger) {
	if err := utils.WriteCreated(w, data); err != nil {
		logger.Error("failed to write response", zap.Error(err))
	}
}
