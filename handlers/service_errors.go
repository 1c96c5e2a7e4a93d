package handlers

import (
	"errors"
	"net/http"

	"github.com/upb/channel-links/internal/shared"
	"github.com/upb/channel-links/utils"
	"go.uber.org/zap"
)

// HandleServiceError maps domain errors to HTTP responses
func HandleServiceError(w http.ResponseWriter, err error, logger *zap.Logger) {
	if err == nil {
		return
	}

	message := publicMessage(err)
	details := shared.GetErrorDetails(err)

	var writeErr error
	switch {
	case shared.IsNotFoundError(err):
		writeErr = utils.WriteNotFound(w, message)

	case shared.IsValidationError(err):
		writeErr = utils.WriteBadRequest(w, message, details)

	case shared.IsUnauthenticatedError(err), shared.IsAuthenticationFailedError(err):
		writeErr = utils.WriteUnauthorized(w, message)

	case shared.IsForbiddenError(err):
		writeErr = utils.WriteForbidden(w, message)

	case shared.IsConflictError(err):
		writeErr = utils.WriteConflict(w, message, details)

	case shared.IsExternalError(err):
		logger.Warn("upstream failure", zap.Error(err))
		writeErr = utils.WriteBadGateway(w, message)

	case shared.IsInternalError(err):
		// Log internal errors but return generic message
		logger.Error("internal server error", zap.Error(err))
		writeErr = utils.WriteInternalServerError(w, "An internal error occurred")

	default:
		logger.Error("unhandled error type",
			zap.Error(err),
			zap.String("error_type", string(shared.GetErrorType(err))))
		writeErr = utils.WriteInternalServerError(w, "An unexpected error occurred")
	}

	if writeErr != nil {
		logger.Error("failed to write error response", zap.Error(writeErr))
	}
}

// HandleValidationError handles validation errors from request parsing
func HandleValidationError(w http.ResponseWriter, err error, logger *zap.Logger) {
	if utils.IsValidationError(err) {
		fields := utils.GetValidationFields(err)
		details := make(map[string]interface{}, len(fields))
		for k, v := range fields {
			details[k] = v
		}
		if err := utils.WriteBadRequest(w, "Validation failed", details); err != nil {
			logger.Error("failed to write validation error response", zap.Error(err))
		}
		return
	}

	if err := utils.WriteBadRequest(w, err.Error(), nil); err != nil {
		logger.Error("failed to write validation error response", zap.Error(err))
	}
}

// publicMessage returns the domain message without wrapped internals.
func publicMessage(err error) string {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}
	return err.Error()
}
