package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/backoffice_ledger/internal/apperrors"
	"github.com/SscSPs/backoffice_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error           string `json:"error"`
	CurrentVersion  *int64 `json:"currentVersion,omitempty"`
	ExpectedVersion *int64 `json:"expectedVersion,omitempty"`
}

// respondError maps a service error onto a status code. Unclassified errors
// are logged and hidden behind a generic message.
func respondError(c *gin.Context, logger *slog.Logger, err error, failure string) {
	var cmErr *apperrors.ConcurrentModificationError
	switch {
	case errors.As(err, &cmErr):
		logger.Warn("Version conflict", slog.Int64("current", cmErr.Current), slog.Int64("expected", cmErr.Expected))
		current, expected := cmErr.Current, cmErr.Expected
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error(), CurrentVersion: &current, ExpectedVersion: &expected})
	case errors.Is(err, apperrors.ErrConcurrentModification):
		logger.Warn("Version conflict", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Resource not found", slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrDuplicate):
		logger.Warn("Duplicate resource", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation error", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrBusinessRule):
		logger.Warn("Business rule violation", slog.String("error", err.Error()))
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrInvalidTransition):
		logger.Warn("Invalid state transition", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	default:
		logger.Error(failure, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: failure})
	}
}

// requestContext returns the request logger and the acting user. When the
// user is missing it writes 401 and returns ok=false.
func requestContext(c *gin.Context) (*slog.Logger, string, bool) {
	logger := middleware.GetLoggerFromContext(c)
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return logger, "", false
	}
	return logger.With(slog.String("user_id", userID)), userID, true
}

// bindJSON decodes the body into req, writing 400 on failure.
func bindJSON(c *gin.Context, logger *slog.Logger, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		logger.Warn("Failed to bind JSON", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return false
	}
	return true
}

// bindOptionalJSON is bindJSON for endpoints whose body may be omitted.
func bindOptionalJSON(c *gin.Context, logger *slog.Logger, req any) bool {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return true
	}
	return bindJSON(c, logger, req)
}
