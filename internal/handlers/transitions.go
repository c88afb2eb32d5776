package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/SscSPs/backoffice_ledger/internal/dto"
	"github.com/gin-gonic/gin"
)

// transitionHandler binds an optional {version, reason} body and runs step.
func transitionHandler[T any](action string, step func(ctx context.Context, id string, req dto.TransitionRequest, userID string) (T, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger, userID, ok := requestContext(c)
		if !ok {
			return
		}
		var req dto.TransitionRequest
		if !bindOptionalJSON(c, logger, &req) {
			return
		}
		id := c.Param("id")
		logger = logger.With(slog.String("action", action), slog.String("target_id", id))

		result, err := step(c.Request.Context(), id, req, userID)
		if err != nil {
			respondError(c, logger, err, "Failed to "+action)
			return
		}

		logger.Info("Workflow step completed")
		c.JSON(http.StatusOK, result)
	}
}

// payoutHandler is transitionHandler for steps that move money through an account.
func payoutHandler[T any](action string, step func(ctx context.Context, id string, req dto.PayoutRequest, userID string) (T, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger, userID, ok := requestContext(c)
		if !ok {
			return
		}
		var req dto.PayoutRequest
		if !bindJSON(c, logger, &req) {
			return
		}
		id := c.Param("id")
		logger = logger.With(slog.String("action", action), slog.String("target_id", id), slog.String("account_id", req.AccountID))

		result, err := step(c.Request.Context(), id, req, userID)
		if err != nil {
			respondError(c, logger, err, "Failed to "+action)
			return
		}

		logger.Info("Payout recorded")
		c.JSON(http.StatusOK, result)
	}
}

// deleteHandler runs a versioned delete and answers 204.
func deleteHandler(action string, del func(ctx context.Context, id string, req dto.TransitionRequest, userID string) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger, userID, ok := requestContext(c)
		if !ok {
			return
		}
		var req dto.TransitionRequest
		if !bindOptionalJSON(c, logger, &req) {
			return
		}
		id := c.Param("id")
		logger = logger.With(slog.String("action", action), slog.String("target_id", id))

		if err := del(c.Request.Context(), id, req, userID); err != nil {
			respondError(c, logger, err, "Failed to "+action)
			return
		}

		logger.Info("Deleted")
		c.Status(http.StatusNoContent)
	}
}
