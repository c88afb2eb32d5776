package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/backoffice_ledger/internal/core/ports/services"
	"github.com/SscSPs/backoffice_ledger/internal/dto"
	"github.com/gin-gonic/gin"
)

type borrowingHandler struct {
	borrowingService portssvc.BorrowingSvcFacade
}

// RegisterBorrowingRoutes registers borrowing and repayment routes.
func RegisterBorrowingRoutes(rg *gin.RouterGroup, borrowingService portssvc.BorrowingSvcFacade) {
	h := &borrowingHandler{borrowingService: borrowingService}

	borrowings := rg.Group("/borrowings")
	{
		borrowings.POST("", h.requestBorrowing)
		borrowings.GET("/:id", h.getBorrowing)
		borrowings.POST("/:id/approve", h.approveBorrowing)
		borrowings.POST("/:id/reject", h.rejectBorrowing)
		borrowings.POST("/:id/disburse", h.disburseBorrowing)
		borrowings.DELETE("/:id", h.deleteBorrowing)
		borrowings.POST("/:id/repayments", h.requestRepayment)
	}

	repayments := rg.Group("/repayments")
	{
		repayments.POST("/:id/confirm", h.confirmRepayment)
		repayments.POST("/:id/reject", h.rejectRepayment)
	}
}

// requestBorrowing godoc
// @Summary Request a borrowing
// @Description Files a borrowing request for an employee
// @Tags borrowings
// @Accept  json
// @Produce  json
// @Param   borrowing body dto.CreateBorrowingRequest true "Borrowing details"
// @Success 201 {object} domain.Borrowing
// @Failure 400 {object} ErrorResponse "Invalid input format or validation error"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Not found"
// @Failure 422 {object} ErrorResponse "Business rule violation"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /borrowings [post]
func (h *borrowingHandler) requestBorrowing(c *gin.Context) {
	logger, userID, ok := requestContext(c)
	if !ok {
		return
	}
	var req dto.CreateBorrowingRequest
	if !bindJSON(c, logger, &req) {
		return
	}
	borrowing, err := h.borrowingService.RequestBorrowing(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to request borrowing")
		return
	}
	logger.Info("Borrowing requested", slog.String("borrowing_id", borrowing.BorrowingID), slog.Int64("amount", borrowing.Amount))
	c.JSON(http.StatusCreated, borrowing)
}

// getBorrowing godoc
// @Summary Get a borrowing
// @Description Returns a borrowing with its repayments
// @Tags borrowings
// @Produce  json
// @Param   id path string true "ID"
// @Success 200 {object} dto.BorrowingResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /borrowings/{id} [get]
func (h *borrowingHandler) getBorrowing(c *gin.Context) {
	logger, _, ok := requestContext(c)
	if !ok {
		return
	}
	resp, err := h.borrowingService.GetBorrowing(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve borrowing")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// requestRepayment godoc
// @Summary Request a repayment
// @Description Files a repayment against a disbursed borrowing
// @Tags borrowings
// @Accept  json
// @Produce  json
// @Param   id path string true "ID"
// @Param   repayment body dto.CreateRepaymentRequest true "Repayment details"
// @Success 201 {object} domain.Repayment
// @Failure 400 {object} ErrorResponse "Invalid input format or validation error"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Not found"
// @Failure 422 {object} ErrorResponse "Business rule violation"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /borrowings/{id}/repayments [post]
func (h *borrowingHandler) requestRepayment(c *gin.Context) {
	logger, userID, ok := requestContext(c)
	if !ok {
		return
	}
	var req dto.CreateRepaymentRequest
	if !bindJSON(c, logger, &req) {
		return
	}
	repayment, err := h.borrowingService.RequestRepayment(c.Request.Context(), c.Param("id"), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to request repayment")
		return
	}
	c.JSON(http.StatusCreated, repayment)
}

// approveBorrowing godoc
// @Summary Approve a borrowing
// @Description Approves a pending borrowing
// @Tags borrowings
// @Accept  json
// @Produce  json
// @Param   id path string true "ID"
// @Param   transition body dto.TransitionRequest false "Expected version and optional reason"
// @Success 200 {object} domain.Borrowing
// @Failure 400 {object} ErrorResponse "Invalid input format or validation error"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Not found"
// @Failure 409 {object} ErrorResponse "Stale version or invalid status transition"
// @Failure 422 {object} ErrorResponse "Business rule violation"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /borrowings/{id}/approve [post]
func (h *borrowingHandler) approveBorrowing(c *gin.Context) {
	transitionHandler("approve borrowing", h.borrowingService.ApproveBorrowing)(c)
}

// rejectBorrowing godoc
// @Summary Reject a borrowing
// @Description Rejects a pending borrowing
// @Tags borrowings
// @Accept  json
// @Produce  json
// @Param   id path string true "ID"
// @Param   transition body dto.TransitionRequest false "Expected version and optional reason"
// @Success 200 {object} domain.Borrowing
// @Failure 400 {object} ErrorResponse "Invalid input format or validation error"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Not found"
// @Failure 409 {object} ErrorResponse "Stale version or invalid status transition"
// @Failure 422 {object} ErrorResponse "Business rule violation"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /borrowings/{id}/reject [post]
func (h *borrowingHandler) rejectBorrowing(c *gin.Context) {
	transitionHandler("reject borrowing", h.borrowingService.RejectBorrowing)(c)
}

// disburseBorrowing godoc
// @Summary Disburse a borrowing
// @Description Pays out an approved borrowing from an account
// @Tags borrowings
// @Accept  json
// @Produce  json
// @Param   id path string true "ID"
// @Param   payout body dto.PayoutRequest true "Paying account, business date and expected version"
// @Success 200 {object} domain.Borrowing
// @Failure 400 {object} ErrorResponse "Invalid input format or validation error"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Not found"
// @Failure 409 {object} ErrorResponse "Stale version or invalid status transition"
// @Failure 422 {object} ErrorResponse "Business rule violation"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /borrowings/{id}/disburse [post]
func (h *borrowingHandler) disburseBorrowing(c *gin.Context) {
	payoutHandler("disburse borrowing", h.borrowingService.DisburseBorrowing)(c)
}

// deleteBorrowing godoc
// @Summary Delete a borrowing
// @Description Deletes a borrowing that was never disbursed
// @Tags borrowings
// @Accept  json
// @Produce  json
// @Param   id path string true "ID"
// @Param   transition body dto.TransitionRequest false "Expected version and optional reason"
// @Success 204 "No Content"
// @Failure 400 {object} ErrorResponse "Invalid input format or validation error"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Not found"
// @Failure 409 {object} ErrorResponse "Stale version or invalid status transition"
// @Failure 422 {object} ErrorResponse "Business rule violation"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /borrowings/{id} [delete]
func (h *borrowingHandler) deleteBorrowing(c *gin.Context) {
	deleteHandler("delete borrowing", h.borrowingService.DeleteBorrowing)(c)
}

// confirmRepayment godoc
// @Summary Confirm a repayment
// @Description Books a pending repayment and settles the borrowing when fully repaid
// @Tags repayments
// @Accept  json
// @Produce  json
// @Param   id path string true "ID"
// @Param   transition body dto.TransitionRequest false "Expected version and optional reason"
// @Success 200 {object} domain.Repayment
// @Failure 400 {object} ErrorResponse "Invalid input format or validation error"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Not found"
// @Failure 409 {object} ErrorResponse "Stale version or invalid status transition"
// @Failure 422 {object} ErrorResponse "Business rule violation"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /repayments/{id}/confirm [post]
func (h *borrowingHandler) confirmRepayment(c *gin.Context) {
	transitionHandler("confirm repayment", h.borrowingService.ConfirmRepayment)(c)
}

// rejectRepayment godoc
// @Summary Reject a repayment
// @Description Rejects a pending repayment
// @Tags repayments
// @Accept  json
// @Produce  json
// @Param   id path string true "ID"
// @Param   transition body dto.TransitionRequest false "Expected version and optional reason"
// @Success 200 {object} domain.Repayment
// @Failure 400 {object} ErrorResponse "Invalid input format or validation error"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Not found"
// @Failure 409 {object} ErrorResponse "Stale version or invalid status transition"
// @Failure 422 {object} ErrorResponse "Business rule violation"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /repayments/{id}/reject [post]
func (h *borrowingHandler) rejectRepayment(c *gin.Context) {
	transitionHandler("reject repayment", h.borrowingService.RejectRepayment)(c)
}
