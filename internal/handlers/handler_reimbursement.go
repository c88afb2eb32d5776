package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/backoffice_ledger/internal/core/ports/services"
	"github.com/SscSPs/backoffice_ledger/internal/dto"
	"github.com/gin-gonic/gin"
)

type reimbursementHandler struct {
	reimbursementService portssvc.ReimbursementSvcFacade
}

// RegisterReimbursementRoutes registers expense claim routes.
func RegisterReimbursementRoutes(rg *gin.RouterGroup, reimbursementService portssvc.ReimbursementSvcFacade) {
	h := &reimbursementHandler{reimbursementService: reimbursementService}

	reimbursements := rg.Group("/reimbursements")
	{
		reimbursements.POST("", h.submit)
		reimbursements.GET("/:id", h.get)
		reimbursements.POST("/:id/approve", h.approve)
		reimbursements.POST("/:id/reject", h.reject)
		reimbursements.POST("/:id/pay", h.pay)
		reimbursements.DELETE("/:id", h.deleteReimbursement)
	}
}

// submit godoc
// @Summary Submit a reimbursement
// @Description Files an expense claim for an employee
// @Tags reimbursements
// @Accept  json
// @Produce  json
// @Param   reimbursement body dto.CreateReimbursementRequest true "Claim details"
// @Success 201 {object} domain.Reimbursement
// @Failure 400 {object} ErrorResponse "Invalid input format or validation error"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /reimbursements [post]
func (h *reimbursementHandler) submit(c *gin.Context) {
	logger, userID, ok := requestContext(c)
	if !ok {
		return
	}
	var req dto.CreateReimbursementRequest
	if !bindJSON(c, logger, &req) {
		return
	}
	reimbursement, err := h.reimbursementService.SubmitReimbursement(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to submit reimbursement")
		return
	}
	c.JSON(http.StatusCreated, reimbursement)
}

// get godoc
// @Summary Get a reimbursement
// @Description Returns a reimbursement by ID
// @Tags reimbursements
// @Produce  json
// @Param   id path string true "ID"
// @Success 200 {object} domain.Reimbursement
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /reimbursements/{id} [get]
func (h *reimbursementHandler) get(c *gin.Context) {
	logger, _, ok := requestContext(c)
	if !ok {
		return
	}
	reimbursement, err := h.reimbursementService.GetReimbursement(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve reimbursement")
		return
	}
	c.JSON(http.StatusOK, reimbursement)
}

// approve godoc
// @Summary Approve a reimbursement
// @Description Approves a pending claim
// @Tags reimbursements
// @Accept  json
// @Produce  json
// @Param   id path string true "ID"
// @Param   transition body dto.TransitionRequest false "Expected version and optional reason"
// @Success 200 {object} domain.Reimbursement
// @Failure 400 {object} ErrorResponse "Invalid input format or validation error"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Not found"
// @Failure 409 {object} ErrorResponse "Stale version or invalid status transition"
// @Failure 422 {object} ErrorResponse "Business rule violation"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /reimbursements/{id}/approve [post]
func (h *reimbursementHandler) approve(c *gin.Context) {
	transitionHandler("approve reimbursement", h.reimbursementService.ApproveReimbursement)(c)
}

// reject godoc
// @Summary Reject a reimbursement
// @Description Rejects a pending claim
// @Tags reimbursements
// @Accept  json
// @Produce  json
// @Param   id path string true "ID"
// @Param   transition body dto.TransitionRequest false "Expected version and optional reason"
// @Success 200 {object} domain.Reimbursement
// @Failure 400 {object} ErrorResponse "Invalid input format or validation error"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Not found"
// @Failure 409 {object} ErrorResponse "Stale version or invalid status transition"
// @Failure 422 {object} ErrorResponse "Business rule violation"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /reimbursements/{id}/reject [post]
func (h *reimbursementHandler) reject(c *gin.Context) {
	transitionHandler("reject reimbursement", h.reimbursementService.RejectReimbursement)(c)
}

// pay godoc
// @Summary Pay a reimbursement
// @Description Books an approved claim as an expense
// @Tags reimbursements
// @Accept  json
// @Produce  json
// @Param   id path string true "ID"
// @Param   payout body dto.PayoutRequest true "Paying account, business date and expected version"
// @Success 200 {object} domain.Reimbursement
// @Failure 400 {object} ErrorResponse "Invalid input format or validation error"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Not found"
// @Failure 409 {object} ErrorResponse "Stale version or invalid status transition"
// @Failure 422 {object} ErrorResponse "Business rule violation"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /reimbursements/{id}/pay [post]
func (h *reimbursementHandler) pay(c *gin.Context) {
	payoutHandler("pay reimbursement", h.reimbursementService.PayReimbursement)(c)
}

// deleteReimbursement godoc
// @Summary Delete a reimbursement
// @Description Deletes a claim that was never paid
// @Tags reimbursements
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
// @Router /reimbursements/{id} [delete]
func (h *reimbursementHandler) deleteReimbursement(c *gin.Context) {
	deleteHandler("delete reimbursement", h.reimbursementService.DeleteReimbursement)(c)
}
