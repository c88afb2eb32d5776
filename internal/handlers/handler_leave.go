package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/backoffice_ledger/internal/core/ports/services"
	"github.com/SscSPs/backoffice_ledger/internal/dto"
	"github.com/gin-gonic/gin"
)

type leaveHandler struct {
	leaveService portssvc.LeaveSvcFacade
}

// RegisterLeaveRoutes registers leave request routes.
func RegisterLeaveRoutes(rg *gin.RouterGroup, leaveService portssvc.LeaveSvcFacade) {
	h := &leaveHandler{leaveService: leaveService}

	leaves := rg.Group("/leaves")
	{
		leaves.POST("", h.requestLeave)
		leaves.GET("", h.listApprovedLeaves)
		leaves.GET("/:id", h.getLeave)
		leaves.POST("/:id/approve", h.approveLeave)
		leaves.POST("/:id/reject", h.rejectLeave)
		leaves.DELETE("/:id", h.deleteLeave)
	}
}

// requestLeave godoc
// @Summary Request leave
// @Description Files a leave request for an employee
// @Tags leaves
// @Accept  json
// @Produce  json
// @Param   leave body dto.CreateLeaveRequest true "Leave details"
// @Success 201 {object} domain.Leave
// @Failure 400 {object} ErrorResponse "Invalid input format or validation error"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /leaves [post]
func (h *leaveHandler) requestLeave(c *gin.Context) {
	logger, userID, ok := requestContext(c)
	if !ok {
		return
	}
	var req dto.CreateLeaveRequest
	if !bindJSON(c, logger, &req) {
		return
	}
	leave, err := h.leaveService.RequestLeave(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to request leave")
		return
	}
	c.JSON(http.StatusCreated, leave)
}

// getLeave godoc
// @Summary Get a leave request
// @Description Returns a leave request by ID
// @Tags leaves
// @Produce  json
// @Param   id path string true "ID"
// @Success 200 {object} domain.Leave
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /leaves/{id} [get]
func (h *leaveHandler) getLeave(c *gin.Context) {
	logger, _, ok := requestContext(c)
	if !ok {
		return
	}
	leave, err := h.leaveService.GetLeave(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve leave")
		return
	}
	c.JSON(http.StatusOK, leave)
}

// listApprovedLeaves godoc
// @Summary List approved leave
// @Description Lists approved leave of an employee overlapping a date range
// @Tags leaves
// @Produce  json
// @Param   employeeID query string true "Employee ID"
// @Param   from query string true "First day YYYY-MM-DD"
// @Param   to query string true "Last day YYYY-MM-DD"
// @Success 200 {object} map[string][]domain.Leave
// @Failure 400 {object} ErrorResponse "Invalid input format or validation error"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /leaves [get]
func (h *leaveHandler) listApprovedLeaves(c *gin.Context) {
	logger, _, ok := requestContext(c)
	if !ok {
		return
	}
	var params dto.ListLeavesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListApprovedLeaves", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}
	leaves, err := h.leaveService.ListApprovedLeaves(c.Request.Context(), params)
	if err != nil {
		respondError(c, logger, err, "Failed to list leaves")
		return
	}
	c.JSON(http.StatusOK, gin.H{"leaves": leaves})
}

// approveLeave godoc
// @Summary Approve leave
// @Description Approves a pending leave request
// @Tags leaves
// @Accept  json
// @Produce  json
// @Param   id path string true "ID"
// @Param   transition body dto.TransitionRequest false "Expected version and optional reason"
// @Success 200 {object} domain.Leave
// @Failure 400 {object} ErrorResponse "Invalid input format or validation error"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Not found"
// @Failure 409 {object} ErrorResponse "Stale version or invalid status transition"
// @Failure 422 {object} ErrorResponse "Business rule violation"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /leaves/{id}/approve [post]
func (h *leaveHandler) approveLeave(c *gin.Context) {
	transitionHandler("approve leave", h.leaveService.ApproveLeave)(c)
}

// rejectLeave godoc
// @Summary Reject leave
// @Description Rejects a pending leave request
// @Tags leaves
// @Accept  json
// @Produce  json
// @Param   id path string true "ID"
// @Param   transition body dto.TransitionRequest false "Expected version and optional reason"
// @Success 200 {object} domain.Leave
// @Failure 400 {object} ErrorResponse "Invalid input format or validation error"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Not found"
// @Failure 409 {object} ErrorResponse "Stale version or invalid status transition"
// @Failure 422 {object} ErrorResponse "Business rule violation"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /leaves/{id}/reject [post]
func (h *leaveHandler) rejectLeave(c *gin.Context) {
	transitionHandler("reject leave", h.leaveService.RejectLeave)(c)
}

// deleteLeave godoc
// @Summary Delete leave
// @Description Deletes a leave request that is still pending
// @Tags leaves
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
// @Router /leaves/{id} [delete]
func (h *leaveHandler) deleteLeave(c *gin.Context) {
	deleteHandler("delete leave", h.leaveService.DeleteLeave)(c)
}
