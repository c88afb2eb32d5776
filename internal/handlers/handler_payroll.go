package handlers

import (
	"context"
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/backoffice_ledger/internal/core/ports/services"
	"github.com/SscSPs/backoffice_ledger/internal/dto"
	"github.com/gin-gonic/gin"
)

type payrollHandler struct {
	payrollService portssvc.PayrollSvcFacade
}

// RegisterPayrollRoutes registers the salary payment workflow routes.
func RegisterPayrollRoutes(rg *gin.RouterGroup, payrollService portssvc.PayrollSvcFacade) {
	h := &payrollHandler{payrollService: payrollService}

	payments := rg.Group("/salary-payments")
	{
		payments.POST("/generate", h.generate)
		payments.GET("", h.listSalaryPayments)
		payments.GET("/:id", h.getSalaryPayment)
		payments.POST("/:id/employee-confirm", h.employeeConfirm)
		payments.POST("/:id/allocations", h.requestAllocation)
		payments.POST("/:id/allocations/approve", h.approveAllocation)
		payments.POST("/:id/allocations/reject", h.rejectAllocation)
		payments.POST("/:id/finance-approve", h.financeApprove)
		payments.POST("/:id/finance-return", h.financeReturn)
		payments.POST("/:id/pay", h.pay)
		payments.POST("/:id/confirm-payment", h.confirmPayment)
		payments.DELETE("/:id", h.deleteSalaryPayment)
	}
}

// listSalaryPaymentsParams selects the month to list.
type listSalaryPaymentsParams struct {
	Year  int `form:"year" binding:"required,min=2000,max=9999"`
	Month int `form:"month" binding:"required,min=1,max=12"`
}

// generate godoc
// @Summary Generate salary payments
// @Description Creates the month's payments for every eligible employee that has none yet
// @Tags salary-payments
// @Accept  json
// @Produce  json
// @Param   period body dto.GenerateSalaryRequest true "Year and month"
// @Success 201 {object} dto.GenerateSalaryResponse
// @Failure 400 {object} ErrorResponse "Invalid input format or validation error"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /salary-payments/generate [post]
func (h *payrollHandler) generate(c *gin.Context) {
	logger, userID, ok := requestContext(c)
	if !ok {
		return
	}
	var req dto.GenerateSalaryRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	resp, err := h.payrollService.Generate(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to generate salary payments")
		return
	}

	logger.Info("Salary payments generated", slog.Int("year", req.Year), slog.Int("month", req.Month), slog.Int("created", resp.Created))
	c.JSON(http.StatusCreated, resp)
}

// listSalaryPayments godoc
// @Summary List salary payments
// @Description Lists the payments of one month
// @Tags salary-payments
// @Produce  json
// @Param   year query integer true "Year"
// @Param   month query integer true "Month"
// @Success 200 {object} map[string][]domain.SalaryPayment
// @Failure 400 {object} ErrorResponse "Invalid input format or validation error"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /salary-payments [get]
func (h *payrollHandler) listSalaryPayments(c *gin.Context) {
	logger, _, ok := requestContext(c)
	if !ok {
		return
	}
	var params listSalaryPaymentsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListSalaryPayments", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}
	payments, err := h.payrollService.ListSalaryPayments(c.Request.Context(), params.Year, params.Month)
	if err != nil {
		respondError(c, logger, err, "Failed to list salary payments")
		return
	}
	c.JSON(http.StatusOK, gin.H{"payments": payments})
}

// getSalaryPayment godoc
// @Summary Get a salary payment
// @Description Returns a payment with its allocation rows
// @Tags salary-payments
// @Produce  json
// @Param   id path string true "ID"
// @Success 200 {object} dto.SalaryPaymentResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /salary-payments/{id} [get]
func (h *payrollHandler) getSalaryPayment(c *gin.Context) {
	logger, _, ok := requestContext(c)
	if !ok {
		return
	}
	resp, err := h.payrollService.GetSalaryPayment(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve salary payment")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// requestAllocation godoc
// @Summary Request an allocation
// @Description Replaces the allocation rows; totals outside tolerance give 422
// @Tags salary-payments
// @Accept  json
// @Produce  json
// @Param   id path string true "ID"
// @Param   allocation body dto.RequestAllocationRequest true "Allocation rows"
// @Success 200 {object} dto.SalaryPaymentResponse
// @Failure 400 {object} ErrorResponse "Invalid input format or validation error"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Not found"
// @Failure 409 {object} ErrorResponse "Stale version or invalid status transition"
// @Failure 422 {object} ErrorResponse "Business rule violation"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /salary-payments/{id}/allocations [post]
func (h *payrollHandler) requestAllocation(c *gin.Context) {
	logger, userID, ok := requestContext(c)
	if !ok {
		return
	}
	var req dto.RequestAllocationRequest
	if !bindJSON(c, logger, &req) {
		return
	}
	paymentID := c.Param("id")

	resp, err := h.payrollService.RequestAllocation(c.Request.Context(), paymentID, req, userID)
	if err != nil {
		respondError(c, logger.With(slog.String("payment_id", paymentID)), err, "Failed to request allocation")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *payrollHandler) reviewAllocation(action string, review func(ctx context.Context, paymentID string, req dto.ReviewAllocationRequest, userID string) (*dto.SalaryPaymentResponse, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger, userID, ok := requestContext(c)
		if !ok {
			return
		}
		var req dto.ReviewAllocationRequest
		if !bindOptionalJSON(c, logger, &req) {
			return
		}
		paymentID := c.Param("id")

		resp, err := review(c.Request.Context(), paymentID, req, userID)
		if err != nil {
			respondError(c, logger.With(slog.String("payment_id", paymentID)), err, "Failed to "+action)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// employeeConfirm godoc
// @Summary Confirm salary as employee
// @Description Moves the payment to finance approval
// @Tags salary-payments
// @Accept  json
// @Produce  json
// @Param   id path string true "ID"
// @Param   transition body dto.TransitionRequest false "Expected version and optional reason"
// @Success 200 {object} domain.SalaryPayment
// @Failure 400 {object} ErrorResponse "Invalid input format or validation error"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Not found"
// @Failure 409 {object} ErrorResponse "Stale version or invalid status transition"
// @Failure 422 {object} ErrorResponse "Business rule violation"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /salary-payments/{id}/employee-confirm [post]
func (h *payrollHandler) employeeConfirm(c *gin.Context) {
	transitionHandler("confirm salary as employee", h.payrollService.EmployeeConfirm)(c)
}

// approveAllocation godoc
// @Summary Approve allocation rows
// @Description Approves the named pending rows, or all of them
// @Tags salary-payments
// @Accept  json
// @Produce  json
// @Param   id path string true "ID"
// @Param   review body dto.ReviewAllocationRequest false "Rows to review (all pending when empty) and reason"
// @Success 200 {object} dto.SalaryPaymentResponse
// @Failure 400 {object} ErrorResponse "Invalid input format or validation error"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Not found"
// @Failure 409 {object} ErrorResponse "Stale version or invalid status transition"
// @Failure 422 {object} ErrorResponse "Business rule violation"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /salary-payments/{id}/allocations/approve [post]
func (h *payrollHandler) approveAllocation(c *gin.Context) {
	h.reviewAllocation("approve allocation", h.payrollService.ApproveAllocation)(c)
}

// rejectAllocation godoc
// @Summary Reject allocation rows
// @Description Rejects the named pending rows, or all of them
// @Tags salary-payments
// @Accept  json
// @Produce  json
// @Param   id path string true "ID"
// @Param   review body dto.ReviewAllocationRequest false "Rows to review (all pending when empty) and reason"
// @Success 200 {object} dto.SalaryPaymentResponse
// @Failure 400 {object} ErrorResponse "Invalid input format or validation error"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Not found"
// @Failure 409 {object} ErrorResponse "Stale version or invalid status transition"
// @Failure 422 {object} ErrorResponse "Business rule violation"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /salary-payments/{id}/allocations/reject [post]
func (h *payrollHandler) rejectAllocation(c *gin.Context) {
	h.reviewAllocation("reject allocation", h.payrollService.RejectAllocation)(c)
}

// financeApprove godoc
// @Summary Approve salary for payment
// @Description Refused while an allocation is pending or rejected
// @Tags salary-payments
// @Accept  json
// @Produce  json
// @Param   id path string true "ID"
// @Param   transition body dto.TransitionRequest false "Expected version and optional reason"
// @Success 200 {object} domain.SalaryPayment
// @Failure 400 {object} ErrorResponse "Invalid input format or validation error"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Not found"
// @Failure 409 {object} ErrorResponse "Stale version or invalid status transition"
// @Failure 422 {object} ErrorResponse "Business rule violation"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /salary-payments/{id}/finance-approve [post]
func (h *payrollHandler) financeApprove(c *gin.Context) {
	transitionHandler("approve salary", h.payrollService.FinanceApprove)(c)
}

// financeReturn godoc
// @Summary Return salary to the employee
// @Description Sends the payment back for employee confirmation
// @Tags salary-payments
// @Accept  json
// @Produce  json
// @Param   id path string true "ID"
// @Param   transition body dto.TransitionRequest false "Expected version and optional reason"
// @Success 200 {object} domain.SalaryPayment
// @Failure 400 {object} ErrorResponse "Invalid input format or validation error"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Not found"
// @Failure 409 {object} ErrorResponse "Stale version or invalid status transition"
// @Failure 422 {object} ErrorResponse "Business rule violation"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /salary-payments/{id}/finance-return [post]
func (h *payrollHandler) financeReturn(c *gin.Context) {
	transitionHandler("return salary", h.payrollService.FinanceReturn)(c)
}

// pay godoc
// @Summary Pay salary
// @Description Books the salary as expenses on the paying account or the allocation accounts
// @Tags salary-payments
// @Accept  json
// @Produce  json
// @Param   id path string true "ID"
// @Param   payout body dto.PayoutRequest true "Paying account, business date and expected version"
// @Success 200 {object} domain.SalaryPayment
// @Failure 400 {object} ErrorResponse "Invalid input format or validation error"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Not found"
// @Failure 409 {object} ErrorResponse "Stale version or invalid status transition"
// @Failure 422 {object} ErrorResponse "Business rule violation"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /salary-payments/{id}/pay [post]
func (h *payrollHandler) pay(c *gin.Context) {
	payoutHandler("pay salary", h.payrollService.Pay)(c)
}

// confirmPayment godoc
// @Summary Confirm salary payment
// @Description Completes the payment
// @Tags salary-payments
// @Accept  json
// @Produce  json
// @Param   id path string true "ID"
// @Param   transition body dto.TransitionRequest false "Expected version and optional reason"
// @Success 200 {object} domain.SalaryPayment
// @Failure 400 {object} ErrorResponse "Invalid input format or validation error"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Not found"
// @Failure 409 {object} ErrorResponse "Stale version or invalid status transition"
// @Failure 422 {object} ErrorResponse "Business rule violation"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /salary-payments/{id}/confirm-payment [post]
func (h *payrollHandler) confirmPayment(c *gin.Context) {
	transitionHandler("confirm salary payment", h.payrollService.ConfirmPayment)(c)
}

// deleteSalaryPayment godoc
// @Summary Delete a salary payment
// @Description Soft-deletes a payment the employee has not confirmed yet
// @Tags salary-payments
// @Accept  json
// @Produce  json
// @Param   id path string true "ID"
// @Param   transition body dto.TransitionRequest false "Expected version and optional reason"
// @Success 200 {object} domain.SalaryPayment
// @Failure 400 {object} ErrorResponse "Invalid input format or validation error"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Not found"
// @Failure 409 {object} ErrorResponse "Stale version or invalid status transition"
// @Failure 422 {object} ErrorResponse "Business rule violation"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /salary-payments/{id} [delete]
func (h *payrollHandler) deleteSalaryPayment(c *gin.Context) {
	transitionHandler("delete salary payment", h.payrollService.Delete)(c)
}
