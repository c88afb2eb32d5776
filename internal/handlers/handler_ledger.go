package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/backoffice_ledger/internal/core/ports/services"
	"github.com/SscSPs/backoffice_ledger/internal/dto"
	"github.com/gin-gonic/gin"
)

// ledgerHandler exposes postings and transfers.
type ledgerHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

// RegisterLedgerRoutes registers posting and transfer routes.
func RegisterLedgerRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := &ledgerHandler{ledgerService: ledgerService}

	postings := rg.Group("/postings")
	{
		postings.POST("", h.postSingleEntry)
		postings.GET("/:id", h.getPosting)
		postings.PUT("/:id/vouchers", h.attachVouchers)
	}

	transfers := rg.Group("/transfers")
	{
		transfers.POST("", h.postTransfer)
		transfers.GET("/:id", h.getTransfer)
	}
}

// postSingleEntry godoc
// @Summary Record an income or expense
// @Description Records a single-entry posting and returns it with its balance snapshot
// @Tags postings
// @Accept  json
// @Produce  json
// @Param   posting body dto.PostSingleEntryRequest true "Posting details"
// @Success 201 {object} domain.PostingResult
// @Failure 400 {object} ErrorResponse "Invalid input format or validation error"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Not found"
// @Failure 409 {object} ErrorResponse "Stale version or invalid status transition"
// @Failure 422 {object} ErrorResponse "Business rule violation"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /postings [post]
func (h *ledgerHandler) postSingleEntry(c *gin.Context) {
	logger, userID, ok := requestContext(c)
	if !ok {
		return
	}
	var req dto.PostSingleEntryRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	result, err := h.ledgerService.PostSingleEntry(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to record posting")
		return
	}

	logger.Info("Posting recorded",
		slog.String("posting_id", result.Posting.PostingID),
		slog.String("voucher_no", result.Posting.VoucherNo),
		slog.Int64("balance_after", result.Snapshot.BalanceAfter))
	c.JSON(http.StatusCreated, result)
}

// getPosting godoc
// @Summary Get a posting
// @Description Returns a posting by ID
// @Tags postings
// @Produce  json
// @Param   id path string true "ID"
// @Success 200 {object} domain.Posting
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /postings/{id} [get]
func (h *ledgerHandler) getPosting(c *gin.Context) {
	logger, _, ok := requestContext(c)
	if !ok {
		return
	}
	posting, err := h.ledgerService.GetPosting(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve posting")
		return
	}
	c.JSON(http.StatusOK, posting)
}

// attachVouchers godoc
// @Summary Attach vouchers
// @Description Replaces the voucher attachments of a posting
// @Tags postings
// @Accept  json
// @Produce  json
// @Param   id path string true "ID"
// @Param   vouchers body dto.AttachVouchersRequest true "Voucher references"
// @Success 200 {object} domain.Posting
// @Failure 400 {object} ErrorResponse "Invalid input format or validation error"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /postings/{id}/vouchers [put]
func (h *ledgerHandler) attachVouchers(c *gin.Context) {
	logger, userID, ok := requestContext(c)
	if !ok {
		return
	}
	var req dto.AttachVouchersRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	posting, err := h.ledgerService.AttachVouchers(c.Request.Context(), c.Param("id"), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to attach vouchers")
		return
	}
	c.JSON(http.StatusOK, posting)
}

// postTransfer godoc
// @Summary Record a transfer
// @Description Moves money between two accounts, converting across currencies
// @Tags transfers
// @Accept  json
// @Produce  json
// @Param   transfer body dto.PostTransferRequest true "Transfer details"
// @Success 201 {object} domain.TransferResult
// @Failure 400 {object} ErrorResponse "Invalid input format or validation error"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Not found"
// @Failure 409 {object} ErrorResponse "Stale version or invalid status transition"
// @Failure 422 {object} ErrorResponse "Business rule violation"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /transfers [post]
func (h *ledgerHandler) postTransfer(c *gin.Context) {
	logger, userID, ok := requestContext(c)
	if !ok {
		return
	}
	var req dto.PostTransferRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	result, err := h.ledgerService.PostTransfer(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to record transfer")
		return
	}

	logger.Info("Transfer recorded", slog.String("transfer_id", result.Transfer.TransferID))
	c.JSON(http.StatusCreated, result)
}

// getTransfer godoc
// @Summary Get a transfer
// @Description Returns a transfer by ID
// @Tags transfers
// @Produce  json
// @Param   id path string true "ID"
// @Success 200 {object} domain.Transfer
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /transfers/{id} [get]
func (h *ledgerHandler) getTransfer(c *gin.Context) {
	logger, _, ok := requestContext(c)
	if !ok {
		return
	}
	transfer, err := h.ledgerService.GetTransfer(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve transfer")
		return
	}
	c.JSON(http.StatusOK, transfer)
}
