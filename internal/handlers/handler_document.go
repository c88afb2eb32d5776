package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/backoffice_ledger/internal/core/ports/services"
	"github.com/SscSPs/backoffice_ledger/internal/dto"
	"github.com/gin-gonic/gin"
)

type documentHandler struct {
	settlementService portssvc.SettlementSvcFacade
}

// RegisterDocumentRoutes registers receivable/payable document routes.
func RegisterDocumentRoutes(rg *gin.RouterGroup, settlementService portssvc.SettlementSvcFacade) {
	h := &documentHandler{settlementService: settlementService}

	documents := rg.Group("/documents")
	{
		documents.POST("", h.createDocument)
		documents.GET("/:id", h.getDocument)
		documents.POST("/:id/settle", h.settle)
		documents.POST("/:id/confirm", h.confirm)
	}
}

// createDocument godoc
// @Summary Create a receivable or payable
// @Description Creates an open document numbered per kind and issue day
// @Tags documents
// @Accept  json
// @Produce  json
// @Param   document body dto.CreateDocumentRequest true "Document details"
// @Success 201 {object} domain.Document
// @Failure 400 {object} ErrorResponse "Invalid input format or validation error"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /documents [post]
func (h *documentHandler) createDocument(c *gin.Context) {
	logger, userID, ok := requestContext(c)
	if !ok {
		return
	}
	var req dto.CreateDocumentRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	doc, err := h.settlementService.CreateDocument(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to create document")
		return
	}

	logger.Info("Document created", slog.String("document_id", doc.DocumentID), slog.String("doc_no", doc.DocNo))
	c.JSON(http.StatusCreated, doc)
}

// getDocument godoc
// @Summary Get a document
// @Description Returns a document with its settlements
// @Tags documents
// @Produce  json
// @Param   id path string true "ID"
// @Success 200 {object} dto.DocumentResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /documents/{id} [get]
func (h *documentHandler) getDocument(c *gin.Context) {
	logger, _, ok := requestContext(c)
	if !ok {
		return
	}
	doc, err := h.settlementService.GetDocument(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve document")
		return
	}
	c.JSON(http.StatusOK, doc)
}

// settle godoc
// @Summary Settle a document
// @Description Links an existing posting to the document and recomputes its status
// @Tags documents
// @Accept  json
// @Produce  json
// @Param   id path string true "ID"
// @Param   settlement body dto.SettleDocumentRequest true "Settlement details"
// @Success 201 {object} domain.Settlement
// @Failure 400 {object} ErrorResponse "Invalid input format or validation error"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Not found"
// @Failure 422 {object} ErrorResponse "Business rule violation"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /documents/{id}/settle [post]
func (h *documentHandler) settle(c *gin.Context) {
	logger, userID, ok := requestContext(c)
	if !ok {
		return
	}
	var req dto.SettleDocumentRequest
	if !bindJSON(c, logger, &req) {
		return
	}
	documentID := c.Param("id")

	settlement, err := h.settlementService.Settle(c.Request.Context(), documentID, req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to settle document")
		return
	}

	logger.Info("Document settled", slog.String("document_id", documentID), slog.Int64("amount", settlement.Amount))
	c.JSON(http.StatusCreated, settlement)
}

// confirm godoc
// @Summary Confirm a document
// @Description Books the document on an account. A second confirm is rejected with 422
// @Tags documents
// @Accept  json
// @Produce  json
// @Param   id path string true "ID"
// @Param   confirmation body dto.ConfirmDocumentRequest true "Account and business date"
// @Success 200 {object} domain.PostingResult
// @Failure 400 {object} ErrorResponse "Invalid input format or validation error"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Not found"
// @Failure 409 {object} ErrorResponse "Stale version or invalid status transition"
// @Failure 422 {object} ErrorResponse "Business rule violation"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /documents/{id}/confirm [post]
func (h *documentHandler) confirm(c *gin.Context) {
	logger, userID, ok := requestContext(c)
	if !ok {
		return
	}
	var req dto.ConfirmDocumentRequest
	if !bindJSON(c, logger, &req) {
		return
	}
	documentID := c.Param("id")

	result, err := h.settlementService.Confirm(c.Request.Context(), documentID, req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to confirm document")
		return
	}

	logger.Info("Document confirmed", slog.String("document_id", documentID), slog.String("posting_id", result.Posting.PostingID))
	c.JSON(http.StatusOK, result)
}
