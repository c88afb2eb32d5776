package services

import (
	"context"

	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
	"github.com/SscSPs/backoffice_ledger/internal/dto"
)

// SettlementSvcFacade manages receivable/payable documents and their settlements.
type SettlementSvcFacade interface {
	// CreateDocument numbers and stores a new open document.
	CreateDocument(ctx context.Context, req dto.CreateDocumentRequest, userID string) (*domain.Document, error)

	GetDocument(ctx context.Context, documentID string) (*dto.DocumentResponse, error)

	// Settle applies a partial or full settlement and recomputes the document status.
	Settle(ctx context.Context, documentID string, req dto.SettleDocumentRequest, userID string) (*domain.Settlement, error)

	// Confirm posts the full document amount to an account and settles the document, once.
	Confirm(ctx context.Context, documentID string, req dto.ConfirmDocumentRequest, userID string) (*domain.PostingResult, error)
}
