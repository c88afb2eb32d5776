package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
)

// DocumentReader defines read operations for receivable/payable documents
type DocumentReader interface {
	// FindDocumentByID retrieves a document. Inside a transaction the row stays locked.
	FindDocumentByID(ctx context.Context, documentID string) (*domain.Document, error)

	// CountDocumentsByKindAndIssueDate counts documents of a kind issued on a date.
	CountDocumentsByKindAndIssueDate(ctx context.Context, kind domain.DocumentKind, issueDate time.Time) (int, error)

	// ListSettlementsByDocumentID returns the settlements of a document in creation order.
	ListSettlementsByDocumentID(ctx context.Context, documentID string) ([]domain.Settlement, error)
}

// DocumentWriter defines write operations for documents and settlements
type DocumentWriter interface {
	// SaveDocument persists a new document.
	SaveDocument(ctx context.Context, document domain.Document) error

	// UpdateDocument stores the document if the stored version equals expectedVersion.
	UpdateDocument(ctx context.Context, document domain.Document, expectedVersion int64) error

	// SaveSettlement persists a new settlement.
	SaveSettlement(ctx context.Context, settlement domain.Settlement) error
}

// DocumentRepositoryFacade combines all document-related repository interfaces
type DocumentRepositoryFacade interface {
	DocumentReader
	DocumentWriter
}
