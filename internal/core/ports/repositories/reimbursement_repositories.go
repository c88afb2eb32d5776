package repositories

import (
	"context"

	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
)

type ReimbursementReader interface {
	FindReimbursementByID(ctx context.Context, reimbursementID string) (*domain.Reimbursement, error)
}

type ReimbursementWriter interface {
	SaveReimbursement(ctx context.Context, reimbursement domain.Reimbursement) error
	UpdateReimbursement(ctx context.Context, reimbursement domain.Reimbursement, expectedVersion int64) error
	DeleteReimbursement(ctx context.Context, reimbursementID string, expectedVersion int64) error
}

type ReimbursementRepositoryFacade interface {
	ReimbursementReader
	ReimbursementWriter
}
