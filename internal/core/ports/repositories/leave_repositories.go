package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
)

type LeaveReader interface {
	FindLeaveByID(ctx context.Context, leaveID string) (*domain.Leave, error)

	// ListApprovedLeavesOverlapping returns approved leaves of the employee touching from..to.
	ListApprovedLeavesOverlapping(ctx context.Context, employeeID string, from, to time.Time) ([]domain.Leave, error)
}

type LeaveWriter interface {
	SaveLeave(ctx context.Context, leave domain.Leave) error
	UpdateLeave(ctx context.Context, leave domain.Leave, expectedVersion int64) error
	DeleteLeave(ctx context.Context, leaveID string, expectedVersion int64) error
}

type LeaveRepositoryFacade interface {
	LeaveReader
	LeaveWriter
}
