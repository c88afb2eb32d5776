package services

import (
	"context"

	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
	"github.com/SscSPs/backoffice_ledger/internal/dto"
)

// EmployeeSvcFacade manages the payroll view of employees.
type EmployeeSvcFacade interface {
	CreateEmployee(ctx context.Context, req dto.CreateEmployeeRequest, userID string) (*domain.Employee, error)
	GetEmployee(ctx context.Context, employeeID string) (*domain.Employee, error)
	UpdateEmployee(ctx context.Context, employeeID string, req dto.UpdateEmployeeRequest, userID string) (*domain.Employee, error)
	SetSalaryBase(ctx context.Context, employeeID string, req dto.SetSalaryBaseRequest, userID string) (*domain.SalaryBase, error)
}

// PayrollSvcFacade drives the monthly salary payment workflow.
type PayrollSvcFacade interface {
	Generate(ctx context.Context, req dto.GenerateSalaryRequest, userID string) (*dto.GenerateSalaryResponse, error)
	GetSalaryPayment(ctx context.Context, paymentID string) (*dto.SalaryPaymentResponse, error)
	ListSalaryPayments(ctx context.Context, year int, month int) ([]domain.SalaryPayment, error)

	EmployeeConfirm(ctx context.Context, paymentID string, req dto.TransitionRequest, userID string) (*domain.SalaryPayment, error)
	RequestAllocation(ctx context.Context, paymentID string, req dto.RequestAllocationRequest, userID string) (*dto.SalaryPaymentResponse, error)
	ApproveAllocation(ctx context.Context, paymentID string, req dto.ReviewAllocationRequest, userID string) (*dto.SalaryPaymentResponse, error)
	RejectAllocation(ctx context.Context, paymentID string, req dto.ReviewAllocationRequest, userID string) (*dto.SalaryPaymentResponse, error)
	FinanceApprove(ctx context.Context, paymentID string, req dto.TransitionRequest, userID string) (*domain.SalaryPayment, error)
	FinanceReturn(ctx context.Context, paymentID string, req dto.TransitionRequest, userID string) (*domain.SalaryPayment, error)
	Pay(ctx context.Context, paymentID string, req dto.PayoutRequest, userID string) (*domain.SalaryPayment, error)
	ConfirmPayment(ctx context.Context, paymentID string, req dto.TransitionRequest, userID string) (*domain.SalaryPayment, error)
	Delete(ctx context.Context, paymentID string, req dto.TransitionRequest, userID string) (*domain.SalaryPayment, error)
}

// BorrowingSvcFacade drives employee loans and their repayments.
type BorrowingSvcFacade interface {
	RequestBorrowing(ctx context.Context, req dto.CreateBorrowingRequest, userID string) (*domain.Borrowing, error)
	GetBorrowing(ctx context.Context, borrowingID string) (*dto.BorrowingResponse, error)
	ApproveBorrowing(ctx context.Context, borrowingID string, req dto.TransitionRequest, userID string) (*domain.Borrowing, error)
	RejectBorrowing(ctx context.Context, borrowingID string, req dto.TransitionRequest, userID string) (*domain.Borrowing, error)
	DisburseBorrowing(ctx context.Context, borrowingID string, req dto.PayoutRequest, userID string) (*domain.Borrowing, error)
	DeleteBorrowing(ctx context.Context, borrowingID string, req dto.TransitionRequest, userID string) error

	RequestRepayment(ctx context.Context, borrowingID string, req dto.CreateRepaymentRequest, userID string) (*domain.Repayment, error)
	ConfirmRepayment(ctx context.Context, repaymentID string, req dto.TransitionRequest, userID string) (*domain.Repayment, error)
	RejectRepayment(ctx context.Context, repaymentID string, req dto.TransitionRequest, userID string) (*domain.Repayment, error)
}

// ReimbursementSvcFacade drives expense claims.
type ReimbursementSvcFacade interface {
	SubmitReimbursement(ctx context.Context, req dto.CreateReimbursementRequest, userID string) (*domain.Reimbursement, error)
	GetReimbursement(ctx context.Context, reimbursementID string) (*domain.Reimbursement, error)
	ApproveReimbursement(ctx context.Context, reimbursementID string, req dto.TransitionRequest, userID string) (*domain.Reimbursement, error)
	RejectReimbursement(ctx context.Context, reimbursementID string, req dto.TransitionRequest, userID string) (*domain.Reimbursement, error)
	PayReimbursement(ctx context.Context, reimbursementID string, req dto.PayoutRequest, userID string) (*domain.Reimbursement, error)
	DeleteReimbursement(ctx context.Context, reimbursementID string, req dto.TransitionRequest, userID string) error
}

// LeaveSvcFacade drives leave requests.
type LeaveSvcFacade interface {
	RequestLeave(ctx context.Context, req dto.CreateLeaveRequest, userID string) (*domain.Leave, error)
	GetLeave(ctx context.Context, leaveID string) (*domain.Leave, error)
	ApproveLeave(ctx context.Context, leaveID string, req dto.TransitionRequest, userID string) (*domain.Leave, error)
	RejectLeave(ctx context.Context, leaveID string, req dto.TransitionRequest, userID string) (*domain.Leave, error)
	DeleteLeave(ctx context.Context, leaveID string, req dto.TransitionRequest, userID string) error
	ListApprovedLeaves(ctx context.Context, params dto.ListLeavesParams) ([]domain.Leave, error)
}
