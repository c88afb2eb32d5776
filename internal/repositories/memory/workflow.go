package memory

import (
	"context"
	"sort"
	"time"

	"github.com/SscSPs/backoffice_ledger/internal/apperrors"
	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/backoffice_ledger/internal/core/ports/repositories"
)

func checkVersion(stored, expected int64) error {
	if stored != expected {
		return &apperrors.ConcurrentModificationError{Current: stored, Expected: expected}
	}
	return nil
}

type employeeRepository struct{ base }

var _ portsrepo.EmployeeRepositoryFacade = (*employeeRepository)(nil)

func (r *employeeRepository) FindEmployeeByID(_ context.Context, employeeID string) (*domain.Employee, error) {
	defer r.lock()()
	e, ok := r.s.data.employees[employeeID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &e, nil
}

func (r *employeeRepository) ListActiveEmployeesJoinedBy(_ context.Context, date time.Time) ([]domain.Employee, error) {
	defer r.lock()()
	var out []domain.Employee
	for _, e := range r.s.data.employees {
		if e.IsActive && !e.JoinDate.After(date) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EmployeeID < out[j].EmployeeID })
	return out, nil
}

func salaryBaseKey(employeeID, currencyCode string) string {
	return employeeID + "|" + currencyCode
}

func (r *employeeRepository) FindSalaryBase(_ context.Context, employeeID string, currencyCode string) (*domain.SalaryBase, error) {
	defer r.lock()()
	b, ok := r.s.data.salaryBases[salaryBaseKey(employeeID, currencyCode)]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &b, nil
}

func (r *employeeRepository) SaveEmployee(_ context.Context, employee domain.Employee) error {
	defer r.lock()()
	if _, exists := r.s.data.employees[employee.EmployeeID]; exists {
		return apperrors.ErrDuplicate
	}
	r.s.data.employees[employee.EmployeeID] = employee
	return nil
}

func (r *employeeRepository) UpdateEmployee(_ context.Context, employee domain.Employee) error {
	defer r.lock()()
	if _, ok := r.s.data.employees[employee.EmployeeID]; !ok {
		return apperrors.ErrNotFound
	}
	r.s.data.employees[employee.EmployeeID] = employee
	return nil
}

func (r *employeeRepository) UpsertSalaryBase(_ context.Context, b domain.SalaryBase) error {
	defer r.lock()()
	key := salaryBaseKey(b.EmployeeID, b.CurrencyCode)
	if existing, ok := r.s.data.salaryBases[key]; ok {
		b.CreatedAt = existing.CreatedAt
		b.CreatedBy = existing.CreatedBy
	}
	r.s.data.salaryBases[key] = b
	return nil
}

type salaryRepository struct{ base }

var _ portsrepo.SalaryPaymentRepositoryFacade = (*salaryRepository)(nil)

func (r *salaryRepository) FindSalaryPaymentByID(_ context.Context, paymentID string) (*domain.SalaryPayment, error) {
	defer r.lock()()
	p, ok := r.s.data.payments[paymentID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &p, nil
}

func (r *salaryRepository) ExistsSalaryPaymentForPeriod(_ context.Context, employeeID string, year int, month int) (bool, error) {
	defer r.lock()()
	for _, p := range r.s.data.payments {
		if p.EmployeeID == employeeID && p.Year == year && p.Month == month {
			return true, nil
		}
	}
	return false, nil
}

func (r *salaryRepository) ListSalaryPaymentsByPeriod(_ context.Context, year int, month int) ([]domain.SalaryPayment, error) {
	defer r.lock()()
	out := []domain.SalaryPayment{}
	for _, p := range r.s.data.payments {
		if p.Year == year && p.Month == month {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EmployeeID < out[j].EmployeeID })
	return out, nil
}

func (r *salaryRepository) ListAllocationsByPaymentID(_ context.Context, paymentID string) ([]domain.SalaryPaymentAllocation, error) {
	defer r.lock()()
	return append([]domain.SalaryPaymentAllocation{}, r.s.data.allocations[paymentID]...), nil
}

func (r *salaryRepository) SaveSalaryPayment(_ context.Context, payment domain.SalaryPayment) error {
	defer r.lock()()
	for _, p := range r.s.data.payments {
		if p.PaymentID == payment.PaymentID ||
			(p.EmployeeID == payment.EmployeeID && p.Year == payment.Year && p.Month == payment.Month) {
			return apperrors.ErrDuplicate
		}
	}
	r.s.data.payments[payment.PaymentID] = payment
	return nil
}

func (r *salaryRepository) UpdateSalaryPayment(_ context.Context, payment domain.SalaryPayment, expectedVersion int64) error {
	defer r.lock()()
	stored, ok := r.s.data.payments[payment.PaymentID]
	if !ok {
		return apperrors.ErrNotFound
	}
	if err := checkVersion(stored.Version, expectedVersion); err != nil {
		return err
	}
	r.s.data.payments[payment.PaymentID] = payment
	return nil
}

func (r *salaryRepository) ReplaceAllocations(_ context.Context, paymentID string, allocations []domain.SalaryPaymentAllocation) error {
	defer r.lock()()
	if _, ok := r.s.data.payments[paymentID]; !ok {
		return apperrors.ErrNotFound
	}
	r.s.data.allocations[paymentID] = append([]domain.SalaryPaymentAllocation(nil), allocations...)
	return nil
}

func (r *salaryRepository) UpdateAllocation(_ context.Context, allocation domain.SalaryPaymentAllocation) error {
	defer r.lock()()
	rows := r.s.data.allocations[allocation.PaymentID]
	for i := range rows {
		if rows[i].AllocationID == allocation.AllocationID {
			updated := append([]domain.SalaryPaymentAllocation(nil), rows...)
			updated[i] = allocation
			r.s.data.allocations[allocation.PaymentID] = updated
			return nil
		}
	}
	return apperrors.ErrNotFound
}

type borrowingRepository struct{ base }

var _ portsrepo.BorrowingRepositoryFacade = (*borrowingRepository)(nil)

func (r *borrowingRepository) FindBorrowingByID(_ context.Context, borrowingID string) (*domain.Borrowing, error) {
	defer r.lock()()
	b, ok := r.s.data.borrowings[borrowingID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &b, nil
}

func (r *borrowingRepository) FindRepaymentByID(_ context.Context, repaymentID string) (*domain.Repayment, error) {
	defer r.lock()()
	rp, ok := r.s.data.repayments[repaymentID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &rp, nil
}

func (r *borrowingRepository) ListRepaymentsByBorrowingID(_ context.Context, borrowingID string) ([]domain.Repayment, error) {
	defer r.lock()()
	out := []domain.Repayment{}
	for _, rp := range r.s.data.repayments {
		if rp.BorrowingID == borrowingID {
			out = append(out, rp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *borrowingRepository) SaveBorrowing(_ context.Context, borrowing domain.Borrowing) error {
	defer r.lock()()
	if _, exists := r.s.data.borrowings[borrowing.BorrowingID]; exists {
		return apperrors.ErrDuplicate
	}
	r.s.data.borrowings[borrowing.BorrowingID] = borrowing
	return nil
}

func (r *borrowingRepository) UpdateBorrowing(_ context.Context, borrowing domain.Borrowing, expectedVersion int64) error {
	defer r.lock()()
	stored, ok := r.s.data.borrowings[borrowing.BorrowingID]
	if !ok {
		return apperrors.ErrNotFound
	}
	if err := checkVersion(stored.Version, expectedVersion); err != nil {
		return err
	}
	r.s.data.borrowings[borrowing.BorrowingID] = borrowing
	return nil
}

func (r *borrowingRepository) DeleteBorrowing(_ context.Context, borrowingID string, expectedVersion int64) error {
	defer r.lock()()
	stored, ok := r.s.data.borrowings[borrowingID]
	if !ok {
		return apperrors.ErrNotFound
	}
	if err := checkVersion(stored.Version, expectedVersion); err != nil {
		return err
	}
	delete(r.s.data.borrowings, borrowingID)
	return nil
}

func (r *borrowingRepository) SaveRepayment(_ context.Context, repayment domain.Repayment) error {
	defer r.lock()()
	if _, ok := r.s.data.borrowings[repayment.BorrowingID]; !ok {
		return apperrors.ErrNotFound
	}
	if _, exists := r.s.data.repayments[repayment.RepaymentID]; exists {
		return apperrors.ErrDuplicate
	}
	r.s.data.repayments[repayment.RepaymentID] = repayment
	return nil
}

func (r *borrowingRepository) UpdateRepayment(_ context.Context, repayment domain.Repayment, expectedVersion int64) error {
	defer r.lock()()
	stored, ok := r.s.data.repayments[repayment.RepaymentID]
	if !ok {
		return apperrors.ErrNotFound
	}
	if err := checkVersion(stored.Version, expectedVersion); err != nil {
		return err
	}
	r.s.data.repayments[repayment.RepaymentID] = repayment
	return nil
}

type reimbursementRepository struct{ base }

var _ portsrepo.ReimbursementRepositoryFacade = (*reimbursementRepository)(nil)

func (r *reimbursementRepository) FindReimbursementByID(_ context.Context, reimbursementID string) (*domain.Reimbursement, error) {
	defer r.lock()()
	rb, ok := r.s.data.reimbursements[reimbursementID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	rb.VoucherRefs = append([]string(nil), rb.VoucherRefs...)
	return &rb, nil
}

func (r *reimbursementRepository) SaveReimbursement(_ context.Context, rb domain.Reimbursement) error {
	defer r.lock()()
	if _, exists := r.s.data.reimbursements[rb.ReimbursementID]; exists {
		return apperrors.ErrDuplicate
	}
	rb.VoucherRefs = append([]string(nil), rb.VoucherRefs...)
	r.s.data.reimbursements[rb.ReimbursementID] = rb
	return nil
}

func (r *reimbursementRepository) UpdateReimbursement(_ context.Context, rb domain.Reimbursement, expectedVersion int64) error {
	defer r.lock()()
	stored, ok := r.s.data.reimbursements[rb.ReimbursementID]
	if !ok {
		return apperrors.ErrNotFound
	}
	if err := checkVersion(stored.Version, expectedVersion); err != nil {
		return err
	}
	rb.VoucherRefs = append([]string(nil), rb.VoucherRefs...)
	r.s.data.reimbursements[rb.ReimbursementID] = rb
	return nil
}

func (r *reimbursementRepository) DeleteReimbursement(_ context.Context, reimbursementID string, expectedVersion int64) error {
	defer r.lock()()
	stored, ok := r.s.data.reimbursements[reimbursementID]
	if !ok {
		return apperrors.ErrNotFound
	}
	if err := checkVersion(stored.Version, expectedVersion); err != nil {
		return err
	}
	delete(r.s.data.reimbursements, reimbursementID)
	return nil
}

type leaveRepository struct{ base }

var _ portsrepo.LeaveRepositoryFacade = (*leaveRepository)(nil)

func (r *leaveRepository) FindLeaveByID(_ context.Context, leaveID string) (*domain.Leave, error) {
	defer r.lock()()
	l, ok := r.s.data.leaves[leaveID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &l, nil
}

func (r *leaveRepository) ListApprovedLeavesOverlapping(_ context.Context, employeeID string, from, to time.Time) ([]domain.Leave, error) {
	defer r.lock()()
	var out []domain.Leave
	for _, l := range r.s.data.leaves {
		if l.EmployeeID != employeeID || l.Status != domain.LeaveApproved {
			continue
		}
		if l.StartDate.After(to) || l.EndDate.Before(from) {
			continue
		}
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out, nil
}

func (r *leaveRepository) SaveLeave(_ context.Context, leave domain.Leave) error {
	defer r.lock()()
	if _, exists := r.s.data.leaves[leave.LeaveID]; exists {
		return apperrors.ErrDuplicate
	}
	r.s.data.leaves[leave.LeaveID] = leave
	return nil
}

func (r *leaveRepository) UpdateLeave(_ context.Context, leave domain.Leave, expectedVersion int64) error {
	defer r.lock()()
	stored, ok := r.s.data.leaves[leave.LeaveID]
	if !ok {
		return apperrors.ErrNotFound
	}
	if err := checkVersion(stored.Version, expectedVersion); err != nil {
		return err
	}
	r.s.data.leaves[leave.LeaveID] = leave
	return nil
}

func (r *leaveRepository) DeleteLeave(_ context.Context, leaveID string, expectedVersion int64) error {
	defer r.lock()()
	stored, ok := r.s.data.leaves[leaveID]
	if !ok {
		return apperrors.ErrNotFound
	}
	if err := checkVersion(stored.Version, expectedVersion); err != nil {
		return err
	}
	delete(r.s.data.leaves, leaveID)
	return nil
}

type auditRepository struct{ base }

var _ portsrepo.AuditRepositoryFacade = (*auditRepository)(nil)

func (r *auditRepository) SaveAuditEvent(_ context.Context, event domain.AuditEvent) error {
	defer r.lock()()
	r.s.data.audit = append(r.s.data.audit, event)
	return nil
}

func (r *auditRepository) ListAuditEventsByEntity(_ context.Context, entityType, entityID string) ([]domain.AuditEvent, error) {
	defer r.lock()()
	out := []domain.AuditEvent{}
	for _, e := range r.s.data.audit {
		if e.EntityType == entityType && e.EntityID == entityID {
			out = append(out, e)
		}
	}
	return out, nil
}
