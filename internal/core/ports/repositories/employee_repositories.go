package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
)

// EmployeeReader defines read operations for employees and salary bases
type EmployeeReader interface {
	// FindEmployeeByID retrieves an employee by id.
	FindEmployeeByID(ctx context.Context, employeeID string) (*domain.Employee, error)

	// ListActiveEmployeesJoinedBy returns active employees whose join date is on or before date.
	ListActiveEmployeesJoinedBy(ctx context.Context, date time.Time) ([]domain.Employee, error)

	// FindSalaryBase retrieves the base salary of an employee in a currency.
	FindSalaryBase(ctx context.Context, employeeID string, currencyCode string) (*domain.SalaryBase, error)
}

// EmployeeWriter defines write operations for employees and salary bases
type EmployeeWriter interface {
	// SaveEmployee persists a new employee.
	SaveEmployee(ctx context.Context, employee domain.Employee) error

	// UpdateEmployee stores mutable employee fields.
	UpdateEmployee(ctx context.Context, employee domain.Employee) error

	// UpsertSalaryBase creates or replaces the base salary for (employee, currency).
	UpsertSalaryBase(ctx context.Context, base domain.SalaryBase) error
}

// EmployeeRepositoryFacade combines all employee-related repository interfaces
type EmployeeRepositoryFacade interface {
	EmployeeReader
	EmployeeWriter
}
