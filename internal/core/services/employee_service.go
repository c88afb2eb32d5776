package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/backoffice_ledger/internal/apperrors"
	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/backoffice_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/backoffice_ledger/internal/core/ports/services"
	"github.com/SscSPs/backoffice_ledger/internal/dto"
	"github.com/google/uuid"
)

type employeeService struct {
	BaseService
	employeeRepo portsrepo.EmployeeRepositoryFacade
	currencyRepo portsrepo.CurrencyReader
}

var _ portssvc.EmployeeSvcFacade = (*employeeService)(nil)

// NewEmployeeService creates a new employee service.
func NewEmployeeService(employeeRepo portsrepo.EmployeeRepositoryFacade, currencyRepo portsrepo.CurrencyReader, opts ...Option) portssvc.EmployeeSvcFacade {
	return &employeeService{BaseService: newBaseService(opts), employeeRepo: employeeRepo, currencyRepo: currencyRepo}
}

func (s *employeeService) CreateEmployee(ctx context.Context, req dto.CreateEmployeeRequest, userID string) (*domain.Employee, error) {
	if err := requireActor(userID); err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if err := s.checkCurrency(ctx, req.SalaryCurrency); err != nil {
		return nil, err
	}

	employee := domain.Employee{
		EmployeeID:     uuid.NewString(),
		Name:           req.Name,
		JoinDate:       domain.NormalizeDate(req.JoinDate),
		SalaryCurrency: req.SalaryCurrency,
		IsActive:       true,
		AuditFields:    domain.NewAuditFields(userID, s.Now()),
	}
	if err := s.employeeRepo.SaveEmployee(ctx, employee); err != nil {
		s.LogError(ctx, err, "Failed to save employee")
		return nil, err
	}

	s.LogInfo(ctx, "Employee created", slog.String("employee_id", employee.EmployeeID))
	return &employee, nil
}

func (s *employeeService) GetEmployee(ctx context.Context, employeeID string) (*domain.Employee, error) {
	return s.employeeRepo.FindEmployeeByID(ctx, employeeID)
}

func (s *employeeService) UpdateEmployee(ctx context.Context, employeeID string, req dto.UpdateEmployeeRequest, userID string) (*domain.Employee, error) {
	if err := requireActor(userID); err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	employee, err := s.employeeRepo.FindEmployeeByID(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		if *req.Name == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", apperrors.ErrValidation)
		}
		employee.Name = *req.Name
	}
	if req.SalaryCurrency != nil {
		if err := s.checkCurrency(ctx, *req.SalaryCurrency); err != nil {
			return nil, err
		}
		employee.SalaryCurrency = *req.SalaryCurrency
	}
	if req.IsActive != nil {
		employee.IsActive = *req.IsActive
	}
	employee.Touch(userID, s.Now())

	if err := s.employeeRepo.UpdateEmployee(ctx, *employee); err != nil {
		s.LogError(ctx, err, "Failed to update employee", slog.String("employee_id", employeeID))
		return nil, err
	}
	return employee, nil
}

// SetSalaryBase creates or replaces the monthly base of an employee in one currency.
func (s *employeeService) SetSalaryBase(ctx context.Context, employeeID string, req dto.SetSalaryBaseRequest, userID string) (*domain.SalaryBase, error) {
	if err := requireActor(userID); err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if _, err := s.employeeRepo.FindEmployeeByID(ctx, employeeID); err != nil {
		return nil, err
	}
	if err := s.checkCurrency(ctx, req.CurrencyCode); err != nil {
		return nil, err
	}

	base := domain.SalaryBase{
		EmployeeID:   employeeID,
		CurrencyCode: req.CurrencyCode,
		Amount:       req.Amount,
		AuditFields:  domain.NewAuditFields(userID, s.Now()),
	}
	if err := s.employeeRepo.UpsertSalaryBase(ctx, base); err != nil {
		s.LogError(ctx, err, "Failed to store salary base", slog.String("employee_id", employeeID))
		return nil, err
	}
	s.LogInfo(ctx, "Salary base set",
		slog.String("employee_id", employeeID),
		slog.String("currency_code", base.CurrencyCode),
		slog.Int64("amount", base.Amount))
	return &base, nil
}

func (s *employeeService) checkCurrency(ctx context.Context, code string) error {
	if _, err := s.currencyRepo.FindCurrencyByCode(ctx, code); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: currency %s is not configured", apperrors.ErrValidation, code)
		}
		return err
	}
	return nil
}
