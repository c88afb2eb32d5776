package services_test

import (
	"testing"
	"time"

	"github.com/SscSPs/backoffice_ledger/internal/apperrors"
	"github.com/SscSPs/backoffice_ledger/internal/dto"
	"github.com/stretchr/testify/suite"
)

type EmployeeServiceTestSuite struct {
	suite.Suite
	f *fixture
}

func (s *EmployeeServiceTestSuite) SetupTest() {
	s.f = newFixture(s.T())
}

func TestEmployeeServiceTestSuite(t *testing.T) {
	suite.Run(t, new(EmployeeServiceTestSuite))
}

func (s *EmployeeServiceTestSuite) TestCreateEmployee_NormalisesJoinDate() {
	e, err := s.f.svc.Employee.CreateEmployee(s.f.ctx, dto.CreateEmployeeRequest{
		Name:           "Judy",
		JoinDate:       date(2024, 1, 15).Add(13 * time.Hour),
		SalaryCurrency: "EUR",
	}, testUser)
	s.Require().NoError(err)
	s.True(e.IsActive)
	s.Equal(date(2024, 1, 15), e.JoinDate)

	got, err := s.f.svc.Employee.GetEmployee(s.f.ctx, e.EmployeeID)
	s.Require().NoError(err)
	s.Equal("Judy", got.Name)
}

func (s *EmployeeServiceTestSuite) TestCreateEmployee_UnknownCurrency() {
	_, err := s.f.svc.Employee.CreateEmployee(s.f.ctx, dto.CreateEmployeeRequest{
		Name:           "Mallory",
		JoinDate:       date(2024, 1, 1),
		SalaryCurrency: "GBP",
	}, testUser)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *EmployeeServiceTestSuite) TestUpdateEmployee() {
	id := s.f.employee(s.T(), "Niaj", date(2023, 6, 1), "USD", 0)

	inactive := false
	currency := "CNY"
	updated, err := s.f.svc.Employee.UpdateEmployee(s.f.ctx, id, dto.UpdateEmployeeRequest{IsActive: &inactive, SalaryCurrency: &currency}, testUser)
	s.Require().NoError(err)
	s.False(updated.IsActive)
	s.Equal("CNY", updated.SalaryCurrency)

	empty := ""
	_, err = s.f.svc.Employee.UpdateEmployee(s.f.ctx, id, dto.UpdateEmployeeRequest{Name: &empty}, testUser)
	s.ErrorIs(err, apperrors.ErrValidation)

	_, err = s.f.svc.Employee.UpdateEmployee(s.f.ctx, "nobody", dto.UpdateEmployeeRequest{IsActive: &inactive}, testUser)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *EmployeeServiceTestSuite) TestSetSalaryBase_Replaces() {
	id := s.f.employee(s.T(), "Olivia", date(2023, 6, 1), "USD", 3000)

	base, err := s.f.svc.Employee.SetSalaryBase(s.f.ctx, id, dto.SetSalaryBaseRequest{CurrencyCode: "USD", Amount: 4200}, testUser)
	s.Require().NoError(err)
	s.Equal(int64(4200), base.Amount)

	stored, err := s.f.repos.EmployeeRepo.FindSalaryBase(s.f.ctx, id, "USD")
	s.Require().NoError(err)
	s.Equal(int64(4200), stored.Amount)
}

func (s *EmployeeServiceTestSuite) TestSetSalaryBase_Rejections() {
	id := s.f.employee(s.T(), "Peggy", date(2023, 6, 1), "USD", 0)

	_, err := s.f.svc.Employee.SetSalaryBase(s.f.ctx, id, dto.SetSalaryBaseRequest{CurrencyCode: "USD", Amount: 0}, testUser)
	s.ErrorIs(err, apperrors.ErrValidation)

	_, err = s.f.svc.Employee.SetSalaryBase(s.f.ctx, "nobody", dto.SetSalaryBaseRequest{CurrencyCode: "USD", Amount: 10}, testUser)
	s.ErrorIs(err, apperrors.ErrNotFound)

	_, err = s.f.svc.Employee.SetSalaryBase(s.f.ctx, id, dto.SetSalaryBaseRequest{CurrencyCode: "USD", Amount: 10}, "")
	s.ErrorIs(err, apperrors.ErrValidation)
}
