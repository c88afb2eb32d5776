package services_test

import (
	"testing"

	"github.com/SscSPs/backoffice_ledger/internal/apperrors"
	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
	"github.com/SscSPs/backoffice_ledger/internal/dto"
	"github.com/stretchr/testify/suite"
)

type LeaveServiceTestSuite struct {
	suite.Suite
	f        *fixture
	employee string
}

func (s *LeaveServiceTestSuite) SetupTest() {
	s.f = newFixture(s.T())
	s.employee = s.f.employee(s.T(), "Ivan", date(2023, 1, 1), "USD", 0)
}

func TestLeaveServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LeaveServiceTestSuite))
}

func (s *LeaveServiceTestSuite) request() *domain.Leave {
	l, err := s.f.svc.Leave.RequestLeave(s.f.ctx, dto.CreateLeaveRequest{
		EmployeeID: s.employee,
		LeaveType:  domain.LeaveSick,
		StartDate:  date(2024, 3, 4),
		EndDate:    date(2024, 3, 6),
	}, testUser)
	s.Require().NoError(err)
	return l
}

func (s *LeaveServiceTestSuite) TestRequestLeave() {
	l := s.request()
	s.Equal(domain.LeavePending, l.Status)
	s.Equal(3, l.Days())
	s.Equal(int64(1), l.Version)

	got, err := s.f.svc.Leave.GetLeave(s.f.ctx, l.LeaveID)
	s.Require().NoError(err)
	s.Equal(l.LeaveID, got.LeaveID)
}

func (s *LeaveServiceTestSuite) TestRequestLeave_EndBeforeStart() {
	_, err := s.f.svc.Leave.RequestLeave(s.f.ctx, dto.CreateLeaveRequest{
		EmployeeID: s.employee,
		LeaveType:  domain.LeaveAnnual,
		StartDate:  date(2024, 3, 6),
		EndDate:    date(2024, 3, 4),
	}, testUser)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *LeaveServiceTestSuite) TestRequestLeave_UnknownType() {
	_, err := s.f.svc.Leave.RequestLeave(s.f.ctx, dto.CreateLeaveRequest{
		EmployeeID: s.employee,
		LeaveType:  "sabbatical",
		StartDate:  date(2024, 3, 4),
		EndDate:    date(2024, 3, 4),
	}, testUser)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *LeaveServiceTestSuite) TestReview() {
	approved, err := s.f.svc.Leave.ApproveLeave(s.f.ctx, s.request().LeaveID, dto.TransitionRequest{Version: version(1)}, testUser)
	s.Require().NoError(err)
	s.Equal(domain.LeaveApproved, approved.Status)
	s.Equal(int64(2), approved.Version)
	s.Equal(testUser, approved.ReviewedBy)

	_, err = s.f.svc.Leave.RejectLeave(s.f.ctx, approved.LeaveID, dto.TransitionRequest{}, testUser)
	s.ErrorIs(err, apperrors.ErrInvalidTransition)

	rejected, err := s.f.svc.Leave.RejectLeave(s.f.ctx, s.request().LeaveID, dto.TransitionRequest{}, testUser)
	s.Require().NoError(err)
	s.Equal(domain.LeaveRejected, rejected.Status)
}

func (s *LeaveServiceTestSuite) TestDeleteLeave() {
	l := s.request()
	err := s.f.svc.Leave.DeleteLeave(s.f.ctx, l.LeaveID, dto.TransitionRequest{Version: version(5)}, testUser)
	s.ErrorIs(err, apperrors.ErrConcurrentModification)

	s.Require().NoError(s.f.svc.Leave.DeleteLeave(s.f.ctx, l.LeaveID, dto.TransitionRequest{Version: version(1)}, testUser))
	_, err = s.f.svc.Leave.GetLeave(s.f.ctx, l.LeaveID)
	s.ErrorIs(err, apperrors.ErrNotFound)

	approved, err := s.f.svc.Leave.ApproveLeave(s.f.ctx, s.request().LeaveID, dto.TransitionRequest{}, testUser)
	s.Require().NoError(err)
	err = s.f.svc.Leave.DeleteLeave(s.f.ctx, approved.LeaveID, dto.TransitionRequest{}, testUser)
	s.ErrorIs(err, apperrors.ErrBusinessRule)
}

func (s *LeaveServiceTestSuite) TestListApprovedLeaves() {
	approved, err := s.f.svc.Leave.ApproveLeave(s.f.ctx, s.request().LeaveID, dto.TransitionRequest{}, testUser)
	s.Require().NoError(err)
	s.request() // still pending, not listed

	leaves, err := s.f.svc.Leave.ListApprovedLeaves(s.f.ctx, dto.ListLeavesParams{EmployeeID: s.employee, From: date(2024, 3, 6), To: date(2024, 3, 31)})
	s.Require().NoError(err)
	s.Require().Len(leaves, 1)
	s.Equal(approved.LeaveID, leaves[0].LeaveID)

	none, err := s.f.svc.Leave.ListApprovedLeaves(s.f.ctx, dto.ListLeavesParams{EmployeeID: s.employee, From: date(2024, 3, 7), To: date(2024, 3, 31)})
	s.Require().NoError(err)
	s.NotNil(none)
	s.Empty(none)

	_, err = s.f.svc.Leave.ListApprovedLeaves(s.f.ctx, dto.ListLeavesParams{EmployeeID: s.employee, From: date(2024, 3, 31), To: date(2024, 3, 1)})
	s.ErrorIs(err, apperrors.ErrValidation)
}
