package domain

import (
	"time"

	"github.com/SscSPs/backoffice_ledger/internal/core/fsm"
)

type LeaveType string

const (
	LeaveAnnual   LeaveType = "annual"
	LeaveSick     LeaveType = "sick"
	LeavePersonal LeaveType = "personal"
	LeaveUnpaid   LeaveType = "unpaid"
	LeaveOther    LeaveType = "other"
)

// IsValid reports whether t is a known leave type.
func (t LeaveType) IsValid() bool {
	switch t {
	case LeaveAnnual, LeaveSick, LeavePersonal, LeaveUnpaid, LeaveOther:
		return true
	}
	return false
}

// DeductsSalary reports whether approved leave of this type reduces monthly pay.
// Annual leave is paid.
func (t LeaveType) DeductsSalary() bool {
	return t != LeaveAnnual
}

type LeaveStatus string

const (
	LeavePending  LeaveStatus = "pending"
	LeaveApproved LeaveStatus = "approved"
	LeaveRejected LeaveStatus = "rejected"
)

var LeaveMachine = fsm.New("leave", map[LeaveStatus][]LeaveStatus{
	LeavePending: {LeaveApproved, LeaveRejected},
})

// Leave is an absence request covering StartDate..EndDate inclusive.
type Leave struct {
	LeaveID    string      `json:"leaveID"`
	EmployeeID string      `json:"employeeID"`
	LeaveType  LeaveType   `json:"leaveType"`
	StartDate  time.Time   `json:"startDate"`
	EndDate    time.Time   `json:"endDate"`
	Reason     string      `json:"reason"`
	Status     LeaveStatus `json:"status"`
	Version    int64       `json:"version"`
	ReviewedBy string      `json:"reviewedBy,omitempty"`
	ReviewedAt *time.Time  `json:"reviewedAt,omitempty"`
	AuditFields
}

// Days is the inclusive length of the leave.
func (l Leave) Days() int {
	return OverlapDays(l.StartDate, l.EndDate, l.StartDate, l.EndDate)
}

// DaysWithin counts leave days falling inside from..to.
func (l Leave) DaysWithin(from, to time.Time) int {
	return OverlapDays(l.StartDate, l.EndDate, from, to)
}
