package domain

import "time"

// Employee is the payroll-relevant view of a staff member.
type Employee struct {
	EmployeeID     string    `json:"employeeID"`
	Name           string    `json:"name"`
	JoinDate       time.Time `json:"joinDate"`
	SalaryCurrency string    `json:"salaryCurrency"`
	IsActive       bool      `json:"isActive"`
	AuditFields
}

// EligibleFor reports whether the employee is paid for a month ending on monthEnd.
func (e Employee) EligibleFor(monthEnd time.Time) bool {
	return e.IsActive && !NormalizeDate(e.JoinDate).After(NormalizeDate(monthEnd))
}

// SalaryBase is the monthly base salary of an employee in one currency.
type SalaryBase struct {
	EmployeeID   string `json:"employeeID"`
	CurrencyCode string `json:"currencyCode"`
	Amount       int64  `json:"amount"`
	AuditFields
}
