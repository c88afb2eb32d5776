package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/backoffice_ledger/internal/core/ports/services"
	"github.com/SscSPs/backoffice_ledger/internal/dto"
	"github.com/gin-gonic/gin"
)

type employeeHandler struct {
	employeeService portssvc.EmployeeSvcFacade
}

// RegisterEmployeeRoutes registers employee and salary base routes.
func RegisterEmployeeRoutes(rg *gin.RouterGroup, employeeService portssvc.EmployeeSvcFacade) {
	h := &employeeHandler{employeeService: employeeService}

	employees := rg.Group("/employees")
	{
		employees.POST("", h.createEmployee)
		employees.GET("/:id", h.getEmployee)
		employees.PUT("/:id", h.updateEmployee)
		employees.PUT("/:id/salary-base", h.setSalaryBase)
	}
}

// createEmployee godoc
// @Summary Create an employee
// @Description Registers an employee
// @Tags employees
// @Accept  json
// @Produce  json
// @Param   employee body dto.CreateEmployeeRequest true "Employee details"
// @Success 201 {object} domain.Employee
// @Failure 400 {object} ErrorResponse "Invalid input format or validation error"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /employees [post]
func (h *employeeHandler) createEmployee(c *gin.Context) {
	logger, userID, ok := requestContext(c)
	if !ok {
		return
	}
	var req dto.CreateEmployeeRequest
	if !bindJSON(c, logger, &req) {
		return
	}
	employee, err := h.employeeService.CreateEmployee(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to create employee")
		return
	}
	logger.Info("Employee created", slog.String("employee_id", employee.EmployeeID))
	c.JSON(http.StatusCreated, employee)
}

// getEmployee godoc
// @Summary Get an employee
// @Description Returns an employee by ID
// @Tags employees
// @Produce  json
// @Param   id path string true "ID"
// @Success 200 {object} domain.Employee
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /employees/{id} [get]
func (h *employeeHandler) getEmployee(c *gin.Context) {
	logger, _, ok := requestContext(c)
	if !ok {
		return
	}
	employee, err := h.employeeService.GetEmployee(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve employee")
		return
	}
	c.JSON(http.StatusOK, employee)
}

// updateEmployee godoc
// @Summary Update an employee
// @Description Changes employee fields. A stale version yields 409
// @Tags employees
// @Accept  json
// @Produce  json
// @Param   id path string true "ID"
// @Param   employee body dto.UpdateEmployeeRequest true "Fields to change"
// @Success 200 {object} domain.Employee
// @Failure 400 {object} ErrorResponse "Invalid input format or validation error"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Not found"
// @Failure 409 {object} ErrorResponse "Stale version or invalid status transition"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /employees/{id} [put]
func (h *employeeHandler) updateEmployee(c *gin.Context) {
	logger, userID, ok := requestContext(c)
	if !ok {
		return
	}
	var req dto.UpdateEmployeeRequest
	if !bindJSON(c, logger, &req) {
		return
	}
	employee, err := h.employeeService.UpdateEmployee(c.Request.Context(), c.Param("id"), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to update employee")
		return
	}
	c.JSON(http.StatusOK, employee)
}

// setSalaryBase godoc
// @Summary Set salary base
// @Description Sets the monthly base salary of an employee in one currency
// @Tags employees
// @Accept  json
// @Produce  json
// @Param   id path string true "ID"
// @Param   base body dto.SetSalaryBaseRequest true "Salary base"
// @Success 200 {object} domain.SalaryBase
// @Failure 400 {object} ErrorResponse "Invalid input format or validation error"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /employees/{id}/salary-base [put]
func (h *employeeHandler) setSalaryBase(c *gin.Context) {
	logger, userID, ok := requestContext(c)
	if !ok {
		return
	}
	var req dto.SetSalaryBaseRequest
	if !bindJSON(c, logger, &req) {
		return
	}
	base, err := h.employeeService.SetSalaryBase(c.Request.Context(), c.Param("id"), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to set salary base")
		return
	}
	c.JSON(http.StatusOK, base)
}
