package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"faceattend/internal/directory"
)

type registerEmployeeRequest struct {
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Department string    `json:"department"`
	Position   string    `json:"position"`
	Encoding   []float64 `json:"encoding"`
}

type updateEmployeeRequest struct {
	Name       *string `json:"name"`
	Email      *string `json:"email"`
	Department *string `json:"department"`
	Position   *string `json:"position"`
}

// ListEmployees returns the caller's employees without encodings.
func (h *Handler) ListEmployees(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	employees, err := h.employees.List(c.Request.Context(), caller.CompanyID, false)
	if err != nil {
		h.fail(c, err, "failed to fetch employees")
		return
	}
	if employees == nil {
		employees = []directory.Employee{}
	}
	c.JSON(http.StatusOK, employees)
}

// ListEmployeesWithEncodings returns employees including face encodings, for
// the recognition client to match against.
func (h *Handler) ListEmployeesWithEncodings(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	employees, err := h.employees.List(c.Request.Context(), caller.CompanyID, true)
	if err != nil {
		h.fail(c, err, "failed to fetch employees with encodings")
		return
	}
	if employees == nil {
		employees = []directory.Employee{}
	}
	c.JSON(http.StatusOK, employees)
}

// RegisterEmployee creates an employee under the caller's company.
func (h *Handler) RegisterEmployee(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	var req registerEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name, email, and face encoding are required"})
		return
	}

	e, err := h.employees.Register(c.Request.Context(), caller.CompanyID, directory.RegisterInput{
		Name:       req.Name,
		Email:      req.Email,
		Department: req.Department,
		Position:   req.Position,
		Encoding:   req.Encoding,
	})
	if err != nil {
		h.fail(c, err, "employee registration failed")
		return
	}

	h.log.Info("employee registered",
		zap.String("employee_code", e.EmployeeCode), zap.String("company_id", e.CompanyID))
	c.JSON(http.StatusCreated, gin.H{
		"message": "employee registered successfully",
		"employee": gin.H{
			"_id":        e.ID,
			"name":       e.Name,
			"email":      e.Email,
			"department": e.Department,
			"position":   e.Position,
			"employeeId": e.EmployeeCode,
			"companyId":  e.CompanyID,
		},
	})
}

// GetEmployee returns one employee without its encoding.
func (h *Handler) GetEmployee(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	e, err := h.employees.Get(c.Request.Context(), caller.CompanyID, c.Param("id"))
	if err != nil {
		h.fail(c, err, "failed to fetch employee")
		return
	}
	c.JSON(http.StatusOK, e)
}

// UpdateEmployee applies a partial update to name/email/department/position.
func (h *Handler) UpdateEmployee(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	var req updateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	e, err := h.employees.Update(c.Request.Context(), caller.CompanyID, c.Param("id"), directory.UpdateInput{
		Name:       req.Name,
		Email:      req.Email,
		Department: req.Department,
		Position:   req.Position,
	})
	if err != nil {
		h.fail(c, err, "failed to update employee")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "employee updated successfully", "employee": e})
}

// DeleteEmployee removes an employee permanently.
func (h *Handler) DeleteEmployee(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	if err := h.employees.Delete(c.Request.Context(), caller.CompanyID, c.Param("id")); err != nil {
		h.fail(c, err, "failed to delete employee")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "employee deleted successfully"})
}
