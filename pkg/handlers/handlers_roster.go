package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jdtaylor/staff-rostering-api/pkg/models"
)

// ListEmployees returns the roster, optionally scoped to a department
func (h *Handler) ListEmployees(c *gin.Context) {
	q := h.DB
	if dept := c.Query("department_id"); dept != "" {
		q = q.Where("department_id = ?", dept)
	}
	var employees []models.Employee
	if err := q.Order("id").Find(&employees).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch employees"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": employees})
}

// CreateEmployee adds an employee
func (h *Handler) CreateEmployee(c *gin.Context) {
	var emp models.Employee
	if err := c.ShouldBindJSON(&emp); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if emp.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}
	if err := h.DB.Create(&emp).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create employee"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": emp})
}

// UpdateEmployee replaces an employee's fields
func (h *Handler) UpdateEmployee(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var emp models.Employee
	if err := h.DB.First(&emp, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Employee not found"})
		return
	}
	var input models.Employee
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	input.ID = emp.ID
	if err := h.DB.Save(&input).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update employee"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": input})
}

// DeleteEmployee removes an employee
func (h *Handler) DeleteEmployee(c *gin.Context) {
	if err := h.DB.Delete(&models.Employee{}, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not delete employee"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Employee deleted"})
}

// ListRoles returns roles, optionally scoped to a department
func (h *Handler) ListRoles(c *gin.Context) {
	q := h.DB
	if dept := c.Query("department_id"); dept != "" {
		q = q.Where("department_id = ?", dept)
	}
	var roles []models.Role
	if err := q.Order("id").Find(&roles).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch roles"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": roles})
}

// CreateRole adds a role with its staffing template
func (h *Handler) CreateRole(c *gin.Context) {
	var role models.Role
	if err := c.ShouldBindJSON(&role); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if role.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}
	if err := h.DB.Create(&role).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create role"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": role})
}

// UpdateRole replaces a role's fields
func (h *Handler) UpdateRole(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var role models.Role
	if err := h.DB.First(&role, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Role not found"})
		return
	}
	var input models.Role
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	input.ID = role.ID
	if err := h.DB.Save(&input).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update role"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": input})
}

// DeleteRole removes a role
func (h *Handler) DeleteRole(c *gin.Context) {
	if err := h.DB.Delete(&models.Role{}, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not delete role"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Role deleted"})
}

// ListLeave returns leave requests, optionally for one employee
func (h *Handler) ListLeave(c *gin.Context) {
	q := h.DB
	if emp := c.Query("employee_id"); emp != "" {
		q = q.Where("employee_id = ?", emp)
	}
	var leave []models.LeaveRequest
	if err := q.Order("start_date, id").Find(&leave).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch leave requests"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": leave})
}

// CreateLeave files a leave request
func (h *Handler) CreateLeave(c *gin.Context) {
	var leave models.LeaveRequest
	if err := c.ShouldBindJSON(&leave); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if leave.EmployeeID == 0 || leave.StartDate == "" || leave.EndDate == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "employee_id, start_date and end_date are required"})
		return
	}
	if _, err := models.ParseDate(leave.StartDate); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if _, err := models.ParseDate(leave.EndDate); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if leave.EndDate < leave.StartDate {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end_date before start_date"})
		return
	}
	if leave.Status == "" {
		leave.Status = models.LeavePending
	}
	if err := h.DB.Create(&leave).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create leave request"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": leave})
}

// UpdateLeave changes a leave request, typically its status
func (h *Handler) UpdateLeave(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var leave models.LeaveRequest
	if err := h.DB.First(&leave, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Leave request not found"})
		return
	}
	var input models.LeaveRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	switch input.Status {
	case models.LeavePending, models.LeaveApproved, models.LeaveRejected:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}
	input.ID = leave.ID
	if input.EmployeeID == 0 {
		input.EmployeeID = leave.EmployeeID
	}
	if input.StartDate == "" {
		input.StartDate = leave.StartDate
	}
	if input.EndDate == "" {
		input.EndDate = leave.EndDate
	}
	if err := h.DB.Save(&input).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update leave request"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": input})
}

// DeleteLeave removes a leave request
func (h *Handler) DeleteLeave(c *gin.Context) {
	if err := h.DB.Delete(&models.LeaveRequest{}, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not delete leave request"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Leave request deleted"})
}
