package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jdtaylor/staff-rostering-api/pkg/models"
	"github.com/jdtaylor/staff-rostering-api/pkg/scheduler"
)

// ValidateGeneration dry-runs the requirement expansion for a range without
// searching or persisting anything, so callers can vet role templates before
// a real run
func (h *Handler) ValidateGeneration(c *gin.Context) {
	var req models.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"valid": false,
			"error": err.Error(),
		})
		return
	}

	if _, err := models.ParseDate(req.StartDate); err != nil {
		c.JSON(http.StatusOK, gin.H{"valid": false, "error": err.Error()})
		return
	}
	if _, err := models.ParseDate(req.EndDate); err != nil {
		c.JSON(http.StatusOK, gin.H{"valid": false, "error": err.Error()})
		return
	}

	snap, err := h.loadSnapshot(req.DepartmentID, req.StartDate, req.EndDate)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"valid": false, "error": "Could not load scheduling data"})
		return
	}

	if len(snap.Employees) == 0 {
		c.JSON(http.StatusOK, gin.H{
			"valid": false,
			"error": "At least one employee is required",
		})
		return
	}
	if len(snap.Roles) == 0 {
		c.JSON(http.StatusOK, gin.H{
			"valid": false,
			"error": "At least one role is required",
		})
		return
	}

	slots, err := scheduler.ExpandSlots(req.StartDate, req.EndDate, snap.Roles, snap.Existing)
	if err != nil {
		var cfgErr *models.ConfigurationError
		if errors.As(err, &cfgErr) {
			c.JSON(http.StatusOK, gin.H{"valid": false, "error": cfgErr.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"valid": false, "error": err.Error()})
		return
	}

	open, prefilled := 0, 0
	for _, s := range slots {
		if s.PreFilled {
			prefilled++
		} else {
			open++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"valid": true,
		"stats": gin.H{
			"open_slots":      open,
			"prefilled_slots": prefilled,
			"employee_count":  len(snap.Employees),
			"role_count":      len(snap.Roles),
		},
	})
}
