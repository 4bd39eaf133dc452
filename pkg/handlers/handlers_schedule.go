package handlers

import (
	"errors"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/jdtaylor/staff-rostering-api/pkg/models"
	"github.com/jdtaylor/staff-rostering-api/pkg/scheduler"
)

// ListSchedules returns assignments in a date range
func (h *Handler) ListSchedules(c *gin.Context) {
	start := c.Query("start")
	end := c.Query("end")
	if start == "" || end == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start and end query parameters are required"})
		return
	}

	var assignments []models.Assignment
	if err := h.DB.Where("date BETWEEN ? AND ?", start, end).
		Order("date, start_time, id").Find(&assignments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch schedules"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": assignments})
}

// CreateSchedule creates one manual assignment through the editor
func (h *Handler) CreateSchedule(c *gin.Context) {
	var input models.AssignmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	a, err := h.Editor.Create(input)
	if err != nil {
		respondEditorError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": a})
}

// UpdateSchedule applies a manual edit with optimistic versioning
func (h *Handler) UpdateSchedule(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var input models.AssignmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	a, err := h.Editor.Update(uint(id), input)
	if err != nil {
		respondEditorError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": a})
}

// DeleteSchedule removes an assignment, freeing its slot
func (h *Handler) DeleteSchedule(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if err := h.Editor.Delete(uint(id)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not delete schedule"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Schedule deleted"})
}

// GenerateSchedule runs the assignment engine over a date range and persists
// the resulting draft assignments in one transaction
func (h *Handler) GenerateSchedule(c *gin.Context) {
	var req models.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.GenerateResponse{Error: err.Error()})
		return
	}
	if _, err := models.ParseDate(req.StartDate); err != nil {
		c.JSON(http.StatusBadRequest, models.GenerateResponse{Error: err.Error()})
		return
	}
	if _, err := models.ParseDate(req.EndDate); err != nil {
		c.JSON(http.StatusBadRequest, models.GenerateResponse{Error: err.Error()})
		return
	}

	if !h.runs.acquire(req.DepartmentID, req.StartDate, req.EndDate) {
		generationRuns.WithLabelValues("rejected").Inc()
		c.JSON(http.StatusConflict, models.GenerateResponse{
			Error: "a generation run for an overlapping range is already in progress",
		})
		return
	}
	defer h.runs.release(req.DepartmentID, req.StartDate, req.EndDate)

	snap, err := h.loadSnapshot(req.DepartmentID, req.StartDate, req.EndDate)
	if err != nil {
		generationRuns.WithLabelValues("error").Inc()
		c.JSON(http.StatusInternalServerError, models.GenerateResponse{Error: "Could not load scheduling data"})
		return
	}

	engine := scheduler.New(snap)
	report, err := engine.Generate(c.Request.Context(), req.StartDate, req.EndDate, scheduler.Options{
		Budget: generationBudget(),
	})
	if err != nil {
		var cfgErr *models.ConfigurationError
		if errors.As(err, &cfgErr) {
			generationRuns.WithLabelValues("error").Inc()
			c.JSON(http.StatusBadRequest, models.GenerateResponse{Error: cfgErr.Error()})
			return
		}
		generationRuns.WithLabelValues("error").Inc()
		c.JSON(http.StatusInternalServerError, models.GenerateResponse{Error: err.Error()})
		return
	}

	// All-or-nothing write; pre-existing assignments are never touched
	if len(report.Assignments) > 0 {
		if err := h.DB.Create(&report.Assignments).Error; err != nil {
			generationRuns.WithLabelValues("error").Inc()
			c.JSON(http.StatusInternalServerError, models.GenerateResponse{Error: "Could not persist generated schedule"})
			return
		}
	}

	switch {
	case report.TimeBound:
		generationRuns.WithLabelValues("time_bound").Inc()
	case len(report.Unfilled) > 0:
		generationRuns.WithLabelValues("partial").Inc()
	default:
		generationRuns.WithLabelValues("complete").Inc()
	}
	assignmentsCreated.Add(float64(len(report.Assignments)))
	unfilledSlots.Add(float64(len(report.Unfilled)))

	h.RecordUsage(c, len(report.Assignments)+len(report.Unfilled), len(snap.Employees))

	c.JSON(http.StatusOK, models.GenerateResponse{
		Success:          true,
		SchedulesCreated: len(report.Assignments),
		UnfilledSlots:    report.Unfilled,
		TimeBound:        report.TimeBound,
		FairnessScore:    report.FairnessScore,
	})
}

// loadSnapshot reads everything a run needs up front. Existing assignments
// and leave are loaded over the full ISO weeks touching the range so weekly
// caps see records just outside it.
func (h *Handler) loadSnapshot(dept uint, start, end string) (*scheduler.Snapshot, error) {
	weekStart, _, err := models.WeekBounds(start)
	if err != nil {
		return nil, err
	}
	_, weekEnd, err := models.WeekBounds(end)
	if err != nil {
		return nil, err
	}

	scoped := func() *gorm.DB {
		if dept != 0 {
			return h.DB.Where("department_id = ?", dept)
		}
		return h.DB
	}

	var employees []models.Employee
	if err := scoped().Find(&employees).Error; err != nil {
		return nil, err
	}
	var roles []models.Role
	if err := scoped().Find(&roles).Error; err != nil {
		return nil, err
	}
	var leave []models.LeaveRequest
	if err := h.DB.Where("start_date <= ? AND end_date >= ?", weekEnd, weekStart).
		Find(&leave).Error; err != nil {
		return nil, err
	}
	var existing []models.Assignment
	if err := h.DB.Where("date BETWEEN ? AND ?", weekStart, weekEnd).
		Find(&existing).Error; err != nil {
		return nil, err
	}

	snap := &scheduler.Snapshot{
		Employees: make(map[uint]*models.Employee, len(employees)),
		Roles:     make(map[uint]*models.Role, len(roles)),
		Leave:     leave,
		Existing:  existing,
	}
	for i := range employees {
		snap.Employees[employees[i].ID] = &employees[i]
	}
	for i := range roles {
		snap.Roles[roles[i].ID] = &roles[i]
	}
	return snap, nil
}

func generationBudget() time.Duration {
	if ms := os.Getenv("SCHEDULE_BUDGET_MS"); ms != "" {
		if v, err := strconv.Atoi(ms); err == nil && v > 0 {
			return time.Duration(v) * time.Millisecond
		}
	}
	return scheduler.DefaultBudget
}

// respondEditorError maps the editor's error taxonomy onto HTTP statuses
func respondEditorError(c *gin.Context, err error) {
	var valErr *models.ValidationError
	if errors.As(err, &valErr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": valErr.Error()})
		return
	}
	var conflictErr *models.ConflictError
	if errors.As(err, &conflictErr) {
		c.JSON(http.StatusConflict, gin.H{"error": conflictErr.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
