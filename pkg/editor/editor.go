package editor

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/jdtaylor/staff-rostering-api/pkg/models"
)

// Default shift window applied when the manual form leaves times blank
const (
	DefaultStartTime = "09:00"
	DefaultEndTime   = "17:00"
)

// Editor validates and applies manual single-assignment edits. It enforces
// the same invariants the engine relies on (overlap, weekly cap, skill,
// leave), since the engine treats every stored assignment as ground truth.
type Editor struct {
	DB *gorm.DB
}

// New creates an editor over the given store
func New(db *gorm.DB) *Editor {
	return &Editor{DB: db}
}

// Create validates and persists a new draft assignment
func (ed *Editor) Create(in models.AssignmentInput) (*models.Assignment, error) {
	a, err := normalize(in)
	if err != nil {
		return nil, err
	}

	err = ed.DB.Transaction(func(tx *gorm.DB) error {
		if err := checkInvariants(tx, a, 0); err != nil {
			return err
		}
		return tx.Create(a).Error
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Update validates and applies an edit. The caller passes the version it
// read; a stale version is rejected with a ConflictError and nothing changes.
func (ed *Editor) Update(id uint, in models.AssignmentInput) (*models.Assignment, error) {
	a, err := normalize(in)
	if err != nil {
		return nil, err
	}

	err = ed.DB.Transaction(func(tx *gorm.DB) error {
		var current models.Assignment
		if err := tx.First(&current, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &models.ValidationError{Reason: fmt.Sprintf("assignment %d not found", id)}
			}
			return err
		}

		if err := checkInvariants(tx, a, id); err != nil {
			return err
		}

		res := tx.Model(&models.Assignment{}).
			Where("id = ? AND version = ?", id, in.Version).
			Updates(map[string]interface{}{
				"employee_id": a.EmployeeID,
				"role_id":     a.RoleID,
				"date":        a.Date,
				"start_time":  a.StartTime,
				"end_time":    a.EndTime,
				"notes":       a.Notes,
				"version":     in.Version + 1,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return &models.ConflictError{Reason: "assignment changed since it was read"}
		}

		a.ID = id
		a.Status = current.Status
		a.Version = in.Version + 1
		return nil
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Delete removes an assignment unconditionally, freeing its slot for a
// future generation run
func (ed *Editor) Delete(id uint) error {
	return ed.DB.Delete(&models.Assignment{}, id).Error
}

// normalize turns the boundary payload into a typed, already-valid record,
// applying the default shift window
func normalize(in models.AssignmentInput) (*models.Assignment, error) {
	if in.EmployeeID == 0 {
		return nil, &models.ValidationError{Field: "employee_id", Reason: "required"}
	}
	if in.RoleID == 0 {
		return nil, &models.ValidationError{Field: "role_id", Reason: "required"}
	}
	if in.Date == "" {
		return nil, &models.ValidationError{Field: "date", Reason: "required"}
	}
	if _, err := models.ParseDate(in.Date); err != nil {
		return nil, &models.ValidationError{Field: "date", Reason: err.Error()}
	}

	start := in.StartTime
	if start == "" {
		start = DefaultStartTime
	}
	end := in.EndTime
	if end == "" {
		end = DefaultEndTime
	}

	startMin, err := models.ParseClock(start)
	if err != nil {
		return nil, &models.ValidationError{Field: "start_time", Reason: err.Error()}
	}
	endMin, err := models.ParseClock(end)
	if err != nil {
		return nil, &models.ValidationError{Field: "end_time", Reason: err.Error()}
	}
	if endMin <= startMin {
		return nil, &models.ValidationError{Field: "end_time", Reason: "must be after start_time"}
	}

	return &models.Assignment{
		EmployeeID: in.EmployeeID,
		RoleID:     in.RoleID,
		Date:       in.Date,
		StartTime:  start,
		EndTime:    end,
		Status:     models.StatusDraft,
		Notes:      in.Notes,
		Version:    1,
	}, nil
}

// checkInvariants verifies skill, leave, overlap, and weekly-cap constraints
// against the store. excludeID skips the record being edited.
func checkInvariants(tx *gorm.DB, a *models.Assignment, excludeID uint) error {
	var emp models.Employee
	if err := tx.First(&emp, a.EmployeeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &models.ValidationError{Field: "employee_id", Reason: fmt.Sprintf("employee %d not found", a.EmployeeID)}
		}
		return err
	}

	var role models.Role
	if err := tx.First(&role, a.RoleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &models.ValidationError{Field: "role_id", Reason: fmt.Sprintf("role %d not found", a.RoleID)}
		}
		return err
	}

	if role.RequiredSkill != "" && !emp.HasSkill(role.RequiredSkill) {
		return &models.ValidationError{Field: "role_id", Reason: fmt.Sprintf("employee lacks required skill %q", role.RequiredSkill)}
	}

	var leave []models.LeaveRequest
	if err := tx.Where("employee_id = ? AND status = ? AND start_date <= ? AND end_date >= ?",
		a.EmployeeID, models.LeaveApproved, a.Date, a.Date).Find(&leave).Error; err != nil {
		return err
	}
	if len(leave) > 0 {
		return &models.ConflictError{Reason: fmt.Sprintf("employee is on approved leave on %s", a.Date)}
	}

	newStart, _ := models.ParseClock(a.StartTime)
	newEnd, _ := models.ParseClock(a.EndTime)

	var sameDay []models.Assignment
	if err := tx.Where("employee_id = ? AND date = ? AND id <> ?", a.EmployeeID, a.Date, excludeID).
		Find(&sameDay).Error; err != nil {
		return err
	}
	for _, other := range sameDay {
		oStart, err := models.ParseClock(other.StartTime)
		if err != nil {
			continue
		}
		oEnd, err := models.ParseClock(other.EndTime)
		if err != nil {
			continue
		}
		if models.ClockOverlap(oStart, oEnd, newStart, newEnd) {
			return &models.ConflictError{Reason: fmt.Sprintf("overlaps assignment %d (%s-%s)", other.ID, other.StartTime, other.EndTime)}
		}
	}

	if emp.MaxHoursPerWeek > 0 {
		monday, sunday, err := models.WeekBounds(a.Date)
		if err != nil {
			return err
		}
		var week []models.Assignment
		if err := tx.Where("employee_id = ? AND date BETWEEN ? AND ? AND id <> ?",
			a.EmployeeID, monday, sunday, excludeID).Find(&week).Error; err != nil {
			return err
		}
		total := models.HoursBetween(a.StartTime, a.EndTime)
		for _, other := range week {
			total += models.HoursBetween(other.StartTime, other.EndTime)
		}
		if total > emp.MaxHoursPerWeek {
			return &models.ConflictError{Reason: fmt.Sprintf("would exceed weekly cap of %.1f hours", emp.MaxHoursPerWeek)}
		}
	}

	return nil
}
