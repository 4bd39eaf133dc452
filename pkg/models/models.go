package models

import "time"

// Assignment statuses
const (
	StatusDraft     = "draft"
	StatusConfirmed = "confirmed"
)

// LeaveRequest statuses
const (
	LeavePending  = "pending"
	LeaveApproved = "approved"
	LeaveRejected = "rejected"
)

// AvailabilityWindow is a recurring weekly window in which an employee can work
type AvailabilityWindow struct {
	Weekday int    `json:"weekday"` // 0 = Sunday .. 6 = Saturday
	Start   string `json:"start"`   // "15:04"
	End     string `json:"end"`
}

// RolePreference is an optional weight expressing how much an employee
// wants to work a given role. Higher is preferred.
type RolePreference struct {
	RoleID uint    `json:"role_id"`
	Weight float64 `json:"weight"`
}

// Employee represents a person available for shifts
type Employee struct {
	ID              uint                 `gorm:"primaryKey" json:"id"`
	Name            string               `gorm:"not null" json:"name"`
	DepartmentID    uint                 `gorm:"index" json:"department_id"`
	Skills          []string             `gorm:"serializer:json" json:"skills"`
	MaxHoursPerWeek float64              `json:"max_hours_per_week"`
	Availability    []AvailabilityWindow `gorm:"serializer:json" json:"availability,omitempty"`
	Preferences     []RolePreference     `gorm:"serializer:json" json:"preferences,omitempty"`
}

// HasSkill reports whether the employee carries the given skill tag
func (e *Employee) HasSkill(skill string) bool {
	for _, s := range e.Skills {
		if s == skill {
			return true
		}
	}
	return false
}

// PreferenceFor returns the employee's weight for a role, 0 if unset
func (e *Employee) PreferenceFor(roleID uint) float64 {
	for _, p := range e.Preferences {
		if p.RoleID == roleID {
			return p.Weight
		}
	}
	return 0
}

// TemplateShift is one recurring coverage window in a role's staffing template
type TemplateShift struct {
	Weekdays  []int  `json:"weekdays"` // 0 = Sunday .. 6 = Saturday
	Start     string `json:"start"`    // "15:04"
	End       string `json:"end"`
	Headcount int    `json:"headcount"`
}

// Role represents a staffed position with a per-day coverage template
type Role struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	Name          string          `gorm:"not null" json:"name"`
	DepartmentID  uint            `gorm:"index" json:"department_id"`
	RequiredSkill string          `json:"required_skill"`
	Template      []TemplateShift `gorm:"serializer:json" json:"template"`
}

// LeaveRequest is a requested absence. Only approved requests bind scheduling.
type LeaveRequest struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	EmployeeID uint   `gorm:"index;not null" json:"employee_id"`
	StartDate  string `gorm:"not null" json:"start_date"` // "2006-01-02", inclusive
	EndDate    string `gorm:"not null" json:"end_date"`   // inclusive
	Status     string `gorm:"default:pending" json:"status"`
}

// Covers reports whether the leave range contains the given date.
// Date strings in "2006-01-02" form compare correctly as strings.
func (l *LeaveRequest) Covers(date string) bool {
	return l.StartDate <= date && date <= l.EndDate
}

// Assignment is a persisted employee-to-shift commitment
type Assignment struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	EmployeeID uint      `gorm:"index;not null" json:"employee_id"`
	RoleID     uint      `gorm:"index;not null" json:"role_id"`
	Date       string    `gorm:"index;not null" json:"date"` // "2006-01-02"
	StartTime  string    `gorm:"not null" json:"start_time"` // "15:04"
	EndTime    string    `gorm:"not null" json:"end_time"`
	Status     string    `gorm:"default:draft" json:"status"`
	Notes      string    `json:"notes,omitempty"`
	Version    int       `gorm:"default:1" json:"version"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ShiftSlot is one unit of required coverage derived from a role template.
// Transient: computed per generation call, never persisted.
type ShiftSlot struct {
	RoleID    uint   `json:"role_id"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	PreFilled bool   `json:"-"`
}

// GenerateRequest is the payload for the schedule generation endpoint
type GenerateRequest struct {
	StartDate    string `json:"start_date" binding:"required"`
	EndDate      string `json:"end_date" binding:"required"`
	DepartmentID uint   `json:"department_id"`
}

// GenerateResponse reports the outcome of a generation run
type GenerateResponse struct {
	Success          bool        `json:"success"`
	SchedulesCreated int         `json:"schedules_created"`
	UnfilledSlots    []ShiftSlot `json:"unfilled_slots"`
	TimeBound        bool        `json:"time_bound"`
	FairnessScore    float64     `json:"fairness_score"`
	Error            string      `json:"error,omitempty"`
}

// AssignmentInput is the manual create/update payload
type AssignmentInput struct {
	EmployeeID uint   `json:"employee_id"`
	RoleID     uint   `json:"role_id"`
	Date       string `json:"date"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	Notes      string `json:"notes"`
	Version    int    `json:"version"`
}
