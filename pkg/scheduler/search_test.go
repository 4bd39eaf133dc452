package scheduler

import (
	"context"
	"reflect"
	"testing"

	"github.com/jdtaylor/staff-rostering-api/pkg/models"
)

// checkInvariants verifies the generated assignments against the hard
// scheduling invariants: no same-day overlap, weekly caps, skill match,
// and no placement inside approved leave.
func checkInvariants(t *testing.T, snap *Snapshot, generated []models.Assignment) {
	t.Helper()

	all := append(append([]models.Assignment{}, snap.Existing...), generated...)

	type dayKey struct {
		emp  uint
		date string
	}
	byDay := make(map[dayKey][]models.Assignment)
	weekHours := make(map[weekKey]float64)

	for _, a := range all {
		byDay[dayKey{a.EmployeeID, a.Date}] = append(byDay[dayKey{a.EmployeeID, a.Date}], a)
		year, week, err := models.ISOWeekOf(a.Date)
		if err != nil {
			t.Fatalf("Bad date %q: %v", a.Date, err)
		}
		weekHours[weekKey{a.EmployeeID, year, week}] += models.HoursBetween(a.StartTime, a.EndTime)
	}

	for key, day := range byDay {
		for i := 0; i < len(day); i++ {
			for j := i + 1; j < len(day); j++ {
				s1, _ := models.ParseClock(day[i].StartTime)
				e1, _ := models.ParseClock(day[i].EndTime)
				s2, _ := models.ParseClock(day[j].StartTime)
				e2, _ := models.ParseClock(day[j].EndTime)
				if models.ClockOverlap(s1, e1, s2, e2) {
					t.Errorf("Employee %d has overlapping assignments on %s", key.emp, key.date)
				}
			}
		}
	}

	for key, hours := range weekHours {
		emp := snap.Employees[key.employee]
		if emp != nil && emp.MaxHoursPerWeek > 0 && hours > emp.MaxHoursPerWeek+1e-9 {
			t.Errorf("Employee %d has %f hours in week %d/%d, cap is %f",
				key.employee, hours, key.year, key.week, emp.MaxHoursPerWeek)
		}
	}

	for _, a := range generated {
		emp := snap.Employees[a.EmployeeID]
		role := snap.Roles[a.RoleID]
		if emp == nil || role == nil {
			t.Errorf("Generated assignment references unknown employee %d or role %d", a.EmployeeID, a.RoleID)
			continue
		}
		if role.RequiredSkill != "" && !emp.HasSkill(role.RequiredSkill) {
			t.Errorf("Employee %d assigned to role %d without skill %q", emp.ID, role.ID, role.RequiredSkill)
		}
		for _, l := range snap.Leave {
			if l.EmployeeID == a.EmployeeID && l.Status == models.LeaveApproved && l.Covers(a.Date) {
				t.Errorf("Employee %d assigned on %s during approved leave", a.EmployeeID, a.Date)
			}
		}
	}
}

func generate(t *testing.T, snap *Snapshot, start, end string, opts Options) *Report {
	t.Helper()
	report, err := New(snap).Generate(context.Background(), start, end, opts)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	return report
}

// Two eligible employees, five open weekday slots: everything fills and the
// load splits 3/2.
func TestGenerateFairDistribution(t *testing.T) {
	snap := &Snapshot{
		Employees: map[uint]*models.Employee{
			1: cashier(1, "Alice", 40),
			2: cashier(2, "Bob", 40),
		},
		Roles: map[uint]*models.Role{1: weekdayRole(1, "cashier", 1)},
	}

	report := generate(t, snap, "2024-01-01", "2024-01-05", Options{})

	if len(report.Assignments) != 5 {
		t.Fatalf("Expected 5 assignments, got %d", len(report.Assignments))
	}
	if len(report.Unfilled) != 0 {
		t.Errorf("Expected no unfilled slots, got %d", len(report.Unfilled))
	}
	if report.TimeBound {
		t.Errorf("Expected run to finish within budget")
	}

	counts := make(map[uint]int)
	for _, a := range report.Assignments {
		if a.Status != models.StatusDraft {
			t.Errorf("Expected draft status, got %q", a.Status)
		}
		counts[a.EmployeeID]++
	}
	diff := counts[1] - counts[2]
	if diff < 0 {
		diff = -diff
	}
	if diff > 1 {
		t.Errorf("Expected split difference <= 1, got %d vs %d", counts[1], counts[2])
	}

	checkInvariants(t, snap, report.Assignments)
}

// One required slot, zero eligible employees: a reported unfilled slot, not
// an error.
func TestGenerateNoCandidates(t *testing.T) {
	snap := &Snapshot{
		Employees: map[uint]*models.Employee{
			1: {ID: 1, Name: "Bob", Skills: []string{"barista"}, MaxHoursPerWeek: 40},
		},
		Roles: map[uint]*models.Role{1: weekdayRole(1, "cashier", 1)},
	}

	report := generate(t, snap, "2024-01-01", "2024-01-01", Options{})

	if len(report.Assignments) != 0 {
		t.Errorf("Expected 0 assignments, got %d", len(report.Assignments))
	}
	if len(report.Unfilled) != 1 {
		t.Fatalf("Expected 1 unfilled slot, got %d", len(report.Unfilled))
	}
	u := report.Unfilled[0]
	if u.RoleID != 1 || u.Date != "2024-01-01" || u.StartTime != "09:00" || u.EndTime != "17:00" {
		t.Errorf("Unexpected unfilled slot: %+v", u)
	}
}

// An employee at their weekly cap through a confirmed assignment is excluded
// from further slots that week even when otherwise eligible.
func TestGenerateWeeklyCapExclusion(t *testing.T) {
	snap := &Snapshot{
		Employees: map[uint]*models.Employee{1: cashier(1, "Alice", 8)},
		Roles:     map[uint]*models.Role{1: weekdayRole(1, "cashier", 1)},
		Existing: []models.Assignment{
			{EmployeeID: 1, RoleID: 1, Date: "2024-01-01", StartTime: "09:00", EndTime: "17:00", Status: models.StatusConfirmed},
		},
	}

	report := generate(t, snap, "2024-01-02", "2024-01-02", Options{})

	if len(report.Assignments) != 0 {
		t.Errorf("Expected capped employee to get no further slots, got %d assignments", len(report.Assignments))
	}
	if len(report.Unfilled) != 1 {
		t.Errorf("Expected the Tuesday slot unfilled, got %d unfilled", len(report.Unfilled))
	}
}

// Re-running generation over a range with existing coverage never duplicates
// an already-covered slot.
func TestGenerateIdempotentOverPrefilled(t *testing.T) {
	snap := &Snapshot{
		Employees: map[uint]*models.Employee{
			1: cashier(1, "Alice", 40),
			2: cashier(2, "Bob", 40),
		},
		Roles: map[uint]*models.Role{1: weekdayRole(1, "cashier", 1)},
	}

	first := generate(t, snap, "2024-01-01", "2024-01-05", Options{})
	if len(first.Assignments) != 5 {
		t.Fatalf("Expected 5 assignments in first run, got %d", len(first.Assignments))
	}

	// Second run sees the first run's output as existing records
	second := &Snapshot{
		Employees: snap.Employees,
		Roles:     snap.Roles,
		Existing:  first.Assignments,
	}
	report := generate(t, second, "2024-01-01", "2024-01-05", Options{})

	if len(report.Assignments) != 0 {
		t.Errorf("Expected no new assignments over a covered range, got %d", len(report.Assignments))
	}
	if len(report.Unfilled) != 0 {
		t.Errorf("Expected no unfilled slots, got %d", len(report.Unfilled))
	}
}

// Identical inputs and budget must produce identical placements.
func TestGenerateDeterministic(t *testing.T) {
	snap := func() *Snapshot {
		return &Snapshot{
			Employees: map[uint]*models.Employee{
				1: cashier(1, "Alice", 24),
				2: cashier(2, "Bob", 24),
				3: cashier(3, "Carol", 24),
			},
			Roles: map[uint]*models.Role{
				1: weekdayRole(1, "cashier", 2),
			},
			Leave: []models.LeaveRequest{
				{EmployeeID: 2, StartDate: "2024-01-03", EndDate: "2024-01-03", Status: models.LeaveApproved},
			},
		}
	}

	a := generate(t, snap(), "2024-01-01", "2024-01-05", Options{})
	b := generate(t, snap(), "2024-01-01", "2024-01-05", Options{})

	if !reflect.DeepEqual(a.Assignments, b.Assignments) {
		t.Errorf("Two runs over identical input diverged:\n%+v\n%+v", a.Assignments, b.Assignments)
	}
	if !reflect.DeepEqual(a.Unfilled, b.Unfilled) {
		t.Errorf("Unfilled sets diverged: %+v vs %+v", a.Unfilled, b.Unfilled)
	}
}

// An employee starting the run with fewer hours is preferred for the next
// eligible slot, all else equal.
func TestGenerateMonotonicFairness(t *testing.T) {
	snap := &Snapshot{
		Employees: map[uint]*models.Employee{
			1: cashier(1, "Alice", 40),
			2: cashier(2, "Bob", 40),
		},
		Roles: map[uint]*models.Role{1: weekdayRole(1, "cashier", 1)},
		Existing: []models.Assignment{
			{EmployeeID: 1, RoleID: 1, Date: "2024-01-01", StartTime: "09:00", EndTime: "17:00", Status: models.StatusConfirmed},
		},
	}

	report := generate(t, snap, "2024-01-02", "2024-01-02", Options{})

	if len(report.Assignments) != 1 {
		t.Fatalf("Expected 1 assignment, got %d", len(report.Assignments))
	}
	if report.Assignments[0].EmployeeID != 2 {
		t.Errorf("Expected less-loaded employee 2 to get the slot, got %d", report.Assignments[0].EmployeeID)
	}
}

// Approved leave is a hard exclusion; the engine leaves the slot unfilled
// rather than violating it.
func TestGenerateRespectsLeave(t *testing.T) {
	snap := &Snapshot{
		Employees: map[uint]*models.Employee{1: cashier(1, "Alice", 40)},
		Roles:     map[uint]*models.Role{1: weekdayRole(1, "cashier", 1)},
		Leave: []models.LeaveRequest{
			{EmployeeID: 1, StartDate: "2024-01-01", EndDate: "2024-01-02", Status: models.LeaveApproved},
		},
	}

	report := generate(t, snap, "2024-01-01", "2024-01-03", Options{})

	if len(report.Assignments) != 1 {
		t.Fatalf("Expected only the Wednesday slot filled, got %d assignments", len(report.Assignments))
	}
	if report.Assignments[0].Date != "2024-01-03" {
		t.Errorf("Expected assignment on 2024-01-03, got %s", report.Assignments[0].Date)
	}
	if len(report.Unfilled) != 2 {
		t.Errorf("Expected 2 unfilled slots during leave, got %d", len(report.Unfilled))
	}
	checkInvariants(t, snap, report.Assignments)
}

// Overlapping coverage windows for one employee: only one side can be staffed.
func TestGenerateNoOverlapAcrossRoles(t *testing.T) {
	till := &models.Role{
		ID: 1, Name: "Till", RequiredSkill: "cashier",
		Template: []models.TemplateShift{{Weekdays: []int{1}, Start: "09:00", End: "13:00", Headcount: 1}},
	}
	floor := &models.Role{
		ID: 2, Name: "Floor", RequiredSkill: "cashier",
		Template: []models.TemplateShift{{Weekdays: []int{1}, Start: "11:00", End: "15:00", Headcount: 1}},
	}

	snap := &Snapshot{
		Employees: map[uint]*models.Employee{1: cashier(1, "Alice", 40)},
		Roles:     map[uint]*models.Role{1: till, 2: floor},
	}

	report := generate(t, snap, "2024-01-01", "2024-01-01", Options{})

	if len(report.Assignments) != 1 {
		t.Errorf("Expected exactly 1 assignment for overlapping windows, got %d", len(report.Assignments))
	}
	if len(report.Unfilled) != 1 {
		t.Errorf("Expected 1 unfilled slot, got %d", len(report.Unfilled))
	}
	checkInvariants(t, snap, report.Assignments)
}

// An exhausted iteration budget returns a flagged, still-consistent partial
// result.
func TestGenerateTimeBound(t *testing.T) {
	snap := &Snapshot{
		Employees: map[uint]*models.Employee{
			1: cashier(1, "Alice", 40),
			2: cashier(2, "Bob", 40),
		},
		Roles: map[uint]*models.Role{1: weekdayRole(1, "cashier", 1)},
	}

	report := generate(t, snap, "2024-01-01", "2024-01-05", Options{MaxIterations: 2})

	if !report.TimeBound {
		t.Errorf("Expected time-bound flag with a 2-iteration budget")
	}
	if len(report.Assignments)+len(report.Unfilled) != 5 {
		t.Errorf("Expected every slot accounted for, got %d placed + %d unfilled",
			len(report.Assignments), len(report.Unfilled))
	}
	checkInvariants(t, snap, report.Assignments)
}

// A cancelled context stops the search at the next polling point.
func TestGenerateCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	snap := &Snapshot{
		Employees: map[uint]*models.Employee{1: cashier(1, "Alice", 40)},
		Roles:     map[uint]*models.Role{1: weekdayRole(1, "cashier", 1)},
	}

	report, err := New(snap).Generate(ctx, "2024-01-01", "2024-01-05", Options{})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if !report.TimeBound {
		t.Errorf("Expected a cancelled run to be flagged time-bound")
	}
}

func TestGenerateEmptyRoster(t *testing.T) {
	snap := &Snapshot{
		Employees: map[uint]*models.Employee{},
		Roles:     map[uint]*models.Role{1: weekdayRole(1, "cashier", 1)},
	}

	report := generate(t, snap, "2024-01-01", "2024-01-01", Options{})
	if len(report.Assignments) != 0 || len(report.Unfilled) != 1 {
		t.Errorf("Expected 0 assignments and 1 unfilled, got %d and %d",
			len(report.Assignments), len(report.Unfilled))
	}
	if report.FairnessScore != 100.0 {
		t.Errorf("Expected fairness score 100 for an empty roster, got %f", report.FairnessScore)
	}
}
