package scheduler

import (
	"sort"

	"github.com/jdtaylor/staff-rostering-api/pkg/models"
)

// candidates returns the employees eligible for an open slot, ordered
// fairness-first: ascending by current tally hours, ties broken by
// preference weight for the slot's role (descending), final tie by
// employee id (ascending) so output is deterministic.
func (e *Engine) candidates(si int) []uint {
	sl := &e.slots[si]
	role := e.snap.Roles[sl.RoleID]

	var out []uint
	for _, id := range e.empIDs {
		if e.eligible(e.snap.Employees[id], role, sl) {
			out = append(out, id)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		hi, hj := e.tally.Hours(out[i]), e.tally.Hours(out[j])
		if hi != hj {
			return hi < hj
		}
		pi := e.snap.Employees[out[i]].PreferenceFor(sl.RoleID)
		pj := e.snap.Employees[out[j]].PreferenceFor(sl.RoleID)
		if pi != pj {
			return pi > pj
		}
		return out[i] < out[j]
	})
	return out
}

// eligible applies the full predicate: skill, availability, leave, overlap,
// and weekly cap must all hold.
func (e *Engine) eligible(emp *models.Employee, role *models.Role, sl *slot) bool {
	if role.RequiredSkill != "" && !emp.HasSkill(role.RequiredSkill) {
		return false
	}
	if !e.availabilityCovers(emp, sl) {
		return false
	}
	for _, l := range e.leave[emp.ID] {
		if l.Covers(sl.Date) {
			return false
		}
	}
	for _, iv := range e.busy[emp.ID][sl.Date] {
		if models.ClockOverlap(iv.start, iv.end, sl.startMin, sl.endMin) {
			return false
		}
	}
	// A zero cap means the employee carries no weekly limit
	if emp.MaxHoursPerWeek > 0 &&
		e.tally.WeekHours(emp.ID, sl.year, sl.week)+sl.hours > emp.MaxHoursPerWeek {
		return false
	}
	return true
}

// availabilityCovers checks the slot window against the employee's weekly
// availability. An employee with no windows is treated as always available.
func (e *Engine) availabilityCovers(emp *models.Employee, sl *slot) bool {
	if len(emp.Availability) == 0 {
		return true
	}
	for _, w := range emp.Availability {
		if w.Weekday != sl.weekday {
			continue
		}
		wStart, err := models.ParseClock(w.Start)
		if err != nil {
			continue
		}
		wEnd, err := models.ParseClock(w.End)
		if err != nil {
			continue
		}
		if wStart <= sl.startMin && sl.endMin <= wEnd {
			return true
		}
	}
	return false
}
