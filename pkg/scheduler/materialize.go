package scheduler

import (
	"sort"

	"github.com/jdtaylor/staff-rostering-api/pkg/models"
)

// materialize converts the winning placement set into draft assignment
// records and the generation report. Pre-existing assignments are never
// touched; persistence of the new records is the caller's transaction.
func (e *Engine) materialize(sol *solution, timeBound bool) *Report {
	// Restore engine state to the winning solution so the fairness score
	// reflects what is actually returned, not search residue.
	var residue []int
	for si := range e.placed {
		residue = append(residue, si)
	}
	for _, si := range residue {
		e.unplace(si)
	}
	for si, emp := range sol.placements {
		e.place(si, emp)
	}

	indices := make([]int, 0, len(sol.placements))
	for si := range sol.placements {
		indices = append(indices, si)
	}
	sort.Ints(indices)

	report := &Report{
		Assignments:   make([]models.Assignment, 0, len(indices)),
		Unfilled:      make([]models.ShiftSlot, 0, len(sol.unfilled)),
		TimeBound:     timeBound,
		FairnessScore: e.FairnessScore(),
	}

	for _, si := range indices {
		sl := &e.slots[si]
		report.Assignments = append(report.Assignments, models.Assignment{
			EmployeeID: sol.placements[si],
			RoleID:     sl.RoleID,
			Date:       sl.Date,
			StartTime:  sl.StartTime,
			EndTime:    sl.EndTime,
			Status:     models.StatusDraft,
		})
	}

	for _, si := range sol.unfilled {
		report.Unfilled = append(report.Unfilled, models.ShiftSlot{
			RoleID:    e.slots[si].RoleID,
			Date:      e.slots[si].Date,
			StartTime: e.slots[si].StartTime,
			EndTime:   e.slots[si].EndTime,
		})
	}

	return report
}
