package scheduler

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/jdtaylor/staff-rostering-api/pkg/models"
)

// Snapshot is the read-once input for a generation run. The engine performs
// no I/O mid-search; callers load everything up front so a run is isolated
// from concurrent edits. Existing should cover the full ISO weeks touched by
// the requested range so weekly caps account for assignments just outside it.
type Snapshot struct {
	Employees map[uint]*models.Employee
	Roles     map[uint]*models.Role
	Leave     []models.LeaveRequest
	Existing  []models.Assignment
}

// Options bounds a generation run. Zero values select the defaults.
type Options struct {
	Budget        time.Duration
	MaxIterations int
}

// Search bounds. The iteration cap backstops the wall clock so pathological
// inputs cannot stall a request even when the clock check is coarse.
const (
	DefaultBudget        = 5 * time.Second
	DefaultMaxIterations = 200000
)

// Report is the outcome of a generation run. Unfilled slots and a spent
// budget are normal results, not errors.
type Report struct {
	Assignments   []models.Assignment
	Unfilled      []models.ShiftSlot
	TimeBound     bool
	FairnessScore float64
}

// slot is a ShiftSlot enriched with pre-parsed fields the search needs
type slot struct {
	models.ShiftSlot
	startMin int
	endMin   int
	hours    float64
	weekday  int
	year     int
	week     int
}

type interval struct {
	start, end int
}

// Engine assigns employees to open shift slots by backtracking search
type Engine struct {
	snap   *Snapshot
	empIDs []uint
	leave  map[uint][]models.LeaveRequest

	slots    []slot
	open     []int
	placed   map[int]uint
	unfilled map[int]bool
	busy     map[uint]map[string][]interval
	tally    *FairnessTracker
}

// New creates an engine over a loaded snapshot
func New(snap *Snapshot) *Engine {
	e := &Engine{
		snap:  snap,
		leave: make(map[uint][]models.LeaveRequest),
	}
	for id := range snap.Employees {
		e.empIDs = append(e.empIDs, id)
	}
	sort.Slice(e.empIDs, func(i, j int) bool { return e.empIDs[i] < e.empIDs[j] })

	for _, l := range snap.Leave {
		if l.Status == models.LeaveApproved {
			e.leave[l.EmployeeID] = append(e.leave[l.EmployeeID], l)
		}
	}
	return e
}

// Generate runs the full pipeline: expand requirements, seed the fairness
// tracker from existing assignments, search, and materialize the result.
// A malformed role template returns a ConfigurationError and nothing partial.
func (e *Engine) Generate(ctx context.Context, startDate, endDate string, opts Options) (*Report, error) {
	expanded, err := ExpandSlots(startDate, endDate, e.snap.Roles, e.snap.Existing)
	if err != nil {
		return nil, err
	}
	if err := e.prepare(expanded); err != nil {
		return nil, err
	}

	sol, timeBound := e.search(ctx, opts)
	return e.materialize(sol, timeBound), nil
}

// prepare enriches the expanded slots and seeds run state from existing
// assignments. Existing assignments count toward weekly caps, overlap checks,
// and the fairness tally regardless of status.
func (e *Engine) prepare(expanded []models.ShiftSlot) error {
	e.slots = e.slots[:0]
	e.open = e.open[:0]
	e.placed = make(map[int]uint)
	e.unfilled = make(map[int]bool)
	e.busy = make(map[uint]map[string][]interval)
	e.tally = NewFairnessTracker()

	for i, s := range expanded {
		enriched, err := e.enrich(s)
		if err != nil {
			return err
		}
		e.slots = append(e.slots, enriched)
		if !s.PreFilled {
			e.open = append(e.open, i)
		}
	}

	for _, a := range e.snap.Existing {
		if _, ok := e.snap.Employees[a.EmployeeID]; !ok {
			continue
		}
		startMin, err := models.ParseClock(a.StartTime)
		if err != nil {
			continue
		}
		endMin, err := models.ParseClock(a.EndTime)
		if err != nil {
			continue
		}
		year, week, err := models.ISOWeekOf(a.Date)
		if err != nil {
			continue
		}
		e.addBusy(a.EmployeeID, a.Date, interval{startMin, endMin})
		e.tally.Add(a.EmployeeID, year, week, float64(endMin-startMin)/60.0)
	}
	return nil
}

func (e *Engine) enrich(s models.ShiftSlot) (slot, error) {
	startMin, err := models.ParseClock(s.StartTime)
	if err != nil {
		return slot{}, err
	}
	endMin, err := models.ParseClock(s.EndTime)
	if err != nil {
		return slot{}, err
	}
	date, err := models.ParseDate(s.Date)
	if err != nil {
		return slot{}, err
	}
	year, week := date.ISOWeek()
	return slot{
		ShiftSlot: s,
		startMin:  startMin,
		endMin:    endMin,
		hours:     float64(endMin-startMin) / 60.0,
		weekday:   int(date.Weekday()),
		year:      year,
		week:      week,
	}, nil
}

func (e *Engine) addBusy(emp uint, date string, iv interval) {
	if e.busy[emp] == nil {
		e.busy[emp] = make(map[string][]interval)
	}
	e.busy[emp][date] = append(e.busy[emp][date], iv)
}

func (e *Engine) removeBusy(emp uint, date string, iv interval) {
	ivs := e.busy[emp][date]
	for i := len(ivs) - 1; i >= 0; i-- {
		if ivs[i] == iv {
			e.busy[emp][date] = append(ivs[:i], ivs[i+1:]...)
			return
		}
	}
}

// hoursVariance is the population variance of per-employee tally hours,
// the secondary objective of the search
func (e *Engine) hoursVariance() float64 {
	if len(e.empIDs) == 0 {
		return 0
	}
	var sum float64
	for _, id := range e.empIDs {
		sum += e.tally.Hours(id)
	}
	mean := sum / float64(len(e.empIDs))
	var varianceSum float64
	for _, id := range e.empIDs {
		diff := e.tally.Hours(id) - mean
		varianceSum += diff * diff
	}
	return varianceSum / float64(len(e.empIDs))
}

// preferenceSum totals the preference weights of current placements,
// the tertiary objective of the search
func (e *Engine) preferenceSum() float64 {
	var sum float64
	for si, emp := range e.placed {
		sum += e.snap.Employees[emp].PreferenceFor(e.slots[si].RoleID)
	}
	return sum
}

// FairnessScore returns a percentage (0-100) of how evenly hours are spread
// across the roster. 100 means a standard deviation of zero.
func (e *Engine) FairnessScore() float64 {
	if len(e.empIDs) == 0 {
		return 100.0
	}
	var sum float64
	for _, id := range e.empIDs {
		sum += e.tally.Hours(id)
	}
	if sum == 0 {
		return 100.0
	}
	mean := sum / float64(len(e.empIDs))
	stdDev := math.Sqrt(e.hoursVariance())

	score := (1.0 - (stdDev / mean)) * 100.0
	if score < 0 {
		return 0.0
	}
	return score
}
