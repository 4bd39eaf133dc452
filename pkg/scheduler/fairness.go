package scheduler

// FairnessTracker accumulates per-employee assigned hours within one
// generation run, seeded from existing assignments so they count toward both
// the weekly cap and the fairness ordering. Lookups are O(1); tentative
// placements are rolled back with Remove on backtrack.
type FairnessTracker struct {
	hours map[uint]float64
	weeks map[weekKey]float64
}

type weekKey struct {
	employee uint
	year     int
	week     int
}

// NewFairnessTracker creates an empty tracker
func NewFairnessTracker() *FairnessTracker {
	return &FairnessTracker{
		hours: make(map[uint]float64),
		weeks: make(map[weekKey]float64),
	}
}

// Hours returns the employee's cumulative hours this run
func (t *FairnessTracker) Hours(employee uint) float64 {
	return t.hours[employee]
}

// WeekHours returns the employee's hours within one ISO week
func (t *FairnessTracker) WeekHours(employee uint, year, week int) float64 {
	return t.weeks[weekKey{employee, year, week}]
}

// Add records a placement
func (t *FairnessTracker) Add(employee uint, year, week int, hours float64) {
	t.hours[employee] += hours
	t.weeks[weekKey{employee, year, week}] += hours
}

// Remove rolls a placement back
func (t *FairnessTracker) Remove(employee uint, year, week int, hours float64) {
	t.hours[employee] -= hours
	t.weeks[weekKey{employee, year, week}] -= hours
}
