package scheduler

import (
	"context"
	"sort"
	"time"
)

// choicePoint records one tentative placement so it can be undone and the
// next candidate tried. The search keeps an explicit stack of these instead
// of recursing, which gives the budget check a single, bounded polling point
// between placements.
type choicePoint struct {
	slot  int
	cands []uint
	next  int
}

// solution is a complete-or-partial placement set scored by the optimization
// objective: fewest unfilled slots, then lowest hours variance, then highest
// preference sum.
type solution struct {
	placements map[int]uint
	unfilled   []int
	variance   float64
	prefSum    float64
}

func (s *solution) betterThan(o *solution) bool {
	if len(s.unfilled) != len(o.unfilled) {
		return len(s.unfilled) < len(o.unfilled)
	}
	if s.variance != o.variance {
		return s.variance < o.variance
	}
	return s.prefSum > o.prefSum
}

// search runs most-constrained-first backtracking over the open slots.
// It never fails: a slot that cannot be covered after exhausting every
// alternative is excluded and reported unfilled, and running out of budget
// returns the best placement set found so far flagged time-bound.
func (e *Engine) search(ctx context.Context, opts Options) (*solution, bool) {
	if opts.Budget <= 0 {
		opts.Budget = DefaultBudget
	}
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = DefaultMaxIterations
	}
	deadline := time.Now().Add(opts.Budget)

	var stack []choicePoint
	var best *solution
	timeBound := false

	for iter := 0; ; iter++ {
		if iter >= opts.MaxIterations || ctx.Err() != nil || time.Now().After(deadline) {
			timeBound = true
			break
		}

		si, cands := e.mostConstrained()
		if si < 0 {
			// Every open slot is placed or excluded. Keep the best scoring
			// completion and spend remaining budget exploring alternatives.
			sol := e.currentSolution()
			if best == nil || sol.betterThan(best) {
				best = sol
			}
			if !e.backtrack(&stack) {
				break
			}
			continue
		}

		if len(cands) == 0 {
			if !e.backtrack(&stack) {
				// No earlier choice left to revisit: the slot is unfillable
				e.unfilled[si] = true
			}
			continue
		}

		e.place(si, cands[0])
		stack = append(stack, choicePoint{slot: si, cands: cands, next: 1})
	}

	// If the budget cut the very first descent short, the partial prefix in
	// hand is still a valid, invariant-preserving result.
	if timeBound {
		sol := e.currentSolution()
		if best == nil || sol.betterThan(best) {
			best = sol
		}
	}
	if best == nil {
		best = e.currentSolution()
	}
	return best, timeBound
}

// mostConstrained re-ranks open slots by remaining candidate count and
// returns the tightest one, ties resolved by expansion order. Returns -1
// when nothing is left to fill.
func (e *Engine) mostConstrained() (int, []uint) {
	bestIdx := -1
	var bestCands []uint
	for _, si := range e.open {
		if _, ok := e.placed[si]; ok {
			continue
		}
		if e.unfilled[si] {
			continue
		}
		cands := e.candidates(si)
		if bestIdx == -1 || len(cands) < len(bestCands) {
			bestIdx, bestCands = si, cands
			if len(cands) == 0 {
				break
			}
		}
	}
	return bestIdx, bestCands
}

func (e *Engine) place(si int, emp uint) {
	sl := &e.slots[si]
	e.placed[si] = emp
	e.addBusy(emp, sl.Date, interval{sl.startMin, sl.endMin})
	e.tally.Add(emp, sl.year, sl.week, sl.hours)
}

func (e *Engine) unplace(si int) {
	emp, ok := e.placed[si]
	if !ok {
		return
	}
	sl := &e.slots[si]
	delete(e.placed, si)
	e.removeBusy(emp, sl.Date, interval{sl.startMin, sl.endMin})
	e.tally.Remove(emp, sl.year, sl.week, sl.hours)
}

// backtrack undoes the latest placement and advances to its next candidate,
// popping exhausted choice points. Returns false once nothing is left to try.
func (e *Engine) backtrack(stack *[]choicePoint) bool {
	for len(*stack) > 0 {
		top := &(*stack)[len(*stack)-1]
		e.unplace(top.slot)
		if top.next < len(top.cands) {
			emp := top.cands[top.next]
			top.next++
			e.place(top.slot, emp)
			return true
		}
		*stack = (*stack)[:len(*stack)-1]
	}
	return false
}

// currentSolution snapshots the placements in hand. Open slots without a
// placement, whether excluded or simply not reached, count as unfilled.
func (e *Engine) currentSolution() *solution {
	placements := make(map[int]uint, len(e.placed))
	for si, emp := range e.placed {
		placements[si] = emp
	}
	var unfilled []int
	for _, si := range e.open {
		if _, ok := e.placed[si]; !ok {
			unfilled = append(unfilled, si)
		}
	}
	sort.Ints(unfilled)
	return &solution{
		placements: placements,
		unfilled:   unfilled,
		variance:   e.hoursVariance(),
		prefSum:    e.preferenceSum(),
	}
}
