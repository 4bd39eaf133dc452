package handlers

import "sync"

type dateRange struct {
	start, end string
}

// runLock serializes generation runs per department. Two runs over
// overlapping ranges could each consume the same open slot, so a second
// request for an overlapping range is rejected while one is in flight.
type runLock struct {
	mu     sync.Mutex
	active map[uint][]dateRange
}

func (l *runLock) acquire(dept uint, start, end string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.active == nil {
		l.active = make(map[uint][]dateRange)
	}
	for _, r := range l.active[dept] {
		if start <= r.end && r.start <= end {
			return false
		}
	}
	l.active[dept] = append(l.active[dept], dateRange{start, end})
	return true
}

func (l *runLock) release(dept uint, start, end string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	ranges := l.active[dept]
	for i, r := range ranges {
		if r.start == start && r.end == end {
			l.active[dept] = append(ranges[:i], ranges[i+1:]...)
			return
		}
	}
}
