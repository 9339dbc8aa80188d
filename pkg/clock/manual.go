package clock

import (
	"sort"
	"sync"
	"time"
)

// Manual is a virtual-clock scheduler for tests. Timers fire only when
// Advance moves the clock past their deadline, in deadline order, on the
// calling goroutine.
type Manual struct {
	mu     sync.Mutex
	now    time.Time
	nextID int
	timers []*manualTimer
}

type manualTimer struct {
	id       int
	deadline time.Time
	fn       func()
}

var _ Scheduler = (*Manual)(nil)

// NewManual creates a virtual-clock scheduler starting at the given time.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *Manual) AfterFunc(d time.Duration, fn func()) CancelFunc {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	t := &manualTimer{id: m.nextID, deadline: m.now.Add(d), fn: fn}
	m.timers = append(m.timers, t)
	return func() bool { return m.cancel(t.id) }
}

func (m *Manual) cancel(id int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, t := range m.timers {
		if t.id == id {
			m.timers = append(m.timers[:i], m.timers[i+1:]...)
			return true
		}
	}
	return false
}

// Advance moves the clock forward and fires every timer whose deadline
// has been reached. Callbacks run outside the lock; a callback may
// schedule further timers, which fire in the same Advance if due.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now.Add(d)
	for {
		t := m.popDue(target)
		if t == nil {
			break
		}
		m.now = t.deadline
		m.mu.Unlock()
		t.fn()
		m.mu.Lock()
	}
	m.now = target
	m.mu.Unlock()
}

// popDue removes and returns the earliest timer due at or before target.
// Caller holds the lock.
func (m *Manual) popDue(target time.Time) *manualTimer {
	if len(m.timers) == 0 {
		return nil
	}
	sort.SliceStable(m.timers, func(i, j int) bool {
		return m.timers[i].deadline.Before(m.timers[j].deadline)
	})
	if m.timers[0].deadline.After(target) {
		return nil
	}
	t := m.timers[0]
	m.timers = m.timers[1:]
	return t
}

// Pending returns the number of timers that have not yet fired.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.timers)
}
