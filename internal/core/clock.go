package core

import (
	"sort"
	"time"
)

// TimerID names a class of scheduled callback. At most one callback per
// class is pending at any time.
type TimerID int

// Clock provides the current time.
type Clock interface {
	Now() time.Time
}

// Scheduler runs callbacks after a delay on the caller's logical thread.
// Scheduling a class replaces any callback of the same class that is still
// pending; Cancel drops it.
type Scheduler interface {
	Schedule(id TimerID, d time.Duration, fn func())
	Cancel(id TimerID)
}

// SystemClock is a Clock backed by the wall clock.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time { return time.Now() }

// ManualScheduler is a Clock and Scheduler over virtual time. Time only
// moves when Advance is called, and due callbacks fire in deadline order.
// It is not safe for concurrent use.
type ManualScheduler struct {
	now     time.Time
	pending map[TimerID]pendingCall
	seq     uint64
}

type pendingCall struct {
	at    time.Time
	order uint64
	fn    func()
}

// NewManualScheduler creates a scheduler whose clock starts at start.
func NewManualScheduler(start time.Time) *ManualScheduler {
	return &ManualScheduler{
		now:     start,
		pending: make(map[TimerID]pendingCall),
	}
}

// Now returns the current virtual time.
func (m *ManualScheduler) Now() time.Time {
	return m.now
}

// Schedule registers fn to run d after the current virtual time.
func (m *ManualScheduler) Schedule(id TimerID, d time.Duration, fn func()) {
	if d < 0 {
		d = 0
	}
	m.seq++
	m.pending[id] = pendingCall{at: m.now.Add(d), order: m.seq, fn: fn}
}

// Cancel drops the pending callback of the given class, if any.
func (m *ManualScheduler) Cancel(id TimerID) {
	delete(m.pending, id)
}

// Pending reports how long until the callback of the given class fires.
func (m *ManualScheduler) Pending(id TimerID) (time.Duration, bool) {
	call, ok := m.pending[id]
	if !ok {
		return 0, false
	}
	return call.at.Sub(m.now), true
}

// Advance moves virtual time forward by d, firing every callback that
// becomes due on the way. Callbacks may schedule further callbacks; those
// fire too if they fall inside the window. Returns the number fired.
func (m *ManualScheduler) Advance(d time.Duration) int {
	target := m.now.Add(d)
	fired := 0
	for {
		id, call, ok := m.next()
		if !ok || call.at.After(target) {
			break
		}
		delete(m.pending, id)
		m.now = call.at
		call.fn()
		fired++
	}
	m.now = target
	return fired
}

// next returns the earliest pending callback, ties broken by schedule order.
func (m *ManualScheduler) next() (TimerID, pendingCall, bool) {
	if len(m.pending) == 0 {
		return 0, pendingCall{}, false
	}
	ids := make([]TimerID, 0, len(m.pending))
	for id := range m.pending {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := m.pending[ids[i]], m.pending[ids[j]]
		if !a.at.Equal(b.at) {
			return a.at.Before(b.at)
		}
		return a.order < b.order
	})
	return ids[0], m.pending[ids[0]], true
}
