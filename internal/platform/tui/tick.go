// Package tui provides the Bubble Tea integration for simon.
// It handles the terminal UI loop, input mapping, and session orchestration.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-simon/internal/core"
)

// timerMsg delivers a scheduled engine callback back to the program loop.
// src tells ticks of an abandoned game apart from the current one.
type timerMsg struct {
	src *teaScheduler
	id  core.TimerID
	gen uint64
}

// keyReleaseMsg releases a button pressed from the keyboard.
type keyReleaseMsg struct {
	src    *session
	button int
	gen    uint64
}

// teaScheduler implements core.Scheduler on top of tea.Tick so engine
// callbacks run inside Update, on the program's goroutine. Each Schedule
// or Cancel bumps the class generation; stale ticks are dropped on arrival.
type teaScheduler struct {
	gen     map[core.TimerID]uint64
	fns     map[core.TimerID]func()
	pending []tea.Cmd
}

func newTeaScheduler() *teaScheduler {
	return &teaScheduler{
		gen: make(map[core.TimerID]uint64),
		fns: make(map[core.TimerID]func()),
	}
}

// Schedule queues a tick for fn. The command goes out with the next flush.
func (s *teaScheduler) Schedule(id core.TimerID, d time.Duration, fn func()) {
	if d < 0 {
		d = 0
	}
	s.gen[id]++
	gen := s.gen[id]
	s.fns[id] = fn
	s.pending = append(s.pending, tea.Tick(d, func(time.Time) tea.Msg {
		return timerMsg{src: s, id: id, gen: gen}
	}))
}

// Cancel invalidates any tick in flight for the class.
func (s *teaScheduler) Cancel(id core.TimerID) {
	s.gen[id]++
	delete(s.fns, id)
}

// fire runs the callback a tick was scheduled for, unless it was replaced
// or cancelled since.
func (s *teaScheduler) fire(msg timerMsg) {
	if msg.src != s || s.gen[msg.id] != msg.gen {
		return
	}
	fn := s.fns[msg.id]
	delete(s.fns, msg.id)
	if fn != nil {
		fn()
	}
}

// flush returns the ticks queued since the last flush.
func (s *teaScheduler) flush() tea.Cmd {
	if len(s.pending) == 0 {
		return nil
	}
	cmds := s.pending
	s.pending = nil
	return tea.Batch(cmds...)
}
