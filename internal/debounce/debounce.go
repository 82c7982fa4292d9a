// Package debounce delays a value until it has stopped changing for a
// quiet period, using tea.Tick timers tagged with a generation counter.
package debounce

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// DefaultDelay is the quiet period used for search input.
const DefaultDelay = 300 * time.Millisecond

// FiredMsg is delivered when an armed timer elapses. It is only meaningful
// if Accept returns true for it; older timers are superseded.
type FiredMsg struct {
	ID      string
	Gen     int
	Payload string
}

// Timer tracks the most recent arm of one debounced value.
type Timer struct {
	id      string
	delay   time.Duration
	gen     int
	pending bool
}

// New returns a timer. ID distinguishes timers that share an Update loop.
func New(id string, delay time.Duration) *Timer {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Timer{id: id, delay: delay}
}

// Delay returns the quiet period.
func (t *Timer) Delay() time.Duration { return t.delay }

// Arm supersedes any earlier arm and starts a new quiet period for payload.
func (t *Timer) Arm(payload string) tea.Cmd {
	t.gen++
	t.pending = true
	id, gen := t.id, t.gen
	return tea.Tick(t.delay, func(time.Time) tea.Msg {
		return FiredMsg{ID: id, Gen: gen, Payload: payload}
	})
}

// Cancel drops the pending value. A tick already in the queue is rejected
// by Accept.
func (t *Timer) Cancel() {
	t.gen++
	t.pending = false
}

// Accept reports whether msg is the latest arm of this timer and, if so,
// marks it settled.
func (t *Timer) Accept(msg FiredMsg) bool {
	if msg.ID != t.id || msg.Gen != t.gen || !t.pending {
		return false
	}
	t.pending = false
	return true
}

// Pending reports whether an armed value has not yet settled.
func (t *Timer) Pending() bool { return t.pending }
