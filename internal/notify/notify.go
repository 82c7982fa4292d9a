// Package notify delivers user-visible success and error notifications
// (toasts in the TUI, log lines in the CLI).
package notify

import (
	"log/slog"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/notehub/internal/msg"
)

// Kind distinguishes success notifications from failures.
type Kind int

const (
	KindSuccess Kind = iota
	KindError
)

// String returns the display name for the kind.
func (k Kind) String() string {
	if k == KindError {
		return "error"
	}
	return "success"
}

// Event is a single notification.
type Event struct {
	Kind    Kind
	Message string
}

// Success builds a success event.
func Success(message string) Event { return Event{Kind: KindSuccess, Message: message} }

// Error builds an error event.
func Error(message string) Event { return Event{Kind: KindError, Message: message} }

// Sink receives notifications.
type Sink interface {
	Notify(Event)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Event)

// Notify calls f.
func (f SinkFunc) Notify(ev Event) { f(ev) }

// Discard drops every event.
var Discard Sink = SinkFunc(func(Event) {})

// LogSink writes events to a logger. Used by non-interactive commands.
type LogSink struct {
	Logger *slog.Logger
}

// Notify logs the event at info or error level.
func (s LogSink) Notify(ev Event) {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if ev.Kind == KindError {
		logger.Error(ev.Message)
		return
	}
	logger.Info(ev.Message)
}

const (
	successToastDuration = 2 * time.Second
	errorToastDuration   = 4 * time.Second
)

// ToastMsg converts an event into the toast message rendered by the app.
func ToastMsg(ev Event) msg.ToastMsg {
	if ev.Kind == KindError {
		return msg.ToastMsg{Message: ev.Message, Duration: errorToastDuration, IsError: true}
	}
	return msg.ToastMsg{Message: ev.Message, Duration: successToastDuration}
}

// ProgramSink forwards events to a running bubbletea program as toasts.
// Events that arrive before Attach are logged instead.
type ProgramSink struct {
	mu      sync.RWMutex
	program *tea.Program
	logger  *slog.Logger
}

// NewProgramSink creates a sink that falls back to logger until attached.
func NewProgramSink(logger *slog.Logger) *ProgramSink {
	return &ProgramSink{logger: logger}
}

// Attach binds the sink to a program.
func (s *ProgramSink) Attach(p *tea.Program) {
	s.mu.Lock()
	s.program = p
	s.mu.Unlock()
}

// Notify sends the event to the program. Program.Send is safe to call from
// command goroutines.
func (s *ProgramSink) Notify(ev Event) {
	s.mu.RLock()
	p := s.program
	s.mu.RUnlock()
	if p == nil {
		LogSink{Logger: s.logger}.Notify(ev)
		return
	}
	p.Send(ToastMsg(ev))
}

// Recorder collects events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// Notify records the event.
func (r *Recorder) Notify(ev Event) {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Errors returns only the recorded error events.
func (r *Recorder) Errors() []Event {
	var out []Event
	for _, ev := range r.Events() {
		if ev.Kind == KindError {
			out = append(out, ev)
		}
	}
	return out
}

// Reset clears recorded events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.events = nil
	r.mu.Unlock()
}
