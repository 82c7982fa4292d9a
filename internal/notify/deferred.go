package notify

import (
	"context"
	"sync"
)

type deferredKey struct{}

// Deferred holds back error notifications emitted during a retried
// operation so that only the final outcome reaches the user.
type Deferred struct {
	mu      sync.Mutex
	sink    Sink
	pending *Event
}

// Defer returns a context under which Emit records error events on the
// returned Deferred instead of delivering them.
func Defer(ctx context.Context) (context.Context, *Deferred) {
	d := &Deferred{}
	return context.WithValue(ctx, deferredKey{}, d), d
}

// Emit delivers ev to sink, or records it when ctx carries a Deferred and ev
// is an error. Only the most recent deferred error is kept.
func Emit(ctx context.Context, sink Sink, ev Event) {
	if sink == nil {
		return
	}
	if ev.Kind == KindError && ctx != nil {
		if d, ok := ctx.Value(deferredKey{}).(*Deferred); ok && d != nil {
			d.record(sink, ev)
			return
		}
	}
	sink.Notify(ev)
}

func (d *Deferred) record(sink Sink, ev Event) {
	d.mu.Lock()
	d.sink = sink
	d.pending = &ev
	d.mu.Unlock()
}

// Flush delivers the pending event, if any, exactly once.
func (d *Deferred) Flush() {
	d.mu.Lock()
	sink, ev := d.sink, d.pending
	d.pending = nil
	d.mu.Unlock()
	if ev != nil && sink != nil {
		sink.Notify(*ev)
	}
}

// Discard drops the pending event.
func (d *Deferred) Discard() {
	d.mu.Lock()
	d.pending = nil
	d.mu.Unlock()
}
