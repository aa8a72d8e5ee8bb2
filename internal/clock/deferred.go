package clock

import "sync"

// Deferred implements the "apply-at-next-<event>" pattern spec §9 calls
// for in place of the source language's scheduler-callback setters: a
// value queued now only takes effect when the owning component calls
// Apply at the next qualifying event (a beat, a start pulse, ...).
type Deferred[T any] struct {
	mu      sync.Mutex
	pending *T
}

// Queue records v to be applied at the next Apply call.
func (d *Deferred[T]) Queue(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pending = &v
}

// Apply returns the queued value (clearing it) if one is pending,
// otherwise it returns cur unchanged.
func (d *Deferred[T]) Apply(cur T) T {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pending == nil {
		return cur
	}
	v := *d.pending
	d.pending = nil
	return v
}

// Pending reports whether a value is queued.
func (d *Deferred[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}
