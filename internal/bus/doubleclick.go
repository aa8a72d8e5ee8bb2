package bus

import (
	"sync"
	"time"
)

// doubleClickGate reimplements the source language's `doubleclick(s)`
// decorator: an action only fires when triggered twice inside the window,
// and the window anchors on the first of the pair, not a rolling average.
type doubleClickGate struct {
	mu     sync.Mutex
	window time.Duration
	last   time.Time
}

func newDoubleClickGate(window time.Duration) *doubleClickGate {
	return &doubleClickGate{window: window}
}

// Trigger reports whether this click completes a double-click. The first
// click (or one arriving after the window has elapsed) resets the anchor
// and returns false.
func (g *doubleClickGate) Trigger() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	now := time.Now()
	if now.Sub(g.last) < g.window {
		return true
	}
	g.last = now
	return false
}
