package status

import (
	"sync"

	"skinledger/core/reconcile"
)

// Tracker drains the engine's progress channel and keeps the most recent
// event for the status endpoint. Draining promptly matters: the engine
// drops events instead of blocking on a slow observer.
type Tracker struct {
	mu     sync.RWMutex
	latest reconcile.Progress
	seen   bool
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Watch consumes events until ch is closed. Run it in its own goroutine.
func (t *Tracker) Watch(ch <-chan reconcile.Progress) {
	for ev := range ch {
		t.Record(ev)
	}
}

// Record stores one progress event.
func (t *Tracker) Record(ev reconcile.Progress) {
	t.mu.Lock()
	t.latest = ev
	t.seen = true
	t.mu.Unlock()
}

// Latest returns the most recent event, and whether any was seen.
func (t *Tracker) Latest() (reconcile.Progress, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.latest, t.seen
}
