package availability

import "sync"

// Ticket identifies one issued probe.
type Ticket uint64

// Tracker keeps the latest availability result and discards results of
// probes that were superseded by a later one.
type Tracker struct {
	mu      sync.Mutex
	issued  Ticket
	current Result
}

// NewTracker returns a tracker in the unknown state.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Begin issues a ticket for a new probe. Earlier tickets become stale.
func (t *Tracker) Begin() Ticket {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.issued++
	return t.issued
}

// Resolve records res if ticket is still the latest one.
// It reports whether the result was applied.
func (t *Tracker) Resolve(ticket Ticket, res Result) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if ticket != t.issued {
		return false
	}
	t.current = res
	return true
}

// Reset goes back to unknown and invalidates every in-flight probe.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.issued++
	t.current = Result{State: StateUnknown}
}

// Current returns the latest applied result.
func (t *Tracker) Current() Result {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}
