package review

import (
	"sync"
	"time"
)

// DefaultGraceWindow is how long a seek target stays asserted before it is
// retracted. Generous for a playback surface polling a few times a second.
const DefaultGraceWindow = 100 * time.Millisecond

// SeekCoordinator turns a "play this line" request into a one-shot,
// time-bounded seek signal. The asserted target is retracted after a fixed
// grace window timed from the request, not from when playback reacts, so a
// consumed target never keeps re-forcing the playback position. At most one
// retraction timer is ever outstanding: a new request cancels the pending
// one and starts a fresh window.
type SeekCoordinator struct {
	mu     sync.Mutex
	grace  time.Duration
	timer  *time.Timer
	seq    uint64
	target float64
	set    bool
}

// NewSeekCoordinator creates a coordinator with the given grace window;
// zero or negative means DefaultGraceWindow.
func NewSeekCoordinator(grace time.Duration) *SeekCoordinator {
	if grace <= 0 {
		grace = DefaultGraceWindow
	}
	return &SeekCoordinator{grace: grace}
}

// Request asserts target as the live seek target and (re)starts the grace
// window. It does not clamp: an out-of-range time is the caller's problem.
func (c *SeekCoordinator) Request(target float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.timer != nil {
		c.timer.Stop()
	}
	c.seq++
	seq := c.seq
	c.target = target
	c.set = true
	c.timer = time.AfterFunc(c.grace, func() { c.retract(seq) })
}

// Target returns the live seek target, if any. Observing it does not clear
// it; retraction is the timer's job.
func (c *SeekCoordinator) Target() (float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.target, c.set
}

// Pending reports whether a seek target is currently asserted.
func (c *SeekCoordinator) Pending() bool {
	_, set := c.Target()
	return set
}

// Dispose cancels any outstanding retraction timer and clears the target.
// To be called by whatever owns the session's lifetime; after Dispose no
// timer callback will mutate the coordinator.
func (c *SeekCoordinator) Dispose() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.seq++
	c.set = false
}

// retract clears the target asserted by the request with the matching
// sequence number. A stale timer that lost the Stop race is a no-op.
func (c *SeekCoordinator) retract(seq uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if seq != c.seq {
		return
	}
	c.set = false
	c.timer = nil
}
