package ledger

import (
	"sync"
	"time"

	"github.com/rony4d/go-claimdrop/inter"
)

// Clock tells the ledger the current time. Every time-gated rule reads it
// exactly once per operation.
type Clock interface {
	Now() inter.Timestamp
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() inter.Timestamp {
	return inter.FromTime(time.Now())
}

// ManualClock is a Clock that only moves when told to. It is used by tests
// and by rehearsals that replay a schedule.
type ManualClock struct {
	mu  sync.Mutex
	now inter.Timestamp
}

// NewManualClock returns a clock stopped at now.
func NewManualClock(now inter.Timestamp) *ManualClock {
	return &ManualClock{now: now}
}

func (c *ManualClock) Now() inter.Timestamp {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Set moves the clock to t.
func (c *ManualClock) Set(t inter.Timestamp) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}

// Advance moves the clock forward by d.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}
