package quiz

import (
	"sync"
	"time"
)

// Clock is a one-shot countdown for a quiz attempt. It reports the
// remaining time roughly once a second through onTick and fires
// onExpired exactly once, no later than the configured duration after
// Start. There is no pause/resume; a running clock can only be
// cancelled.
type Clock struct {
	mu        sync.Mutex
	deadline  time.Time
	done      chan struct{}
	running   bool
	cancelled bool
	fired     bool

	onTick    func(remaining time.Duration)
	onExpired func()
}

func NewClock(onTick func(remaining time.Duration), onExpired func()) *Clock {
	return &Clock{onTick: onTick, onExpired: onExpired}
}

// Start begins the countdown. A non-positive duration expires on the
// next scheduling opportunity rather than synchronously inside Start.
// Starting an already started or cancelled clock is a no-op.
func (c *Clock) Start(duration time.Duration) {
	c.mu.Lock()
	if c.running || c.cancelled {
		c.mu.Unlock()
		return
	}
	c.running = true
	c.deadline = time.Now().Add(duration)
	c.done = make(chan struct{})
	c.mu.Unlock()

	go c.run(duration)
}

// Cancel stops the countdown. After Cancel returns, onExpired will not
// fire, even if cancellation raced an in-flight expiry check.
func (c *Clock) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancelled {
		return
	}
	c.cancelled = true
	if c.done != nil {
		close(c.done)
	}
}

func (c *Clock) run(duration time.Duration) {
	if duration <= 0 {
		c.expire()
		return
	}

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	expiry := time.NewTimer(duration)
	defer expiry.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.tick()
		case <-expiry.C:
			c.expire()
			return
		}
	}
}

func (c *Clock) tick() {
	c.mu.Lock()
	if c.cancelled || c.fired {
		c.mu.Unlock()
		return
	}
	remaining := time.Until(c.deadline)
	if remaining < 0 {
		remaining = 0
	}
	onTick := c.onTick
	c.mu.Unlock()

	if onTick != nil {
		onTick(remaining)
	}
}

// expire fires onExpired unless the clock was cancelled first. The
// cancelled/fired flags share c.mu with Cancel, so the two paths cannot
// interleave.
func (c *Clock) expire() {
	c.mu.Lock()
	if c.cancelled || c.fired {
		c.mu.Unlock()
		return
	}
	c.fired = true
	onExpired := c.onExpired
	c.mu.Unlock()

	if onExpired != nil {
		onExpired()
	}
}
