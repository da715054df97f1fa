package game

import (
	"sync"
	"time"
)

// Countdown is a restartable per-second countdown. onTick fires once per
// second including the starting value; onExpire fires exactly once when the
// remaining time reaches zero. At most one countdown is active per instance:
// Start and Restart bump a generation token that orphans any prior ticker
// goroutine, so Restart is safe to call from inside onExpire.
//
// Callbacks are invoked without holding the countdown lock, so they may call
// back into Restart or Cancel freely.
type Countdown struct {
	mu        sync.Mutex
	interval  time.Duration
	gen       uint64
	remaining int
	active    bool
	onTick    func(remaining int)
	onExpire  func()
}

// NewCountdown creates an idle countdown. The interval is the wall-clock
// length of one tick; production callers pass time.Second, tests shrink it.
func NewCountdown(interval time.Duration) *Countdown {
	if interval <= 0 {
		interval = time.Second
	}
	return &Countdown{interval: interval}
}

// Start begins a fresh countdown, cancelling any countdown in flight.
func (c *Countdown) Start(seconds int, onTick func(remaining int), onExpire func()) {
	c.mu.Lock()
	c.gen++
	gen := c.gen
	c.remaining = seconds
	c.active = true
	c.onTick = onTick
	c.onExpire = onExpire
	c.mu.Unlock()

	go c.run(gen)
}

// Restart cancels any pending ticks and counts down from the new duration,
// keeping the callbacks from the last Start.
func (c *Countdown) Restart(seconds int) {
	c.mu.Lock()
	c.gen++
	gen := c.gen
	c.remaining = seconds
	c.active = true
	c.mu.Unlock()

	go c.run(gen)
}

// Cancel stops the countdown; no further callbacks fire. Idempotent.
func (c *Countdown) Cancel() {
	c.mu.Lock()
	c.gen++
	c.active = false
	c.mu.Unlock()
}

// Remaining returns the seconds left, or zero when idle.
func (c *Countdown) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.active {
		return 0
	}
	return c.remaining
}

func (c *Countdown) run(gen uint64) {
	// The opening tick reports the full duration.
	onTick, _, rem, ok := c.step(gen, false)
	if !ok {
		return
	}
	if onTick != nil {
		onTick(rem)
	}

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for range ticker.C {
		onTick, onExpire, rem, ok := c.step(gen, true)
		if !ok {
			return
		}
		if onTick != nil {
			onTick(rem)
		}
		if rem <= 0 {
			if onExpire != nil {
				onExpire()
			}
			return
		}
	}
}

// step advances the countdown under the lock and hands the callbacks out for
// invocation outside it. It returns ok=false when this goroutine's
// generation has been superseded.
func (c *Countdown) step(gen uint64, decrement bool) (onTick func(int), onExpire func(), remaining int, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen || !c.active {
		return nil, nil, 0, false
	}
	if decrement {
		c.remaining--
	}
	if c.remaining <= 0 {
		// Expired; stop before the callbacks run so a late Cancel or a
		// Restart from onExpire cannot double-fire.
		c.active = false
	}
	return c.onTick, c.onExpire, c.remaining, true
}
