package selector

import (
	"sync"
	"time"
)

// Cooldown tracks tokens that were recently rejected or exited and must
// not be re-entered until their window expires.
type Cooldown struct {
	mu     sync.Mutex
	until  map[string]time.Time
	window time.Duration
}

// NewCooldown builds an empty registry with the given window.
func NewCooldown(window time.Duration) *Cooldown {
	return &Cooldown{
		until:  make(map[string]time.Time),
		window: window,
	}
}

// Add starts (or restarts) the cooldown window for a token.
func (c *Cooldown) Add(tokenAddress string, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.until[tokenAddress] = now.Add(c.window)
}

// Active reports whether the token is still cooling down.
func (c *Cooldown) Active(tokenAddress string, now time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	expiry, ok := c.until[tokenAddress]
	return ok && now.Before(expiry)
}

// Sweep drops expired entries and returns how many were removed.
func (c *Cooldown) Sweep(now time.Time) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	removed := 0
	for token, expiry := range c.until {
		if !now.Before(expiry) {
			delete(c.until, token)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked tokens, expired or not.
func (c *Cooldown) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.until)
}
