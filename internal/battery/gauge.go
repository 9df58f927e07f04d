// Package battery provides state-of-charge sources for the color policy.
// A missing or unreadable percentage is an expected condition, not an error:
// gauges report (pct, ok) and the policy maps !ok to its "missing" color.
package battery

import "sync"

// Gauge returns the current battery state of charge.
type Gauge interface {
	// StateOfCharge returns the percentage in [0,100] and whether a
	// reading was available.
	StateOfCharge() (pct int, ok bool)
}

// Cache is a gauge fed by battery-level events. It remembers the most
// recent reported percentage and falls back to an optional inner gauge
// until the first event arrives.
type Cache struct {
	mu       sync.Mutex
	pct      int
	valid    bool
	fallback Gauge
}

// NewCache creates a Cache. fallback may be nil.
func NewCache(fallback Gauge) *Cache {
	return &Cache{fallback: fallback}
}

// Update stores a reported percentage. Out-of-range values are stored as-is;
// the policy treats them as unavailable, matching how a raw fuel-gauge
// reading is handled.
func (c *Cache) Update(pct int) {
	c.mu.Lock()
	c.pct = pct
	c.valid = true
	c.mu.Unlock()
}

// StateOfCharge returns the cached percentage, or the fallback gauge's
// reading if no event has been seen yet.
func (c *Cache) StateOfCharge() (int, bool) {
	c.mu.Lock()
	pct, valid := c.pct, c.valid
	c.mu.Unlock()
	if valid {
		return pct, true
	}
	if c.fallback != nil {
		return c.fallback.StateOfCharge()
	}
	return 0, false
}
