package charge

import (
	"github.com/sweeney/charge-indicator/internal/battery"
	"github.com/sweeney/charge-indicator/internal/events"
)

// Listener reacts to battery-level-changed notifications. While charging it
// reapplies the color with the newly reported percentage; otherwise the LED
// is left alone so delegation to the competing owner stays total.
type Listener struct {
	ind   *Indicator
	cache *battery.Cache
}

// NewListener creates a Listener. cache may be nil when the gauge is read
// directly (e.g. sysfs only).
func NewListener(ind *Indicator, cache *battery.Cache) *Listener {
	return &Listener{ind: ind, cache: cache}
}

// Attach subscribes the listener to battery events on the bus.
// Returns an unsubscribe function.
func (l *Listener) Attach(bus *events.Bus) func() {
	return bus.SubscribeBatteryLevel(l.Handle)
}

// Handle processes one battery level report. The cached gauge is refreshed
// unconditionally so the scheduler sees the same value; the LED path runs
// only while charging.
func (l *Listener) Handle(ev events.BatteryLevelChanged) {
	if l.cache != nil {
		l.cache.Update(ev.Percent)
	}
	if !l.ind.Charging() {
		return
	}
	l.ind.Reapply()
}
