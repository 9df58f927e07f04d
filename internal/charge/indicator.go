// Package charge contains the charging-detection state machine: the shared
// charging flag, the debounced edge detector, the suppression scheduler, and
// the battery event listener.
//
// Concurrency model: the detector is the sole writer of the charging flag;
// the scheduler and listener only read it. LED writes may race between the
// three paths, but all of them compute from the same flag and policy, so a
// transient overwrite is a redundant write of the same color, not a bug.
package charge

import (
	"sync/atomic"
	"time"

	"github.com/sweeney/charge-indicator/internal/battery"
	"github.com/sweeney/charge-indicator/internal/led"
	"github.com/sweeney/charge-indicator/internal/logic"
)

// Timing holds the debounce and cadence intervals. They are tuning choices,
// not hard invariants; the defaults match the values proven on hardware.
type Timing struct {
	// Stabilize is the wait after line configuration before the first
	// bring-up sample.
	Stabilize time.Duration

	// SecondSample is the gap between the two bring-up samples.
	SecondSample time.Duration

	// Settle is the wait after an edge fires before the single sample.
	Settle time.Duration

	// Reassert is the suppression cadence while charging.
	Reassert time.Duration

	// Idle is the sleep between checks while not charging.
	Idle time.Duration
}

// DefaultTiming returns the stock intervals.
func DefaultTiming() Timing {
	return Timing{
		Stabilize:    20 * time.Millisecond,
		SecondSample: 10 * time.Millisecond,
		Settle:       8 * time.Millisecond,
		Reassert:     150 * time.Millisecond,
		Idle:         time.Second,
	}
}

// Indicator owns the shared charging flag and the color-application path.
// It is safe for concurrent use from the edge handler, the scheduler, and
// the listener.
type Indicator struct {
	policy    logic.Policy
	gauge     battery.Gauge
	driver    led.Driver
	charging  atomic.Bool
	lastColor atomic.Int32
}

// NewIndicator creates an Indicator. gauge may be nil when the policy is not
// battery based.
func NewIndicator(policy logic.Policy, gauge battery.Gauge, driver led.Driver) *Indicator {
	return &Indicator{policy: policy, gauge: gauge, driver: driver}
}

// Charging reports the current debounced charging state.
func (i *Indicator) Charging() bool {
	return i.charging.Load()
}

// setCharging overwrites the flag. Only the detector calls this.
func (i *Indicator) setCharging(charging bool) {
	i.charging.Store(charging)
}

// Reapply recomputes the color for the current state and applies it,
// returning the applied color. It is called on every accepted sample even
// when the state is unchanged; redundant re-assertion is the point. A failed
// line write has already been logged by the driver and is not escalated.
func (i *Indicator) Reapply() logic.ColorCode {
	pct, ok := 0, false
	if i.policy.BatteryBased && i.gauge != nil {
		pct, ok = i.gauge.StateOfCharge()
	}
	color := logic.ComputeColor(i.policy, i.charging.Load(), pct, ok)
	i.driver.Apply(color)
	i.lastColor.Store(int32(color))
	return color
}

// LastColor returns the most recently applied color.
func (i *Indicator) LastColor() logic.ColorCode {
	return logic.ColorCode(i.lastColor.Load())
}
