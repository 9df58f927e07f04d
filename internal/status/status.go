// Package status provides a thread-safe status tracker for the
// charge-indicator daemon. It is read by the HTTP handlers and serialized
// into MQTT system events.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/charge-indicator/internal/logic"
)

// Config contains daemon configuration for display.
type Config struct {
	Chip         string
	StatPin      int
	LEDEnabled   bool
	ForceOff     bool
	BatteryBased bool
	SettleMs     int64
	ReassertMs   int64
	IdleMs       int64
	Broker       string
	HTTPAddr     string
}

// Counts tracks accepted samples and suppression activity since startup.
type Counts struct {
	ChargeStarted int
	ChargeStopped int
	Reassertions  uint64
	BatteryEvents int
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type — safe to use after the lock is released.
type Snapshot struct {
	Ready         bool // bring-up baseline completed
	Charging      bool
	Color         logic.ColorCode
	BatteryPct    int
	BatteryKnown  bool
	Counts        Counts
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// RecordSample notes an accepted charging sample and the color applied for
// it. Transitions are counted; confirming samples only refresh the fields.
func (t *Tracker) RecordSample(charging bool, color logic.ColorCode) {
	t.mu.Lock()
	if t.snap.Ready && charging != t.snap.Charging {
		if charging {
			t.snap.Counts.ChargeStarted++
		} else {
			t.snap.Counts.ChargeStopped++
		}
	}
	t.snap.Ready = true
	t.snap.Charging = charging
	t.snap.Color = color
	t.mu.Unlock()
}

// RecordBattery notes a battery level report.
func (t *Tracker) RecordBattery(pct int) {
	t.mu.Lock()
	t.snap.BatteryPct = pct
	t.snap.BatteryKnown = true
	t.snap.Counts.BatteryEvents++
	t.mu.Unlock()
}

// SetReassertions updates the suppression write counter.
func (t *Tracker) SetReassertions(n uint64) {
	t.mu.Lock()
	t.snap.Counts.Reassertions = n
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
