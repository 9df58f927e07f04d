package charge

import (
	"fmt"
	"log"
	"time"

	"github.com/sweeney/charge-indicator/internal/events"
	"github.com/sweeney/charge-indicator/internal/gpio"
	"github.com/sweeney/charge-indicator/internal/logic"
)

// Detector owns the charger STAT input line and is the sole writer of the
// charging flag. Bring-up uses a double sample to reject power-up glitches;
// edges use a settle delay plus a single sample. The asymmetry is
// deliberate: edges are rare and the settle delay already filters bounce.
type Detector struct {
	line   gpio.InputLine
	ind    *Indicator
	bus    *events.Bus
	timing Timing

	// sleep is time.Sleep, injectable for tests.
	sleep func(time.Duration)
}

// NewDetector creates a Detector. bus may be nil when no subscribers exist
// (print-state mode).
func NewDetector(line gpio.InputLine, ind *Indicator, bus *events.Bus, timing Timing) *Detector {
	return &Detector{
		line:   line,
		ind:    ind,
		bus:    bus,
		timing: timing,
		sleep:  time.Sleep,
	}
}

// SampleRaw takes one raw reading of the STAT line. The raw level is
// interpreted directly (0 = charging); configured polarity never applies.
func (d *Detector) SampleRaw() (bool, error) {
	raw, err := d.line.Value()
	if err != nil {
		return false, fmt.Errorf("sample stat line: %w", err)
	}
	return logic.ChargingFromRaw(raw), nil
}

// Baseline establishes the initial charging state: stabilization wait, one
// sample, a second shorter wait, a second sample. The state is charging only
// if both samples agree. The result is published and the color applied.
func (d *Detector) Baseline() (bool, error) {
	d.sleep(d.timing.Stabilize)
	first, err := d.SampleRaw()
	if err != nil {
		return false, err
	}
	d.sleep(d.timing.SecondSample)
	second, err := d.SampleRaw()
	if err != nil {
		return false, err
	}

	charging := logic.InitialCharging(first, second)
	d.accept(charging)
	return charging, nil
}

// HandleEdge runs on either transition of the STAT line: wait for the signal
// to settle, then take exactly one sample and treat it as ground truth. The
// accepted sample unconditionally overwrites the charging flag and reapplies
// the color, even when the value is unchanged.
func (d *Detector) HandleEdge() {
	d.sleep(d.timing.Settle)
	charging, err := d.SampleRaw()
	if err != nil {
		// A read failure after successful configuration means the
		// system itself is broken; there is no retry path.
		log.Printf("charge: edge sample failed: %v", err)
		return
	}
	d.accept(charging)
}

func (d *Detector) accept(charging bool) {
	d.ind.setCharging(charging)
	color := d.ind.Reapply()
	log.Printf("charge: state=%v color=%s", charging, color)
	if d.bus != nil {
		d.bus.PublishCharging(events.ChargingChanged{Charging: charging})
	}
}
