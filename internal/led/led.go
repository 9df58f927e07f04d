// Package led translates color codes into writes on three GPIO output lines.
// A no-op driver stands in when the LED lines are not configured, so callers
// never branch on LED availability.
package led

import (
	"fmt"
	"log"

	"github.com/sweeney/charge-indicator/internal/gpio"
	"github.com/sweeney/charge-indicator/internal/logic"
)

// Driver applies a color to the LED hardware.
type Driver interface {
	// Apply sets the three channels to the combination encoding color.
	// Drivers hold no state between calls: applying the same color twice
	// produces the same line levels both times.
	Apply(color logic.ColorCode) error

	// Close releases any underlying lines.
	Close() error
}

// LineDriver drives a discrete RGB LED over three output lines.
// Polarity is absorbed by the lines themselves; the driver only ever writes
// logical on/off.
type LineDriver struct {
	red, green, blue gpio.OutputLine
}

// NewLineDriver creates a driver over the three channel lines.
func NewLineDriver(red, green, blue gpio.OutputLine) *LineDriver {
	return &LineDriver{red: red, green: green, blue: blue}
}

// Apply writes the channel combination for color. Invalid codes decode as
// RED (see logic.ColorCode.Channels). A failed line write is logged and
// reported but the remaining channels are still written.
func (d *LineDriver) Apply(color logic.ColorCode) error {
	r, g, b := color.Channels()

	var firstErr error
	write := func(line gpio.OutputLine, on bool, name string) {
		v := 0
		if on {
			v = 1
		}
		if err := line.SetValue(v); err != nil {
			log.Printf("led: %s write failed: %v", name, err)
			if firstErr == nil {
				firstErr = fmt.Errorf("set %s channel: %w", name, err)
			}
		}
	}
	write(d.red, r, "red")
	write(d.green, g, "green")
	write(d.blue, b, "blue")
	return firstErr
}

// Close turns all channels off and releases the lines.
func (d *LineDriver) Close() error {
	var firstErr error
	for _, line := range []gpio.OutputLine{d.red, d.green, d.blue} {
		if err := line.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
