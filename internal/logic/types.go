// Package logic contains pure decision logic for the charge indicator.
// This package has NO external dependencies (no GPIO, MQTT, OS, or time.Sleep).
// All inputs are passed in explicitly so every function is trivially testable.
package logic

import "fmt"

// ColorCode identifies one of the 8 discrete colors a three-channel RGB LED
// can show. The value is a 3-bit additive encoding: bit 0 = red, bit 1 =
// green, bit 2 = blue. Yellow is red+green, white is all three, and so on.
type ColorCode int

const (
	ColorOff     ColorCode = 0
	ColorRed     ColorCode = 1
	ColorGreen   ColorCode = 2
	ColorYellow  ColorCode = 3
	ColorBlue    ColorCode = 4
	ColorMagenta ColorCode = 5
	ColorCyan    ColorCode = 6
	ColorWhite   ColorCode = 7
)

// Valid reports whether c is one of the 8 canonical color codes.
func (c ColorCode) Valid() bool {
	return c >= ColorOff && c <= ColorWhite
}

// Channels returns the per-channel on/off states encoding this color.
// Invalid codes decode as Red: a misconfigured color must stay visible
// rather than silently going dark.
func (c ColorCode) Channels() (red, green, blue bool) {
	if !c.Valid() {
		c = ColorRed
	}
	return c&1 != 0, c&2 != 0, c&4 != 0
}

// String returns the color name, or a diagnostic form for invalid codes.
func (c ColorCode) String() string {
	switch c {
	case ColorOff:
		return "OFF"
	case ColorRed:
		return "RED"
	case ColorGreen:
		return "GREEN"
	case ColorYellow:
		return "YELLOW"
	case ColorBlue:
		return "BLUE"
	case ColorMagenta:
		return "MAGENTA"
	case ColorCyan:
		return "CYAN"
	case ColorWhite:
		return "WHITE"
	}
	return fmt.Sprintf("INVALID(%d)", int(c))
}

// Policy is the color policy resolved once at startup. It is treated as
// immutable after validation; no component mutates it.
type Policy struct {
	// ForceOff keeps the LEDs dark while charging. Highest precedence.
	ForceOff bool

	// FixedColor is shown while charging when BatteryBased is false.
	FixedColor ColorCode

	// BatteryBased selects the color from the battery state of charge.
	BatteryBased bool

	// Threshold percentages dividing the battery bands. Must satisfy
	// 0 <= Critical < Low < High <= 100.
	Critical int
	Low      int
	High     int

	// Band colors. ColorMissing is shown when no percentage is available.
	ColorCritical ColorCode
	ColorLow      ColorCode
	ColorMedium   ColorCode
	ColorHigh     ColorCode
	ColorMissing  ColorCode
}

// Validate checks the configuration-time invariants. Threshold ordering is a
// configuration error, caught here and never at runtime.
func (p Policy) Validate() error {
	if p.Critical < 0 || p.High > 100 {
		return fmt.Errorf("thresholds must lie in [0,100]: critical=%d high=%d", p.Critical, p.High)
	}
	if !(p.Critical < p.Low && p.Low < p.High) {
		return fmt.Errorf("thresholds must satisfy critical < low < high: %d/%d/%d", p.Critical, p.Low, p.High)
	}
	for _, c := range []ColorCode{p.FixedColor, p.ColorCritical, p.ColorLow, p.ColorMedium, p.ColorHigh, p.ColorMissing} {
		if !c.Valid() {
			return fmt.Errorf("color selector out of range 0-7: %d", int(c))
		}
	}
	return nil
}
