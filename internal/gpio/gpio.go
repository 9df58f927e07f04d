// Package gpio provides GPIO line access with hardware abstraction.
// The real implementation uses the Linux GPIO character device.
// The fake implementations allow testing without hardware.
package gpio

// InputLine reads the raw level of a digital input.
type InputLine interface {
	// Value returns the raw electrical level (0 or 1). No polarity
	// inversion is applied; callers interpret the raw level themselves.
	Value() (int, error)

	// Close releases the line.
	Close() error
}

// OutputLine drives a digital output.
type OutputLine interface {
	// SetValue writes the logical level (0 or 1). Polarity mapping to the
	// physical level is handled inside the line, not by the caller.
	SetValue(value int) error

	// Close releases the line.
	Close() error
}

// Pin defaults (BCM numbering).
const (
	DefaultPinStat  = 17 // Charger STAT input
	DefaultPinRed   = 22
	DefaultPinGreen = 23
	DefaultPinBlue  = 24
)

// DefaultChip is the GPIO character device used on Raspberry Pi.
const DefaultChip = "gpiochip0"
