//go:build !linux

package gpio

import "errors"

// Chip is not available on non-Linux platforms.
type Chip struct{}

// OpenChip returns an error on non-Linux platforms.
func OpenChip(name string) (*Chip, error) {
	return nil, errors.New("gpio: not supported on this platform (requires Linux)")
}

// Close is not implemented on non-Linux platforms.
func (c *Chip) Close() error {
	return nil
}

// RequestStatInput is not implemented on non-Linux platforms.
func (c *Chip) RequestStatInput(pin int, onEdge func()) (InputLine, error) {
	return nil, errors.New("gpio: not supported")
}

// RequestLEDOutput is not implemented on non-Linux platforms.
func (c *Chip) RequestLEDOutput(pin int, activeLow bool) (OutputLine, error) {
	return nil, errors.New("gpio: not supported")
}
