//go:build linux

package gpio

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// Chip wraps a GPIO character device for requesting lines.
type Chip struct {
	chip *gpiocdev.Chip
}

// OpenChip opens the named GPIO character device (e.g. "gpiochip0").
func OpenChip(name string) (*Chip, error) {
	chip, err := gpiocdev.NewChip(name)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip %s: %w", name, err)
	}
	return &Chip{chip: chip}, nil
}

// Close releases the chip. Lines already requested stay valid until closed.
func (c *Chip) Close() error {
	return c.chip.Close()
}

// RequestStatInput requests the charger STAT pin as an input with the
// internal pull-up enabled, suiting an open-drain active-low status signal.
// onEdge is invoked from the event goroutine on either transition. The line
// is requested without ActiveLow so Value returns the raw electrical level.
func (c *Chip) RequestStatInput(pin int, onEdge func()) (InputLine, error) {
	line, err := c.chip.RequestLine(pin,
		gpiocdev.AsInput,
		gpiocdev.WithPullUp,
		gpiocdev.WithBothEdges,
		gpiocdev.WithEventHandler(func(gpiocdev.LineEvent) {
			onEdge()
		}))
	if err != nil {
		return nil, fmt.Errorf("request stat pin %d: %w", pin, err)
	}
	return &realInput{line: line}, nil
}

// RequestLEDOutput requests an LED pin as an output, initially off.
// activeLow marks common-anode wiring: a logical 1 is then written as an
// electrical low, so callers only ever deal in logical on/off.
func (c *Chip) RequestLEDOutput(pin int, activeLow bool) (OutputLine, error) {
	opts := []gpiocdev.LineReqOption{gpiocdev.AsOutput(0)}
	if activeLow {
		opts = append(opts, gpiocdev.AsActiveLow)
	}
	line, err := c.chip.RequestLine(pin, opts...)
	if err != nil {
		return nil, fmt.Errorf("request led pin %d: %w", pin, err)
	}
	return &realOutput{line: line}, nil
}

type realInput struct {
	line *gpiocdev.Line
}

func (r *realInput) Value() (int, error) {
	v, err := r.line.Value()
	if err != nil {
		return 0, fmt.Errorf("read stat line: %w", err)
	}
	return v, nil
}

func (r *realInput) Close() error {
	return r.line.Close()
}

type realOutput struct {
	line *gpiocdev.Line
}

func (r *realOutput) SetValue(value int) error {
	if err := r.line.SetValue(value); err != nil {
		return fmt.Errorf("write led line: %w", err)
	}
	return nil
}

// Close drives the line off before releasing it so a daemon restart never
// leaves a stale color lit.
func (r *realOutput) Close() error {
	if err := r.line.SetValue(0); err != nil {
		r.line.Close()
		return fmt.Errorf("clear led line: %w", err)
	}
	return r.line.Close()
}
