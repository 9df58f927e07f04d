package led

import "github.com/sweeney/charge-indicator/internal/logic"

// Noop implements Driver for systems without configured LED lines.
// It satisfies the same contract so callers need no availability checks;
// charge detection keeps working while all LED control is skipped.
type Noop struct{}

// NewNoop creates a no-op LED driver.
func NewNoop() *Noop {
	return &Noop{}
}

// Apply does nothing and always succeeds.
func (Noop) Apply(color logic.ColorCode) error {
	return nil
}

// Close does nothing.
func (Noop) Close() error {
	return nil
}
