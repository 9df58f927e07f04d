package battery

// Fake is a test double returning a configured state of charge.
type Fake struct {
	// Pct is the percentage to return.
	Pct int

	// OK controls whether a reading is available.
	OK bool

	// Calls counts StateOfCharge invocations.
	Calls int
}

// NewFake creates a Fake reporting the given percentage.
func NewFake(pct int) *Fake {
	return &Fake{Pct: pct, OK: true}
}

// NewFakeUnavailable creates a Fake with no reading available.
func NewFakeUnavailable() *Fake {
	return &Fake{}
}

// StateOfCharge returns the configured reading.
func (f *Fake) StateOfCharge() (int, bool) {
	f.Calls++
	return f.Pct, f.OK
}
