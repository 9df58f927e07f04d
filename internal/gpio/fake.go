package gpio

import "errors"

// FakeInput is a test double that returns scripted raw levels.
type FakeInput struct {
	// Levels contains scripted raw values to return.
	// Each call to Value() consumes the next level; the last one repeats.
	Levels []int

	// index tracks current position in Levels
	index int

	// Closed tracks if Close was called
	Closed bool

	// ReadError, if set, will be returned by Value()
	ReadError error

	// Reads counts Value() calls.
	Reads int
}

// NewFakeInput creates a FakeInput with the given raw levels.
func NewFakeInput(levels ...int) *FakeInput {
	return &FakeInput{Levels: levels}
}

// Value returns the next scripted raw level.
// If levels are exhausted, returns the last level repeatedly.
func (f *FakeInput) Value() (int, error) {
	f.Reads++
	if f.ReadError != nil {
		return 0, f.ReadError
	}
	if len(f.Levels) == 0 {
		return 0, errors.New("no levels configured")
	}
	level := f.Levels[f.index]
	if f.index < len(f.Levels)-1 {
		f.index++
	}
	return level, nil
}

// Close marks the input as closed.
func (f *FakeInput) Close() error {
	f.Closed = true
	return nil
}

// Set replaces the script with a single steady level.
func (f *FakeInput) Set(level int) {
	f.Levels = []int{level}
	f.index = 0
}

// FakeOutput records written values for test assertions.
type FakeOutput struct {
	// Value is the most recently written level.
	Value int

	// History contains every written level in order.
	History []int

	// Closed tracks if Close was called.
	Closed bool

	// WriteError, if set, will be returned by SetValue.
	WriteError error
}

// NewFakeOutput creates a FakeOutput, initially at level 0.
func NewFakeOutput() *FakeOutput {
	return &FakeOutput{}
}

// SetValue records the written level.
func (f *FakeOutput) SetValue(value int) error {
	if f.WriteError != nil {
		return f.WriteError
	}
	f.Value = value
	f.History = append(f.History, value)
	return nil
}

// Close marks the output as closed.
func (f *FakeOutput) Close() error {
	f.Closed = true
	return nil
}

// Writes returns how many values have been written.
func (f *FakeOutput) Writes() int {
	return len(f.History)
}
