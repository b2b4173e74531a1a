package caterpillar

import (
	"errors"
	"fmt"
)

// Domain errors for construction and stepping.
var (
	// ErrInvalidParams indicates a missing, unknown, or non-positive
	// physical parameter at construction.
	ErrInvalidParams = errors.New("caterpillar: invalid parameters")

	// ErrInvalidSegments indicates a non-positive segment count or an
	// oscillator/gripper index outside the segment range.
	ErrInvalidSegments = errors.New("caterpillar: invalid segment layout")

	// ErrShapeMismatch indicates a feedback or target sequence whose length
	// does not match the configured somite/gripper counts.
	ErrShapeMismatch = errors.New("caterpillar: input shape mismatch")

	// ErrUnstable indicates integration produced a non-finite position or
	// velocity. The offending step is not committed; the configuration
	// (stiffness vs. timestep) is at fault and the instance should be
	// discarded.
	ErrUnstable = errors.New("caterpillar: simulation unstable (non-finite state)")

	// ErrNoOscillator indicates an operation addressed a segment that does
	// not hold an oscillator.
	ErrNoOscillator = errors.New("caterpillar: segment holds no oscillator")
)

// StepError wraps a stepping failure with the step index and simulated time
// at which it occurred.
type StepError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *StepError) Unwrap() error { return e.Wrapped }
