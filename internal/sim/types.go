package sim

import (
	"github.com/san-kum/larvasim/internal/caterpillar"
	"github.com/san-kum/larvasim/internal/vec"
)

// Frame is an immutable snapshot of the body state after one step. Every
// frame owns its slices, so observers may retain frames freely.
type Frame struct {
	Step          int
	Time          float64
	Positions     []vec.Vec3
	Phases        []float64
	GripperPhases []float64
	Tensions      []float64
	FrictionsX    []float64
	CenterOfMass  vec.Vec3
	HeadX         float64
	Energy        float64
}

// Driver advances the body by one step. Implementations choose which of the
// stepping entry points to use and with what commands.
type Driver interface {
	Advance(body *caterpillar.Caterpillar, dt float64) error
}

// Metric accumulates a scalar over a run.
type Metric interface {
	Name() string
	Observe(f Frame)
	Value() float64
	Reset()
}

// Observer is notified after every committed step.
type Observer interface {
	OnStep(f Frame)
}

// Config controls one run.
type Config struct {
	Dt       float64
	Duration float64
	// Record every Nth frame in the result; 0 means DefaultRecordEvery.
	RecordEvery int
}

const DefaultRecordEvery = 10

// Result is the retained outcome of a run.
type Result struct {
	Frames       []Frame
	Metrics      map[string]float64
	StepsTaken   int
	FinalTime    float64
	Displacement float64 // net x travel of the center of mass
}
