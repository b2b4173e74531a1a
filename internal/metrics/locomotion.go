package metrics

import (
	"math"

	"github.com/san-kum/larvasim/internal/sim"
)

// Displacement measures the net x travel of the center of mass.
type Displacement struct {
	name    string
	startX  float64
	lastX   float64
	samples int
}

func NewDisplacement() *Displacement {
	return &Displacement{name: "displacement"}
}

func (d *Displacement) Name() string { return d.name }

func (d *Displacement) Observe(f sim.Frame) {
	if d.samples == 0 {
		d.startX = f.CenterOfMass.X
	}
	d.lastX = f.CenterOfMass.X
	d.samples++
}

func (d *Displacement) Value() float64 {
	if d.samples == 0 {
		return 0
	}
	return d.lastX - d.startX
}

func (d *Displacement) Reset() {
	d.startX = 0
	d.lastX = 0
	d.samples = 0
}

// MeanSpeed is the average forward speed of the center of mass.
type MeanSpeed struct {
	name      string
	startX    float64
	startTime float64
	lastX     float64
	lastTime  float64
	samples   int
}

func NewMeanSpeed() *MeanSpeed {
	return &MeanSpeed{name: "mean_speed"}
}

func (m *MeanSpeed) Name() string { return m.name }

func (m *MeanSpeed) Observe(f sim.Frame) {
	if m.samples == 0 {
		m.startX = f.CenterOfMass.X
		m.startTime = f.Time
	}
	m.lastX = f.CenterOfMass.X
	m.lastTime = f.Time
	m.samples++
}

func (m *MeanSpeed) Value() float64 {
	dt := m.lastTime - m.startTime
	if dt <= 0 {
		return 0
	}
	return (m.lastX - m.startX) / dt
}

func (m *MeanSpeed) Reset() {
	m.startX = 0
	m.startTime = 0
	m.lastX = 0
	m.lastTime = 0
	m.samples = 0
}

// ActuationEffort averages the summed absolute actuator tension per step, a
// proxy for the energetic cost of the gait.
type ActuationEffort struct {
	name    string
	sum     float64
	samples int
}

func NewActuationEffort() *ActuationEffort {
	return &ActuationEffort{name: "actuation_effort"}
}

func (a *ActuationEffort) Name() string { return a.name }

func (a *ActuationEffort) Observe(f sim.Frame) {
	for _, tension := range f.Tensions {
		a.sum += math.Abs(tension)
	}
	a.samples++
}

func (a *ActuationEffort) Value() float64 {
	if a.samples == 0 {
		return 0
	}
	return a.sum / float64(a.samples)
}

func (a *ActuationEffort) Reset() {
	a.sum = 0
	a.samples = 0
}
