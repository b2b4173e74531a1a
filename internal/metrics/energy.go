// Package metrics provides run-level scalar metrics computed from frame
// snapshots.
package metrics

import (
	"math"

	"github.com/san-kum/larvasim/internal/sim"
)

// MeanEnergy averages the total mechanical energy over a run.
type MeanEnergy struct {
	name    string
	sum     float64
	samples int
}

func NewMeanEnergy() *MeanEnergy {
	return &MeanEnergy{name: "mean_energy"}
}

func (m *MeanEnergy) Name() string { return m.name }

func (m *MeanEnergy) Observe(f sim.Frame) {
	m.sum += f.Energy
	m.samples++
}

func (m *MeanEnergy) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *MeanEnergy) Reset() {
	m.sum = 0
	m.samples = 0
}

// EnergyDrift tracks the largest relative deviation of mechanical energy
// from its first observed value. Large drift flags an unstable step size.
type EnergyDrift struct {
	name     string
	initial  float64
	maxDrift float64
	samples  int
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{name: "energy_drift"}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(f sim.Frame) {
	if e.samples == 0 {
		e.initial = f.Energy
	}
	e.samples++

	if e.initial != 0 {
		drift := math.Abs(f.Energy-e.initial) / math.Abs(e.initial)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 { return e.maxDrift }

func (e *EnergyDrift) Reset() {
	e.initial = 0
	e.maxDrift = 0
	e.samples = 0
}
