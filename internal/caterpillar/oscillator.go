package caterpillar

import "math"

const twoPi = 2 * math.Pi

// PhaseOscillator is an autonomous phase variable driving one actuator or
// gripper. The phase is kept wrapped into [0, 2pi).
type PhaseOscillator struct {
	phase float64
}

func (o *PhaseOscillator) Phase() float64 { return o.phase }

func (o *PhaseOscillator) setPhase(phase float64) {
	o.phase = wrapPhase(phase)
}

// step advances the phase by dt at the given angular velocity and returns
// the updated phase.
func (o *PhaseOscillator) step(angularVelocity, dt float64) float64 {
	o.phase = wrapPhase(o.phase + angularVelocity*dt)
	return o.phase
}

func wrapPhase(phase float64) float64 {
	phase = math.Mod(phase, twoPi)
	if phase < 0 {
		phase += twoPi
	}
	return phase
}

// couplingTerm is the Kuramoto interaction pulling an oscillator toward its
// neighbors: weight * sum(sin(phase_j - phase_i)).
func couplingTerm(phase float64, neighbors []float64, weight float64) float64 {
	if weight == 0 {
		return 0
	}
	sum := 0.0
	for _, n := range neighbors {
		sum += math.Sin(n - phase)
	}
	return weight * sum
}
