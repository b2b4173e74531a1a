package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/larvasim/internal/sim"
	"github.com/san-kum/larvasim/internal/vec"
)

func frameAt(t, comX, energy float64, tensions []float64) sim.Frame {
	return sim.Frame{
		Time:         t,
		CenterOfMass: vec.New(comX, 0, 0.1),
		Energy:       energy,
		Tensions:     tensions,
	}
}

func TestDisplacement(t *testing.T) {
	m := NewDisplacement()

	m.Observe(frameAt(0, 1.0, 0, nil))
	m.Observe(frameAt(1, 1.2, 0, nil))
	m.Observe(frameAt(2, 1.5, 0, nil))

	if math.Abs(m.Value()-0.5) > 1e-12 {
		t.Errorf("expected displacement 0.5, got %f", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Errorf("expected zero after reset, got %f", m.Value())
	}
}

func TestMeanSpeed(t *testing.T) {
	m := NewMeanSpeed()

	m.Observe(frameAt(0, 0, 0, nil))
	m.Observe(frameAt(2, 0.4, 0, nil))

	if math.Abs(m.Value()-0.2) > 1e-12 {
		t.Errorf("expected mean speed 0.2, got %f", m.Value())
	}
}

func TestMeanSpeed_NoSamples(t *testing.T) {
	m := NewMeanSpeed()
	if m.Value() != 0 {
		t.Errorf("expected 0 with no samples, got %f", m.Value())
	}
}

func TestMeanEnergy(t *testing.T) {
	m := NewMeanEnergy()

	m.Observe(frameAt(0, 0, 2.0, nil))
	m.Observe(frameAt(1, 0, 4.0, nil))

	if math.Abs(m.Value()-3.0) > 1e-12 {
		t.Errorf("expected mean energy 3.0, got %f", m.Value())
	}
}

func TestEnergyDrift(t *testing.T) {
	m := NewEnergyDrift()

	m.Observe(frameAt(0, 0, 10.0, nil))
	m.Observe(frameAt(1, 0, 11.0, nil))
	m.Observe(frameAt(2, 0, 10.5, nil))

	if math.Abs(m.Value()-0.1) > 1e-12 {
		t.Errorf("expected max drift 0.1, got %f", m.Value())
	}

	m.Reset()
	m.Observe(frameAt(0, 0, 5.0, nil))
	if m.Value() != 0 {
		t.Errorf("expected zero drift after reset and one sample, got %f", m.Value())
	}
}

func TestActuationEffort(t *testing.T) {
	m := NewActuationEffort()

	m.Observe(frameAt(0, 0, 0, []float64{1, -2, 3}))
	m.Observe(frameAt(1, 0, 0, []float64{0, 0, 0}))

	if math.Abs(m.Value()-3.0) > 1e-12 {
		t.Errorf("expected mean effort 3.0, got %f", m.Value())
	}
}
