package caterpillar

import (
	"math"
	"testing"

	"github.com/san-kum/larvasim/internal/vec"
)

func TestTorsionCurrentAngle_StraightChain(t *testing.T) {
	ts := verticalTorsion(10, 0)

	angle := ts.currentAngle(vec.Zero(), vec.New(1, 0, 0), vec.New(2, 0, 0))
	if math.Abs(angle) > 1e-12 {
		t.Errorf("expected angle 0 for straight chain, got %f", angle)
	}
}

func TestTorsionCurrentAngle_RightAngleBends(t *testing.T) {
	ts := verticalTorsion(10, 0)

	// tip rising out of the x axis bends clockwise around +y
	up := ts.currentAngle(vec.Zero(), vec.New(1, 0, 0), vec.New(1, 0, 1))
	if math.Abs(up+math.Pi/2) > 1e-9 {
		t.Errorf("expected angle %f for upward bend, got %f", -math.Pi/2, up)
	}

	down := ts.currentAngle(vec.Zero(), vec.New(1, 0, 0), vec.New(1, 0, -1))
	if math.Abs(down-math.Pi/2) > 1e-9 {
		t.Errorf("expected angle %f for downward bend, got %f", math.Pi/2, down)
	}
}

func TestTorsionCurrentAngle_IgnoresLateralOffset(t *testing.T) {
	ts := verticalTorsion(10, 0)

	// the y component is projected out before measuring
	angle := ts.currentAngle(vec.Zero(), vec.New(1, 0.5, 0), vec.New(2, -0.3, 0))
	if math.Abs(angle) > 1e-12 {
		t.Errorf("expected projected angle 0, got %f", angle)
	}
}

func TestTorsionForceOnDiscrepancy_TinyDiscrepancyIsZero(t *testing.T) {
	ts := verticalTorsion(10, 0)

	tipF, baseF := ts.forceOnDiscrepancy(vec.Zero(), vec.New(1, 0, 0), vec.New(2, 0, 0), minTorsionAngle/2)
	if tipF != vec.Zero() || baseF != vec.Zero() {
		t.Errorf("expected zero forces below the angle floor, got tip %v base %v", tipF, baseF)
	}
}

func TestTorsionForceOnDiscrepancy_OrthogonalToSegments(t *testing.T) {
	ts := verticalTorsion(10, 0)
	base := vec.Zero()
	center := vec.New(1, 0, 0)
	tip := vec.New(1, 0, 1)

	tipF, baseF := ts.forceOnDiscrepancy(base, center, tip, 0.3)
	if math.Abs(tipF.Dot(tip.Sub(center))) > 1e-9 {
		t.Errorf("tip force not orthogonal to its segment: %v", tipF)
	}
	if math.Abs(baseF.Dot(center.Sub(base))) > 1e-9 {
		t.Errorf("base force not orthogonal to its segment: %v", baseF)
	}
}

func TestTorsionForceOnDiscrepancy_StiffeningTerm(t *testing.T) {
	soft := verticalTorsion(10, 0)
	stiff := verticalTorsion(10, 5)
	base := vec.Zero()
	center := vec.New(1, 0, 0)
	tip := vec.New(2, 0, 0)

	softTip, _ := soft.forceOnDiscrepancy(base, center, tip, 0.5)
	stiffTip, _ := stiff.forceOnDiscrepancy(base, center, tip, 0.5)
	if stiffTip.Norm() <= softTip.Norm() {
		t.Errorf("expected angle-dependent stiffening: soft %f, stiff %f", softTip.Norm(), stiffTip.Norm())
	}
}

func TestTorsionForceToTargetAngle_RestoresTowardTarget(t *testing.T) {
	ts := verticalTorsion(10, 0)
	base := vec.Zero()
	center := vec.New(1, 0, 0)
	tip := vec.New(1, 0, 1) // bent to -pi/2

	angle := ts.currentAngle(base, center, tip)
	tipF, _ := ts.forceToTargetAngle(base, center, tip, angle, 0, 0)

	// restoring the joint toward straight must push the tip forward
	if tipF.X <= 0 {
		t.Errorf("expected restoring force with positive x on tip, got %v", tipF)
	}
}

func TestPhaseToTargetAngle(t *testing.T) {
	tests := []struct {
		name  string
		phase float64
		want  float64
	}{
		{"phase zero is rom min", 0, 0},
		{"phase pi is rom max", math.Pi, math.Pi / 2},
		{"half way", math.Pi / 2, math.Pi / 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := phaseToTargetAngle(tt.phase, 0, math.Pi/2)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("expected target %f, got %f", tt.want, got)
			}
		})
	}
}
