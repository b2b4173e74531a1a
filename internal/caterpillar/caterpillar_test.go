package caterpillar

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/larvasim/internal/vec"
)

func mustNew(t *testing.T, somites int, oscillators, grippers []int) *Caterpillar {
	t.Helper()
	c, err := New(somites, oscillators, grippers, DefaultParams(), nil)
	if err != nil {
		t.Fatalf("unexpected construction error: %v", err)
	}
	return c
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name        string
		somites     int
		oscillators []int
		grippers    []int
	}{
		{"zero somites", 0, nil, nil},
		{"negative somites", -3, nil, nil},
		{"oscillator out of range", 5, []int{5}, nil},
		{"negative oscillator index", 5, []int{-1}, nil},
		{"duplicate oscillator", 5, []int{2, 2}, nil},
		{"gripper out of range", 5, nil, []int{7}},
		{"duplicate gripper", 5, nil, []int{0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.somites, tt.oscillators, tt.grippers, DefaultParams(), nil)
			if err == nil {
				t.Fatal("expected construction error, got nil")
			}
			if !errors.Is(err, ErrInvalidSegments) {
				t.Errorf("expected ErrInvalidSegments, got %v", err)
			}
		})
	}
}

func TestNew_ChainLayout(t *testing.T) {
	c := mustNew(t, 5, []int{1, 2, 3}, []int{0, 4})

	if c.SomiteCount() != 5 {
		t.Errorf("expected 5 somites, got %d", c.SomiteCount())
	}
	if c.CouplingCount() != 4 {
		t.Errorf("expected 4 couplings for 5 somites, got %d", c.CouplingCount())
	}
	if got := len(c.Tensions()); got != 3 {
		t.Errorf("expected 3 joint tensions, got %d", got)
	}

	positions := c.SomitePositions()
	for i, p := range positions {
		wantX := float64(i) * 2 * DefaultSomiteRadius
		if math.Abs(p.X-wantX) > 1e-12 {
			t.Errorf("somite %d: expected x %f, got %f", i, wantX, p.X)
		}
		if p.Z != DefaultSomiteRadius {
			t.Errorf("somite %d: expected to rest at radius height, got z %f", i, p.Z)
		}
	}
}

func TestStep_RejectsBadTimestep(t *testing.T) {
	c := mustNew(t, 3, nil, nil)

	for _, dt := range []float64{0, -0.01, math.NaN(), math.Inf(1)} {
		if err := c.Step(dt); err == nil {
			t.Errorf("expected error for dt %v, got nil", dt)
		}
	}
}

func TestStep_UndrivenChainStaysAtRest(t *testing.T) {
	params := DefaultParams()
	// pre-tension each end coupling to 2 N, below the stiction ceiling
	// mu_s*m*g ~ 2.94 N, so static friction must hold the chain exactly
	params.SpringNaturalLength = 0.18
	c, err := New(5, nil, nil, params, nil)
	if err != nil {
		t.Fatal(err)
	}
	before := c.SomitePositions()

	for i := 0; i < 100; i++ {
		if err := c.Step(0.01); err != nil {
			t.Fatalf("step %d failed: %v", i, err)
		}
	}

	after := c.SomitePositions()
	for i := range before {
		if d := after[i].Sub(before[i]).Norm(); d > 1e-9 {
			t.Errorf("somite %d drifted %g without actuation", i, d)
		}
		if c.Somite(i).Regime() != RegimeStatic {
			t.Errorf("somite %d: expected static regime at rest, got %v", i, c.Somite(i).Regime())
		}
	}
}

func TestStep_InternalForcesCancel(t *testing.T) {
	c := mustNew(t, 4, nil, nil)

	// lift the chain into the air with uneven spacing so every coupling
	// carries a nonzero force; with no contact the only external force left
	// after the internal pairs cancel is gravity
	for i, x := range []float64{0, 0.15, 0.3, 0.5} {
		if err := c.SetPosition(i, vec.New(x, 0, 1.0)); err != nil {
			t.Fatalf("set position %d: %v", i, err)
		}
	}
	if err := c.Step(1e-4); err != nil {
		t.Fatalf("step failed: %v", err)
	}

	sum := vec.Zero()
	for i := 0; i < c.SomiteCount(); i++ {
		sum = sum.Add(c.Somite(i).Force())
	}
	wantZ := -4 * DefaultSomiteMass * GravitationalAcceleration
	if math.Abs(sum.X) > 1e-9 || math.Abs(sum.Y) > 1e-9 {
		t.Errorf("expected horizontal force sum zero, got %v", sum)
	}
	if math.Abs(sum.Z-wantZ) > 1e-9 {
		t.Errorf("expected force sum z %f, got %f", wantZ, sum.Z)
	}
}

func TestStep_Determinism(t *testing.T) {
	a := mustNew(t, 6, []int{1, 2, 3, 4}, []int{0, 5})
	b := mustNew(t, 6, []int{1, 2, 3, 4}, []int{0, 5})

	for i := 0; i < 200; i++ {
		if err := a.Step(0.005); err != nil {
			t.Fatalf("step %d failed: %v", i, err)
		}
		if err := b.Step(0.005); err != nil {
			t.Fatalf("step %d failed: %v", i, err)
		}
	}

	pa, pb := a.SomitePositions(), b.SomitePositions()
	for i := range pa {
		if pa[i] != pb[i] {
			t.Errorf("somite %d diverged: %v vs %v", i, pa[i], pb[i])
		}
	}
	fa, fb := a.SomitePhases(), b.SomitePhases()
	for i := range fa {
		if fa[i] != fb[i] {
			t.Errorf("oscillator %d diverged: %f vs %f", i, fa[i], fb[i])
		}
	}
}

func TestStepWithFeedbacks_ShapeMismatchLeavesStateUntouched(t *testing.T) {
	c := mustNew(t, 5, []int{1, 2, 3}, []int{0, 4})
	positions := c.SomitePositions()
	phases := c.SomitePhases()

	err := c.StepWithFeedbacks(0.01, []float64{1, 2}, []float64{0, 0})
	if !errors.Is(err, ErrShapeMismatch) {
		t.Fatalf("expected ErrShapeMismatch, got %v", err)
	}
	err = c.StepWithFeedbacks(0.01, make([]float64, 5), []float64{0})
	if !errors.Is(err, ErrShapeMismatch) {
		t.Fatalf("expected ErrShapeMismatch for gripper feedbacks, got %v", err)
	}

	for i, p := range c.SomitePositions() {
		if p != positions[i] {
			t.Errorf("somite %d moved after rejected step: %v vs %v", i, p, positions[i])
		}
	}
	for i, ph := range c.SomitePhases() {
		if ph != phases[i] {
			t.Errorf("oscillator %d advanced after rejected step: %f vs %f", i, ph, phases[i])
		}
	}
	if c.StepCount() != 0 || c.Time() != 0 {
		t.Errorf("clock advanced after rejected step: steps %d, time %f", c.StepCount(), c.Time())
	}
}

func TestStepWithFeedbacks_SlowsOscillator(t *testing.T) {
	plain := mustNew(t, 3, []int{1}, nil)
	damped := mustNew(t, 3, []int{1}, nil)

	if err := plain.Step(0.01); err != nil {
		t.Fatal(err)
	}
	fb := make([]float64, 3)
	fb[1] = -math.Pi / 2
	if err := damped.StepWithFeedbacks(0.01, fb, nil); err != nil {
		t.Fatal(err)
	}

	if damped.SomitePhases()[0] >= plain.SomitePhases()[0] {
		t.Errorf("negative feedback should slow the oscillator: %f vs %f",
			damped.SomitePhases()[0], plain.SomitePhases()[0])
	}
}

func TestStepWithTargetAngles_ShapeValidation(t *testing.T) {
	c := mustNew(t, 5, []int{1, 2, 3}, []int{0, 4})

	err := c.StepWithTargetAngles(0.01, []float64{0.1}, []float64{0, 0})
	if !errors.Is(err, ErrShapeMismatch) {
		t.Fatalf("expected ErrShapeMismatch for 1 of 3 target angles, got %v", err)
	}
	err = c.StepWithTargetAngles(0.01, []float64{0.1, 0.1, 0.1}, nil)
	if !errors.Is(err, ErrShapeMismatch) {
		t.Fatalf("expected ErrShapeMismatch for missing gripper phases, got %v", err)
	}

	if err := c.StepWithTargetAngles(0.01, []float64{0.1, 0.2, 0.1}, []float64{0, math.Pi}); err != nil {
		t.Fatalf("well-shaped step failed: %v", err)
	}
}

func TestStepWithTargetAngles_BendsJoints(t *testing.T) {
	c := mustNew(t, 4, []int{1, 2}, nil)

	target := []float64{0.4, 0.4}
	for i := 0; i < 500; i++ {
		if err := c.StepWithTargetAngles(0.01, target, nil); err != nil {
			t.Fatalf("step %d failed: %v", i, err)
		}
	}

	for j, angle := range c.SomiteAngles() {
		if angle < 0.05 {
			t.Errorf("joint %d barely bent toward target 0.4: angle %f", j, angle)
		}
	}
}

func TestStep_NonFiniteForceFailsAtomically(t *testing.T) {
	c := mustNew(t, 3, nil, nil)
	positions := c.SomitePositions()

	if err := c.SetForceOnSomite(1, vec.New(math.NaN(), 0, 0)); err != nil {
		t.Fatal(err)
	}
	err := c.Step(0.01)
	if !errors.Is(err, ErrUnstable) {
		t.Fatalf("expected ErrUnstable, got %v", err)
	}
	var stepErr *StepError
	if !errors.As(err, &stepErr) {
		t.Fatalf("expected *StepError, got %T", err)
	}

	for i, p := range c.SomitePositions() {
		if p != positions[i] {
			t.Errorf("somite %d moved after unstable step: %v vs %v", i, p, positions[i])
		}
	}
}

func TestSetForceOnSomite_AppliesOnce(t *testing.T) {
	c := mustNew(t, 3, nil, nil)
	// push hard enough to break stiction
	if err := c.SetForceOnSomite(0, vec.New(500, 0, 0)); err != nil {
		t.Fatal(err)
	}
	if err := c.Step(0.01); err != nil {
		t.Fatal(err)
	}
	moved := c.Somite(0).Position().X
	if moved <= 0 {
		t.Fatalf("expected somite 0 pushed forward, got x %f", moved)
	}

	// the force is consumed, repeated steps must not re-apply it
	if err := c.Step(0.01); err != nil {
		t.Fatal(err)
	}
	if c.Somite(0).Velocity().X > 500*0.01 {
		t.Errorf("pending force leaked into a second step: vx %f", c.Somite(0).Velocity().X)
	}
}

func TestGrippingForceZ_ReportsVerticalHold(t *testing.T) {
	params := DefaultParams()
	// lay the chain out at rest length so the coupling adds no force
	params.SpringNaturalLength = 2 * DefaultSomiteRadius
	c, err := New(2, nil, []int{0}, params, nil)
	if err != nil {
		t.Fatal(err)
	}

	// engage the gripper and try to lift the anchored somite
	if err := c.SetGripperPhase(0, 1.5*math.Pi); err != nil {
		t.Fatal(err)
	}
	if err := c.SetForceOnSomite(0, vec.New(0, 0, 50)); err != nil {
		t.Fatal(err)
	}
	if err := c.Step(0.01); err != nil {
		t.Fatal(err)
	}

	if !c.Somite(0).IsGripping() {
		t.Fatal("expected somite 0 to grip")
	}
	// the anchor must hold the somite down with exactly the net lift
	want := -(50 - DefaultSomiteMass*GravitationalAcceleration)
	if got := c.GrippingForceZ()[0]; math.Abs(got-want) > 1e-9 {
		t.Errorf("expected vertical hold force %f, got %f", want, got)
	}
	if got := c.Somite(0).Position().Z; got != DefaultSomiteRadius {
		t.Errorf("anchored somite lifted off: z %f", got)
	}
}

func TestSetTargetAngle_RequiresOscillator(t *testing.T) {
	c := mustNew(t, 5, []int{2}, nil)

	if err := c.SetTargetAngle(2, 0.3); err != nil {
		t.Errorf("unexpected error for oscillator somite: %v", err)
	}
	if err := c.SetTargetAngle(1, 0.3); !errors.Is(err, ErrNoOscillator) {
		t.Errorf("expected ErrNoOscillator for bare somite, got %v", err)
	}
}

func TestSetters_ShapeValidation(t *testing.T) {
	c := mustNew(t, 5, []int{1, 2, 3}, []int{0, 4})

	if err := c.SetOscillationRanges([]float64{1, 1}); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("expected ErrShapeMismatch for 2 of 3 ranges, got %v", err)
	}
	if err := c.SetGrippingPhaseThresholds([]float64{0.5}); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("expected ErrShapeMismatch for 1 of 2 thresholds, got %v", err)
	}
	if err := c.SetForceOnSomite(9, vec.Zero()); !errors.Is(err, ErrInvalidSegments) {
		t.Errorf("expected ErrInvalidSegments for out-of-range somite, got %v", err)
	}
}

func TestAccessors_AreIdempotent(t *testing.T) {
	c := mustNew(t, 5, []int{1, 2, 3}, []int{0, 4})
	for i := 0; i < 50; i++ {
		if err := c.Step(0.01); err != nil {
			t.Fatal(err)
		}
	}

	first := c.SomitePositions()
	second := c.SomitePositions()
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("repeated read changed state at somite %d", i)
		}
	}
	// returned slices are copies, mutating them must not leak back
	first[0] = vec.New(99, 99, 99)
	if c.SomitePositions()[0] == first[0] {
		t.Error("accessor leaked internal state")
	}

	t1 := c.Tensions()
	t1[0] = 1e9
	if c.Tensions()[0] == 1e9 {
		t.Error("Tensions leaked internal state")
	}
}

func TestCenterOfMassAndHead(t *testing.T) {
	c := mustNew(t, 3, nil, nil)

	head := c.HeadPosition()
	if head != c.Somite(2).Position() {
		t.Errorf("head should be the last somite, got %v", head)
	}

	com := c.CenterOfMass()
	wantX := (0 + 0.2 + 0.4) / 3
	if math.Abs(com.X-wantX) > 1e-12 {
		t.Errorf("expected center of mass x %f, got %f", wantX, com.X)
	}
}

func TestIsHeadBlocked(t *testing.T) {
	terrain, err := NewTerrain(map[float64]float64{0.5: 2.0})
	if err != nil {
		t.Fatal(err)
	}
	c, err := New(3, nil, nil, DefaultParams(), terrain)
	if err != nil {
		t.Fatal(err)
	}

	// head at x=0.4 with radius 0.1 touches the wall section at 0.5
	if !c.IsHeadBlocked() {
		t.Error("expected head blocked by the wall ahead")
	}
	if c.IsOnGround() != true {
		t.Error("expected chain on ground")
	}
}

func TestEnergy_BoundedUnderAutonomousDrive(t *testing.T) {
	c := mustNew(t, 5, []int{1, 2, 3}, []int{0, 4})

	peak := 0.0
	for i := 0; i < 2000; i++ {
		if err := c.Step(0.005); err != nil {
			t.Fatalf("step %d failed: %v", i, err)
		}
		if e := c.Energy(); e > peak {
			peak = e
		}
	}
	// actuation injects energy but friction dissipates it; a runaway here
	// means the integrator is unstable at this step size
	if peak > 1e4 {
		t.Errorf("mechanical energy ran away: peak %f", peak)
	}
	for i := 0; i < c.SomiteCount(); i++ {
		if !c.Somite(i).Position().IsFinite() {
			t.Fatalf("somite %d position not finite", i)
		}
	}
}
