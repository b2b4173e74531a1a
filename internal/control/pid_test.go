package control

import (
	"math"
	"testing"

	"github.com/san-kum/larvasim/internal/caterpillar"
)

func TestPIDCompute_ProportionalOnly(t *testing.T) {
	pid := NewPID(2.0, 0, 0, 10.0)

	u := pid.Compute(4.0, 0)
	if math.Abs(u-12.0) > 1e-12 {
		t.Errorf("expected proportional output 12, got %f", u)
	}
}

func TestPIDCompute_IntegralAccumulates(t *testing.T) {
	pid := NewPID(0, 1.0, 0, 1.0)

	pid.Compute(0, 0)
	u := pid.Compute(0, 1.0) // error 1 for 1s

	if math.Abs(u-1.0) > 1e-12 {
		t.Errorf("expected integral output 1, got %f", u)
	}
}

func TestPIDCompute_DerivativeOpposesApproach(t *testing.T) {
	pid := NewPID(0, 0, 1.0, 1.0)

	pid.Compute(0, 0)
	u := pid.Compute(0.5, 1.0) // error shrank from 1 to 0.5

	if u >= 0 {
		t.Errorf("expected negative derivative term while closing in, got %f", u)
	}
}

func TestPIDReset(t *testing.T) {
	pid := NewPID(1, 1, 1, 1)
	pid.Compute(0, 0)
	pid.Compute(0, 1)

	pid.Reset()
	u := pid.Compute(0, 5)
	if math.Abs(u-1.0) > 1e-12 {
		t.Errorf("expected pure proportional output after reset, got %f", u)
	}
}

func TestSpeedRegulator_FeedbackShapes(t *testing.T) {
	body, err := caterpillar.New(5, []int{1, 2, 3}, []int{0, 4}, caterpillar.DefaultParams(), nil)
	if err != nil {
		t.Fatal(err)
	}
	reg := NewSpeedRegulator(1, 0, 0, 0.1)

	somite, gripper := reg.Feedback(body, 0)
	if len(somite) != 5 {
		t.Errorf("expected 5 somite feedbacks, got %d", len(somite))
	}
	if len(gripper) != 2 {
		t.Errorf("expected 2 gripper feedbacks, got %d", len(gripper))
	}

	// a stationary body below target speed gets a positive correction
	somite, _ = reg.Feedback(body, 0.1)
	if somite[0] <= 0 {
		t.Errorf("expected positive speed correction, got %f", somite[0])
	}
}

func TestSpeedRegulator_DrivesRunner(t *testing.T) {
	body, err := caterpillar.New(5, []int{1, 2, 3}, []int{0, 4}, caterpillar.DefaultParams(), nil)
	if err != nil {
		t.Fatal(err)
	}
	reg := NewSpeedRegulator(0.5, 0, 0, 0.05)

	for i := 0; i < 100; i++ {
		somite, gripper := reg.Feedback(body, body.Time())
		if err := body.StepWithFeedbacks(0.01, somite, gripper); err != nil {
			t.Fatalf("step %d failed: %v", i, err)
		}
	}
	for _, p := range body.SomitePositions() {
		if !p.IsFinite() {
			t.Fatal("body state not finite under regulated drive")
		}
	}
}
