package sim

import (
	"math"

	"github.com/san-kum/larvasim/internal/caterpillar"
)

// Autonomous lets the built-in oscillators drive the gait with no external
// input.
type Autonomous struct{}

func (Autonomous) Advance(body *caterpillar.Caterpillar, dt float64) error {
	return body.Step(dt)
}

// FeedbackFunc produces per-somite and per-gripper angular velocity
// feedback for the current body state.
type FeedbackFunc func(body *caterpillar.Caterpillar, t float64) (somite, gripper []float64)

// FeedbackDriver closes the loop around the oscillators with an external
// feedback law.
type FeedbackDriver struct {
	Feedback FeedbackFunc
}

func (d FeedbackDriver) Advance(body *caterpillar.Caterpillar, dt float64) error {
	somite, gripper := d.Feedback(body, body.Time())
	return body.StepWithFeedbacks(dt, somite, gripper)
}

// GaitFunc produces explicit joint target angles and gripper phases as a
// function of time.
type GaitFunc func(t float64) (targetAngles, gripperPhases []float64)

// GaitDriver bypasses the oscillators and commands the joints directly.
type GaitDriver struct {
	Gait GaitFunc
}

func (d GaitDriver) Advance(body *caterpillar.Caterpillar, dt float64) error {
	angles, phases := d.Gait(body.Time())
	return body.StepWithTargetAngles(dt, angles, phases)
}

// InchingGait returns a GaitFunc producing a traveling arch with
// alternating tail/head gripping: the tail holds while the arch forms and
// the head holds while it flattens.
func InchingGait(joints, grippers int, amplitude, omega float64) GaitFunc {
	return func(t float64) ([]float64, []float64) {
		phase := math.Mod(omega*t, 2*math.Pi)
		arch := amplitude * (1 - math.Cos(phase)) * 0.5

		angles := make([]float64, joints)
		for i := range angles {
			angles[i] = arch
		}
		phases := make([]float64, grippers)
		for i := range phases {
			if i < grippers/2 {
				phases[i] = phase + math.Pi // tail side
			} else {
				phases[i] = phase
			}
		}
		return angles, phases
	}
}

// CrawlingGait returns a GaitFunc with a phase lag per joint, producing a
// peristaltic wave running from tail to head.
func CrawlingGait(joints, grippers int, amplitude, omega, lag float64) GaitFunc {
	return func(t float64) ([]float64, []float64) {
		angles := make([]float64, joints)
		for i := range angles {
			phase := omega*t - lag*float64(i)
			angles[i] = amplitude * (1 - math.Cos(phase)) * 0.5
		}
		phases := make([]float64, grippers)
		for i := range phases {
			phases[i] = omega*t - lag*float64(i)*float64(joints)/math.Max(1, float64(grippers))
		}
		return angles, phases
	}
}
