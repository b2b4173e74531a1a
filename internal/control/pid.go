// Package control provides feedback laws that close the loop around the
// body's oscillators.
package control

import (
	"github.com/san-kum/larvasim/internal/caterpillar"
)

// PID is a scalar PID regulator.
type PID struct {
	Kp     float64
	Ki     float64
	Kd     float64
	Target float64

	integral float64
	prevErr  float64
	prevT    float64
	first    bool
}

func NewPID(kp, ki, kd, target float64) *PID {
	return &PID{Kp: kp, Ki: ki, Kd: kd, Target: target, first: true}
}

// Compute returns the control output for the measured value at time t.
func (p *PID) Compute(measured, t float64) float64 {
	err := p.Target - measured

	if p.first {
		p.prevErr = err
		p.prevT = t
		p.first = false
		return p.Kp * err
	}

	dt := t - p.prevT
	if dt <= 0 {
		return p.Kp * err
	}

	p.integral += err * dt
	derivative := (err - p.prevErr) / dt
	p.prevErr = err
	p.prevT = t

	return p.Kp*err + p.Ki*p.integral + p.Kd*derivative
}

func (p *PID) Reset() {
	p.integral = 0
	p.prevErr = 0
	p.prevT = 0
	p.first = true
}

// SpeedRegulator produces oscillator feedback that holds the forward speed
// of the center of mass at a target: all actuator oscillators receive the
// same angular velocity correction, grippers none.
type SpeedRegulator struct {
	pid   *PID
	prevX float64
	prevT float64
	first bool
}

func NewSpeedRegulator(kp, ki, kd, targetSpeed float64) *SpeedRegulator {
	return &SpeedRegulator{pid: NewPID(kp, ki, kd, targetSpeed), first: true}
}

// Feedback implements the feedback law for sim.FeedbackDriver.
func (r *SpeedRegulator) Feedback(body *caterpillar.Caterpillar, t float64) (somite, gripper []float64) {
	somite = make([]float64, body.SomiteCount())
	gripper = make([]float64, body.GripperCount())

	x := body.CenterOfMass().X
	if r.first {
		r.prevX = x
		r.prevT = t
		r.first = false
		return somite, gripper
	}
	dt := t - r.prevT
	if dt <= 0 {
		return somite, gripper
	}

	speed := (x - r.prevX) / dt
	r.prevX = x
	r.prevT = t

	correction := r.pid.Compute(speed, t)
	for i := range somite {
		somite[i] = correction
	}
	return somite, gripper
}
