package caterpillar

import (
	"math"

	"github.com/san-kum/larvasim/internal/vec"
)

// minTorsionAngle is the angle discrepancy below which torsion forces are
// treated as zero to absorb numeric error.
const minTorsionAngle = 1e-5

// torsionSpring bends a three-somite joint within the plane orthogonal to
// its standard vector. The joint angle is measured anti-clockwise around the
// standard vector between the base->center and center->tip segments.
type torsionSpring struct {
	k0       float64
	k1       float64 // stiffening term, effective constant is k0 + k1*|angle|
	standard vec.Vec3
}

// verticalTorsion bends in the sagittal (x-z) plane around the y axis.
func verticalTorsion(k0, k1 float64) torsionSpring {
	return torsionSpring{k0: k0, k1: k1, standard: vec.New(0, 1, 0)}
}

// currentAngle returns the joint angle at center for the (base, center, tip)
// triple.
func (ts torsionSpring) currentAngle(base, center, tip vec.Vec3) float64 {
	return ts.angle(center.Sub(base), tip.Sub(center))
}

// forceOnDiscrepancy returns the forces on tip and base that drive a joint
// angle discrepancy (actual -> target) to zero. The reaction on center is
// -(tipForce + baseForce), applied by the caller.
func (ts torsionSpring) forceOnDiscrepancy(base, center, tip vec.Vec3, discrepancy float64) (tipForce, baseForce vec.Vec3) {
	if math.Abs(discrepancy) < minTorsionAngle {
		return vec.Zero(), vec.Zero()
	}
	k := ts.springConstant(discrepancy)
	// no sign flip: the discrepancy points from actual toward target
	tipForce = ts.normalVector(tip.Sub(center)).Scale(k * discrepancy)
	baseForce = ts.normalVector(center.Sub(base)).Scale(k * discrepancy)
	return tipForce, baseForce
}

// forceToTargetAngle returns the forces on tip and base pulling the joint
// toward targetAngle, with an additional damping torque folded in.
func (ts torsionSpring) forceToTargetAngle(base, center, tip vec.Vec3, currentAngle, targetAngle, dampingTorque float64) (tipForce, baseForce vec.Vec3) {
	diff := currentAngle - targetAngle
	var magnitude float64
	if math.Abs(diff) >= minTorsionAngle {
		magnitude = -ts.springConstant(diff) * diff
	}
	magnitude += dampingTorque
	if magnitude == 0 {
		return vec.Zero(), vec.Zero()
	}
	tipForce = ts.normalVector(tip.Sub(center)).Scale(magnitude)
	baseForce = ts.normalVector(center.Sub(base)).Scale(magnitude)
	return tipForce, baseForce
}

func (ts torsionSpring) springConstant(angle float64) float64 {
	return ts.k0 + ts.k1*math.Abs(angle)
}

// normalVector returns the unit vector orthogonal to v within the torsion
// plane, oriented anti-clockwise around the standard vector.
func (ts torsionSpring) normalVector(v vec.Vec3) vec.Vec3 {
	projected := ts.project(v)
	return ts.standard.Cross(projected).Scale(1 / projected.Norm())
}

// angle returns Arg(v1, v2) anti-clockwise around the standard vector,
// in (-pi, pi].
func (ts torsionSpring) angle(v1, v2 vec.Vec3) float64 {
	if ts.sin(v1, v2) >= 0 {
		return math.Acos(ts.cos(v1, v2))
	}
	return -math.Acos(ts.cos(v1, v2))
}

func (ts torsionSpring) cos(v1, v2 vec.Vec3) float64 {
	p1 := ts.project(v1)
	p2 := ts.project(v2)
	c := p1.Dot(p2) / (p1.Norm() * p2.Norm())
	return math.Max(-1, math.Min(1, c))
}

func (ts torsionSpring) sin(v1, v2 vec.Vec3) float64 {
	p1 := ts.project(v1)
	p2 := ts.project(v2)
	cross := p1.Cross(p2)
	s := cross.Norm() / (p1.Norm() * p2.Norm())
	if cross.Dot(ts.standard) < 0 {
		return -s
	}
	return s
}

// project drops the component of v along the standard vector.
func (ts torsionSpring) project(v vec.Vec3) vec.Vec3 {
	return v.Sub(ts.standard.Scale(ts.standard.Dot(v)))
}

// phaseToTargetAngle maps an oscillator phase onto a joint target angle
// within [romMin, romMax].
func phaseToTargetAngle(phase, romMin, romMax float64) float64 {
	return (romMax-romMin)*(1-math.Cos(phase))*0.5 + romMin
}
