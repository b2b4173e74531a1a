package caterpillar

import "github.com/san-kum/larvasim/internal/vec"

// frictionModel computes tangential ground-reaction forces. The regime
// (static hold vs dynamic slip) is recomputed from the current kinematic
// state every step; no hysteresis is kept across steps.
type frictionModel struct {
	staticCoeff    float64
	dynamicCoeff   float64
	viscosityCoeff float64

	gripShearK         float64
	gripShearC         float64
	gripPhaseThreshold float64
}

// contactForce returns the tangential force on a grounded somite and the
// regime it is in. drivingForce is the resultant of all non-frictional
// forces accumulated so far; velocity is the pre-update velocity of the
// somite (semi-implicit contact).
func (fm frictionModel) contactForce(s *Somite, normalLoad float64, drivingForce vec.Vec3) (vec.Vec3, FrictionRegime) {
	if anchor, ok := s.GripPoint(); ok {
		return fm.gripShearForce(anchor, s.Position(), s.Velocity()), RegimeStatic
	}

	velocity := s.Velocity().Horizontal()
	speed := velocity.Norm()
	driving := drivingForce.Horizontal()

	// viscous drag applies regardless of the slip state
	viscous := velocity.Scale(-fm.viscosityCoeff)

	ceiling := fm.staticCoeff * normalLoad
	if speed < frictionSpeedEpsilon && driving.Norm() <= ceiling {
		// exact stiction: cancel the horizontal driving force
		return driving.Scale(-1).Add(viscous), RegimeStatic
	}

	// direction of slip: the velocity if moving, otherwise the incipient
	// slip direction given by the driving force
	dir := velocity
	if speed < frictionSpeedEpsilon {
		dir = driving
	}
	n := dir.Norm()
	if n == 0 {
		return viscous, RegimeDynamic
	}
	slip := dir.Scale(-fm.dynamicCoeff * normalLoad / n)
	return slip.Add(viscous), RegimeDynamic
}

// gripShearForce is the substrate hold of an engaged gripper: a stiff shear
// spring-damper anchored at the grip point, acting in the ground plane.
func (fm frictionModel) gripShearForce(anchor, position, velocity vec.Vec3) vec.Vec3 {
	offset := position.Sub(anchor).Horizontal()
	return offset.Scale(-fm.gripShearK).Sub(velocity.Horizontal().Scale(fm.gripShearC))
}
