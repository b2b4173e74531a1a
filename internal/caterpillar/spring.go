package caterpillar

import "github.com/san-kum/larvasim/internal/vec"

// minSpringDistance guards the axial direction when two somites overlap
// exactly; below this separation the coupling force is taken as zero instead
// of dividing by a vanishing length.
const minSpringDistance = 1e-5

// coupling is the Kelvin-Voigt spring-damper between two adjacent somites.
type coupling struct {
	k             float64
	c             float64
	naturalLength float64
}

// force returns the axial force acting on tip. Positive direction is
// base -> tip; the force on base is the exact negative (Newton's third law
// is enforced by the caller applying +f and -f).
func (cp coupling) force(basePos, tipPos, baseVel, tipVel vec.Vec3) vec.Vec3 {
	axis := tipPos.Sub(basePos)
	length := axis.Norm()
	if length < minSpringDistance {
		// degenerate overlap, axial direction undefined
		return vec.Zero()
	}
	unit := axis.Scale(1 / length)
	stretch := length - cp.naturalLength
	axialVel := tipVel.Sub(baseVel).Dot(unit)
	return unit.Scale(-cp.k*stretch - cp.c*axialVel)
}

// tension returns the signed axial force magnitude carried by the coupling;
// positive when stretched.
func (cp coupling) tension(basePos, tipPos, baseVel, tipVel vec.Vec3) float64 {
	axis := tipPos.Sub(basePos)
	length := axis.Norm()
	if length < minSpringDistance {
		return 0
	}
	unit := axis.Scale(1 / length)
	axialVel := tipVel.Sub(baseVel).Dot(unit)
	return cp.k*(length-cp.naturalLength) + cp.c*axialVel
}
