package caterpillar

import (
	"fmt"

	"github.com/san-kum/larvasim/internal/vec"
)

// FrictionRegime is the tangential contact state of a somite, recomputed
// from kinematics every step.
type FrictionRegime uint8

const (
	RegimeAirborne FrictionRegime = iota
	RegimeStatic
	RegimeDynamic
)

func (r FrictionRegime) String() string {
	switch r {
	case RegimeStatic:
		return "static"
	case RegimeDynamic:
		return "dynamic"
	default:
		return "airborne"
	}
}

// Somite is one point-mass body segment. All mutation happens through the
// owning Caterpillar; external callers only read.
type Somite struct {
	index  int
	mass   float64
	radius float64

	position vec.Vec3
	velocity vec.Vec3
	force    vec.Vec3 // resultant force of the last committed step

	regime FrictionRegime

	gripping  bool
	gripPoint vec.Vec3
}

func newSomite(index int, mass, radius float64, position vec.Vec3) *Somite {
	return &Somite{index: index, mass: mass, radius: radius, position: position}
}

func (s *Somite) Index() int         { return s.index }
func (s *Somite) Mass() float64      { return s.mass }
func (s *Somite) Radius() float64    { return s.radius }
func (s *Somite) Position() vec.Vec3 { return s.position }
func (s *Somite) Velocity() vec.Vec3 { return s.velocity }
func (s *Somite) Force() vec.Vec3    { return s.force }

// Regime returns the friction regime derived during the last step.
func (s *Somite) Regime() FrictionRegime { return s.regime }

// OnGround reports whether the somite rests on (or below) the given ground
// height.
func (s *Somite) OnGround(groundHeight float64) bool {
	return s.position.Z <= groundHeight+s.radius
}

func (s *Somite) IsGripping() bool { return s.gripping }

// GripPoint returns the substrate anchor and whether the somite currently
// grips.
func (s *Somite) GripPoint() (vec.Vec3, bool) {
	return s.gripPoint, s.gripping
}

// grip anchors the somite at its current position. The anchor is only set on
// the false->true transition.
func (s *Somite) grip() {
	if !s.gripping {
		s.gripping = true
		s.gripPoint = s.position
	}
}

func (s *Somite) release() { s.gripping = false }

func (s *Somite) String() string {
	return fmt.Sprintf("somite %d position: %v, velocity: %v, force: %v",
		s.index, s.position, s.velocity, s.force)
}
