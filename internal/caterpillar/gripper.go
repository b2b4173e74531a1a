package caterpillar

import "math"

// gripper is the substrate-adhesion mechanism of one somite. Its oscillator
// phase decides engagement: when sin(phase) drops below the threshold while
// the somite rests on the ground, the gripper anchors; when the phase leaves
// the window, it releases.
type gripper struct {
	somiteID  int
	osc       PhaseOscillator
	threshold float64
}

// update recomputes the engagement state and flips the somite's grip anchor
// accordingly.
func (g *gripper) update(s *Somite, onGround bool) {
	engaged := math.Sin(g.osc.Phase()) < g.threshold
	switch {
	case engaged && onGround && !s.IsGripping():
		s.grip()
	case !engaged && s.IsGripping():
		s.release()
	}
}
