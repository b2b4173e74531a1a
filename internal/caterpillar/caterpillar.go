// Package caterpillar implements the segmented-body locomotion dynamics
// engine: a chain of point-mass somites coupled by spring-dampers, driven by
// phase oscillators and torsion actuators, in frictional contact with a
// stepwise terrain.
//
// A Caterpillar is the single owner of all mutable physical state. Stepping
// is synchronous and deterministic for identical inputs; instances are not
// safe for concurrent use.
package caterpillar

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/san-kum/larvasim/internal/vec"
)

// Caterpillar owns the somite chain and advances it with fixed-step
// semi-implicit Euler integration.
type Caterpillar struct {
	params   Params
	terrain  *Terrain
	friction frictionModel

	somites   []*Somite
	couplings []coupling

	oscillators   []PhaseOscillator
	oscillatorIDs []int // ascending somite indices
	oscBySomite   map[int]int

	grippers []gripper

	// per-oscillator upper bound of the joint range of motion
	oscillationRanges []float64

	// explicit target-angle overrides keyed by somite index
	targetAngles map[int]float64

	// externally injected forces, consumed by the next step
	pendingForces []vec.Vec3

	// per-step records for external reference
	tensions       []float64  // one per interior joint
	jointAngles    []float64  // one per interior joint
	prevJointAngles []float64 // previous step, for material damping
	distances      []float64  // one per coupling
	frictions      []vec.Vec3 // per somite
	gripForces     []vec.Vec3 // per somite

	gravityAngle float64
	stepCount    int
	simTime      float64

	// integration scratch, committed only when finite
	forces []vec.Vec3
	newPos []vec.Vec3
	newVel []vec.Vec3
}

// New constructs a caterpillar of somiteCount segments laid head-to-tail
// along the x axis. oscillatorIDs and gripperIDs select the segments bearing
// actuator oscillators and grippers. A nil terrain means flat ground at
// height 0.
func New(somiteCount int, oscillatorIDs, gripperIDs []int, params Params, terrain *Terrain) (*Caterpillar, error) {
	if somiteCount <= 0 {
		return nil, fmt.Errorf("%w: segment count must be positive, got %d", ErrInvalidSegments, somiteCount)
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	oscIDs, err := validateIndexSet("oscillator", oscillatorIDs, somiteCount)
	if err != nil {
		return nil, err
	}
	gripIDs, err := validateIndexSet("gripper", gripperIDs, somiteCount)
	if err != nil {
		return nil, err
	}
	if terrain == nil {
		terrain = FlatTerrain()
	}

	c := &Caterpillar{
		params:  params,
		terrain: terrain,
		friction: frictionModel{
			staticCoeff:        params.StaticFrictionCoeff,
			dynamicCoeff:       params.DynamicFrictionCoeff,
			viscosityCoeff:     params.ViscosityFrictionCoeff,
			gripShearK:         params.GripShearK,
			gripShearC:         params.GripShearC,
			gripPhaseThreshold: params.GrippingPhaseThreshold,
		},
		oscillatorIDs: oscIDs,
		oscBySomite:   make(map[int]int, len(oscIDs)),
		targetAngles:  make(map[int]float64),
	}

	// somites rest on the ground, ordered tail to head along x
	c.somites = make([]*Somite, somiteCount)
	for i := range c.somites {
		pos := vec.New(float64(i)*2*params.SomiteRadius, 0, params.SomiteRadius)
		c.somites[i] = newSomite(i, params.SomiteMass, params.SomiteRadius, pos)
	}

	// a simple chain: exactly N-1 couplings between adjacent somites
	c.couplings = make([]coupling, somiteCount-1)
	for i := range c.couplings {
		c.couplings[i] = coupling{
			k:             params.SpringK,
			c:             params.DamperC,
			naturalLength: params.SpringNaturalLength,
		}
	}

	c.oscillators = make([]PhaseOscillator, len(oscIDs))
	c.oscillationRanges = make([]float64, len(oscIDs))
	for i, id := range oscIDs {
		c.oscBySomite[id] = i
		c.oscillationRanges[i] = params.RangeOfMotionMax
	}

	c.grippers = make([]gripper, len(gripIDs))
	for i, id := range gripIDs {
		c.grippers[i] = gripper{somiteID: id, threshold: params.GrippingPhaseThreshold}
	}

	joints := c.jointCount()
	c.tensions = make([]float64, joints)
	c.jointAngles = make([]float64, joints)
	c.prevJointAngles = make([]float64, joints)
	c.distances = make([]float64, somiteCount-1)
	for i := range c.distances {
		c.distances[i] = 2 * params.SomiteRadius
	}
	c.pendingForces = make([]vec.Vec3, somiteCount)
	c.frictions = make([]vec.Vec3, somiteCount)
	c.gripForces = make([]vec.Vec3, somiteCount)
	c.forces = make([]vec.Vec3, somiteCount)
	c.newPos = make([]vec.Vec3, somiteCount)
	c.newVel = make([]vec.Vec3, somiteCount)

	return c, nil
}

// NewFromMap constructs a caterpillar from the string-keyed parameter
// surface; see ParamsFromMap for the recognized keys.
func NewFromMap(somiteCount int, oscillatorIDs, gripperIDs []int, kv map[string]float64, terrain *Terrain) (*Caterpillar, error) {
	params, err := ParamsFromMap(kv)
	if err != nil {
		return nil, err
	}
	return New(somiteCount, oscillatorIDs, gripperIDs, params, terrain)
}

func validateIndexSet(kind string, ids []int, somiteCount int) ([]int, error) {
	out := make([]int, len(ids))
	copy(out, ids)
	sort.Ints(out)
	for i, id := range out {
		if id < 0 || id >= somiteCount {
			return nil, fmt.Errorf("%w: %s index %d outside [0, %d)", ErrInvalidSegments, kind, id, somiteCount)
		}
		if i > 0 && out[i-1] == id {
			return nil, fmt.Errorf("%w: duplicate %s index %d", ErrInvalidSegments, kind, id)
		}
	}
	return out, nil
}

// jointCount is the number of interior joints carrying torsion actuation.
func (c *Caterpillar) jointCount() int {
	if len(c.somites) < 3 {
		return 0
	}
	return len(c.somites) - 2
}

// Step advances the simulation by dt using only the autonomous oscillator
// dynamics.
func (c *Caterpillar) Step(dt float64) error {
	if err := c.checkDt(dt); err != nil {
		return err
	}
	c.advanceOscillators(dt, nil)
	c.advanceGrippers(dt, nil)
	return c.update(dt)
}

// StepWithFeedbacks advances by dt with per-somite and per-gripper angular
// velocity feedback added to the oscillators. somiteFeedbacks must have one
// entry per somite (entries for somites without an oscillator are ignored);
// gripperFeedbacks must have one entry per gripper segment. A shape mismatch
// rejects the step before any state changes.
func (c *Caterpillar) StepWithFeedbacks(dt float64, somiteFeedbacks, gripperFeedbacks []float64) error {
	if err := c.checkDt(dt); err != nil {
		return err
	}
	if len(somiteFeedbacks) != len(c.somites) {
		return fmt.Errorf("%w: got %d somite feedbacks, want %d", ErrShapeMismatch, len(somiteFeedbacks), len(c.somites))
	}
	if len(gripperFeedbacks) != len(c.grippers) {
		return fmt.Errorf("%w: got %d gripper feedbacks, want %d", ErrShapeMismatch, len(gripperFeedbacks), len(c.grippers))
	}
	c.advanceOscillators(dt, somiteFeedbacks)
	c.advanceGrippers(dt, gripperFeedbacks)
	return c.update(dt)
}

// StepWithTargetAngles advances by dt driving the interior joints toward
// explicit target angles and pinning gripper oscillators to the supplied
// phases. targetAngles must have one entry per interior joint (somite count
// minus two); gripperPhases one entry per gripper segment.
func (c *Caterpillar) StepWithTargetAngles(dt float64, targetAngles, gripperPhases []float64) error {
	if err := c.checkDt(dt); err != nil {
		return err
	}
	if len(targetAngles) != c.jointCount() {
		return fmt.Errorf("%w: got %d target angles, want %d", ErrShapeMismatch, len(targetAngles), c.jointCount())
	}
	if len(gripperPhases) != len(c.grippers) {
		return fmt.Errorf("%w: got %d gripper phases, want %d", ErrShapeMismatch, len(gripperPhases), len(c.grippers))
	}
	for i, angle := range targetAngles {
		c.targetAngles[i+1] = angle
	}
	for i := range c.grippers {
		c.grippers[i].osc.setPhase(gripperPhases[i])
	}
	return c.update(dt)
}

func (c *Caterpillar) checkDt(dt float64) error {
	if dt <= 0 || math.IsNaN(dt) || math.IsInf(dt, 0) {
		return fmt.Errorf("%w: dt must be a positive real, got %g", ErrInvalidParams, dt)
	}
	return nil
}

// advanceOscillators steps every actuator oscillator at the intrinsic
// angular velocity plus feedback and Kuramoto neighbor coupling. All new
// phases are computed from the previous step's phases.
func (c *Caterpillar) advanceOscillators(dt float64, somiteFeedbacks []float64) {
	if len(c.oscillators) == 0 {
		return
	}
	prev := make([]float64, len(c.oscillators))
	for i := range c.oscillators {
		prev[i] = c.oscillators[i].Phase()
	}
	for i := range c.oscillators {
		omega := c.params.NormalAngularVelocity
		if somiteFeedbacks != nil {
			omega += somiteFeedbacks[c.oscillatorIDs[i]]
		}
		var neighbors []float64
		if i > 0 {
			neighbors = append(neighbors, prev[i-1])
		}
		if i < len(prev)-1 {
			neighbors = append(neighbors, prev[i+1])
		}
		omega += couplingTerm(prev[i], neighbors, c.params.PhaseCouplingWeight)
		c.oscillators[i].step(omega, dt)
	}
}

func (c *Caterpillar) advanceGrippers(dt float64, feedbacks []float64) {
	for i := range c.grippers {
		omega := c.params.NormalAngularVelocity
		if feedbacks != nil {
			omega += feedbacks[i]
		}
		c.grippers[i].osc.step(omega, dt)
	}
}

// update runs the shared stepping skeleton: gripper engagement, force
// accumulation, contact friction, integration, terrain resolution. Forces
// are fully computed before any somite state is written, and the integrated
// state is committed only if finite.
func (c *Caterpillar) update(dt float64) error {
	c.updateGrippers()

	for i := range c.forces {
		c.forces[i] = c.pendingForces[i]
		c.pendingForces[i] = vec.Zero()
	}
	c.addGravity()
	c.addCouplingForces()
	c.addTorsionForces(dt)
	c.addContactForces()
	c.maskForcesOnLanding()

	if err := c.integrate(dt); err != nil {
		return err
	}
	c.commit(dt)
	return nil
}

// updateGrippers recomputes engagement for every gripper-bearing somite.
func (c *Caterpillar) updateGrippers() {
	for i := range c.grippers {
		g := &c.grippers[i]
		s := c.somites[g.somiteID]
		g.update(s, c.terrain.OnGround(s))
	}
}

func (c *Caterpillar) addGravity() {
	g := GravitationalAcceleration
	cos, sin := math.Cos(c.gravityAngle), math.Sin(c.gravityAngle)
	for i, s := range c.somites {
		c.forces[i].Z -= g * s.Mass() * cos
		c.forces[i].X -= g * s.Mass() * sin
	}
}

// addCouplingForces applies the spring-damper force of each coupling as an
// equal and opposite pair on its two ends.
func (c *Caterpillar) addCouplingForces() {
	for i, cp := range c.couplings {
		base, tip := c.somites[i], c.somites[i+1]
		f := cp.force(base.Position(), tip.Position(), base.Velocity(), tip.Velocity())
		c.forces[i+1] = c.forces[i+1].Add(f)
		c.forces[i] = c.forces[i].Sub(f)
	}
}

// addTorsionForces applies material bending stiffness and oscillator-driven
// actuation around every interior joint, recording joint angles and actuator
// tensions.
func (c *Caterpillar) addTorsionForces(dt float64) {
	joints := c.jointCount()
	if joints == 0 {
		return
	}
	material := verticalTorsion(c.params.MaterialK0, c.params.MaterialK1)
	actuator := verticalTorsion(c.params.TorsionK, 0)

	for j := 0; j < joints; j++ {
		center := j + 1
		base := c.somites[center-1].Position()
		mid := c.somites[center].Position()
		tip := c.somites[center+1].Position()

		angle := actuator.currentAngle(base, mid, tip)
		c.jointAngles[j] = angle

		// passive material stiffness with angular velocity damping
		if c.params.MaterialK0 != 0 || c.params.MaterialK1 != 0 || c.params.MaterialDamperC != 0 {
			angularVelocity := (angle - c.prevJointAngles[j]) / dt
			dampingTorque := -c.params.MaterialDamperC * angularVelocity
			tipF, baseF := material.forceToTargetAngle(base, mid, tip, angle, 0, dampingTorque)
			c.applyJointForces(center, tipF, baseF)
		}
		c.prevJointAngles[j] = angle

		// actuator: drive toward the oscillator target or an explicit override
		target, driven := c.jointTarget(center)
		if !driven {
			c.tensions[j] = 0
			continue
		}
		discrepancy := target - angle
		tipF, baseF := actuator.forceOnDiscrepancy(base, mid, tip, discrepancy)
		c.applyJointForces(center, tipF, baseF)
		c.tensions[j] = sign(discrepancy) * tipF.Norm()
	}
}

// jointTarget resolves the target angle of the joint centered on somite id:
// an explicit override wins, otherwise the somite's oscillator phase maps
// into its range of motion.
func (c *Caterpillar) jointTarget(id int) (float64, bool) {
	if angle, ok := c.targetAngles[id]; ok {
		return angle, true
	}
	oi, ok := c.oscBySomite[id]
	if !ok {
		return 0, false
	}
	return phaseToTargetAngle(c.oscillators[oi].Phase(), c.params.RangeOfMotionMin, c.oscillationRanges[oi]), true
}

func (c *Caterpillar) applyJointForces(center int, tipF, baseF vec.Vec3) {
	c.forces[center-1] = c.forces[center-1].Add(baseF)
	c.forces[center] = c.forces[center].Sub(baseF.Add(tipF)) // reaction
	c.forces[center+1] = c.forces[center+1].Add(tipF)
}

// addContactForces folds in the tangential ground reaction per somite using
// pre-update velocities, recording friction and gripping forces for
// external reference.
func (c *Caterpillar) addContactForces() {
	cos := math.Cos(c.gravityAngle)
	for i, s := range c.somites {
		c.frictions[i] = vec.Zero()
		c.gripForces[i] = vec.Zero()

		if _, gripping := s.GripPoint(); gripping {
			f, _ := c.friction.contactForce(s, 0, c.forces[i])
			c.forces[i] = c.forces[i].Add(f)
			c.gripForces[i] = f
			s.regime = RegimeStatic
			continue
		}
		if !c.terrain.OnGround(s) {
			s.regime = RegimeAirborne
			continue
		}
		normalLoad := math.Max(0, s.Mass()*GravitationalAcceleration*cos)
		f, regime := c.friction.contactForce(s, normalLoad, c.forces[i])
		c.forces[i] = c.forces[i].Add(f)
		c.frictions[i] = f
		s.regime = regime
	}
}

// maskForcesOnLanding cancels downward force on grounded somites so contact
// does not inject energy; this must be the last force pass.
func (c *Caterpillar) maskForcesOnLanding() {
	for i, s := range c.somites {
		if c.terrain.OnGround(s) {
			c.forces[i].Z = math.Max(0, c.forces[i].Z)
		}
	}
}

// integrate performs semi-implicit Euler (velocity first, then position)
// into scratch buffers and validates finiteness; nothing is committed on
// failure.
func (c *Caterpillar) integrate(dt float64) error {
	for i, s := range c.somites {
		v := s.Velocity().Add(c.forces[i].Scale(dt / s.Mass()))
		if s.IsGripping() {
			// the anchor cancels vertical motion; record the reaction force
			// it supplies to do so
			c.gripForces[i].Z = -v.Z * s.Mass() / dt
			v.Z = 0
		} else if c.terrain.OnGround(s) {
			v.Z = math.Max(0, v.Z)
		}

		p := s.Position().Add(v.Scale(dt))
		if s.IsGripping() {
			p.Z = s.Position().Z
		}
		if c.terrain.BlocksForward(s) {
			// an obstacle ahead cancels further forward motion
			if p.X > s.Position().X {
				p.X = s.Position().X
				v.X = math.Min(0, v.X)
			}
		}
		// resolve terrain penetration: vertical correction plus zeroing of
		// the penetrating velocity component
		floor := c.terrain.HeightAt(p.X) + s.Radius()
		if p.Z < floor {
			p.Z = floor
			v.Z = math.Max(0, v.Z)
		}

		if !v.IsFinite() || !p.IsFinite() {
			return &StepError{Step: c.stepCount, Time: c.simTime, Wrapped: ErrUnstable}
		}
		c.newVel[i] = v
		c.newPos[i] = p
	}
	return nil
}

// commit writes the validated step results back into the somites and
// refreshes the derived per-step records.
func (c *Caterpillar) commit(dt float64) {
	for i, s := range c.somites {
		s.velocity = c.newVel[i]
		s.position = c.newPos[i]
		s.force = c.forces[i]
	}
	for i := range c.couplings {
		c.distances[i] = c.somites[i+1].Position().Sub(c.somites[i].Position()).Norm()
	}
	c.stepCount++
	c.simTime += dt
}

func sign(x float64) float64 {
	if x < 0 {
		return -1
	}
	return 1
}

// SetForceOnSomite accumulates an external force applied at the next step.
func (c *Caterpillar) SetForceOnSomite(somiteID int, f vec.Vec3) error {
	if somiteID < 0 || somiteID >= len(c.somites) {
		return fmt.Errorf("%w: somite index %d outside [0, %d)", ErrInvalidSegments, somiteID, len(c.somites))
	}
	c.pendingForces[somiteID] = c.pendingForces[somiteID].Add(f)
	return nil
}

// SetGravityAngle tilts gravity: 0 is flat ground, values toward pi climb,
// pi is upside-down.
func (c *Caterpillar) SetGravityAngle(angle float64) { c.gravityAngle = angle }

// SetTargetAngle overrides the joint target of an oscillator-bearing somite.
func (c *Caterpillar) SetTargetAngle(somiteID int, angle float64) error {
	if _, ok := c.oscBySomite[somiteID]; !ok {
		return fmt.Errorf("%w: segment %d", ErrNoOscillator, somiteID)
	}
	c.targetAngles[somiteID] = math.Mod(angle, twoPi)
	return nil
}

// SetGripperPhase pins the gripper oscillator on the given somite.
func (c *Caterpillar) SetGripperPhase(somiteID int, phase float64) error {
	for i := range c.grippers {
		if c.grippers[i].somiteID == somiteID {
			c.grippers[i].osc.setPhase(phase)
			return nil
		}
	}
	return fmt.Errorf("%w: segment %d holds no gripper", ErrNoOscillator, somiteID)
}

// SetGrippingPhaseThresholds replaces the engagement thresholds, one per
// gripper segment in index order.
func (c *Caterpillar) SetGrippingPhaseThresholds(thresholds []float64) error {
	if len(thresholds) != len(c.grippers) {
		return fmt.Errorf("%w: got %d thresholds, want %d", ErrShapeMismatch, len(thresholds), len(c.grippers))
	}
	for i, th := range thresholds {
		c.grippers[i].threshold = th
	}
	return nil
}

// SetOscillationRanges replaces the per-actuator range-of-motion bounds, one
// per oscillator segment in index order.
func (c *Caterpillar) SetOscillationRanges(ranges []float64) error {
	if len(ranges) != len(c.oscillators) {
		return fmt.Errorf("%w: got %d ranges, want %d", ErrShapeMismatch, len(ranges), len(c.oscillators))
	}
	copy(c.oscillationRanges, ranges)
	return nil
}

// SetPosition teleports a somite; intended for scenario setup, not stepping.
func (c *Caterpillar) SetPosition(somiteID int, p vec.Vec3) error {
	if somiteID < 0 || somiteID >= len(c.somites) {
		return fmt.Errorf("%w: somite index %d outside [0, %d)", ErrInvalidSegments, somiteID, len(c.somites))
	}
	c.somites[somiteID].position = p
	return nil
}

// Accessors. All are pure reads of committed state; slices are copies.

func (c *Caterpillar) SomiteCount() int   { return len(c.somites) }
func (c *Caterpillar) CouplingCount() int { return len(c.couplings) }
func (c *Caterpillar) GripperCount() int  { return len(c.grippers) }
func (c *Caterpillar) Params() Params     { return c.params }
func (c *Caterpillar) Time() float64      { return c.simTime }
func (c *Caterpillar) StepCount() int     { return c.stepCount }

// Somite returns the segment at index i for read access.
func (c *Caterpillar) Somite(i int) *Somite { return c.somites[i] }

// OscillatorIDs returns the somite indices bearing actuator oscillators.
func (c *Caterpillar) OscillatorIDs() []int {
	out := make([]int, len(c.oscillatorIDs))
	copy(out, c.oscillatorIDs)
	return out
}

// HeadPosition returns the position of the head (highest-index) somite.
func (c *Caterpillar) HeadPosition() vec.Vec3 {
	return c.somites[len(c.somites)-1].Position()
}

// CenterOfMass returns the mean somite position.
func (c *Caterpillar) CenterOfMass() vec.Vec3 {
	sum := vec.Zero()
	for _, s := range c.somites {
		sum = sum.Add(s.Position())
	}
	return sum.Scale(1 / float64(len(c.somites)))
}

// SomitePositions returns a copy of all somite positions, tail to head.
func (c *Caterpillar) SomitePositions() []vec.Vec3 {
	out := make([]vec.Vec3, len(c.somites))
	for i, s := range c.somites {
		out[i] = s.Position()
	}
	return out
}

// FrictionsX returns the x component of the last step's friction force per
// somite.
func (c *Caterpillar) FrictionsX() []float64 {
	out := make([]float64, len(c.frictions))
	for i, f := range c.frictions {
		out[i] = f.X
	}
	return out
}

// GrippingForceX returns the x component of the last step's gripper hold
// force per somite.
func (c *Caterpillar) GrippingForceX() []float64 {
	out := make([]float64, len(c.gripForces))
	for i, f := range c.gripForces {
		out[i] = f.X
	}
	return out
}

// GrippingForceZ returns the vertical reaction the grip anchor supplied in
// the last step, per somite; negative when the anchor held the somite down
// against a lifting force.
func (c *Caterpillar) GrippingForceZ() []float64 {
	out := make([]float64, len(c.gripForces))
	for i, f := range c.gripForces {
		out[i] = f.Z
	}
	return out
}

// Tensions returns the actuator tension per interior joint (somite count
// minus two entries; zero where no actuator drives the joint).
func (c *Caterpillar) Tensions() []float64 {
	out := make([]float64, len(c.tensions))
	copy(out, c.tensions)
	return out
}

// SomitePhases returns the phase of each actuator oscillator in segment
// order.
func (c *Caterpillar) SomitePhases() []float64 {
	out := make([]float64, len(c.oscillators))
	for i := range c.oscillators {
		out[i] = c.oscillators[i].Phase()
	}
	return out
}

// GripperPhases returns the phase of each gripper oscillator in segment
// order.
func (c *Caterpillar) GripperPhases() []float64 {
	out := make([]float64, len(c.grippers))
	for i := range c.grippers {
		out[i] = c.grippers[i].osc.Phase()
	}
	return out
}

// SomiteDistances returns the distance between each adjacent somite pair.
func (c *Caterpillar) SomiteDistances() []float64 {
	out := make([]float64, len(c.distances))
	copy(out, c.distances)
	return out
}

// SomiteAngles returns the joint angle around each interior somite.
func (c *Caterpillar) SomiteAngles() []float64 {
	out := make([]float64, len(c.jointAngles))
	copy(out, c.jointAngles)
	return out
}

// IsOnGround reports whether any somite rests on the terrain.
func (c *Caterpillar) IsOnGround() bool {
	for _, s := range c.somites {
		if c.terrain.OnGround(s) {
			return true
		}
	}
	return false
}

// IsHeadBlocked reports whether the head somite faces an obstacle it cannot
// pass.
func (c *Caterpillar) IsHeadBlocked() bool {
	return c.terrain.BlocksForward(c.somites[len(c.somites)-1])
}

// Energy returns the total mechanical energy: kinetic plus axial spring
// potential plus gravitational potential.
func (c *Caterpillar) Energy() float64 {
	e := 0.0
	cos, sin := math.Cos(c.gravityAngle), math.Sin(c.gravityAngle)
	for _, s := range c.somites {
		v := s.Velocity()
		e += 0.5 * s.Mass() * v.Dot(v)
		p := s.Position()
		e += s.Mass() * GravitationalAcceleration * (p.Z*cos + p.X*sin)
	}
	for i, cp := range c.couplings {
		stretch := c.somites[i+1].Position().Sub(c.somites[i].Position()).Norm() - cp.naturalLength
		e += 0.5 * cp.k * stretch * stretch
	}
	return e
}

// ShowPositions returns a human-readable dump of all somite states.
func (c *Caterpillar) ShowPositions() string {
	var b strings.Builder
	b.WriteString("Positions of somites\n")
	for _, s := range c.somites {
		fmt.Fprintf(&b, "%s\n", s)
	}
	return b.String()
}
