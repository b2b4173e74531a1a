package caterpillar_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/larvasim/internal/caterpillar"
	"github.com/san-kum/larvasim/internal/vec"
)

var _ = Describe("Caterpillar", func() {
	const dt = 0.005

	newBody := func() *caterpillar.Caterpillar {
		c, err := caterpillar.New(5, []int{1, 2, 3}, []int{0, 4}, caterpillar.DefaultParams(), nil)
		Expect(err).NotTo(HaveOccurred())
		return c
	}

	Describe("autonomous stepping", func() {
		It("keeps all somite state finite over a long run", func() {
			c := newBody()
			for i := 0; i < 4000; i++ {
				Expect(c.Step(dt)).To(Succeed())
			}
			for _, p := range c.SomitePositions() {
				Expect(p.IsFinite()).To(BeTrue())
			}
			Expect(c.Time()).To(BeNumerically("~", 4000*dt, 1e-9))
		})

		It("moves the center of mass with no external control", func() {
			c, err := caterpillar.New(5, []int{1, 2, 3}, nil, caterpillar.DefaultParams(), nil)
			Expect(err).NotTo(HaveOccurred())

			start := c.CenterOfMass().X
			for i := 0; i < 5000; i++ {
				Expect(c.Step(0.01)).To(Succeed())
			}

			// the oscillator drive alone must produce net travel, and the
			// travel must stay bounded
			disp := math.Abs(c.CenterOfMass().X - start)
			Expect(disp).To(BeNumerically(">", 0.01))
			Expect(disp).To(BeNumerically("<", 5.0))
			for _, p := range c.SomitePositions() {
				Expect(p.IsFinite()).To(BeTrue())
			}
		})

		It("keeps every oscillator phase inside [0, 2pi)", func() {
			c := newBody()
			for i := 0; i < 1000; i++ {
				Expect(c.Step(dt)).To(Succeed())
				for _, phase := range c.SomitePhases() {
					Expect(phase).To(And(
						BeNumerically(">=", 0),
						BeNumerically("<", 2*math.Pi),
					))
				}
				for _, phase := range c.GripperPhases() {
					Expect(phase).To(And(
						BeNumerically(">=", 0),
						BeNumerically("<", 2*math.Pi),
					))
				}
			}
		})

		It("never lets a somite sink below the ground", func() {
			c := newBody()
			radius := c.Params().SomiteRadius
			for i := 0; i < 2000; i++ {
				Expect(c.Step(dt)).To(Succeed())
				for _, p := range c.SomitePositions() {
					Expect(p.Z).To(BeNumerically(">=", radius-1e-9))
				}
			}
		})

		It("preserves the chain connectivity", func() {
			c := newBody()
			natural := c.Params().SpringNaturalLength
			for i := 0; i < 2000; i++ {
				Expect(c.Step(dt)).To(Succeed())
			}
			for _, d := range c.SomiteDistances() {
				// a coupling may stretch under load but must not tear apart
				Expect(d).To(BeNumerically("<", 20*natural))
				Expect(d).To(BeNumerically(">", 0))
			}
		})
	})

	Describe("gripping", func() {
		It("anchors an engaged gripper against a strong pull", func() {
			params := caterpillar.DefaultParams()
			params.GripShearK = 1000
			c, err := caterpillar.New(3, []int{1}, []int{0}, params, nil)
			Expect(err).NotTo(HaveOccurred())

			// pin the gripper into its engagement window
			Expect(c.SetGripperPhase(0, 1.5*math.Pi)).To(Succeed())
			Expect(c.SetForceOnSomite(0, vec.New(200, 0, 0))).To(Succeed())
			Expect(c.StepWithTargetAngles(dt, []float64{0}, []float64{1.5 * math.Pi})).To(Succeed())

			Expect(c.Somite(0).IsGripping()).To(BeTrue())
			start := c.Somite(0).Position().X
			for i := 0; i < 200; i++ {
				Expect(c.StepWithTargetAngles(dt, []float64{0}, []float64{1.5 * math.Pi})).To(Succeed())
			}
			// the shear spring holds the somite near its anchor
			Expect(c.Somite(0).Position().X).To(BeNumerically("~", start, 0.1))
		})

		It("releases when the phase leaves the gripping window", func() {
			c, err := caterpillar.New(3, []int{1}, []int{0}, caterpillar.DefaultParams(), nil)
			Expect(err).NotTo(HaveOccurred())

			Expect(c.StepWithTargetAngles(dt, []float64{0}, []float64{1.5 * math.Pi})).To(Succeed())
			Expect(c.Somite(0).IsGripping()).To(BeTrue())

			Expect(c.StepWithTargetAngles(dt, []float64{0}, []float64{0.5 * math.Pi})).To(Succeed())
			Expect(c.Somite(0).IsGripping()).To(BeFalse())
		})
	})

	Describe("actuated locomotion", func() {
		It("moves the body forward with an inching gait", func() {
			c := newBody()

			start := c.CenterOfMass().X
			// alternate gripping tail/head while arching the body: grip the
			// tail as the arch forms, grip the head as it flattens
			for i := 0; i < 3000; i++ {
				phase := math.Mod(float64(i)*math.Pi*dt, 2*math.Pi)
				arch := (1 - math.Cos(phase)) * 0.25
				tailPhase := phase + math.Pi
				headPhase := phase
				err := c.StepWithTargetAngles(dt,
					[]float64{arch, arch, arch},
					[]float64{tailPhase, headPhase})
				Expect(err).To(Succeed())
			}

			// asymmetric gripping must rectify the oscillation into net motion
			Expect(c.CenterOfMass().X).NotTo(BeNumerically("~", start, 1e-6))
			for _, p := range c.SomitePositions() {
				Expect(p.IsFinite()).To(BeTrue())
			}
		})

		It("reports the head blocked at a wall", func() {
			terrain, err := caterpillar.NewTerrain(map[float64]float64{0.9: 5})
			Expect(err).NotTo(HaveOccurred())
			c, err := caterpillar.New(5, []int{1, 2, 3}, nil, caterpillar.DefaultParams(), terrain)
			Expect(err).NotTo(HaveOccurred())

			Expect(c.IsHeadBlocked()).To(BeTrue())
			for i := 0; i < 500; i++ {
				Expect(c.SetForceOnSomite(4, vec.New(100, 0, 0))).To(Succeed())
				Expect(c.Step(dt)).To(Succeed())
			}
			// the head may chatter at the base of the wall but never passes it
			Expect(c.HeadPosition().X).To(BeNumerically("<", 0.9))
			Expect(c.HeadPosition().Z).To(BeNumerically("<", 1))
		})

		It("slides back down a slope too steep for its friction", func() {
			params := caterpillar.DefaultParams()
			params.StaticFrictionCoeff = 0.1
			params.DynamicFrictionCoeff = 0.05
			params.ViscosityFrictionCoeff = 0.1
			c, err := caterpillar.New(3, nil, nil, params, nil)
			Expect(err).NotTo(HaveOccurred())

			c.SetGravityAngle(math.Pi / 4)
			start := c.CenterOfMass().X
			for i := 0; i < 500; i++ {
				Expect(c.Step(dt)).To(Succeed())
			}
			Expect(c.CenterOfMass().X).To(BeNumerically("<", start))
		})
	})
})
