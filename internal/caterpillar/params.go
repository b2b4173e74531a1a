package caterpillar

import (
	"fmt"
	"math"
)

// Physical defaults, SI units.
const (
	DefaultSomiteMass             = 1.0           // kg
	DefaultSomiteRadius           = 0.1           // m
	DefaultNormalAngularVelocity  = math.Pi       // rad/s
	DefaultSpringNaturalLength    = 0.1           // m
	DefaultSpringK                = 100.0         // N/m
	DefaultDamperC                = 10.0          // Ns/m
	// stiction ceiling mu_s*m*g must stay below the stock torsion drive
	// or the autonomous gait never slips
	DefaultStaticFrictionCoeff    = 0.3           //
	DefaultDynamicFrictionCoeff   = 0.2           //
	DefaultViscosityFrictionCoeff = 5.0           // Ns/m
	DefaultTorsionK               = 60.0          // N/rad
	DefaultRangeOfMotionMax       = math.Pi * 0.5 // rad
	DefaultGripShearK             = 100.0         // N/m
	DefaultGripShearC             = 10.0          // Ns/m

	// GravitationalAcceleration is the standard gravity used for weight and
	// normal-load computation.
	GravitationalAcceleration = 9.8065 // m/s^2
)

// frictionSpeedEpsilon is the horizontal speed below which a somite is a
// candidate for the static friction regime.
const frictionSpeedEpsilon = 1e-5

// Params is the immutable physical parameter set of a Caterpillar.
type Params struct {
	SomiteMass             float64 `yaml:"somite_mass"`
	SomiteRadius           float64 `yaml:"somite_radius"`
	NormalAngularVelocity  float64 `yaml:"normal_angular_velocity"`
	SpringNaturalLength    float64 `yaml:"sp_natural_length"`
	SpringK                float64 `yaml:"sp_k"`
	DamperC                float64 `yaml:"dp_c"`
	StaticFrictionCoeff    float64 `yaml:"static_friction_coeff"`
	DynamicFrictionCoeff   float64 `yaml:"dynamic_friction_coeff"`
	ViscosityFrictionCoeff float64 `yaml:"viscosity_friction_coeff"`

	// Torsion actuation around interior joints.
	TorsionK        float64 `yaml:"torsion_k"`
	MaterialK0      float64 `yaml:"vertical_ts_k0"`
	MaterialK1      float64 `yaml:"vertical_ts_k1"`
	MaterialDamperC float64 `yaml:"vertical_ts_c"`

	// Oscillator range of motion mapped onto joint target angles.
	RangeOfMotionMin float64 `yaml:"rom_min"`
	RangeOfMotionMax float64 `yaml:"rom_max"`

	// Kuramoto coupling weight between neighboring oscillators.
	PhaseCouplingWeight float64 `yaml:"phase_coupling_weight"`

	// Gripper engagement.
	GrippingPhaseThreshold float64 `yaml:"gripping_phase_threshold"`
	GripShearK             float64 `yaml:"gripping_shear_stress_k"`
	GripShearC             float64 `yaml:"gripping_shear_stress_c"`
}

// DefaultParams returns the parameter set used by the stock crawling gait.
func DefaultParams() Params {
	return Params{
		SomiteMass:             DefaultSomiteMass,
		SomiteRadius:           DefaultSomiteRadius,
		NormalAngularVelocity:  DefaultNormalAngularVelocity,
		SpringNaturalLength:    DefaultSpringNaturalLength,
		SpringK:                DefaultSpringK,
		DamperC:                DefaultDamperC,
		StaticFrictionCoeff:    DefaultStaticFrictionCoeff,
		DynamicFrictionCoeff:   DefaultDynamicFrictionCoeff,
		ViscosityFrictionCoeff: DefaultViscosityFrictionCoeff,
		TorsionK:               DefaultTorsionK,
		RangeOfMotionMax:       DefaultRangeOfMotionMax,
		GripShearK:             DefaultGripShearK,
		GripShearC:             DefaultGripShearC,
	}
}

// Validate checks the required physical constants. Optional actuation and
// gripper fields may be zero or negative (thresholds are signed).
func (p Params) Validate() error {
	required := []struct {
		name  string
		value float64
	}{
		{"somite_mass", p.SomiteMass},
		{"somite_radius", p.SomiteRadius},
		{"normal_angular_velocity", p.NormalAngularVelocity},
		{"sp_natural_length", p.SpringNaturalLength},
		{"sp_k", p.SpringK},
		{"dp_c", p.DamperC},
		{"static_friction_coeff", p.StaticFrictionCoeff},
		{"dynamic_friction_coeff", p.DynamicFrictionCoeff},
		{"viscosity_friction_coeff", p.ViscosityFrictionCoeff},
	}
	for _, r := range required {
		if r.value <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %g", ErrInvalidParams, r.name, r.value)
		}
		if math.IsNaN(r.value) || math.IsInf(r.value, 0) {
			return fmt.Errorf("%w: %s is not finite", ErrInvalidParams, r.name)
		}
	}
	if p.RangeOfMotionMax < p.RangeOfMotionMin {
		return fmt.Errorf("%w: rom_max (%g) below rom_min (%g)", ErrInvalidParams, p.RangeOfMotionMax, p.RangeOfMotionMin)
	}
	return nil
}

// ParamsFromMap builds a Params from the string-keyed construction surface.
// Unknown keys are rejected; keys not present keep their defaults.
func ParamsFromMap(kv map[string]float64) (Params, error) {
	p := DefaultParams()
	for key, val := range kv {
		switch key {
		case "somite_mass":
			p.SomiteMass = val
		case "somite_radius":
			p.SomiteRadius = val
		case "normal_angular_velocity":
			p.NormalAngularVelocity = val
		case "sp_natural_length":
			p.SpringNaturalLength = val
		case "sp_k":
			p.SpringK = val
		case "dp_c":
			p.DamperC = val
		case "static_friction_coeff":
			p.StaticFrictionCoeff = val
		case "dynamic_friction_coeff":
			p.DynamicFrictionCoeff = val
		case "viscosity_friction_coeff":
			p.ViscosityFrictionCoeff = val
		case "torsion_k":
			p.TorsionK = val
		case "vertical_ts_k0":
			p.MaterialK0 = val
		case "vertical_ts_k1":
			p.MaterialK1 = val
		case "vertical_ts_c":
			p.MaterialDamperC = val
		case "rom_min":
			p.RangeOfMotionMin = val
		case "rom_max":
			p.RangeOfMotionMax = val
		case "phase_coupling_weight":
			p.PhaseCouplingWeight = val
		case "gripping_phase_threshold":
			p.GrippingPhaseThreshold = val
		case "gripping_shear_stress_k":
			p.GripShearK = val
		case "gripping_shear_stress_c":
			p.GripShearC = val
		default:
			return Params{}, fmt.Errorf("%w: unknown key %q", ErrInvalidParams, key)
		}
	}
	if err := p.Validate(); err != nil {
		return Params{}, err
	}
	return p, nil
}
