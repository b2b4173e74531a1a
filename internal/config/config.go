package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/larvasim/internal/caterpillar"
)

const (
	DefaultDt          = 0.001
	DefaultDuration    = 10.0
	DefaultSegments    = 5
	DefaultRecordEvery = 10
	DefaultAmplitude   = 0.5
	DefaultOmega       = 3.14159265
	DefaultLag         = 0.9
)

// Config describes one simulation run: body layout, physical parameters,
// gait and terrain.
type Config struct {
	Segments    int     `yaml:"segments"`
	Oscillators []int   `yaml:"oscillators"`
	Grippers    []int   `yaml:"grippers"`
	Driver      string  `yaml:"driver"` // autonomous, inching, crawling or regulated
	Dt          float64 `yaml:"dt"`
	Duration    float64 `yaml:"duration"`
	RecordEvery int     `yaml:"record_every"`

	GravityAngle float64 `yaml:"gravity_angle"`

	Gait    GaitConfig    `yaml:"gait"`
	Control ControlConfig `yaml:"control"`

	// Params overrides individual physical constants; unknown keys are
	// rejected at body construction.
	Params map[string]float64 `yaml:"params"`

	Terrain []TerrainSection `yaml:"terrain"`
}

type GaitConfig struct {
	Amplitude float64 `yaml:"amplitude"`
	Omega     float64 `yaml:"omega"`
	Lag       float64 `yaml:"lag"`
}

// ControlConfig tunes the speed regulator of the "regulated" driver.
type ControlConfig struct {
	Kp          float64 `yaml:"kp"`
	Ki          float64 `yaml:"ki"`
	Kd          float64 `yaml:"kd"`
	TargetSpeed float64 `yaml:"target_speed"`
}

// TerrainSection is one stepwise section of the height field.
type TerrainSection struct {
	Start  float64 `yaml:"start"`
	Height float64 `yaml:"height"`
}

// DefaultConfig is a five-segment crawler on flat ground.
func DefaultConfig() *Config {
	return &Config{
		Segments:    DefaultSegments,
		Oscillators: []int{1, 2, 3},
		Grippers:    []int{0, 4},
		Driver:      "crawling",
		Dt:          DefaultDt,
		Duration:    DefaultDuration,
		RecordEvery: DefaultRecordEvery,
		Gait: GaitConfig{
			Amplitude: DefaultAmplitude,
			Omega:     DefaultOmega,
			Lag:       DefaultLag,
		},
		Control: ControlConfig{Kp: 0.5, Ki: 0.05, Kd: 0, TargetSpeed: 0.05},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// BuildTerrain materializes the configured height field; nil when the
// config leaves the ground flat.
func (c *Config) BuildTerrain() (*caterpillar.Terrain, error) {
	if len(c.Terrain) == 0 {
		return nil, nil
	}
	terrain := caterpillar.FlatTerrain()
	for _, section := range c.Terrain {
		if err := terrain.Set(section.Start, section.Height); err != nil {
			return nil, err
		}
	}
	return terrain, nil
}

// BuildBody constructs the caterpillar this config describes.
func (c *Config) BuildBody() (*caterpillar.Caterpillar, error) {
	terrain, err := c.BuildTerrain()
	if err != nil {
		return nil, err
	}
	body, err := caterpillar.NewFromMap(c.Segments, c.Oscillators, c.Grippers, c.Params, terrain)
	if err != nil {
		return nil, err
	}
	body.SetGravityAngle(c.GravityAngle)
	return body, nil
}

// JointCount is the number of interior joints the configured body has.
func (c *Config) JointCount() int {
	if c.Segments < 3 {
		return 0
	}
	return c.Segments - 2
}
