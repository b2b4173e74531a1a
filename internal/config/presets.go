package config

import "sort"

// Presets are ready-made scenarios for the CLI.
var Presets = map[string]*Config{
	"crawl": {
		Segments:    5,
		Oscillators: []int{1, 2, 3},
		Grippers:    []int{0, 4},
		Driver:      "crawling",
		Dt:          0.001,
		Duration:    20.0,
		RecordEvery: 10,
		Gait:        GaitConfig{Amplitude: 0.5, Omega: 3.14159265, Lag: 0.9},
		Params:      map[string]float64{"torsion_k": 60},
	},
	"inch": {
		Segments:    5,
		Oscillators: []int{1, 2, 3},
		Grippers:    []int{0, 4},
		Driver:      "inching",
		Dt:          0.001,
		Duration:    20.0,
		RecordEvery: 10,
		Gait:        GaitConfig{Amplitude: 0.8, Omega: 3.14159265},
		Params:      map[string]float64{"torsion_k": 60, "rom_max": 1.2},
	},
	"climb": {
		Segments:     6,
		Oscillators:  []int{1, 2, 3, 4},
		Grippers:     []int{0, 2, 5},
		Driver:       "inching",
		Dt:           0.0005,
		Duration:     30.0,
		RecordEvery:  20,
		GravityAngle: 0.785398163, // 45 degree slope
		Gait:         GaitConfig{Amplitude: 0.6, Omega: 2.0},
		Params: map[string]float64{
			"torsion_k":               80,
			"gripping_shear_stress_k": 500,
		},
	},
	"free": {
		Segments:    8,
		Oscillators: []int{1, 2, 3, 4, 5, 6},
		Grippers:    nil,
		Driver:      "autonomous",
		Dt:          0.001,
		Duration:    15.0,
		RecordEvery: 10,
		Params:      map[string]float64{"phase_coupling_weight": 0.5},
	},
	"obstacle": {
		Segments:    5,
		Oscillators: []int{1, 2, 3},
		Grippers:    []int{0, 4},
		Driver:      "crawling",
		Dt:          0.001,
		Duration:    25.0,
		RecordEvery: 10,
		Gait:        GaitConfig{Amplitude: 0.5, Omega: 3.14159265, Lag: 0.9},
		Params:      map[string]float64{"torsion_k": 60},
		Terrain: []TerrainSection{
			{Start: 2.0, Height: 0.15},
			{Start: 3.0, Height: 0.0},
		},
	},
}

func GetPreset(name string) *Config {
	return Presets[name]
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
