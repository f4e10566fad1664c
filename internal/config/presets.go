package config

import "sort"

// Presets are ready-made flow scenarios keyed by name.
var Presets = map[string]*Config{
	"cylinder": {
		Size: []int{401, 201},
		Boundaries: []BoundaryConfig{
			{Low: "inflow", High: "outflow"},
			{Low: "specular", High: "specular"},
		},
		Density:   1.0,
		Velocity:  []float64{0.1, 0},
		Reynolds:  200,
		Ticks:     5000,
		DrawEvery: 10,
		Obstacle: ObstacleConfig{
			Kind:   "circle",
			X:      401.0 / 4.0,
			Y:      201.0 / 2.0,
			Radius: 201.0 / 10.0,
		},
	},
	"airfoil": {
		Size: []int{401, 201},
		Boundaries: []BoundaryConfig{
			{Low: "inflow", High: "outflow"},
			{Low: "specular", High: "specular"},
		},
		Density:   1.0,
		Velocity:  []float64{0.1, 0},
		Reynolds:  500,
		Ticks:     5000,
		DrawEvery: 10,
		Obstacle: ObstacleConfig{
			Kind:      "airfoil",
			X:         401.0 / 5.0,
			Y:         201.0 / 2.0,
			Chord:     201.0 / 2.0,
			Camber:    0.02,
			CamberPos: 0.4,
			Thickness: 0.12,
			AttackDeg: 8,
		},
	},
	// Empty channel with free-slip walls, useful as a sanity baseline.
	"channel": {
		Size: []int{301, 101},
		Boundaries: []BoundaryConfig{
			{Low: "inflow", High: "outflow"},
			{Low: "specular", High: "specular"},
		},
		Density:   1.0,
		Velocity:  []float64{0.1, 0},
		Reynolds:  100,
		Ticks:     2000,
		DrawEvery: 10,
		Obstacle:  ObstacleConfig{Kind: "none"},
	},
	// Closed box with no-slip walls, flow decays from the initial push.
	"cavity": {
		Size: []int{201, 201},
		Boundaries: []BoundaryConfig{
			{Low: "bounce-back", High: "bounce-back"},
			{Low: "bounce-back", High: "bounce-back"},
		},
		Density:   1.0,
		Velocity:  []float64{0.1, 0},
		Reynolds:  100,
		Ticks:     2000,
		DrawEvery: 10,
		Obstacle:  ObstacleConfig{Kind: "none"},
	},
}

func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
