// Package config defines the simulation configuration loaded from YAML files
// or built-in presets.
package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/csnje/lbflow/internal/geometry"
	"github.com/csnje/lbflow/internal/lattice"
)

const (
	DefaultDensity   = 1.0
	DefaultReynolds  = 200.0
	DefaultTicks     = 5000
	DefaultDrawEvery = 10
)

type Config struct {
	Size       []int            `yaml:"size"`
	Boundaries []BoundaryConfig `yaml:"boundaries"`
	Density    float64          `yaml:"density"`
	Velocity   []float64        `yaml:"velocity"`
	Reynolds   float64          `yaml:"reynolds"`
	Ticks      int              `yaml:"ticks"`
	DrawEvery  int              `yaml:"draw_every"`
	Obstacle   ObstacleConfig   `yaml:"obstacle"`
}

// BoundaryConfig names the low-side and high-side schemes of one dimension.
type BoundaryConfig struct {
	Low  string `yaml:"low"`
	High string `yaml:"high"`
}

type ObstacleConfig struct {
	Kind      string  `yaml:"kind"` // none, circle, airfoil
	X         float64 `yaml:"x"`
	Y         float64 `yaml:"y"`
	Radius    float64 `yaml:"radius"`     // circle
	Chord     float64 `yaml:"chord"`      // airfoil
	Camber    float64 `yaml:"camber"`     // airfoil, fraction of chord
	CamberPos float64 `yaml:"camber_pos"` // airfoil, fraction of chord
	Thickness float64 `yaml:"thickness"`  // airfoil, fraction of chord
	AttackDeg float64 `yaml:"attack_deg"` // airfoil angle of attack, degrees
}

// DefaultConfig is channel flow past a cylinder: open in x, free-slip walls
// in y, circle at a quarter length.
func DefaultConfig() *Config {
	return &Config{
		Size: []int{401, 201},
		Boundaries: []BoundaryConfig{
			{Low: "inflow", High: "outflow"},
			{Low: "specular", High: "specular"},
		},
		Density:   DefaultDensity,
		Velocity:  []float64{0.1, 0},
		Reynolds:  DefaultReynolds,
		Ticks:     DefaultTicks,
		DrawEvery: DefaultDrawEvery,
		Obstacle: ObstacleConfig{
			Kind:   "circle",
			X:      401.0 / 4.0,
			Y:      201.0 / 2.0,
			Radius: 201.0 / 10.0,
		},
	}
}

// Load reads a YAML config file on top of the defaults and validates it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config as YAML.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks structural consistency; numerical validity is left to the
// lattice constructor.
func (c *Config) Validate() error {
	if len(c.Size) == 0 {
		return fmt.Errorf("config: no grid size")
	}
	if len(c.Boundaries) != len(c.Size) {
		return fmt.Errorf("config: %d boundary pairs for %d dimensions", len(c.Boundaries), len(c.Size))
	}
	if len(c.Velocity) != len(c.Size) {
		return fmt.Errorf("config: %d velocity components for %d dimensions", len(c.Velocity), len(c.Size))
	}
	if c.Ticks < 0 {
		return fmt.Errorf("config: negative tick count %d", c.Ticks)
	}
	if c.Reynolds <= 0 {
		return fmt.Errorf("config: reynolds number must be positive, got %v", c.Reynolds)
	}
	if _, err := c.Bounds(); err != nil {
		return err
	}
	if _, err := c.Shapes(); err != nil {
		return err
	}
	return nil
}

// Bounds parses the boundary scheme names.
func (c *Config) Bounds() ([][2]lattice.Scheme, error) {
	out := make([][2]lattice.Scheme, len(c.Boundaries))
	for d, b := range c.Boundaries {
		low, err := lattice.ParseScheme(b.Low)
		if err != nil {
			return nil, err
		}
		high, err := lattice.ParseScheme(b.High)
		if err != nil {
			return nil, err
		}
		out[d] = [2]lattice.Scheme{low, high}
	}
	return out, nil
}

// Shapes builds the configured obstacle shapes.
func (c *Config) Shapes() ([]geometry.Shape, error) {
	switch c.Obstacle.Kind {
	case "", "none":
		return nil, nil
	case "circle":
		return []geometry.Shape{
			geometry.NewCircle([]float64{c.Obstacle.X, c.Obstacle.Y}, c.Obstacle.Radius),
		}, nil
	case "airfoil":
		return []geometry.Shape{
			geometry.NewNACA4(
				[2]float64{c.Obstacle.X, c.Obstacle.Y},
				c.Obstacle.Chord,
				c.Obstacle.Camber,
				c.Obstacle.CamberPos,
				c.Obstacle.Thickness,
				c.Obstacle.AttackDeg*math.Pi/180,
			),
		}, nil
	default:
		return nil, fmt.Errorf("config: unknown obstacle kind %q", c.Obstacle.Kind)
	}
}

// Speed returns the magnitude of the initial velocity.
func (c *Config) Speed() float64 {
	sum := 0.0
	for _, v := range c.Velocity {
		sum += v * v
	}
	return math.Sqrt(sum)
}

// CharacteristicLength returns the obstacle's characteristic length, falling
// back to the smallest grid dimension when no obstacle is configured.
func (c *Config) CharacteristicLength() float64 {
	shapes, err := c.Shapes()
	if err == nil && len(shapes) > 0 {
		return shapes[0].CharacteristicLength()
	}
	min := c.Size[0]
	for _, s := range c.Size[1:] {
		if s < min {
			min = s
		}
	}
	return float64(min)
}
