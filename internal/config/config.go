package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/flightdyn/internal/rigidbody"
	"github.com/san-kum/flightdyn/internal/sim"
	"github.com/san-kum/flightdyn/internal/spring"
	"github.com/san-kum/flightdyn/internal/surfaces"
	"github.com/san-kum/flightdyn/internal/vehicle"
)

var ErrInvalid = errors.New("config: invalid")

type Config struct {
	Preset   string                 `yaml:"preset,omitempty"`
	Run      sim.Config             `yaml:"run"`
	Airplane vehicle.AirplaneConfig `yaml:"airplane"`
	Body     rigidbody.Config       `yaml:"body"`
	Script   sim.Script             `yaml:"script"`
}

func DefaultConfig() *Config {
	return &Config{
		Run:      sim.DefaultConfig(),
		Airplane: vehicle.DefaultAirplaneConfig(),
		Body:     rigidbody.DefaultConfig(),
	}
}

// Load reads a yaml file over the defaults, so omitted keys keep their
// default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
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

func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Validate checks everything a flight needs before any object is built.
func (c *Config) Validate() error {
	if err := c.Run.Validate(); err != nil {
		return fmt.Errorf("%w: run: %w", ErrInvalid, err)
	}
	if err := c.Script.Validate(); err != nil {
		return fmt.Errorf("%w: script: %w", ErrInvalid, err)
	}
	if err := c.Body.Validate(); err != nil {
		return fmt.Errorf("%w: body: %w", ErrInvalid, err)
	}

	axes := []struct {
		name string
		ax   surfaces.AxisConfig
	}{
		{"steering", c.Airplane.Surfaces.Steering},
		{"aileron", c.Airplane.Surfaces.Aileron},
		{"elevator", c.Airplane.Surfaces.Elevator},
		{"rudder", c.Airplane.Surfaces.Rudder},
	}
	for _, a := range axes {
		sp := a.ax.Spring
		if _, err := spring.New(sp.FrameRate, sp.Mass, sp.Damping); err != nil {
			return fmt.Errorf("%w: %s spring: %w", ErrInvalid, a.name, err)
		}
	}

	ae := c.Airplane.Aero
	switch {
	case !(ae.WingArea > 0):
		return fmt.Errorf("%w: wing area must be positive", ErrInvalid)
	case ae.StallSpeed < 0:
		return fmt.Errorf("%w: stall speed must not be negative", ErrInvalid)
	case !(ae.MaxStallAngle > 0) || ae.DeepStallAngle < ae.MaxStallAngle:
		return fmt.Errorf("%w: stall angles must satisfy 0 < max <= deep", ErrInvalid)
	case ae.MaxThrust < 0 || ae.SeaLevelDensity < 0:
		return fmt.Errorf("%w: thrust and density must not be negative", ErrInvalid)
	}

	en := c.Airplane.Engine
	if en.RampUp < 0 || en.RampDown < 0 {
		return fmt.Errorf("%w: engine ramp rates must not be negative", ErrInvalid)
	}
	return nil
}
