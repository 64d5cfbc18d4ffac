// Package engine models the throttle response: a clamped linear ramp of
// engine power that feeds thrust and the rotor spin angle.
package engine

import "math"

const (
	DefaultRampUp         = 0.4  // power units per second while controlled
	DefaultRampDown       = 0.12 // power units per second otherwise
	DefaultSpinMultiplier = 60.0 // rotor rad/s at full power
)

type Config struct {
	RampUp         float64 `yaml:"ramp_up"`
	RampDown       float64 `yaml:"ramp_down"`
	SpinMultiplier float64 `yaml:"spin_multiplier"`
}

func DefaultConfig() Config {
	return Config{
		RampUp:         DefaultRampUp,
		RampDown:       DefaultRampDown,
		SpinMultiplier: DefaultSpinMultiplier,
	}
}

type Model struct {
	cfg   Config
	power float64
	spin  float64
}

func New(cfg Config) *Model {
	return &Model{cfg: cfg}
}

// Update ramps power toward 1 while controlled and toward 0 otherwise, then
// advances the rotor angle.
func (m *Model) Update(dt float64, controlled bool) {
	if !(dt > 0) {
		return
	}
	if controlled {
		m.power = math.Min(1, m.power+m.cfg.RampUp*dt)
	} else {
		m.power = math.Max(0, m.power-m.cfg.RampDown*dt)
	}

	m.spin = math.Mod(m.spin+m.power*m.cfg.SpinMultiplier*dt, 2*math.Pi)
}

func (m *Model) Power() float64 { return m.power }

// SetPower clamps p into [0,1].
func (m *Model) SetPower(p float64) {
	if math.IsNaN(p) {
		return
	}
	m.power = math.Max(0, math.Min(1, p))
}

// SpinAngle is the rotor angle in [0, 2π).
func (m *Model) SpinAngle() float64 { return m.spin }

func (m *Model) Thrust(maxThrust float64) float64 {
	return m.power * maxThrust
}

func (m *Model) Reset() {
	m.power = 0
	m.spin = 0
}
