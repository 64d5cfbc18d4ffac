package sim

import (
	"errors"
	"fmt"
)

var ErrInvalidConfig = errors.New("sim: invalid config")

type Metric interface {
	Name() string
	Observe(s Sample)
	Value() float64
	Reset()
}

type Observer interface {
	OnSample(s Sample)
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(s Sample)

func (f ObserverFunc) OnSample(s Sample) { f(s) }

// Start is the initial condition of a flight.
type Start struct {
	Altitude float64 `yaml:"altitude"`
	Speed    float64 `yaml:"speed"`
	Power    float64 `yaml:"power"`
}

type Config struct {
	PhysicsDt     float64 `yaml:"physics_dt"`
	RenderDt      float64 `yaml:"render_dt"`
	Duration      float64 `yaml:"duration"`
	MaxSubSteps   int     `yaml:"max_sub_steps"`
	ValidateState bool    `yaml:"validate_state"`
	Start         Start   `yaml:"start"`
}

func DefaultConfig() Config {
	return Config{
		PhysicsDt:     1.0 / 120,
		RenderDt:      1.0 / 60,
		Duration:      30,
		MaxSubSteps:   64,
		ValidateState: true,
	}
}

func (c Config) Validate() error {
	if !(c.PhysicsDt > 0) {
		return fmt.Errorf("%w: physics dt must be positive, got %f", ErrInvalidConfig, c.PhysicsDt)
	}
	if !(c.RenderDt > 0) {
		return fmt.Errorf("%w: render dt must be positive, got %f", ErrInvalidConfig, c.RenderDt)
	}
	if !(c.Duration > 0) {
		return fmt.Errorf("%w: duration must be positive, got %f", ErrInvalidConfig, c.Duration)
	}
	if c.Start.Power < 0 || c.Start.Power > 1 {
		return fmt.Errorf("%w: start power must be in [0,1], got %f", ErrInvalidConfig, c.Start.Power)
	}
	return nil
}

// Frames is the number of render ticks in a full run.
func (c Config) Frames() int {
	return int(c.Duration/c.RenderDt + 1e-9)
}

type Result struct {
	Samples      []Sample
	Metrics      map[string]float64
	Frames       int
	PhysicsSteps int
	Clamped      int
	Dropped      int
	Errors       []error
}

// Final returns the last recorded sample.
func (r *Result) Final() Sample {
	if len(r.Samples) == 0 {
		return Sample{}
	}
	return r.Samples[len(r.Samples)-1]
}

type SimError struct {
	Time    float64
	Step    int
	Message string
}

func (e SimError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %s", e.Step, e.Time, e.Message)
}
