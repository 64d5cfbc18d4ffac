package sim

import (
	"context"
	"errors"
	"math"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"

	"github.com/san-kum/flightdyn/internal/input"
	"github.com/san-kum/flightdyn/internal/rigidbody"
	"github.com/san-kum/flightdyn/internal/vehicle"
)

func newTestRunner(t *testing.T, script Script, cfg Config) *Runner {
	t.Helper()
	f, err := NewFlight(vehicle.DefaultAirplaneConfig(), rigidbody.DefaultConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("flight: %v", err)
	}
	r, err := NewRunner(f, script, cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("runner: %v", err)
	}
	return r
}

func shortConfig(duration float64) Config {
	cfg := DefaultConfig()
	cfg.Duration = duration
	return cfg
}

type countingMetric struct {
	n     int
	reset int
}

func (c *countingMetric) Name() string   { return "count" }
func (c *countingMetric) Observe(Sample) { c.n++ }
func (c *countingMetric) Value() float64 { return float64(c.n) }
func (c *countingMetric) Reset()         { c.n = 0; c.reset++ }

func TestRunnerRun(t *testing.T) {
	r := newTestRunner(t, nil, shortConfig(1.0))
	m := &countingMetric{}
	r.AddMetric(m)

	var observed int
	r.AddObserver(ObserverFunc(func(Sample) { observed++ }))

	result, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if result.Frames != 60 {
		t.Errorf("expected 60 frames, got %d", result.Frames)
	}
	if len(result.Samples) != 61 {
		t.Errorf("expected 61 samples, got %d", len(result.Samples))
	}
	if result.PhysicsSteps < 119 || result.PhysicsSteps > 120 {
		t.Errorf("expected ~120 physics steps, got %d", result.PhysicsSteps)
	}
	if observed != 60 || result.Metrics["count"] != 60 {
		t.Errorf("observer saw %d, metric %f; want 60", observed, result.Metrics["count"])
	}
	if got := result.Final().Time; math.Abs(got-1.0) > 1e-9 {
		t.Errorf("final time = %f", got)
	}
	if len(result.Errors) != 0 {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
}

func TestRunnerInvalidConfig(t *testing.T) {
	f, err := NewFlight(vehicle.DefaultAirplaneConfig(), rigidbody.DefaultConfig(), zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero physics dt", func(c *Config) { c.PhysicsDt = 0 }},
		{"negative render dt", func(c *Config) { c.RenderDt = -0.1 }},
		{"zero duration", func(c *Config) { c.Duration = 0 }},
		{"nan duration", func(c *Config) { c.Duration = math.NaN() }},
		{"power above one", func(c *Config) { c.Start.Power = 1.5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if _, err := NewRunner(f, nil, cfg, zerolog.Nop()); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}

	bad := Script{{Start: 0, Actions: []string{"barrelRoll"}}}
	if _, err := NewRunner(f, bad, DefaultConfig(), zerolog.Nop()); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("unknown action should be rejected, got %v", err)
	}
}

func TestRunnerCancel(t *testing.T) {
	r := newTestRunner(t, nil, shortConfig(10))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := r.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if result == nil || result.Frames != 0 {
		t.Errorf("cancelled run should stop before the first frame")
	}
}

func TestRunnerStopsOnInvalidState(t *testing.T) {
	cfg := shortConfig(1)
	cfg.Start = Start{Altitude: 100, Speed: math.NaN()}
	r := newTestRunner(t, nil, cfg)

	result, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("run should report state errors in the result, got %v", err)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("expected one error, got %v", result.Errors)
	}
	var simErr SimError
	if !errors.As(result.Errors[0], &simErr) {
		t.Fatalf("expected SimError, got %T", result.Errors[0])
	}
	if simErr.Step != 1 {
		t.Errorf("expected failure on step 1, got %d", simErr.Step)
	}
	if result.Frames != 1 {
		t.Errorf("frames = %d, want 1", result.Frames)
	}
}

func TestRunnerThrottleOnRunway(t *testing.T) {
	script := Script{{Start: 0, Actions: []string{"throttle"}, Controlled: true}}
	r := newTestRunner(t, script, shortConfig(5))

	result, err := r.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	first, last := result.Samples[0], result.Final()
	if first.Wheels != rigidbody.GroundWheels {
		t.Errorf("flight should start on the gear, wheels=%d", first.Wheels)
	}
	if last.Power != 1 {
		t.Errorf("engine should be at full power after 5s, got %f", last.Power)
	}
	if last.Speed < 5 {
		t.Errorf("expected the aircraft to roll forward, speed=%f", last.Speed)
	}
	if last.Velocity.Z() <= 0 {
		t.Errorf("expected forward motion along +Z, v=%v", last.Velocity)
	}
}

func TestRunnerUncontrolledGlideDescends(t *testing.T) {
	cfg := shortConfig(5)
	cfg.Start = Start{Altitude: 300, Speed: 40}
	r := newTestRunner(t, nil, cfg)

	result, err := r.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	last := result.Final()
	if last.Altitude >= 300 {
		t.Errorf("unpowered glide should lose height, altitude=%f", last.Altitude)
	}
	if last.Power != 0 {
		t.Errorf("uncontrolled engine should stay off, power=%f", last.Power)
	}
	if last.Wheels != 0 {
		t.Error("should still be airborne")
	}
}

func TestRunnerSurfacesFollowScript(t *testing.T) {
	script := Script{
		{Start: 0, End: 1, Actions: []string{"pitchUp"}, Controlled: true},
		{Start: 1, Actions: []string{"pitch_down"}, Controlled: true},
	}
	cfg := shortConfig(2)
	cfg.Start = Start{Altitude: 500, Speed: 45, Power: 1}
	r := newTestRunner(t, script, cfg)

	var atOne Sample
	r.AddObserver(ObserverFunc(func(s Sample) {
		if math.Abs(s.Time-1) < 1e-9 {
			atOne = s
		}
	}))

	result, err := r.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	deflection := vehicle.DefaultAirplaneConfig().Surfaces.Elevator.Deflection
	if atOne.Elevator < 0.9*deflection {
		t.Errorf("elevator at t=1 = %f, want near %f", atOne.Elevator, deflection)
	}
	if last := result.Final(); last.Elevator > -0.9*deflection {
		t.Errorf("elevator at end = %f, want near %f", last.Elevator, -deflection)
	}
}

func TestRunnerStepAndReset(t *testing.T) {
	r := newTestRunner(t, nil, shortConfig(0.1))
	for !r.Done() {
		if _, err := r.Step(); err != nil {
			t.Fatal(err)
		}
	}
	if r.Frame() != 6 {
		t.Errorf("frame = %d, want 6", r.Frame())
	}

	r.Reset()
	if r.Frame() != 0 || r.Time() != 0 || r.Done() {
		t.Errorf("reset should rewind the clock, frame=%d", r.Frame())
	}
	if r.Flight().Vehicle.Input() != (input.State{}) {
		t.Error("reset should release every input")
	}
}

func TestRunBatch(t *testing.T) {
	var built atomic.Int32
	builder := func(speed float64) Builder {
		return func() (*Runner, error) {
			built.Add(1)
			f, err := NewFlight(vehicle.DefaultAirplaneConfig(), rigidbody.DefaultConfig(), zerolog.Nop())
			if err != nil {
				return nil, err
			}
			cfg := shortConfig(0.5)
			cfg.Start = Start{Altitude: 200, Speed: speed}
			return NewRunner(f, nil, cfg, zerolog.Nop())
		}
	}

	results, err := RunBatch(context.Background(), []Builder{builder(20), builder(40), builder(60)})
	if err != nil {
		t.Fatalf("batch failed: %v", err)
	}
	if built.Load() != 3 || len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i, res := range results {
		if res.Frames != 30 {
			t.Errorf("run %d: frames = %d", i, res.Frames)
		}
	}
	if !(results[0].Samples[0].Speed < results[2].Samples[0].Speed) {
		t.Error("results should stay in builder order")
	}

	failing := func() (*Runner, error) { return nil, errors.New("boom") }
	if _, err := RunBatch(context.Background(), []Builder{builder(30), failing}); err == nil {
		t.Error("expected builder error to propagate")
	}
}

func BenchmarkRunnerStep(b *testing.B) {
	f, _ := NewFlight(vehicle.DefaultAirplaneConfig(), rigidbody.DefaultConfig(), zerolog.Nop())
	cfg := DefaultConfig()
	cfg.Duration = 1e9
	cfg.Start = Start{Altitude: 1000, Speed: 50, Power: 1}
	r, _ := NewRunner(f, Script{{Start: 0, Actions: []string{"throttle"}, Controlled: true}}, cfg, zerolog.Nop())

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = r.Step()
	}
}
