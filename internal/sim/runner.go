package sim

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"

	"github.com/san-kum/flightdyn/internal/input"
	"github.com/san-kum/flightdyn/internal/rigidbody"
	"github.com/san-kum/flightdyn/internal/scene"
	"github.com/san-kum/flightdyn/internal/vehicle"
)

// Flight bundles one airframe: the generic vehicle, its airplane strategy
// and the rigid body it flies.
type Flight struct {
	Vehicle  *vehicle.Vehicle
	Airplane *vehicle.Airplane
	Body     *rigidbody.Body
}

func NewFlight(ac vehicle.AirplaneConfig, bc rigidbody.Config, log zerolog.Logger) (*Flight, error) {
	plane, err := vehicle.NewAirplane(ac, scene.NewRegistry(), log)
	if err != nil {
		return nil, err
	}
	b, err := rigidbody.NewBody(bc)
	if err != nil {
		return nil, err
	}
	return &Flight{
		Vehicle:  vehicle.New(b, plane),
		Airplane: plane,
		Body:     b,
	}, nil
}

// Runner flies a Flight through a Script: physics at PhysicsDt, vehicle
// updates and telemetry at RenderDt.
type Runner struct {
	flight  *Flight
	world   *rigidbody.World
	script  Script
	cfg     Config
	tracker input.Tracker

	metrics   []Metric
	observers []Observer
	log       zerolog.Logger

	frame int
	last  Sample
}

func NewRunner(f *Flight, script Script, cfg Config, log zerolog.Logger) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := script.Validate(); err != nil {
		return nil, err
	}
	world, err := rigidbody.NewWorld(cfg.PhysicsDt, cfg.MaxSubSteps)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	world.AddBody(f.Body)
	world.AddPreStep(f.Vehicle.PhysicsPreStep)

	r := &Runner{
		flight: f,
		world:  world,
		script: script,
		cfg:    cfg,
		log:    log,
	}
	r.Reset()
	return r, nil
}

func (r *Runner) AddMetric(m Metric)     { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o Observer) { r.observers = append(r.observers, o) }

func (r *Runner) Config() Config  { return r.cfg }
func (r *Runner) Flight() *Flight { return r.flight }
func (r *Runner) Frame() int      { return r.frame }
func (r *Runner) Time() float64   { return float64(r.frame) * r.cfg.RenderDt }
func (r *Runner) Last() Sample    { return r.last }
func (r *Runner) Done() bool      { return r.frame >= r.cfg.Frames() }

// Reset puts the airframe back at the start condition and rewinds the clock.
func (r *Runner) Reset() {
	st := r.cfg.Start
	ground := r.flight.Body.Config().GroundHeight
	r.flight.Vehicle.Reset()
	r.flight.Body.Reset(mgl64.Vec3{0, ground + math.Max(0, st.Altitude), 0}, mgl64.Vec3{0, 0, st.Speed})
	r.flight.Airplane.Engine().SetPower(st.Power)
	r.world.Reset()
	r.tracker.Reset()
	r.frame = 0
	r.last = r.sample()
	for _, m := range r.metrics {
		m.Reset()
	}
}

// Step advances one render tick. It returns a SimError when the body state
// stops being finite and ValidateState is set.
func (r *Runner) Step() (Sample, error) {
	t := r.Time()
	pressed, controlled := r.script.At(t)
	r.tracker.Apply(pressed)

	v := r.flight.Vehicle
	v.SetInput(r.tracker.State())
	v.SetControlled(controlled)

	r.world.Step(r.cfg.RenderDt)
	v.Update(r.cfg.RenderDt)
	r.frame++

	if r.cfg.ValidateState && !r.flight.Body.Valid() {
		return r.last, SimError{Time: r.Time(), Step: r.frame, Message: "invalid state (NaN/Inf)"}
	}

	s := r.sample()
	r.last = s
	for _, m := range r.metrics {
		m.Observe(s)
	}
	for _, o := range r.observers {
		o.OnSample(s)
	}
	return s, nil
}

// Run flies the whole script from the start condition.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	r.Reset()
	frames := r.cfg.Frames()
	result := &Result{
		Samples: make([]Sample, 0, frames+1),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}
	result.Samples = append(result.Samples, r.last)

	r.log.Info().
		Float64("duration", r.cfg.Duration).
		Int("frames", frames).
		Int("segments", len(r.script)).
		Msg("flight started")
	began := time.Now()

	for r.frame < frames {
		select {
		case <-ctx.Done():
			r.finish(result)
			return result, ctx.Err()
		default:
		}

		s, err := r.Step()
		if err != nil {
			r.log.Warn().Err(err).Msg("flight aborted")
			result.Errors = append(result.Errors, err)
			break
		}
		result.Samples = append(result.Samples, s)
	}

	r.finish(result)
	final := result.Final()
	r.log.Info().
		Int("frames", result.Frames).
		Int("physics_steps", result.PhysicsSteps).
		Float64("altitude", final.Altitude).
		Float64("speed", final.Speed).
		Dur("elapsed", time.Since(began)).
		Msg("flight finished")
	return result, nil
}

func (r *Runner) finish(result *Result) {
	result.Frames = r.frame
	result.PhysicsSteps = r.world.Steps()
	result.Clamped = r.flight.Airplane.Surfaces().Clamped()
	result.Dropped = r.world.Dropped()
	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func (r *Runner) sample() Sample {
	b := r.flight.Body
	plane := r.flight.Airplane
	forces := plane.LastForces()
	pos := plane.Surfaces().Positions()
	pitch, bank, heading := Attitude(b.Orientation)
	return Sample{
		Time:     r.Time(),
		Position: b.Position,
		Velocity: b.Velocity,
		Speed:    b.Velocity.Len(),
		Altitude: b.Altitude(),
		Alpha:    forces.Alpha,
		Beta:     forces.Beta,
		Pitch:    pitch,
		Bank:     bank,
		Heading:  heading,
		Power:    plane.Engine().Power(),
		Steering: pos.Steering,
		Aileron:  pos.Aileron,
		Elevator: pos.Elevator,
		Rudder:   pos.Rudder,
		Rotor:    plane.RotorAngle(),
		Wheels:   b.WheelsOnGround(),
	}
}
