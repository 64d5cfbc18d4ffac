// Package spring implements a critically damped spring that can be advanced
// with any frame time.
//
// The caller's time step is split into fixed sub-steps of 1/frameRate plus a
// fractional remainder, so one call with dt=T lands where N calls with T/N
// land. Each sub-step is a semi-implicit Euler update of
//
//	a = -(c/m)*v - (k/m)*(x - target),   k = c²/(4m)
//
// which is critically damped: a step change of target is approached without
// overshoot.
package spring

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"
)

// DefaultMaxSubSteps bounds the work done by one Simulate call.
const DefaultMaxSubSteps = 300

const remainderEpsilon = 1e-9

type Simulator struct {
	Position float64
	Velocity float64
	Target   float64

	frameRate float64
	mass      float64
	damping   float64
	stiffness float64

	maxSubSteps int
	clamped     int
	log         zerolog.Logger
}

type Option func(*Simulator)

// WithMaxSubSteps overrides DefaultMaxSubSteps. Values below 1 are ignored.
func WithMaxSubSteps(n int) Option {
	return func(s *Simulator) {
		if n > 0 {
			s.maxSubSteps = n
		}
	}
}

// WithLogger reports sub-step cap hits. Pass a sampled logger; the cap can
// trip every frame.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Simulator) { s.log = l }
}

func New(frameRate, mass, damping float64, opts ...Option) (*Simulator, error) {
	switch {
	case !(frameRate > 0):
		return nil, fmt.Errorf("%w: got %v", ErrInvalidFrameRate, frameRate)
	case !(mass > 0):
		return nil, fmt.Errorf("%w: got %v", ErrInvalidMass, mass)
	case !(damping > 0):
		return nil, fmt.Errorf("%w: got %v", ErrInvalidDamping, damping)
	case damping/(2*mass*frameRate) >= 0.5:
		return nil, fmt.Errorf("%w: damping=%v mass=%v frameRate=%v", ErrUnstable, damping, mass, frameRate)
	}

	s := &Simulator{
		frameRate:   frameRate,
		mass:        mass,
		damping:     damping,
		stiffness:   damping * damping / (4 * mass),
		maxSubSteps: DefaultMaxSubSteps,
		log:         zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// MustNew is New for compiled-in constants.
func MustNew(frameRate, mass, damping float64, opts ...Option) *Simulator {
	s, err := New(frameRate, mass, damping, opts...)
	if err != nil {
		panic(err)
	}
	return s
}

// Simulate advances Position toward Target by timeStep seconds.
// Non-positive and NaN steps are ignored.
func (s *Simulator) Simulate(timeStep float64) {
	if !(timeStep > 0) || math.IsInf(timeStep, 0) {
		return
	}

	steps := timeStep * s.frameRate
	whole := math.Floor(steps)
	remainder := steps - whole
	h := 1 / s.frameRate

	n := int(whole)
	if whole > float64(s.maxSubSteps) || (n == s.maxSubSteps && remainder > remainderEpsilon) {
		// Leftover time is dropped; the spring lags wall time this frame.
		n = s.maxSubSteps
		remainder = 0
		s.clamped++
		s.log.Warn().
			Float64("time_step", timeStep).
			Int("max_sub_steps", s.maxSubSteps).
			Msg("spring sub-step cap reached")
	}

	for i := 0; i < n; i++ {
		s.step(h)
	}
	if remainder > remainderEpsilon {
		s.step(remainder * h)
	}
}

func (s *Simulator) step(h float64) {
	accel := -s.damping/s.mass*s.Velocity - s.stiffness/s.mass*(s.Position-s.Target)
	s.Velocity += accel * h
	s.Position += s.Velocity * h
}

// Reset puts the spring at rest on position.
func (s *Simulator) Reset(position float64) {
	s.Position = position
	s.Target = position
	s.Velocity = 0
}

// AngularFrequency is sqrt(k/m); 1/ω is the time constant of the response.
func (s *Simulator) AngularFrequency() float64 {
	return math.Sqrt(s.stiffness / s.mass)
}

func (s *Simulator) FrameRate() float64 { return s.frameRate }
func (s *Simulator) Mass() float64      { return s.mass }
func (s *Simulator) Damping() float64   { return s.damping }
func (s *Simulator) Stiffness() float64 { return s.stiffness }

// Clamped counts Simulate calls that hit the sub-step cap.
func (s *Simulator) Clamped() int { return s.clamped }
