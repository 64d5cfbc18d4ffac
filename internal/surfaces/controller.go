// Package surfaces drives the control-surface springs from boolean input.
package surfaces

import (
	"fmt"

	"github.com/san-kum/flightdyn/internal/input"
	"github.com/san-kum/flightdyn/internal/scene"
	"github.com/san-kum/flightdyn/internal/spring"
)

// RotationSink receives surface angles. scene.Registry satisfies it.
type RotationSink interface {
	SetRotation(h scene.Handle, angle float64)
}

type Bindings struct {
	Steering     scene.Handle
	AileronLeft  scene.Handle
	AileronRight scene.Handle
	Elevators    []scene.Handle
	Rudder       scene.Handle
}

// Bind resolves node names once. Missing or empty names become NoHandle.
func Bind(r *scene.Registry, names NodeNames) Bindings {
	b := Bindings{
		Steering:     r.ResolveOptional(names.Steering),
		AileronLeft:  r.ResolveOptional(names.AileronLeft),
		AileronRight: r.ResolveOptional(names.AileronRight),
		Rudder:       r.ResolveOptional(names.Rudder),
	}
	for _, n := range names.Elevators {
		if h := r.ResolveOptional(n); h != scene.NoHandle {
			b.Elevators = append(b.Elevators, h)
		}
	}
	return b
}

// Positions are the simulated spring positions in radians.
type Positions struct {
	Steering float64
	Aileron  float64
	Elevator float64
	Rudder   float64
}

type Controller struct {
	cfg      Config
	bindings Bindings
	sink     RotationSink

	steering *spring.Simulator
	aileron  *spring.Simulator
	elevator *spring.Simulator
	rudder   *spring.Simulator
}

func NewController(cfg Config, bindings Bindings, sink RotationSink, opts ...spring.Option) (*Controller, error) {
	c := &Controller{cfg: cfg, bindings: bindings, sink: sink}

	axes := []struct {
		name string
		ax   AxisConfig
		dst  **spring.Simulator
	}{
		{"steering", cfg.Steering, &c.steering},
		{"aileron", cfg.Aileron, &c.aileron},
		{"elevator", cfg.Elevator, &c.elevator},
		{"rudder", cfg.Rudder, &c.rudder},
	}
	for _, a := range axes {
		s, err := spring.New(a.ax.Spring.FrameRate, a.ax.Spring.Mass, a.ax.Spring.Damping, opts...)
		if err != nil {
			return nil, fmt.Errorf("%s spring: %w", a.name, err)
		}
		*a.dst = s
	}
	return c, nil
}

// Update sets every axis target from the input, advances the springs in
// steering, aileron, elevator, rudder order and writes the results.
func (c *Controller) Update(dt float64, in input.State, wheelsOnGround int) {
	c.steering.Target = c.cfg.Steering.Deflection * in.Axis(input.YawLeft, input.YawRight)
	if wheelsOnGround == 0 {
		c.steering.Target = 0
	}
	c.aileron.Target = c.cfg.Aileron.Deflection * in.Axis(input.RollLeft, input.RollRight)
	c.elevator.Target = c.cfg.Elevator.Deflection * in.Axis(input.PitchUp, input.PitchDown)
	c.rudder.Target = c.cfg.Rudder.Deflection * in.Axis(input.YawLeft, input.YawRight)

	c.steering.Simulate(dt)
	c.aileron.Simulate(dt)
	c.elevator.Simulate(dt)
	c.rudder.Simulate(dt)

	c.write()
}

func (c *Controller) write() {
	if c.sink == nil {
		return
	}
	c.sink.SetRotation(c.bindings.Steering, c.steering.Position)
	c.sink.SetRotation(c.bindings.AileronLeft, c.aileron.Position)
	c.sink.SetRotation(c.bindings.AileronRight, -c.aileron.Position)
	for _, h := range c.bindings.Elevators {
		c.sink.SetRotation(h, c.elevator.Position)
	}
	c.sink.SetRotation(c.bindings.Rudder, c.rudder.Position)
}

func (c *Controller) Positions() Positions {
	return Positions{
		Steering: c.steering.Position,
		Aileron:  c.aileron.Position,
		Elevator: c.elevator.Position,
		Rudder:   c.rudder.Position,
	}
}

// Targets returns the spring targets set by the last Update.
func (c *Controller) Targets() Positions {
	return Positions{
		Steering: c.steering.Target,
		Aileron:  c.aileron.Target,
		Elevator: c.elevator.Target,
		Rudder:   c.rudder.Target,
	}
}

// Reset centres every surface.
func (c *Controller) Reset() {
	c.steering.Reset(0)
	c.aileron.Reset(0)
	c.elevator.Reset(0)
	c.rudder.Reset(0)
	c.write()
}

// Clamped sums sub-step cap hits across all four springs.
func (c *Controller) Clamped() int {
	return c.steering.Clamped() + c.aileron.Clamped() + c.elevator.Clamped() + c.rudder.Clamped()
}

// NoDirectionPressed reports whether throttle, brake, yaw and roll are all
// released.
func NoDirectionPressed(in input.State) bool {
	return !in.AnyPressed(
		input.Throttle, input.Brake,
		input.YawLeft, input.YawRight,
		input.RollLeft, input.RollRight,
	)
}
