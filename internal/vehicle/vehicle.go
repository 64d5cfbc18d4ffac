// Package vehicle composes a rigid-body handle, the current control input and
// a type-specific Strategy into something the world can fly.
package vehicle

import (
	"github.com/san-kum/flightdyn/internal/body"
	"github.com/san-kum/flightdyn/internal/input"
)

// Strategy supplies the behaviour of one kind of vehicle. PreStep runs once
// per physics step and applies forces; Update runs once per frame and
// advances visual state.
type Strategy interface {
	PreStep(v *Vehicle, dt float64)
	Update(v *Vehicle, dt float64)
	Reset()
}

type Vehicle struct {
	input      input.State
	body       body.Handle
	strategy   Strategy
	controlled bool
}

func New(b body.Handle, s Strategy) *Vehicle {
	return &Vehicle{body: b, strategy: s}
}

func (v *Vehicle) Body() body.Handle      { return v.body }
func (v *Vehicle) Strategy() Strategy     { return v.strategy }
func (v *Vehicle) Input() input.State     { return v.input }
func (v *Vehicle) SetInput(s input.State) { v.input = s }

// SetControlled marks whether a pilot is currently flying the vehicle.
func (v *Vehicle) SetControlled(c bool) { v.controlled = c }
func (v *Vehicle) Controlled() bool     { return v.controlled }

// PhysicsPreStep is registered as a world pre-step hook.
func (v *Vehicle) PhysicsPreStep(dt float64) {
	v.strategy.PreStep(v, dt)
}

func (v *Vehicle) Update(dt float64) {
	v.strategy.Update(v, dt)
}

func (v *Vehicle) Reset() {
	v.input = input.State{}
	v.controlled = false
	v.strategy.Reset()
}
