// Package rigidbody is a small fixed-step 6-DOF solver used to fly the
// airframe outside an engine. Forces arrive in the body frame through
// body.Handle and are integrated with semi-implicit Euler.
package rigidbody

import (
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/flightdyn/internal/body"
)

var (
	ErrInvalidMass    = errors.New("rigidbody: mass must be positive")
	ErrInvalidInertia = errors.New("rigidbody: inertia components must be positive")
	ErrInvalidStep    = errors.New("rigidbody: physics dt must be positive")
)

// Wheels reported while the gear is on the ground and the airframe upright.
const GroundWheels = 3

// cos of the largest bank or pitch that still counts as upright on the gear.
const uprightCos = 0.5

type Config struct {
	Mass           float64    `yaml:"mass"`
	Inertia        mgl64.Vec3 `yaml:"inertia"` // principal moments about body X, Y, Z
	LinearDamping  float64    `yaml:"linear_damping"`
	AngularDamping float64    `yaml:"angular_damping"`
	GroundHeight   float64    `yaml:"ground_height"`
	Gravity        float64    `yaml:"gravity"`
}

func DefaultConfig() Config {
	return Config{
		Mass:           100,
		Inertia:        mgl64.Vec3{120, 160, 60},
		LinearDamping:  0.01,
		AngularDamping: 0.8,
		GroundHeight:   0,
		Gravity:        9.81,
	}
}

func (c Config) Validate() error {
	if !(c.Mass > 0) {
		return ErrInvalidMass
	}
	for i := 0; i < 3; i++ {
		if !(c.Inertia[i] > 0) {
			return ErrInvalidInertia
		}
	}
	return nil
}

// Body is a single rigid body. Position, Velocity and Orientation are world
// frame; AngularVelocity is body frame.
type Body struct {
	cfg Config

	Position        mgl64.Vec3
	Velocity        mgl64.Vec3
	Orientation     mgl64.Quat
	AngularVelocity mgl64.Vec3

	force  mgl64.Vec3
	torque mgl64.Vec3
	wheels int
}

var _ body.Handle = (*Body)(nil)

func NewBody(cfg Config) (*Body, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	b := &Body{cfg: cfg}
	b.Reset(mgl64.Vec3{0, cfg.GroundHeight, 0}, mgl64.Vec3{})
	return b, nil
}

func (b *Body) Config() Config { return b.cfg }

// Reset places the body level at pos with velocity vel.
func (b *Body) Reset(pos, vel mgl64.Vec3) {
	b.Position = pos
	b.Velocity = vel
	b.Orientation = mgl64.QuatIdent()
	b.AngularVelocity = mgl64.Vec3{}
	b.force = mgl64.Vec3{}
	b.torque = mgl64.Vec3{}
	b.updateContact()
}

func (b *Body) ApplyLocalForce(force, point mgl64.Vec3) {
	b.force = b.force.Add(force)
	b.torque = b.torque.Add(point.Cross(force))
}

func (b *Body) Kinematics() body.Kinematics {
	return body.Kinematics{
		Velocity:       b.Velocity,
		Orientation:    b.Orientation,
		WheelsOnGround: b.wheels,
	}
}

func (b *Body) WheelsOnGround() int { return b.wheels }

// Altitude above the ground plane.
func (b *Body) Altitude() float64 { return b.Position.Y() - b.cfg.GroundHeight }

// PendingForce returns the body-frame force accumulated since the last step.
func (b *Body) PendingForce() mgl64.Vec3 { return b.force }

// PendingTorque returns the body-frame torque accumulated since the last step.
func (b *Body) PendingTorque() mgl64.Vec3 { return b.torque }

// Integrate advances the body by dt and clears the accumulators.
func (b *Body) Integrate(dt float64) {
	if !(dt > 0) {
		return
	}
	c := b.cfg

	worldForce := b.Orientation.Rotate(b.force)
	accel := worldForce.Mul(1 / c.Mass).Add(mgl64.Vec3{0, -c.Gravity, 0})
	b.Velocity = b.Velocity.Add(accel.Mul(dt)).Mul(decay(c.LinearDamping, dt))

	// Euler's equations in the body frame: I·ω̇ = τ − ω × (I·ω).
	w := b.AngularVelocity
	iw := mgl64.Vec3{c.Inertia[0] * w[0], c.Inertia[1] * w[1], c.Inertia[2] * w[2]}
	net := b.torque.Sub(w.Cross(iw))
	wdot := mgl64.Vec3{net[0] / c.Inertia[0], net[1] / c.Inertia[1], net[2] / c.Inertia[2]}
	b.AngularVelocity = w.Add(wdot.Mul(dt)).Mul(decay(c.AngularDamping, dt))

	b.Position = b.Position.Add(b.Velocity.Mul(dt))

	spin := mgl64.Quat{W: 0, V: b.AngularVelocity}
	b.Orientation = renormalize(b.Orientation.Add(b.Orientation.Mul(spin).Scale(0.5 * dt)))

	b.resolveGround()
	b.force = mgl64.Vec3{}
	b.torque = mgl64.Vec3{}
}

func (b *Body) resolveGround() {
	if b.Position.Y() <= b.cfg.GroundHeight {
		b.Position[1] = b.cfg.GroundHeight
		if b.Velocity.Y() < 0 {
			b.Velocity[1] = 0
		}
	}
	b.updateContact()
}

func (b *Body) updateContact() {
	b.wheels = 0
	if b.Position.Y() > b.cfg.GroundHeight {
		return
	}
	up := b.Orientation.Rotate(mgl64.Vec3{0, 1, 0})
	if up.Y() >= uprightCos {
		b.wheels = GroundWheels
	}
}

// Valid reports whether every component of the state is finite.
func (b *Body) Valid() bool {
	vals := []float64{b.Orientation.W}
	for _, v := range []mgl64.Vec3{b.Position, b.Velocity, b.AngularVelocity, b.Orientation.V} {
		vals = append(vals, v[:]...)
	}
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func decay(rate, dt float64) float64 {
	return math.Max(0, 1-rate*dt)
}

// renormalize always rescales to unit length. Quat.Normalize leaves anything
// within its float tolerance of 1 untouched, which lets the length drift.
func renormalize(q mgl64.Quat) mgl64.Quat {
	l := q.Len()
	if l == 0 || math.IsNaN(l) || math.IsInf(l, 0) {
		return q
	}
	return q.Scale(1 / l)
}
