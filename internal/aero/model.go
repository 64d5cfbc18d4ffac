// Package aero computes the aerodynamic, control and thrust forces acting on
// the airframe for one physics step.
//
// The model is stateless: every call to [Model.Compute] derives body-local
// velocity, dynamic pressure, angle of attack (α) and sideslip (β) from the
// kinematics snapshot and returns a list of body-frame forces with their
// application points. Nothing is carried between steps.
//
// # Frames
//
// Body axes follow the airframe: +Z forward, +Y up, +X to the left wing.
// Positive α means the nose sits above the flight path; positive β means the
// air arrives from the left (the body is slipping toward +X).
//
// # Stall
//
// Lift is linear in α up to MaxStallAngle, collapses along a flipped line up
// to DeepStallAngle and is held there. Pitch and yaw authority drop to their
// stalled constants once |α| or |β| reach MaxStallAngle.
package aero

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/flightdyn/internal/body"
	"github.com/san-kum/flightdyn/internal/input"
)

type Input struct {
	Kinematics  body.Kinematics
	Controls    input.State
	EnginePower float64
}

type Model struct {
	cfg Config
}

func New(cfg Config) *Model {
	return &Model{cfg: cfg}
}

func (m *Model) Config() Config { return m.cfg }

// Compute evaluates every force for one step.
func (m *Model) Compute(in Input) Result {
	c := m.cfg
	v := in.Kinematics.LocalVelocity()
	speed := v.Len()
	speedSq := speed * speed

	// Altitude stays at sea level; the exponential atmosphere is a placeholder.
	rho := c.Density(0)
	q := 0.5 * rho * speedSq

	alpha, beta := Angles(v, c.StallSpeed)
	cl := c.LiftCoefficient(alpha)
	cd := c.DragCoefficient(alpha)

	r := Result{
		LocalVelocity:   v,
		Speed:           speed,
		Density:         rho,
		DynamicPressure: q,
		Alpha:           alpha,
		Beta:            beta,
		LiftCoefficient: cl,
		DragCoefficient: cd,
		Contributions:   make([]Contribution, 0, 10),
	}

	ctl := in.Controls
	up := mgl64.Vec3{0, 1, 0}
	side := mgl64.Vec3{1, 0, 0}
	tail := mgl64.Vec3{0, 0, -c.TailOffset}

	// Pitch and yaw scale with s². PitchUp pushes the tail down.
	pitchAuth := c.PitchAuthority
	if math.Abs(alpha) >= c.MaxStallAngle {
		pitchAuth = c.PitchAuthorityStalled
	}
	pitch := -ctl.Axis(input.PitchUp, input.PitchDown) * pitchAuth * speedSq
	r.add(KindPitch, up.Mul(pitch), tail)

	yawAuth := c.YawAuthority
	if math.Abs(beta) >= c.MaxStallAngle {
		yawAuth = c.YawAuthorityStalled
	}
	yaw := -ctl.Axis(input.YawLeft, input.YawRight) * yawAuth * speedSq
	r.add(KindYaw, side.Mul(yaw), tail)

	// Roll is linear in s, one force per wingtip. RollLeft pushes the left
	// tip down.
	roll := -ctl.Axis(input.RollLeft, input.RollRight) * c.RollAuthority * speed
	r.add(KindRollLeft, up.Mul(roll), mgl64.Vec3{c.WingTipOffset, 0, 0})
	r.add(KindRollRight, up.Mul(-roll), mgl64.Vec3{-c.WingTipOffset, 0, 0})

	if ctl.Pressed(input.Throttle) && !ctl.Pressed(input.Brake) {
		power := math.Max(0, math.Min(1, in.EnginePower))
		r.add(KindThrust, mgl64.Vec3{0, 0, power * c.MaxThrust}, mgl64.Vec3{})
	}

	var drag mgl64.Vec3
	if speed > 0 {
		drag = v.Mul(-cd * q * c.WingArea / speed)
	}
	r.add(KindDrag, drag, c.AeroCenter)

	sinA, cosA := math.Sincos(alpha)
	liftDir := mgl64.Vec3{0, cosA, sinA}
	pressureCenter := c.PressureCenterAir
	if in.Kinematics.WheelsOnGround > 0 {
		pressureCenter = c.PressureCenterGround
	}
	r.add(KindBaseLift, liftDir.Mul(c.BaseLiftCoefficient*q*c.WingArea), pressureCenter)
	r.add(KindLift, liftDir.Mul(cl*q*c.WingArea), c.AeroCenter)

	r.add(KindSide, side.Mul(-c.SideForceCoeff*beta*q*c.WingArea), c.AeroCenter)

	if ctl.Pressed(input.WheelBrake) && in.Kinematics.WheelsOnGround > 0 && v.Z() != 0 {
		mag := math.Min(1, math.Abs(v.Z())) * c.WheelBrakeForce
		r.add(KindWheelBrake, mgl64.Vec3{0, 0, -math.Copysign(mag, v.Z())}, mgl64.Vec3{})
	}

	return r
}

// Angles returns α and β for a body-local velocity. Both are zero below
// stallSpeed, where the inverse sine is ill-conditioned.
func Angles(v mgl64.Vec3, stallSpeed float64) (alpha, beta float64) {
	speed := v.Len()
	if !(speed >= stallSpeed) || speed == 0 {
		return 0, 0
	}
	beta = math.Asin(clampUnit(v.X() / speed))
	cosB := math.Cos(beta)
	if cosB < 1e-12 {
		return 0, beta
	}
	alpha = -math.Asin(clampUnit(v.Y() / (speed * cosB)))
	return alpha, beta
}

func clampUnit(x float64) float64 {
	if math.IsNaN(x) {
		return 0
	}
	return math.Max(-1, math.Min(1, x))
}
