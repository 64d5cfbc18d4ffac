package aero

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/flightdyn/internal/body"
)

type Kind int

const (
	KindPitch Kind = iota
	KindYaw
	KindRollLeft
	KindRollRight
	KindThrust
	KindDrag
	KindBaseLift
	KindLift
	KindSide
	KindWheelBrake
)

var kindNames = map[Kind]string{
	KindPitch:      "pitch",
	KindYaw:        "yaw",
	KindRollLeft:   "roll_left",
	KindRollRight:  "roll_right",
	KindThrust:     "thrust",
	KindDrag:       "drag",
	KindBaseLift:   "base_lift",
	KindLift:       "lift",
	KindSide:       "side",
	KindWheelBrake: "wheel_brake",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Contribution is a body-frame force acting at a body-frame point.
type Contribution struct {
	Kind  Kind
	Force mgl64.Vec3
	Point mgl64.Vec3
}

// Torque about the centre of mass.
func (c Contribution) Torque() mgl64.Vec3 {
	return c.Point.Cross(c.Force)
}

type Result struct {
	LocalVelocity   mgl64.Vec3
	Speed           float64
	Density         float64
	DynamicPressure float64
	Alpha           float64
	Beta            float64
	LiftCoefficient float64
	DragCoefficient float64
	Contributions   []Contribution
}

func (r *Result) add(kind Kind, force, point mgl64.Vec3) {
	r.Contributions = append(r.Contributions, Contribution{Kind: kind, Force: force, Point: point})
}

// Find returns the first contribution of the given kind.
func (r Result) Find(kind Kind) (Contribution, bool) {
	for _, c := range r.Contributions {
		if c.Kind == kind {
			return c, true
		}
	}
	return Contribution{}, false
}

func (r Result) NetForce() mgl64.Vec3 {
	var sum mgl64.Vec3
	for _, c := range r.Contributions {
		sum = sum.Add(c.Force)
	}
	return sum
}

func (r Result) NetTorque() mgl64.Vec3 {
	var sum mgl64.Vec3
	for _, c := range r.Contributions {
		sum = sum.Add(c.Torque())
	}
	return sum
}

// Apply hands every contribution to the solver for this step.
func (r Result) Apply(a body.ForceApplier) {
	for _, c := range r.Contributions {
		a.ApplyLocalForce(c.Force, c.Point)
	}
}
