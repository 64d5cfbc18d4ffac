// Package body is the narrow contract between the flight model and whatever
// rigid-body solver integrates the airframe.
package body

import "github.com/go-gl/mathgl/mgl64"

// Kinematics is a per-step snapshot read from the solver.
type Kinematics struct {
	Velocity       mgl64.Vec3 // world frame
	Orientation    mgl64.Quat // body to world
	WheelsOnGround int
}

// LocalVelocity rotates the world velocity into the body frame.
func (k Kinematics) LocalVelocity() mgl64.Vec3 {
	q := k.Orientation
	if q.Len() == 0 {
		q = mgl64.QuatIdent()
	}
	return q.Inverse().Rotate(k.Velocity)
}

// ForceApplier accepts a body-frame force acting at a body-frame point.
type ForceApplier interface {
	ApplyLocalForce(force, point mgl64.Vec3)
}

type Handle interface {
	ForceApplier
	Kinematics() Kinematics
}
