package aero

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Config carries every tunable of the force model. Points are body frame
// metres relative to the centre of mass: +X left, +Y up, +Z forward.
type Config struct {
	WingArea float64 `yaml:"wing_area"`

	// Below StallSpeed the angles are forced to zero.
	StallSpeed     float64 `yaml:"stall_speed"`
	MaxStallAngle  float64 `yaml:"max_stall_angle"`
	DeepStallAngle float64 `yaml:"deep_stall_angle"`

	LiftSlope           float64 `yaml:"lift_slope"`
	PostStallSlope      float64 `yaml:"post_stall_slope"`
	BaseLiftCoefficient float64 `yaml:"base_lift_coefficient"`
	DragBase            float64 `yaml:"drag_base"`
	DragFactor          float64 `yaml:"drag_factor"`
	SideForceCoeff      float64 `yaml:"side_force_coefficient"`

	SeaLevelDensity float64 `yaml:"sea_level_density"`
	AtmosphereDecay float64 `yaml:"atmosphere_decay"`

	MaxThrust       float64 `yaml:"max_thrust"`
	WheelBrakeForce float64 `yaml:"wheel_brake_force"`

	PitchAuthority        float64 `yaml:"pitch_authority"`
	PitchAuthorityStalled float64 `yaml:"pitch_authority_stalled"`
	YawAuthority          float64 `yaml:"yaw_authority"`
	YawAuthorityStalled   float64 `yaml:"yaw_authority_stalled"`
	RollAuthority         float64 `yaml:"roll_authority"`

	WingTipOffset        float64    `yaml:"wing_tip_offset"`
	TailOffset           float64    `yaml:"tail_offset"`
	AeroCenter           mgl64.Vec3 `yaml:"aero_center"`
	PressureCenterAir    mgl64.Vec3 `yaml:"pressure_center_air"`
	PressureCenterGround mgl64.Vec3 `yaml:"pressure_center_ground"`
}

func DefaultConfig() Config {
	return Config{
		WingArea: 1.0,

		StallSpeed:     0.5,
		MaxStallAngle:  0.3,
		DeepStallAngle: 0.7,

		LiftSlope:           4.0,
		PostStallSlope:      2.0,
		BaseLiftCoefficient: 0.3,
		DragBase:            0.35,
		DragFactor:          1.2,
		SideForceCoeff:      1.5,

		SeaLevelDensity: 1.225,
		AtmosphereDecay: 1.0 / 8500,

		MaxThrust:       600,
		WheelBrakeForce: 200,

		PitchAuthority:        0.02,
		PitchAuthorityStalled: 0.008,
		YawAuthority:          0.015,
		YawAuthorityStalled:   0.006,
		RollAuthority:         0.8,

		WingTipOffset:        2.5,
		TailOffset:           3.0,
		AeroCenter:           mgl64.Vec3{0, 0.2, -0.4},
		PressureCenterAir:    mgl64.Vec3{0, 0, -0.1},
		PressureCenterGround: mgl64.Vec3{0, 0, 0.3},
	}
}

// Density is the exponential atmosphere ρ₀·e^(−k·h).
func (c Config) Density(altitude float64) float64 {
	return c.SeaLevelDensity * math.Exp(-c.AtmosphereDecay*altitude)
}

// LiftCoefficient is linear below the stall angle, falls off along a
// flipped line up to the deep-stall bound and holds the boundary value
// beyond it.
func (c Config) LiftCoefficient(alpha float64) float64 {
	a := math.Abs(alpha)
	sign := 1.0
	if alpha < 0 {
		sign = -1
	}

	switch {
	case a < c.MaxStallAngle:
		return c.LiftSlope * alpha
	case a > c.DeepStallAngle:
		a = c.DeepStallAngle
	}
	return sign * (c.LiftSlope*c.MaxStallAngle - c.PostStallSlope*(a-c.MaxStallAngle))
}

// DragCoefficient grows with α² and, past a right angle, with the excess
// beyond it.
func (c Config) DragCoefficient(alpha float64) float64 {
	a := math.Abs(alpha)
	if a < math.Pi/2 {
		return c.DragBase + c.DragFactor*a*a
	}
	excess := a - math.Pi/2
	return c.DragBase + c.DragFactor*(math.Pi/2)*(math.Pi/2) + c.DragFactor*excess*excess
}
