package sim

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Sample is the telemetry recorded once per render tick.
type Sample struct {
	Time     float64
	Position mgl64.Vec3
	Velocity mgl64.Vec3
	Speed    float64
	Altitude float64
	Alpha    float64
	Beta     float64
	Pitch    float64
	Bank     float64
	Heading  float64
	Power    float64
	Steering float64
	Aileron  float64
	Elevator float64
	Rudder   float64
	Rotor    float64
	Wheels   int
}

// SampleColumns names the entries of Sample.Values in order.
var SampleColumns = []string{
	"time",
	"x", "y", "z",
	"vx", "vy", "vz",
	"speed", "altitude", "alpha", "beta",
	"pitch", "bank", "heading", "power",
	"steering", "aileron", "elevator", "rudder", "rotor",
	"wheels",
}

func (s Sample) Values() []float64 {
	return []float64{
		s.Time,
		s.Position[0], s.Position[1], s.Position[2],
		s.Velocity[0], s.Velocity[1], s.Velocity[2],
		s.Speed, s.Altitude, s.Alpha, s.Beta,
		s.Pitch, s.Bank, s.Heading, s.Power,
		s.Steering, s.Aileron, s.Elevator, s.Rudder, s.Rotor,
		float64(s.Wheels),
	}
}

// SampleFromValues is the inverse of Values. Short rows leave the remaining
// fields zero.
func SampleFromValues(v []float64) Sample {
	get := func(i int) float64 {
		if i < len(v) {
			return v[i]
		}
		return 0
	}
	return Sample{
		Time:     get(0),
		Position: mgl64.Vec3{get(1), get(2), get(3)},
		Velocity: mgl64.Vec3{get(4), get(5), get(6)},
		Speed:    get(7),
		Altitude: get(8),
		Alpha:    get(9),
		Beta:     get(10),
		Pitch:    get(11),
		Bank:     get(12),
		Heading:  get(13),
		Power:    get(14),
		Steering: get(15),
		Aileron:  get(16),
		Elevator: get(17),
		Rudder:   get(18),
		Rotor:    get(19),
		Wheels:   int(get(20)),
	}
}

// Column extracts one named series from a run, or nil if the name is unknown.
func Column(samples []Sample, name string) []float64 {
	idx := -1
	for i, c := range SampleColumns {
		if c == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = s.Values()[idx]
	}
	return out
}

// Attitude returns pitch (nose up positive), bank (right wing down positive)
// and heading (from +Z toward +X) for a body orientation.
func Attitude(q mgl64.Quat) (pitch, bank, heading float64) {
	fwd := q.Rotate(mgl64.Vec3{0, 0, 1})
	left := q.Rotate(mgl64.Vec3{1, 0, 0})
	pitch = math.Asin(math.Max(-1, math.Min(1, fwd.Y())))
	bank = math.Asin(math.Max(-1, math.Min(1, left.Y())))
	heading = math.Atan2(fwd.X(), fwd.Z())
	return pitch, bank, heading
}
