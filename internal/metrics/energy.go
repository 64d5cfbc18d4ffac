package metrics

import (
	"math"

	"github.com/san-kum/flightdyn/internal/sim"
)

// Energy is the mean specific mechanical energy v²/2 + g·h.
type Energy struct {
	name        string
	gravity     float64
	samples     int
	totalEnergy float64
}

func NewEnergy(gravity float64) *Energy {
	return &Energy{
		name:    "energy",
		gravity: gravity,
	}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(s sim.Sample) {
	e.totalEnergy += specificEnergy(s, e.gravity)
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *Energy) Reset() {
	e.totalEnergy = 0
	e.samples = 0
}

// EnergyLoss is the largest fractional drop in specific energy from the
// running peak. Climbing then descending, or drag in unpowered flight, makes
// it positive.
type EnergyLoss struct {
	name    string
	gravity float64
	peak    float64
	maxLoss float64
	samples int
}

func NewEnergyLoss(gravity float64) *EnergyLoss {
	return &EnergyLoss{
		name:    "energy_loss",
		gravity: gravity,
	}
}

func (e *EnergyLoss) Name() string { return e.name }

func (e *EnergyLoss) Observe(s sim.Sample) {
	energy := specificEnergy(s, e.gravity)

	if e.samples == 0 || energy > e.peak {
		e.peak = energy
	}
	e.samples++

	if e.peak != 0 {
		loss := (e.peak - energy) / math.Abs(e.peak)
		e.maxLoss = math.Max(e.maxLoss, loss)
	}
}

func (e *EnergyLoss) Value() float64 {
	return e.maxLoss
}

func (e *EnergyLoss) Reset() {
	e.peak = 0
	e.maxLoss = 0
	e.samples = 0
}

func specificEnergy(s sim.Sample, gravity float64) float64 {
	return 0.5*s.Speed*s.Speed + gravity*s.Altitude
}
