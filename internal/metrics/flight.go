package metrics

import (
	"math"

	"github.com/san-kum/flightdyn/internal/sim"
)

type MeanSpeed struct {
	sum     float64
	samples int
}

func NewMeanSpeed() *MeanSpeed { return &MeanSpeed{} }

func (m *MeanSpeed) Name() string { return "mean_speed" }

func (m *MeanSpeed) Observe(s sim.Sample) {
	m.sum += s.Speed
	m.samples++
}

func (m *MeanSpeed) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *MeanSpeed) Reset() {
	m.sum = 0
	m.samples = 0
}

type MaxAltitude struct {
	max  float64
	seen bool
}

func NewMaxAltitude() *MaxAltitude { return &MaxAltitude{} }

func (m *MaxAltitude) Name() string { return "max_altitude" }

func (m *MaxAltitude) Observe(s sim.Sample) {
	if !m.seen {
		m.max = s.Altitude
		m.seen = true
		return
	}
	m.max = math.Max(m.max, s.Altitude)
}

func (m *MaxAltitude) Value() float64 { return m.max }

func (m *MaxAltitude) Reset() {
	m.max = 0
	m.seen = false
}

// AirborneFraction is the share of samples with no wheel on the ground.
type AirborneFraction struct {
	airborne int
	samples  int
}

func NewAirborneFraction() *AirborneFraction { return &AirborneFraction{} }

func (a *AirborneFraction) Name() string { return "airborne_fraction" }

func (a *AirborneFraction) Observe(s sim.Sample) {
	a.samples++
	if s.Wheels == 0 {
		a.airborne++
	}
}

func (a *AirborneFraction) Value() float64 {
	if a.samples == 0 {
		return 0
	}
	return float64(a.airborne) / float64(a.samples)
}

func (a *AirborneFraction) Reset() {
	a.airborne = 0
	a.samples = 0
}

// Defaults is the metric set attached to every recorded flight.
func Defaults(alphaMax, gravity float64) []sim.Metric {
	return []sim.Metric{
		NewMaxAlpha(),
		NewStallFraction(alphaMax),
		NewMeanSpeed(),
		NewMaxAltitude(),
		NewAirborneFraction(),
		NewControlEffort(),
		NewEnergy(gravity),
		NewEnergyLoss(gravity),
	}
}
