package metrics

import (
	"math"

	"github.com/san-kum/flightdyn/internal/sim"
)

// StallFraction is the share of samples flown at or beyond the stall angle.
type StallFraction struct {
	name     string
	alphaMax float64
	stalled  int
	samples  int
}

func NewStallFraction(alphaMax float64) *StallFraction {
	return &StallFraction{
		name:     "stall_fraction",
		alphaMax: alphaMax,
	}
}

func (s *StallFraction) Name() string {
	return s.name
}

func (s *StallFraction) Observe(x sim.Sample) {
	s.samples++
	if math.Abs(x.Alpha) >= s.alphaMax {
		s.stalled++
	}
}

func (s *StallFraction) Value() float64 {
	if s.samples == 0 {
		return 0
	}
	return float64(s.stalled) / float64(s.samples)
}

func (s *StallFraction) Reset() {
	s.stalled = 0
	s.samples = 0
}

type MaxAlpha struct {
	max float64
}

func NewMaxAlpha() *MaxAlpha { return &MaxAlpha{} }

func (m *MaxAlpha) Name() string { return "max_alpha" }

func (m *MaxAlpha) Observe(s sim.Sample) {
	m.max = math.Max(m.max, math.Abs(s.Alpha))
}

func (m *MaxAlpha) Value() float64 { return m.max }
func (m *MaxAlpha) Reset()         { m.max = 0 }
