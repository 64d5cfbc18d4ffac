package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/flightdyn/internal/sim"
)

func feed(m sim.Metric, samples ...sim.Sample) float64 {
	m.Reset()
	for _, s := range samples {
		m.Observe(s)
	}
	return m.Value()
}

func TestStallFraction(t *testing.T) {
	m := NewStallFraction(0.3)
	got := feed(m,
		sim.Sample{Alpha: 0.1},
		sim.Sample{Alpha: 0.3},
		sim.Sample{Alpha: -0.5},
		sim.Sample{Alpha: 0.29},
	)
	if got != 0.5 {
		t.Errorf("stall fraction = %f, want 0.5", got)
	}
	if feed(m) != 0 {
		t.Error("empty stall fraction should be 0")
	}
}

func TestMaxAlpha(t *testing.T) {
	got := feed(NewMaxAlpha(), sim.Sample{Alpha: 0.2}, sim.Sample{Alpha: -0.6}, sim.Sample{Alpha: 0.1})
	if got != 0.6 {
		t.Errorf("max alpha = %f, want 0.6", got)
	}
}

func TestMeanSpeed(t *testing.T) {
	got := feed(NewMeanSpeed(), sim.Sample{Speed: 10}, sim.Sample{Speed: 20}, sim.Sample{Speed: 60})
	if got != 30 {
		t.Errorf("mean speed = %f, want 30", got)
	}
}

func TestMaxAltitudeBelowGround(t *testing.T) {
	got := feed(NewMaxAltitude(), sim.Sample{Altitude: -5}, sim.Sample{Altitude: -2})
	if got != -2 {
		t.Errorf("max altitude = %f, want -2", got)
	}
}

func TestAirborneFraction(t *testing.T) {
	got := feed(NewAirborneFraction(), sim.Sample{Wheels: 3}, sim.Sample{Wheels: 0}, sim.Sample{}, sim.Sample{Wheels: 3})
	if got != 0.5 {
		t.Errorf("airborne fraction = %f, want 0.5", got)
	}
}

func TestControlEffort(t *testing.T) {
	got := feed(NewControlEffort(),
		sim.Sample{Aileron: 0.4, Elevator: -0.2},
		sim.Sample{Rudder: -0.2, Steering: 0.2},
	)
	if math.Abs(got-0.5) > 1e-12 {
		t.Errorf("control effort = %f, want 0.5", got)
	}
}

func TestEnergy(t *testing.T) {
	g := 9.81
	got := feed(NewEnergy(g), sim.Sample{Speed: 10, Altitude: 0}, sim.Sample{Speed: 0, Altitude: 10})
	want := (50 + g*10) / 2
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("energy = %f, want %f", got, want)
	}
}

func TestEnergyLoss(t *testing.T) {
	m := NewEnergyLoss(10)
	got := feed(m,
		sim.Sample{Speed: 20, Altitude: 100},
		sim.Sample{Speed: 20, Altitude: 80},
		sim.Sample{Speed: 30, Altitude: 100},
	)
	// 1200 -> 1000 is the worst point
	if math.Abs(got-200.0/1200) > 1e-12 {
		t.Errorf("energy loss = %f, want %f", got, 200.0/1200)
	}
}

func TestEnergyLossFromRunningPeak(t *testing.T) {
	tests := []struct {
		name      string
		altitudes []float64
		want      float64
	}{
		{"climb then descend", []float64{10, 20, 10}, 0.5},
		{"ground start", []float64{0, 10, 20, 10}, 0.5},
		{"steady climb", []float64{0, 5, 10}, 0},
		{"on the ground", []float64{0, 0, 0}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewEnergyLoss(10)
			samples := make([]sim.Sample, len(tt.altitudes))
			for i, h := range tt.altitudes {
				samples[i] = sim.Sample{Altitude: h}
			}
			if got := feed(m, samples...); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("energy loss = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestDefaultsHaveUniqueNames(t *testing.T) {
	seen := map[string]bool{}
	for _, m := range Defaults(0.3, 9.81) {
		if seen[m.Name()] {
			t.Errorf("duplicate metric name %q", m.Name())
		}
		seen[m.Name()] = true
	}
	if len(seen) != 8 {
		t.Errorf("expected 8 metrics, got %d", len(seen))
	}
}
