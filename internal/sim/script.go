package sim

import (
	"fmt"
	"sort"

	"github.com/san-kum/flightdyn/internal/input"
)

// Segment holds a set of actions pressed over [Start, End). An End of zero
// keeps the segment active until the run finishes.
type Segment struct {
	Start      float64  `yaml:"start"`
	End        float64  `yaml:"end,omitempty"`
	Actions    []string `yaml:"actions,omitempty"`
	Controlled bool     `yaml:"controlled"`
}

func (s Segment) active(t float64) bool {
	return t >= s.Start && (s.End == 0 || t < s.End)
}

// Script is a timed list of pilot inputs. Overlapping segments combine.
type Script []Segment

func (sc Script) Validate() error {
	for i, seg := range sc {
		if seg.Start < 0 {
			return fmt.Errorf("%w: segment %d starts before zero", ErrInvalidConfig, i)
		}
		if seg.End != 0 && seg.End <= seg.Start {
			return fmt.Errorf("%w: segment %d ends at %.3f before it starts at %.3f", ErrInvalidConfig, i, seg.End, seg.Start)
		}
		for _, name := range seg.Actions {
			if _, err := input.ParseAction(name); err != nil {
				return fmt.Errorf("%w: segment %d: %v", ErrInvalidConfig, i, err)
			}
		}
	}
	return nil
}

// At returns the actions held at time t and whether a pilot is flying.
// Unknown action names are skipped; call Validate first to reject them.
func (sc Script) At(t float64) ([]input.Action, bool) {
	var held [input.NumActions]bool
	controlled := false
	for _, seg := range sc {
		if !seg.active(t) {
			continue
		}
		controlled = controlled || seg.Controlled
		for _, name := range seg.Actions {
			if a, err := input.ParseAction(name); err == nil {
				held[a] = true
			}
		}
	}

	var out []input.Action
	for a, on := range held {
		if on {
			out = append(out, input.Action(a))
		}
	}
	return out, controlled
}

// End is the time the last bounded segment finishes.
func (sc Script) End() float64 {
	end := 0.0
	for _, seg := range sc {
		if seg.End > end {
			end = seg.End
		}
	}
	return end
}

// Sorted returns a copy ordered by start time.
func (sc Script) Sorted() Script {
	out := append(Script(nil), sc...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}
