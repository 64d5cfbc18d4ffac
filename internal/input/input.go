// Package input holds the named boolean control actions a vehicle reads each
// tick. The core only ever receives a State by value; Tracker is the
// harness side that derives the edge flags from raw pressed sets.
package input

import (
	"fmt"
	"strings"
)

type Action int

const (
	Throttle Action = iota
	Brake
	WheelBrake
	PitchUp
	PitchDown
	YawLeft
	YawRight
	RollLeft
	RollRight

	NumActions
)

var actionNames = [NumActions]string{
	Throttle:   "throttle",
	Brake:      "brake",
	WheelBrake: "wheelBrake",
	PitchUp:    "pitchUp",
	PitchDown:  "pitchDown",
	YawLeft:    "yawLeft",
	YawRight:   "yawRight",
	RollLeft:   "rollLeft",
	RollRight:  "rollRight",
}

func (a Action) String() string {
	if a < 0 || a >= NumActions {
		return fmt.Sprintf("Action(%d)", int(a))
	}
	return actionNames[a]
}

// ParseAction is case-insensitive and accepts "wheel_brake" style names.
func ParseAction(name string) (Action, error) {
	key := strings.ToLower(strings.ReplaceAll(name, "_", ""))
	for a := Action(0); a < NumActions; a++ {
		if strings.ToLower(actionNames[a]) == key {
			return a, nil
		}
	}
	return 0, fmt.Errorf("unknown action: %s", name)
}

// AllActions lists every action in declaration order.
func AllActions() []Action {
	all := make([]Action, NumActions)
	for i := range all {
		all[i] = Action(i)
	}
	return all
}

type ActionState struct {
	IsPressed    bool
	JustPressed  bool
	JustReleased bool
}

type State [NumActions]ActionState

func (s State) Pressed(a Action) bool      { return s[a].IsPressed }
func (s State) JustPressed(a Action) bool  { return s[a].JustPressed }
func (s State) JustReleased(a Action) bool { return s[a].JustReleased }

// Axis resolves an opposed pair: +1 when only positive is pressed, -1 when
// only negative is pressed, 0 when both or neither are.
func (s State) Axis(positive, negative Action) float64 {
	p, n := s.Pressed(positive), s.Pressed(negative)
	switch {
	case p && !n:
		return 1
	case n && !p:
		return -1
	default:
		return 0
	}
}

// AnyPressed reports whether at least one of the given actions is held.
func (s State) AnyPressed(actions ...Action) bool {
	for _, a := range actions {
		if s.Pressed(a) {
			return true
		}
	}
	return false
}

// Press returns a State with the given actions held and no edge flags set.
func Press(actions ...Action) State {
	var s State
	for _, a := range actions {
		s[a].IsPressed = true
	}
	return s
}

// Tracker turns a sequence of pressed sets into States with
// JustPressed/JustReleased set on the frame the level changes.
type Tracker struct {
	current State
}

func (t *Tracker) Set(a Action, pressed bool) {
	prev := t.current[a].IsPressed
	t.current[a] = ActionState{
		IsPressed:    pressed,
		JustPressed:  pressed && !prev,
		JustReleased: !pressed && prev,
	}
}

// Apply sets every action from the pressed set; actions not listed are
// released.
func (t *Tracker) Apply(pressed []Action) {
	var held [NumActions]bool
	for _, a := range pressed {
		held[a] = true
	}
	for a := Action(0); a < NumActions; a++ {
		t.Set(a, held[a])
	}
}

func (t *Tracker) State() State { return t.current }

func (t *Tracker) Reset() { t.current = State{} }
