package config

import (
	"sort"

	"github.com/san-kum/flightdyn/internal/sim"
)

type preset struct {
	description string
	apply       func(*Config)
}

func keys(actions ...string) []string { return actions }

var presets = map[string]preset{
	"takeoff": {
		description: "full throttle from a standstill, rotate at 12s",
		apply: func(c *Config) {
			c.Run.Duration = 40
			c.Script = []sim.Segment{
				{Start: 0, Actions: keys("throttle"), Controlled: true},
				{Start: 12, End: 16, Actions: keys("pitchUp")},
			}
		},
	},
	"cruise": {
		description: "level flight at full power",
		apply: func(c *Config) {
			c.Run.Duration = 30
			c.Run.Start = sim.Start{Altitude: 300, Speed: 50, Power: 1}
			c.Script = []sim.Segment{
				{Start: 0, Actions: keys("throttle"), Controlled: true},
			}
		},
	},
	"stall": {
		description: "hold pitch up at low power until the wing lets go",
		apply: func(c *Config) {
			c.Run.Duration = 25
			c.Run.Start = sim.Start{Altitude: 600, Speed: 35, Power: 0.3}
			c.Script = []sim.Segment{
				{Start: 0, Controlled: true},
				{Start: 2, End: 12, Actions: keys("pitchUp")},
			}
		},
	},
	"glide": {
		description: "engine off, hands off",
		apply: func(c *Config) {
			c.Run.Duration = 40
			c.Run.Start = sim.Start{Altitude: 400, Speed: 40}
		},
	},
	"roll": {
		description: "left roll, right roll, then both keys together",
		apply: func(c *Config) {
			c.Run.Duration = 20
			c.Run.Start = sim.Start{Altitude: 500, Speed: 50, Power: 1}
			c.Script = []sim.Segment{
				{Start: 0, Actions: keys("throttle"), Controlled: true},
				{Start: 2, End: 4, Actions: keys("rollLeft")},
				{Start: 6, End: 8, Actions: keys("rollRight")},
				{Start: 10, End: 12, Actions: keys("rollLeft", "rollRight")},
			}
		},
	},
	"yaw": {
		description: "rudder kicks in flight; the nose wheel stays centred",
		apply: func(c *Config) {
			c.Run.Duration = 15
			c.Run.Start = sim.Start{Altitude: 400, Speed: 45, Power: 1}
			c.Script = []sim.Segment{
				{Start: 0, Actions: keys("throttle"), Controlled: true},
				{Start: 2, End: 5, Actions: keys("yawLeft")},
				{Start: 8, End: 11, Actions: keys("yawRight")},
			}
		},
	},
	"rollout": {
		description: "wheel brakes after touchdown",
		apply: func(c *Config) {
			c.Run.Duration = 20
			c.Run.Start = sim.Start{Speed: 25}
			c.Script = []sim.Segment{
				{Start: 1, Actions: keys("wheelBrake")},
			}
		},
	},
}

// GetPreset returns a fresh config for the named preset, or nil.
func GetPreset(name string) *Config {
	p, ok := presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Preset = name
	p.apply(cfg)
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func PresetDescription(name string) string {
	return presets[name].description
}
