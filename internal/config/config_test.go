package config

import (
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/flightdyn/internal/rigidbody"
	"github.com/san-kum/flightdyn/internal/sim"
	"github.com/san-kum/flightdyn/internal/spring"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	require.NoError(t, cfg.Validate())
	assert.Greater(t, cfg.Run.PhysicsDt, 0.0)
	assert.Greater(t, cfg.Run.Duration, 0.0)
	assert.Equal(t, 0.35, cfg.Airplane.Aero.DragBase)
	assert.Equal(t, 0.4, cfg.Airplane.Engine.RampUp)
	assert.Equal(t, 0.12, cfg.Airplane.Engine.RampDown)
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("cruise")
	require.NotNil(t, cfg)
	assert.Equal(t, "cruise", cfg.Preset)
	assert.Equal(t, 50.0, cfg.Run.Start.Speed)
	assert.Equal(t, 1.0, cfg.Run.Start.Power)

	again := GetPreset("cruise")
	again.Run.Start.Speed = 1
	assert.Equal(t, 50.0, GetPreset("cruise").Run.Start.Speed, "presets must not share state")
}

func TestGetPreset_NotFound(t *testing.T) {
	assert.Nil(t, GetPreset("nonexistent"))
	assert.Empty(t, PresetDescription("nonexistent"))
}

func TestPresetsValidate(t *testing.T) {
	names := ListPresets()
	require.NotEmpty(t, names)
	assert.IsIncreasing(t, names)
	assert.Contains(t, names, "takeoff")

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			cfg := GetPreset(name)
			require.NotNil(t, cfg)
			assert.NoError(t, cfg.Validate())
			assert.NotEmpty(t, PresetDescription(name))
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roll.yaml")
	cfg := GetPreset("roll")
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestParseKeepsDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
run:
  duration: 12
airplane:
  aero:
    max_thrust: 900
    aero_center: [0, 0.5, -1]
script:
  - start: 1
    end: 2
    actions: [throttle, wheel_brake]
    controlled: true
`))
	require.NoError(t, err)

	def := DefaultConfig()
	assert.Equal(t, 12.0, cfg.Run.Duration)
	assert.Equal(t, def.Run.PhysicsDt, cfg.Run.PhysicsDt)
	assert.Equal(t, 900.0, cfg.Airplane.Aero.MaxThrust)
	assert.Equal(t, def.Airplane.Aero.WingArea, cfg.Airplane.Aero.WingArea)
	assert.Equal(t, mgl64.Vec3{0, 0.5, -1}, cfg.Airplane.Aero.AeroCenter)
	assert.Equal(t, def.Airplane.Surfaces, cfg.Airplane.Surfaces)
	require.Len(t, cfg.Script, 1)
	assert.Equal(t, []string{"throttle", "wheel_brake"}, cfg.Script[0].Actions)
	assert.NoError(t, cfg.Validate())
}

func TestParseRejectsMalformed(t *testing.T) {
	_, err := Parse([]byte("run: [1, 2"))
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		target error
	}{
		{"zero dt", func(c *Config) { c.Run.PhysicsDt = 0 }, sim.ErrInvalidConfig},
		{"zero duration", func(c *Config) { c.Run.Duration = 0 }, sim.ErrInvalidConfig},
		{"unknown action", func(c *Config) {
			c.Script = sim.Script{{Start: 0, Actions: []string{"loop"}}}
		}, sim.ErrInvalidConfig},
		{"massless body", func(c *Config) { c.Body.Mass = 0 }, rigidbody.ErrInvalidMass},
		{"massless spring", func(c *Config) { c.Airplane.Surfaces.Aileron.Spring.Mass = 0 }, spring.ErrInvalidMass},
		{"stiff spring", func(c *Config) { c.Airplane.Surfaces.Rudder.Spring.Damping = 1000 }, spring.ErrUnstable},
		{"no wing", func(c *Config) { c.Airplane.Aero.WingArea = 0 }, ErrInvalid},
		{"stall angles swapped", func(c *Config) { c.Airplane.Aero.DeepStallAngle = 0.1 }, ErrInvalid},
		{"negative ramp", func(c *Config) { c.Airplane.Engine.RampDown = -1 }, ErrInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalid)
			assert.ErrorIs(t, err, tt.target)
		})
	}
}
