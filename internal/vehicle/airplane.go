package vehicle

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"
	"github.com/san-kum/flightdyn/internal/aero"
	"github.com/san-kum/flightdyn/internal/engine"
	"github.com/san-kum/flightdyn/internal/logging"
	"github.com/san-kum/flightdyn/internal/scene"
	"github.com/san-kum/flightdyn/internal/spring"
	"github.com/san-kum/flightdyn/internal/surfaces"
)

type AirplaneConfig struct {
	Aero     aero.Config        `yaml:"aero"`
	Engine   engine.Config      `yaml:"engine"`
	Surfaces surfaces.Config    `yaml:"surfaces"`
	Nodes    surfaces.NodeNames `yaml:"nodes"`
}

func DefaultAirplaneConfig() AirplaneConfig {
	return AirplaneConfig{
		Aero:     aero.DefaultConfig(),
		Engine:   engine.DefaultConfig(),
		Surfaces: surfaces.DefaultConfig(),
		Nodes:    surfaces.DefaultNodeNames(),
	}
}

// Airplane is the fixed-wing Strategy: aerodynamic forces on every physics
// step, control-surface springs and engine ramp on every frame.
type Airplane struct {
	aero     *aero.Model
	engine   *engine.Model
	surfaces *surfaces.Controller
	scene    *scene.Registry
	rotor    scene.Handle

	last    aero.Result
	stalled bool
	log     zerolog.Logger
}

var _ Strategy = (*Airplane)(nil)

// NewAirplane resolves the configured node names against reg, adding any
// that are missing, and builds the per-axis springs.
func NewAirplane(cfg AirplaneConfig, reg *scene.Registry, log zerolog.Logger) (*Airplane, error) {
	if reg == nil {
		reg = scene.NewRegistry()
	}
	for _, name := range cfg.Nodes.All() {
		if _, err := reg.Resolve(name); err != nil {
			reg.Add(name)
		}
	}

	ctl, err := surfaces.NewController(cfg.Surfaces, surfaces.Bind(reg, cfg.Nodes), reg,
		spring.WithLogger(logging.Sampled(log)))
	if err != nil {
		return nil, fmt.Errorf("airplane: %w", err)
	}

	return &Airplane{
		aero:     aero.New(cfg.Aero),
		engine:   engine.New(cfg.Engine),
		surfaces: ctl,
		scene:    reg,
		rotor:    reg.ResolveOptional(cfg.Nodes.Rotor),
		log:      log,
	}, nil
}

func (a *Airplane) PreStep(v *Vehicle, dt float64) {
	res := a.aero.Compute(aero.Input{
		Kinematics:  v.Body().Kinematics(),
		Controls:    v.Input(),
		EnginePower: a.engine.Power(),
	})
	res.Apply(v.Body())
	a.last = res

	stalled := math.Abs(res.Alpha) >= a.aero.Config().MaxStallAngle
	if stalled != a.stalled {
		a.log.Debug().
			Bool("stalled", stalled).
			Float64("alpha", res.Alpha).
			Float64("speed", res.Speed).
			Msg("stall state changed")
		a.stalled = stalled
	}
}

func (a *Airplane) Update(v *Vehicle, dt float64) {
	k := v.Body().Kinematics()
	a.surfaces.Update(dt, v.Input(), k.WheelsOnGround)
	a.engine.Update(dt, v.Controlled())
	if a.rotor != scene.NoHandle {
		a.scene.SetRotation(a.rotor, a.engine.SpinAngle())
	}
}

func (a *Airplane) Reset() {
	a.surfaces.Reset()
	a.engine.Reset()
	a.last = aero.Result{}
	a.stalled = false
	if a.rotor != scene.NoHandle {
		a.scene.SetRotation(a.rotor, 0)
	}
}

// LastForces is the most recent aerodynamic evaluation.
func (a *Airplane) LastForces() aero.Result { return a.last }

func (a *Airplane) Stalled() bool                  { return a.stalled }
func (a *Airplane) Engine() *engine.Model          { return a.engine }
func (a *Airplane) Surfaces() *surfaces.Controller { return a.surfaces }
func (a *Airplane) Scene() *scene.Registry         { return a.scene }

// RotorAngle reads the spin written to the rotor node.
func (a *Airplane) RotorAngle() float64 { return a.scene.Rotation(a.rotor) }

// Idle reports whether the pilot is touching none of the directional inputs.
func (a *Airplane) Idle(v *Vehicle) bool {
	return surfaces.NoDirectionPressed(v.Input())
}
