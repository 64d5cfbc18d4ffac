package surfaces

type SpringConfig struct {
	FrameRate float64 `yaml:"frame_rate"`
	Mass      float64 `yaml:"mass"`
	Damping   float64 `yaml:"damping"`
}

type AxisConfig struct {
	Spring     SpringConfig `yaml:"spring"`
	Deflection float64      `yaml:"deflection"` // radians at full input
}

type Config struct {
	Steering AxisConfig `yaml:"steering"`
	Aileron  AxisConfig `yaml:"aileron"`
	Elevator AxisConfig `yaml:"elevator"`
	Rudder   AxisConfig `yaml:"rudder"`
}

func DefaultConfig() Config {
	return Config{
		Steering: AxisConfig{Spring: SpringConfig{FrameRate: 60, Mass: 1, Damping: 16}, Deflection: 0.6},
		Aileron:  AxisConfig{Spring: SpringConfig{FrameRate: 60, Mass: 1, Damping: 20}, Deflection: 0.4},
		Elevator: AxisConfig{Spring: SpringConfig{FrameRate: 60, Mass: 1, Damping: 20}, Deflection: 0.4},
		Rudder:   AxisConfig{Spring: SpringConfig{FrameRate: 60, Mass: 1, Damping: 16}, Deflection: 0.4},
	}
}

// NodeNames names the scene nodes each surface role writes to.
type NodeNames struct {
	Steering     string   `yaml:"steering"`
	AileronLeft  string   `yaml:"aileron_left"`
	AileronRight string   `yaml:"aileron_right"`
	Elevators    []string `yaml:"elevators"`
	Rudder       string   `yaml:"rudder"`
	Rotor        string   `yaml:"rotor"`
}

func DefaultNodeNames() NodeNames {
	return NodeNames{
		Steering:     "wheel_front",
		AileronLeft:  "aileron_left",
		AileronRight: "aileron_right",
		Elevators:    []string{"elevator_left", "elevator_right"},
		Rudder:       "rudder",
		Rotor:        "rotor",
	}
}

// All returns every configured node name, skipping empty ones.
func (n NodeNames) All() []string {
	names := []string{n.Steering, n.AileronLeft, n.AileronRight, n.Rudder, n.Rotor}
	names = append(names, n.Elevators...)
	out := names[:0]
	for _, s := range names {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
