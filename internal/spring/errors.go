package spring

import "errors"

// Construction errors. A spring built from any of these would either never
// move or blow up, so New refuses them.
var (
	ErrInvalidFrameRate = errors.New("spring: frame rate must be positive")
	ErrInvalidMass      = errors.New("spring: mass must be positive")
	ErrInvalidDamping   = errors.New("spring: damping must be positive")

	// ErrUnstable indicates damping/(2*mass*frameRate) >= 0.5, where the
	// semi-implicit sub-step starts to oscillate.
	ErrUnstable = errors.New("spring: sub-step too coarse for damping/mass ratio")
)
