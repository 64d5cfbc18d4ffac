package rigidbody

// DefaultMaxSubSteps bounds the physics steps taken for a single frame.
const DefaultMaxSubSteps = 64

// PreStepFunc runs before every fixed physics step.
type PreStepFunc func(dt float64)

type World struct {
	physicsDt   float64
	maxSubSteps int

	bodies []*Body
	hooks  []PreStepFunc

	acc     float64
	time    float64
	steps   int
	dropped int
}

func NewWorld(physicsDt float64, maxSubSteps int) (*World, error) {
	if !(physicsDt > 0) {
		return nil, ErrInvalidStep
	}
	if maxSubSteps <= 0 {
		maxSubSteps = DefaultMaxSubSteps
	}
	return &World{physicsDt: physicsDt, maxSubSteps: maxSubSteps}, nil
}

func (w *World) AddBody(b *Body)           { w.bodies = append(w.bodies, b) }
func (w *World) AddPreStep(fn PreStepFunc) { w.hooks = append(w.hooks, fn) }

// Step consumes frameDt of wall time in fixed physics steps and returns how
// many were taken. Time left over is carried into the next frame unless the
// sub-step cap was hit, in which case it is dropped.
func (w *World) Step(frameDt float64) int {
	if !(frameDt > 0) {
		return 0
	}
	w.acc += frameDt

	n := 0
	for w.acc+1e-12 >= w.physicsDt {
		if n == w.maxSubSteps {
			w.acc = 0
			w.dropped++
			break
		}
		for _, hook := range w.hooks {
			hook(w.physicsDt)
		}
		for _, b := range w.bodies {
			b.Integrate(w.physicsDt)
		}
		w.acc -= w.physicsDt
		w.time += w.physicsDt
		w.steps++
		n++
	}
	if w.acc < 0 {
		w.acc = 0
	}
	return n
}

func (w *World) PhysicsDt() float64 { return w.physicsDt }
func (w *World) Time() float64      { return w.time }
func (w *World) Steps() int         { return w.steps }

// Dropped counts frames whose leftover time was discarded at the cap.
func (w *World) Dropped() int { return w.dropped }

func (w *World) Reset() {
	w.acc = 0
	w.time = 0
	w.steps = 0
	w.dropped = 0
}
