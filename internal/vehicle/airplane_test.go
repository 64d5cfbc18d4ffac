package vehicle_test

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/rs/zerolog"

	"github.com/san-kum/flightdyn/internal/aero"
	"github.com/san-kum/flightdyn/internal/input"
	"github.com/san-kum/flightdyn/internal/rigidbody"
	"github.com/san-kum/flightdyn/internal/scene"
	"github.com/san-kum/flightdyn/internal/vehicle"
)

const frame = 1.0 / 60

var _ = Describe("Airplane", func() {
	var (
		cfg   vehicle.AirplaneConfig
		reg   *scene.Registry
		plane *vehicle.Airplane
		body  *rigidbody.Body
		v     *vehicle.Vehicle
	)

	BeforeEach(func() {
		var err error
		cfg = vehicle.DefaultAirplaneConfig()
		reg = scene.NewRegistry()
		plane, err = vehicle.NewAirplane(cfg, reg, zerolog.Nop())
		Expect(err).NotTo(HaveOccurred())

		body, err = rigidbody.NewBody(rigidbody.DefaultConfig())
		Expect(err).NotTo(HaveOccurred())
		v = vehicle.New(body, plane)
	})

	fly := func(pos, vel mgl64.Vec3) {
		body.Reset(pos, vel)
	}

	It("registers every configured scene node", func() {
		for _, name := range cfg.Nodes.All() {
			_, err := reg.Resolve(name)
			Expect(err).NotTo(HaveOccurred(), name)
		}
	})

	Context("airborne with yaw left held", func() {
		BeforeEach(func() {
			fly(mgl64.Vec3{0, 200, 0}, mgl64.Vec3{0, 0, 40})
			v.SetInput(input.Press(input.YawLeft))
		})

		It("keeps the steering wheel neutral and deflects the rudder", func() {
			Expect(body.WheelsOnGround()).To(Equal(0))
			for i := 0; i < 60; i++ {
				v.Update(frame)
			}

			targets := plane.Surfaces().Targets()
			Expect(targets.Steering).To(BeZero())
			Expect(targets.Rudder).To(BeNumerically("~", cfg.Surfaces.Rudder.Deflection, 1e-12))

			pos := plane.Surfaces().Positions()
			Expect(pos.Steering).To(BeZero())
			Expect(pos.Rudder).To(BeNumerically(">", 0.9*cfg.Surfaces.Rudder.Deflection))

			rudder, _ := reg.Resolve(cfg.Nodes.Rudder)
			Expect(reg.Rotation(rudder)).To(Equal(pos.Rudder))
		})

		It("steers the nose wheel once back on the ground", func() {
			fly(mgl64.Vec3{}, mgl64.Vec3{0, 0, 5})
			Expect(body.WheelsOnGround()).To(Equal(rigidbody.GroundWheels))
			v.Update(frame)
			Expect(plane.Surfaces().Targets().Steering).To(BeNumerically(">", 0))
		})
	})

	Context("with both roll keys held", func() {
		BeforeEach(func() {
			fly(mgl64.Vec3{0, 200, 0}, mgl64.Vec3{0, 0, 50})
			v.SetInput(input.Press(input.RollLeft, input.RollRight))
		})

		It("centres the ailerons", func() {
			v.Update(frame)
			Expect(plane.Surfaces().Targets().Aileron).To(BeZero())
			Expect(plane.Surfaces().Positions().Aileron).To(BeZero())
		})

		It("applies equal and opposite wingtip forces", func() {
			v.PhysicsPreStep(1.0 / 120)
			res := plane.LastForces()

			left, ok := res.Find(aero.KindRollLeft)
			Expect(ok).To(BeTrue())
			right, ok := res.Find(aero.KindRollRight)
			Expect(ok).To(BeTrue())

			sum := left.Force.Add(right.Force)
			Expect(sum.Len()).To(BeNumerically("<", 1e-12))
			Expect(left.Torque().Add(right.Torque()).Len()).To(BeNumerically("<", 1e-9))
		})
	})

	Context("when control is lost at full power", func() {
		BeforeEach(func() {
			fly(mgl64.Vec3{0, 200, 0}, mgl64.Vec3{0, 0, 40})
			plane.Engine().SetPower(1)
			v.SetControlled(false)
		})

		It("winds the engine down linearly to zero", func() {
			decay := 1 / cfg.Engine.RampDown
			steps := int(math.Ceil(decay / frame))
			half := steps / 2

			for i := 0; i < steps+60; i++ {
				v.Update(frame)
				p := plane.Engine().Power()
				Expect(p).To(BeNumerically(">=", 0))
				if i+1 == half {
					Expect(p).To(BeNumerically("~", 1-cfg.Engine.RampDown*float64(half)*frame, 1e-9))
				}
			}
			Expect(plane.Engine().Power()).To(BeZero())
		})
	})

	Context("when controlled", func() {
		It("spools the engine up and spins the rotor", func() {
			v.SetControlled(true)
			v.Update(0.5)

			Expect(plane.Engine().Power()).To(BeNumerically("~", 0.5*cfg.Engine.RampUp, 1e-12))
			Expect(plane.RotorAngle()).To(Equal(plane.Engine().SpinAngle()))
			Expect(plane.RotorAngle()).To(BeNumerically(">", 0))
		})
	})

	Context("in level cruise", func() {
		It("produces only thrust and the baseline forces", func() {
			fly(mgl64.Vec3{0, 200, 0}, mgl64.Vec3{0, 0, 50})
			plane.Engine().SetPower(1)
			v.SetInput(input.Press(input.Throttle))

			v.PhysicsPreStep(1.0 / 120)
			res := plane.LastForces()

			Expect(res.Alpha).To(BeZero())
			Expect(res.Beta).To(BeZero())
			Expect(res.LiftCoefficient).To(BeZero())
			Expect(res.DragCoefficient).To(BeNumerically("~", 0.35, 1e-12))

			thrust, ok := res.Find(aero.KindThrust)
			Expect(ok).To(BeTrue())
			Expect(thrust.Force.Z()).To(Equal(cfg.Aero.MaxThrust))

			Expect(vecNear(body.PendingForce(), res.NetForce(), 1e-6)).To(BeTrue())
			Expect(plane.Stalled()).To(BeFalse())
		})
	})

	Context("inside a world", func() {
		It("accelerates down the runway under throttle", func() {
			world, err := rigidbody.NewWorld(1.0/120, 0)
			Expect(err).NotTo(HaveOccurred())
			world.AddBody(body)
			world.AddPreStep(v.PhysicsPreStep)

			v.SetControlled(true)
			v.SetInput(input.Press(input.Throttle))
			for i := 0; i < 5*60; i++ {
				world.Step(frame)
				v.Update(frame)
			}

			Expect(body.Velocity.Len()).To(BeNumerically(">", 5))
			Expect(body.Valid()).To(BeTrue())
			Expect(plane.Idle(v)).To(BeFalse())
		})
	})

	It("resets to a parked state", func() {
		v.SetControlled(true)
		v.SetInput(input.Press(input.Throttle, input.PitchUp))
		v.Update(1)
		v.Reset()

		Expect(plane.Engine().Power()).To(BeZero())
		Expect(plane.Surfaces().Positions().Elevator).To(BeZero())
		Expect(plane.RotorAngle()).To(BeZero())
		Expect(v.Controlled()).To(BeFalse())
		Expect(plane.Idle(v)).To(BeTrue())
	})
})

var _ = Describe("NewAirplane", func() {
	It("rejects a degenerate spring", func() {
		cfg := vehicle.DefaultAirplaneConfig()
		cfg.Surfaces.Elevator.Spring.Mass = 0
		_, err := vehicle.NewAirplane(cfg, nil, zerolog.Nop())
		Expect(err).To(MatchError(ContainSubstring("elevator")))
	})
})

func vecNear(got, want mgl64.Vec3, tol float64) bool {
	return got.Sub(want).Len() < tol
}
