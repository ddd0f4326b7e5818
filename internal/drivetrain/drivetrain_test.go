package drivetrain_test

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/drivelab/internal/drivetrain"
	"github.com/san-kum/drivelab/internal/dynamo"
)

type fakeCollider struct {
	applied []drivetrain.WheelCommand
	pose    drivetrain.Pose
	reads   int
}

func (f *fakeCollider) Apply(cmd drivetrain.WheelCommand) { f.applied = append(f.applied, cmd) }

func (f *fakeCollider) WorldPose() drivetrain.Pose {
	f.reads++
	return f.pose
}

type fakeTransform struct {
	poses []drivetrain.Pose
}

func (f *fakeTransform) SetPose(p drivetrain.Pose) { f.poses = append(f.poses, p) }

var _ = Describe("Compute", func() {
	cfg := drivetrain.Config{MotorForce: 1000, BrakeForce: 3000, MaxSteerAngle: 30}

	It("matches the reference half-steer full-throttle tick", func() {
		cmd := drivetrain.Compute(drivetrain.Input{Steer: 0.5, Throttle: 1.0}, cfg)

		for _, w := range drivetrain.Wheels {
			Expect(cmd[w].SteerAngle).To(Equal(15.0), w.String())
			Expect(cmd[w].BrakeTorque).To(BeZero(), w.String())
		}
		Expect(cmd[drivetrain.FrontLeft].MotorTorque).To(Equal(1000.0))
		Expect(cmd[drivetrain.FrontRight].MotorTorque).To(Equal(1000.0))
		Expect(cmd[drivetrain.RearLeft].MotorTorque).To(BeZero())
		Expect(cmd[drivetrain.RearRight].MotorTorque).To(BeZero())
	})

	DescribeTable("steer angle is shared by all four wheels",
		func(steer float64) {
			cmd := drivetrain.Compute(drivetrain.Input{Steer: steer}, cfg)
			for _, w := range drivetrain.Wheels {
				Expect(cmd[w].SteerAngle).To(Equal(cmd.SteerAngle()))
			}
			Expect(math.Abs(cmd.SteerAngle())).To(BeNumerically("~", math.Abs(steer)*cfg.MaxSteerAngle, 1e-12))
		},
		Entry("full left", -1.0),
		Entry("quarter left", -0.25),
		Entry("centred", 0.0),
		Entry("third right", 0.33),
		Entry("full right", 1.0),
	)

	DescribeTable("motor torque drives the front axle only",
		func(throttle float64) {
			cmd := drivetrain.Compute(drivetrain.Input{Throttle: throttle}, cfg)
			Expect(cmd[drivetrain.FrontLeft].MotorTorque).To(Equal(throttle * cfg.MotorForce))
			Expect(cmd[drivetrain.FrontRight].MotorTorque).To(Equal(cmd[drivetrain.FrontLeft].MotorTorque))
			Expect(cmd[drivetrain.RearLeft].MotorTorque).To(BeZero())
			Expect(cmd[drivetrain.RearRight].MotorTorque).To(BeZero())
			Expect(cmd.RearTorque()).To(BeZero())
		},
		Entry("reverse", -1.0),
		Entry("coast", 0.0),
		Entry("part throttle", 0.4),
		Entry("full throttle", 1.0),
	)

	It("applies brake torque to every wheel only while braking", func() {
		on := drivetrain.Compute(drivetrain.Input{Braking: true, Throttle: 1}, cfg)
		off := drivetrain.Compute(drivetrain.Input{Braking: false, Throttle: 1}, cfg)
		for _, w := range drivetrain.Wheels {
			Expect(on[w].BrakeTorque).To(Equal(cfg.BrakeForce))
			Expect(off[w].BrakeTorque).To(BeZero())
		}
	})

	It("passes out-of-range input through unchanged", func() {
		cmd := drivetrain.Compute(drivetrain.Input{Steer: 2, Throttle: -3}, cfg)
		Expect(cmd.SteerAngle()).To(Equal(60.0))
		Expect(cmd.FrontTorque()).To(Equal(-3000.0))
	})

	It("keeps no memory between ticks", func() {
		in := drivetrain.Input{Steer: -0.7, Throttle: 0.2, Braking: true}
		first := drivetrain.Compute(in, cfg)
		drivetrain.Compute(drivetrain.Input{Steer: 1, Throttle: 1}, cfg)
		Expect(drivetrain.Compute(in, cfg)).To(Equal(first))
	})
})

var _ = Describe("Config", func() {
	It("accepts the defaults", func() {
		Expect(drivetrain.DefaultConfig().Validate()).To(Succeed())
	})

	DescribeTable("rejects negative or non-finite values",
		func(cfg drivetrain.Config) {
			Expect(cfg.Validate()).To(MatchError(dynamo.ErrParameterBounds))
		},
		Entry("negative motor force", drivetrain.Config{MotorForce: -1, BrakeForce: 1, MaxSteerAngle: 1}),
		Entry("negative brake force", drivetrain.Config{MotorForce: 1, BrakeForce: -1, MaxSteerAngle: 1}),
		Entry("negative steer angle", drivetrain.Config{MotorForce: 1, BrakeForce: 1, MaxSteerAngle: -30}),
		Entry("NaN motor force", drivetrain.Config{MotorForce: math.NaN(), BrakeForce: 1, MaxSteerAngle: 1}),
	)
})

var _ = Describe("Controller", func() {
	var (
		colliders   [4]*fakeCollider
		left, right *fakeTransform
		ctrl        *drivetrain.Controller
	)

	BeforeEach(func() {
		var cs [4]drivetrain.Collider
		for i := range colliders {
			colliders[i] = &fakeCollider{pose: drivetrain.Pose{
				Position: mgl64.Vec3{float64(i), 0.3, 1},
				Rotation: mgl64.QuatRotate(float64(i)*0.1, mgl64.Vec3{1, 0, 0}),
			}}
			cs[i] = colliders[i]
		}
		left, right = &fakeTransform{}, &fakeTransform{}

		var err error
		ctrl, err = drivetrain.NewController(drivetrain.DefaultConfig(), cs, left, right)
		Expect(err).NotTo(HaveOccurred())
	})

	It("applies each wheel's command to its collider", func() {
		cmd := ctrl.FixedUpdate(drivetrain.Input{Steer: 1, Throttle: 0.5, Braking: true})

		for _, w := range drivetrain.Wheels {
			Expect(colliders[w].applied).To(HaveLen(1))
			Expect(colliders[w].applied[0]).To(Equal(cmd[w]))
		}
		Expect(ctrl.Last()).To(Equal(cmd))
		Expect(ctrl.Ticks()).To(Equal(1))
	})

	It("copies front poses verbatim and leaves rear poses unapplied", func() {
		poses := ctrl.SyncWheels()

		Expect(left.poses).To(Equal([]drivetrain.Pose{colliders[drivetrain.FrontLeft].pose}))
		Expect(right.poses).To(Equal([]drivetrain.Pose{colliders[drivetrain.FrontRight].pose}))

		for _, w := range drivetrain.Wheels {
			Expect(colliders[w].reads).To(Equal(1), "every collider pose is read")
			Expect(poses[w]).To(Equal(colliders[w].pose))
		}
	})

	It("refuses invalid configuration at construction", func() {
		var cs [4]drivetrain.Collider
		for i := range cs {
			cs[i] = &fakeCollider{}
		}
		_, err := drivetrain.NewController(drivetrain.Config{MotorForce: -5}, cs, left, right)
		Expect(err).To(MatchError(dynamo.ErrParameterBounds))
	})

	It("refuses missing collaborators", func() {
		var cs [4]drivetrain.Collider
		cs[drivetrain.FrontLeft] = &fakeCollider{}
		_, err := drivetrain.NewController(drivetrain.DefaultConfig(), cs, left, right)
		Expect(err).To(MatchError(drivetrain.ErrMissingCollaborator))

		for i := range cs {
			cs[i] = &fakeCollider{}
		}
		_, err = drivetrain.NewController(drivetrain.DefaultConfig(), cs, left, nil)
		Expect(err).To(MatchError(drivetrain.ErrMissingCollaborator))
	})
})

var _ = Describe("Wheel", func() {
	It("names each position", func() {
		Expect(drivetrain.FrontLeft.String()).To(Equal("front_left"))
		Expect(drivetrain.RearRight.String()).To(Equal("rear_right"))
		Expect(drivetrain.RearLeft.IsFront()).To(BeFalse())
		Expect(drivetrain.FrontRight.IsFront()).To(BeTrue())
	})
})
