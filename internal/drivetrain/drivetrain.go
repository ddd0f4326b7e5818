package drivetrain

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/drivelab/internal/dynamo"
)

type Wheel int

const (
	FrontLeft Wheel = iota
	FrontRight
	RearLeft
	RearRight
)

// Wheels lists every wheel in index order.
var Wheels = [4]Wheel{FrontLeft, FrontRight, RearLeft, RearRight}

func (w Wheel) String() string {
	switch w {
	case FrontLeft:
		return "front_left"
	case FrontRight:
		return "front_right"
	case RearLeft:
		return "rear_left"
	case RearRight:
		return "rear_right"
	}
	return fmt.Sprintf("wheel(%d)", int(w))
}

func (w Wheel) IsFront() bool { return w == FrontLeft || w == FrontRight }

type Config struct {
	MotorForce    float64 `yaml:"motor_force" json:"motor_force"`
	BrakeForce    float64 `yaml:"brake_force" json:"brake_force"`
	MaxSteerAngle float64 `yaml:"max_steer_angle" json:"max_steer_angle"`
}

func DefaultConfig() Config {
	return Config{
		MotorForce:    1000,
		BrakeForce:    3000,
		MaxSteerAngle: 30,
	}
}

// Validate rejects negative or non-finite values. A negative force would
// silently invert the physics at tick time.
func (c Config) Validate() error {
	if err := dynamo.CheckParam("motor force", c.MotorForce); err != nil {
		return err
	}
	if err := dynamo.CheckParam("brake force", c.BrakeForce); err != nil {
		return err
	}
	if err := dynamo.CheckParam("max steer angle", c.MaxSteerAngle); err != nil {
		return err
	}
	return nil
}

// Input is one tick of driver intent. Steer and Throttle are nominally in
// [-1, 1]; values outside pass through unchecked.
type Input struct {
	Steer    float64
	Throttle float64
	Braking  bool
}

type WheelCommand struct {
	MotorTorque float64
	BrakeTorque float64
	SteerAngle  float64
}

// Command holds one WheelCommand per wheel, indexed by Wheel.
type Command [4]WheelCommand

// Compute derives the actuator commands for a tick. It keeps no state:
// the same input always yields the same command.
func Compute(in Input, cfg Config) Command {
	motor := in.Throttle * cfg.MotorForce
	brake := 0.0
	if in.Braking {
		brake = cfg.BrakeForce
	}
	steer := in.Steer * cfg.MaxSteerAngle

	var cmd Command
	for _, w := range Wheels {
		cmd[w] = WheelCommand{BrakeTorque: brake, SteerAngle: steer}
		if w.IsFront() {
			cmd[w].MotorTorque = motor
		}
	}
	return cmd
}

// FrontTorque returns the motor torque of the driven axle.
func (c Command) FrontTorque() float64 { return c[FrontLeft].MotorTorque }

func (c Command) RearTorque() float64 { return c[RearLeft].MotorTorque }

func (c Command) BrakeTorque() float64 { return c[FrontLeft].BrakeTorque }

func (c Command) SteerAngle() float64 { return c[FrontLeft].SteerAngle }

// Pose is a world-space wheel placement.
type Pose struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
}

func IdentityPose() Pose {
	return Pose{Rotation: mgl64.QuatIdent()}
}

// Poses holds the pose read from each wheel's collider, indexed by Wheel.
type Poses [4]Pose
