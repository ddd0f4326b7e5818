package drivetrain

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Collider is the physics host's wheel: it accepts actuator values and
// reports where it ended up after the host integrated them.
type Collider interface {
	Apply(cmd WheelCommand)
	WorldPose() Pose
}

// Transform is a visual wheel mesh.
type Transform interface {
	SetPose(p Pose)
}

var ErrMissingCollaborator = errors.New("drivetrain: missing collaborator")

type Option func(*Controller)

func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

// Controller drives four colliders and mirrors the front poses onto
// visual transforms. It is not safe for concurrent use; the host calls it
// from its physics loop.
type Controller struct {
	cfg        Config
	colliders  [4]Collider
	frontLeft  Transform
	frontRight Transform
	last       Command
	ticks      int
	log        *zap.Logger
}

// NewController validates cfg and wires the collaborators. Colliders are
// indexed by Wheel. Only untyped nil collaborators are caught here; a nil
// pointer wrapped in the interface panics on the first SyncWheels.
func NewController(cfg Config, colliders [4]Collider, frontLeft, frontRight Transform, opts ...Option) (*Controller, error) {
	c := &Controller{
		cfg:        cfg,
		colliders:  colliders,
		frontLeft:  frontLeft,
		frontRight: frontRight,
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if err := cfg.Validate(); err != nil {
		c.log.Warn("drivetrain config rejected", zap.Error(err))
		return nil, fmt.Errorf("drivetrain config: %w", err)
	}
	for _, w := range Wheels {
		if colliders[w] == nil {
			return nil, fmt.Errorf("%s collider: %w", w, ErrMissingCollaborator)
		}
	}
	if frontLeft == nil || frontRight == nil {
		return nil, fmt.Errorf("front wheel transform: %w", ErrMissingCollaborator)
	}

	c.log.Debug("drivetrain ready",
		zap.Float64("motor_force", cfg.MotorForce),
		zap.Float64("brake_force", cfg.BrakeForce),
		zap.Float64("max_steer_angle", cfg.MaxSteerAngle),
	)
	return c, nil
}

func (c *Controller) Config() Config { return c.cfg }

// Last returns the command applied by the most recent FixedUpdate.
func (c *Controller) Last() Command { return c.last }

func (c *Controller) Ticks() int { return c.ticks }

// FixedUpdate computes this tick's command and applies it to every
// collider.
func (c *Controller) FixedUpdate(in Input) Command {
	cmd := Compute(in, c.cfg)
	for _, w := range Wheels {
		c.colliders[w].Apply(cmd[w])
	}
	c.last = cmd
	c.ticks++
	return cmd
}

// SyncWheels copies the front colliders' poses onto their transforms.
// Call it after the physics host has stepped. Rear poses are read and
// returned for tracing but there is no rear transform to receive them.
func (c *Controller) SyncWheels() Poses {
	var poses Poses
	for _, w := range Wheels {
		poses[w] = c.colliders[w].WorldPose()
	}
	c.frontLeft.SetPose(poses[FrontLeft])
	c.frontRight.SetPose(poses[FrontRight])
	return poses
}
