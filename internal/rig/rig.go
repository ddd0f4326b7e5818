package rig

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/drivelab/internal/drivetrain"
	"github.com/san-kum/drivelab/internal/dynamo"
)

type Config struct {
	Track     float64     `yaml:"track"`
	Wheelbase float64     `yaml:"wheelbase"`
	Wheel     WheelParams `yaml:"wheel"`
}

func DefaultConfig() Config {
	return Config{
		Track:     1.55,
		Wheelbase: 2.6,
		Wheel:     DefaultWheelParams(),
	}
}

func (c Config) Validate() error {
	if err := dynamo.CheckParam("track", c.Track); err != nil {
		return err
	}
	if err := dynamo.CheckParam("wheelbase", c.Wheelbase); err != nil {
		return err
	}
	return c.Wheel.Validate()
}

// Rig holds four wheels around a chassis origin at (0, radius, 0). X is
// right, Y is up and Z is forward.
type Rig struct {
	cfg    Config
	wheels [4]*Wheel
}

func New(cfg Config, integ func() dynamo.Integrator) (*Rig, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("rig config: %w", err)
	}
	hx, hz, y := cfg.Track/2, cfg.Wheelbase/2, cfg.Wheel.Radius
	mounts := [4]mgl64.Vec3{
		drivetrain.FrontLeft:  {-hx, y, hz},
		drivetrain.FrontRight: {hx, y, hz},
		drivetrain.RearLeft:   {-hx, y, -hz},
		drivetrain.RearRight:  {hx, y, -hz},
	}
	r := &Rig{cfg: cfg}
	for _, w := range drivetrain.Wheels {
		r.wheels[w] = NewWheel(mounts[w], cfg.Wheel, integ())
	}
	return r, nil
}

func (r *Rig) Wheel(w drivetrain.Wheel) *Wheel { return r.wheels[w] }

// Colliders returns the wheels in drivetrain index order.
func (r *Rig) Colliders() [4]drivetrain.Collider {
	var out [4]drivetrain.Collider
	for _, w := range drivetrain.Wheels {
		out[w] = r.wheels[w]
	}
	return out
}

// Step integrates every wheel and joins any errors.
func (r *Rig) Step(dt float64) error {
	var errs []error
	for _, w := range drivetrain.Wheels {
		if err := r.wheels[w].Step(dt); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", w, err))
		}
	}
	return errors.Join(errs...)
}

func (r *Rig) Reset() {
	for _, w := range r.wheels {
		w.Reset()
	}
}

// Visual is a drivetrain.Transform that remembers what it was given.
type Visual struct {
	Name    string
	pose    drivetrain.Pose
	updates int
}

func NewVisual(name string) *Visual {
	return &Visual{Name: name, pose: drivetrain.IdentityPose()}
}

func (v *Visual) SetPose(p drivetrain.Pose) {
	v.pose = p
	v.updates++
}

func (v *Visual) Pose() drivetrain.Pose { return v.pose }

func (v *Visual) Updates() int { return v.updates }
