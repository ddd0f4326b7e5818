// Package rig is a bench host for the drivetrain: four wheel colliders
// bolted to a fixed chassis, plus visual transforms that record what they
// are told.
//
// Each wheel spins under the motor and brake torque it is given and turns
// about its vertical axis by the commanded steer angle. The chassis never
// moves; the rig exists so poses change in a way tests and the dashboard
// can observe, not to model a car.
package rig

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/drivelab/internal/drivetrain"
	"github.com/san-kum/drivelab/internal/dynamo"
)

type WheelParams struct {
	Radius  float64 `yaml:"radius"`
	Inertia float64 `yaml:"inertia"`
	Drag    float64 `yaml:"drag"`
}

func DefaultWheelParams() WheelParams {
	return WheelParams{
		Radius:  0.34,
		Inertia: 1.2,
		Drag:    0.8,
	}
}

func (p WheelParams) Validate() error {
	for _, v := range []struct {
		name string
		v    float64
	}{{"wheel radius", p.Radius}, {"wheel inertia", p.Inertia}, {"wheel drag", p.Drag}} {
		if err := dynamo.CheckParam(v.name, v.v); err != nil {
			return err
		}
	}
	if p.Inertia == 0 {
		return fmt.Errorf("wheel inertia must be positive: %w", dynamo.ErrParameterBounds)
	}
	return nil
}

// Wheel is a drivetrain.Collider. Its state is [spin angle, spin rate]
// in radians and radians per second.
type Wheel struct {
	params WheelParams
	mount  mgl64.Vec3
	integ  dynamo.Integrator
	cmd    drivetrain.WheelCommand
	state  dynamo.State
	t      float64
}

func NewWheel(mount mgl64.Vec3, params WheelParams, integ dynamo.Integrator) *Wheel {
	return &Wheel{
		params: params,
		mount:  mount,
		integ:  integ,
		state:  dynamo.State{0, 0},
	}
}

func (w *Wheel) StateDim() int   { return 2 }
func (w *Wheel) ControlDim() int { return 1 }

// Derive treats u as [motor torque]. Brake torque is not part of the ODE;
// Step applies it afterwards.
func (w *Wheel) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	rate := x[1]
	motor := 0.0
	if len(u) >= 1 {
		motor = u[0]
	}
	torque := motor - w.params.Drag*rate
	return dynamo.State{rate, torque / w.params.Inertia}
}

func (w *Wheel) Apply(cmd drivetrain.WheelCommand) { w.cmd = cmd }

func (w *Wheel) Command() drivetrain.WheelCommand { return w.cmd }

// Step integrates the spin by dt, then lets the brake bleed off up to
// brake/inertia*dt of spin rate without ever reversing it. A non-finite
// result resets the wheel and is reported as ErrInvalidState.
func (w *Wheel) Step(dt float64) error {
	next := w.integ.Step(w, w.state, dynamo.Control{w.cmd.MotorTorque}, w.t, dt)
	if brake := math.Abs(w.cmd.BrakeTorque) * dt / w.params.Inertia; brake > 0 {
		switch {
		case next[1] > brake:
			next[1] -= brake
		case next[1] < -brake:
			next[1] += brake
		default:
			next[1] = 0
		}
	}
	if !next.IsValid() {
		w.state = dynamo.State{0, 0}
		return dynamo.SimError{Time: w.t, Message: "wheel spin diverged", Wrapped: dynamo.ErrInvalidState}
	}
	w.state = next
	w.t += dt
	return nil
}

func (w *Wheel) Spin() float64     { return w.state[0] }
func (w *Wheel) SpinRate() float64 { return w.state[1] }

// SurfaceSpeed is the rim speed in metres per second.
func (w *Wheel) SurfaceSpeed() float64 { return w.state[1] * w.params.Radius }

// WorldPose places the wheel at its mount, yawed by the steer angle and
// rolled by the spin angle.
func (w *Wheel) WorldPose() drivetrain.Pose {
	yaw := mgl64.QuatRotate(mgl64.DegToRad(w.cmd.SteerAngle), mgl64.Vec3{0, 1, 0})
	roll := mgl64.QuatRotate(w.state[0], mgl64.Vec3{1, 0, 0})
	return drivetrain.Pose{
		Position: w.mount,
		Rotation: yaw.Mul(roll).Normalize(),
	}
}

func (w *Wheel) Reset() {
	w.state = dynamo.State{0, 0}
	w.cmd = drivetrain.WheelCommand{}
	w.t = 0
}
