package rig

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/drivelab/internal/drivetrain"
	"github.com/san-kum/drivelab/internal/dynamo"
	"github.com/san-kum/drivelab/internal/integrators"
)

func newRK4() dynamo.Integrator { return integrators.NewRK4() }

func TestWheelSpinsUpUnderMotorTorque(t *testing.T) {
	w := NewWheel(mgl64.Vec3{}, DefaultWheelParams(), newRK4())
	w.Apply(drivetrain.WheelCommand{MotorTorque: 100})

	for i := 0; i < 50; i++ {
		if err := w.Step(0.02); err != nil {
			t.Fatalf("step failed: %v", err)
		}
	}

	if w.SpinRate() <= 0 {
		t.Fatalf("expected positive spin rate, got %f", w.SpinRate())
	}
	if w.Spin() <= 0 {
		t.Fatalf("expected positive spin angle, got %f", w.Spin())
	}
	terminal := 100 / DefaultWheelParams().Drag
	if w.SpinRate() >= terminal {
		t.Errorf("spin rate %f should stay below terminal %f", w.SpinRate(), terminal)
	}
}

func TestWheelBrakeStopsSpin(t *testing.T) {
	w := NewWheel(mgl64.Vec3{}, DefaultWheelParams(), newRK4())
	w.Apply(drivetrain.WheelCommand{MotorTorque: 200})
	for i := 0; i < 100; i++ {
		_ = w.Step(0.02)
	}
	spinning := w.SpinRate()

	w.Apply(drivetrain.WheelCommand{BrakeTorque: 3000})
	for i := 0; i < 100; i++ {
		_ = w.Step(0.02)
	}

	if math.Abs(w.SpinRate()) > 0.1*spinning {
		t.Errorf("brake should nearly stop the wheel: before %f, after %f", spinning, w.SpinRate())
	}
}

func TestWheelPoseFollowsSteer(t *testing.T) {
	mount := mgl64.Vec3{-0.7, 0.34, 1.3}
	w := NewWheel(mount, DefaultWheelParams(), newRK4())
	w.Apply(drivetrain.WheelCommand{SteerAngle: 90})

	pose := w.WorldPose()
	if !pose.Position.ApproxEqual(mount) {
		t.Errorf("position = %v, want %v", pose.Position, mount)
	}

	forward := pose.Rotation.Rotate(mgl64.Vec3{0, 0, 1})
	want := mgl64.Vec3{1, 0, 0}
	for i := range want {
		if math.Abs(forward[i]-want[i]) > 1e-9 {
			t.Fatalf("90 degree steer should point forward along +X, got %v", forward)
		}
	}
}

func TestWheelDivergenceIsReported(t *testing.T) {
	w := NewWheel(mgl64.Vec3{}, DefaultWheelParams(), newRK4())
	w.Apply(drivetrain.WheelCommand{MotorTorque: math.Inf(1)})

	err := w.Step(0.02)
	if !errors.Is(err, dynamo.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
	if w.SpinRate() != 0 {
		t.Error("diverged wheel should reset")
	}
}

func TestRigLayout(t *testing.T) {
	r, err := New(DefaultConfig(), newRK4)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	fl := r.Wheel(drivetrain.FrontLeft).WorldPose().Position
	rr := r.Wheel(drivetrain.RearRight).WorldPose().Position
	if fl.X() >= 0 || fl.Z() <= 0 {
		t.Errorf("front left should be at -X,+Z, got %v", fl)
	}
	if rr.X() <= 0 || rr.Z() >= 0 {
		t.Errorf("rear right should be at +X,-Z, got %v", rr)
	}

	cs := r.Colliders()
	for _, w := range drivetrain.Wheels {
		if cs[w] != drivetrain.Collider(r.Wheel(w)) {
			t.Errorf("collider %s out of order", w)
		}
	}
}

func TestRigStepJoinsErrors(t *testing.T) {
	r, err := New(DefaultConfig(), newRK4)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	r.Wheel(drivetrain.RearLeft).Apply(drivetrain.WheelCommand{MotorTorque: math.NaN()})

	err = r.Step(0.02)
	if !errors.Is(err, dynamo.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}

	r.Reset()
	if err := r.Step(0.02); err != nil {
		t.Errorf("step after reset failed: %v", err)
	}
}

func TestRigConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Wheel.Inertia = 0
	if _, err := New(cfg, newRK4); !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("expected ErrParameterBounds, got %v", err)
	}
}

func TestVisualRecordsPose(t *testing.T) {
	v := NewVisual("front_left")
	if v.Pose().Rotation != mgl64.QuatIdent() {
		t.Error("new visual should start at identity")
	}
	p := drivetrain.Pose{Position: mgl64.Vec3{1, 2, 3}, Rotation: mgl64.QuatRotate(1, mgl64.Vec3{0, 1, 0})}
	v.SetPose(p)
	if v.Pose() != p || v.Updates() != 1 {
		t.Errorf("unexpected visual state %+v", v)
	}
}
