package integrators

import (
	"math"
	"strings"
	"testing"

	"github.com/san-kum/drivelab/internal/dynamo"
)

type oscillator struct{}

func (s *oscillator) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	return dynamo.State{x[1], -x[0]}
}

func (s *oscillator) StateDim() int   { return 2 }
func (s *oscillator) ControlDim() int { return 0 }

// constantAccel integrates a spin rate under constant torque, the shape a
// driven wheel takes before drag matters.
type constantAccel struct{ accel float64 }

func (c *constantAccel) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	return dynamo.State{x[1], c.accel}
}

func (c *constantAccel) StateDim() int   { return 2 }
func (c *constantAccel) ControlDim() int { return 0 }

func TestRK4Accuracy(t *testing.T) {
	dyn := &oscillator{}
	integ := NewRK4()

	x := dynamo.State{1.0, 0.0}
	dt := 0.01
	steps := 100

	for i := 0; i < steps; i++ {
		x = integ.Step(dyn, x, nil, float64(i)*dt, dt)
	}

	expectedX := math.Cos(float64(steps) * dt)
	expectedV := -math.Sin(float64(steps) * dt)

	if math.Abs(x[0]-expectedX) > 1e-4 {
		t.Errorf("position error too large: got %.6f, expected %.6f", x[0], expectedX)
	}
	if math.Abs(x[1]-expectedV) > 1e-4 {
		t.Errorf("velocity error too large: got %.6f, expected %.6f", x[1], expectedV)
	}
}

func TestEulerConstantAcceleration(t *testing.T) {
	dyn := &constantAccel{accel: 2}
	integ := NewEuler()

	x := dynamo.State{0, 0}
	for i := 0; i < 10; i++ {
		x = integ.Step(dyn, x, nil, float64(i)*0.1, 0.1)
	}

	if math.Abs(x[1]-2.0) > 1e-9 {
		t.Errorf("rate after 1s = %f, want 2", x[1])
	}
	// Euler lags the exact 0.5*a*t^2 = 1.0 by a*dt*t/2.
	if math.Abs(x[0]-0.9) > 1e-9 {
		t.Errorf("angle after 1s = %f, want 0.9", x[0])
	}
}

func TestLeapfrogConstantAcceleration(t *testing.T) {
	dyn := &constantAccel{accel: 2}
	integ := NewLeapfrog()

	x := dynamo.State{0, 0}
	for i := 0; i < 10; i++ {
		x = integ.Step(dyn, x, nil, float64(i)*0.1, 0.1)
	}

	if math.Abs(x[1]-2.0) > 1e-9 {
		t.Errorf("rate after 1s = %f, want 2", x[1])
	}
	if math.Abs(x[0]-1.0) > 1e-9 {
		t.Errorf("angle after 1s = %f, want 1", x[0])
	}
}

func TestLeapfrogOscillatorBounded(t *testing.T) {
	dyn := &oscillator{}
	integ := NewLeapfrog()

	x := dynamo.State{1.0, 0.0}
	for i := 0; i < 10000; i++ {
		x = integ.Step(dyn, x, nil, float64(i)*0.01, 0.01)
	}

	energy := x[0]*x[0] + x[1]*x[1]
	if math.Abs(energy-1) > 1e-3 {
		t.Errorf("energy drifted to %f", energy)
	}
}

func TestNew(t *testing.T) {
	for _, name := range Names() {
		integ, err := New(name)
		if err != nil {
			t.Fatalf("New(%q) failed: %v", name, err)
		}
		if integ == nil {
			t.Fatalf("New(%q) returned nil", name)
		}
	}

	if got := Names(); len(got) != 3 || got[0] != "euler" || got[2] != "rk4" {
		t.Errorf("unexpected names %v", got)
	}

	if _, err := New("midpoint"); err == nil {
		t.Error("expected error for unknown integrator")
	}
}

func TestFactory(t *testing.T) {
	fn, err := Factory("leapfrog")
	if err != nil {
		t.Fatalf("Factory failed: %v", err)
	}
	a, b := fn(), fn()
	if a == nil || a == b {
		t.Error("expected a fresh integrator per call")
	}

	_, err = Factory("midpoint")
	if err == nil {
		t.Fatal("expected error for unknown integrator")
	}
	for _, name := range Names() {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("error %q should list %s", err, name)
		}
	}
}
