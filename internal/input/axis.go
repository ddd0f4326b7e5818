package input

import (
	"math"

	"github.com/san-kum/drivelab/internal/dynamo"
)

// Axis is a keyboard-driven analogue value in [-1, 1]. Holding one
// direction ramps the value toward ±1 at Sensitivity units per second;
// releasing lets it fall back to zero at Gravity units per second.
type Axis struct {
	Sensitivity float64 `yaml:"sensitivity"`
	Gravity     float64 `yaml:"gravity"`
	// Snap jumps to zero when the opposite direction is pressed.
	Snap bool `yaml:"snap"`

	value float64
}

func DefaultAxis() Axis {
	return Axis{Sensitivity: 3, Gravity: 3, Snap: true}
}

func (a Axis) Validate() error {
	if err := dynamo.CheckParam("sensitivity", a.Sensitivity); err != nil {
		return err
	}
	return dynamo.CheckParam("gravity", a.Gravity)
}

func (a *Axis) Value() float64 { return a.value }

func (a *Axis) Reset() { a.value = 0 }

// Update moves the axis for one frame. Pressing both directions counts as
// neither.
func (a *Axis) Update(dt float64, positive, negative bool) float64 {
	target := 0.0
	switch {
	case positive && !negative:
		target = 1
	case negative && !positive:
		target = -1
	}

	if target == 0 {
		a.value = approach(a.value, 0, a.Gravity*dt)
		return a.value
	}

	if a.Snap && a.value != 0 && math.Signbit(a.value) != math.Signbit(target) {
		a.value = 0
	}
	a.value = approach(a.value, target, a.Sensitivity*dt)
	return a.value
}

func approach(v, target, delta float64) float64 {
	if delta <= 0 {
		return v
	}
	if v < target {
		return math.Min(v+delta, target)
	}
	return math.Max(v-delta, target)
}
