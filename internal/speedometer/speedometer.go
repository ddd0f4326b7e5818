// Package speedometer drives a dashboard needle from a keyboard-simulated
// speed and lays out the numeric labels around the dial.
package speedometer

import (
	"fmt"
	"math"
	"strconv"

	"github.com/san-kum/drivelab/internal/dynamo"
)

const (
	// ZeroSpeedAngle is the needle rotation at rest, in degrees.
	ZeroSpeedAngle = 230.0
	// MaxSpeedAngle is the needle rotation at SpeedMax. Smaller angles are
	// further clockwise.
	MaxSpeedAngle = -20.0

	DefaultSpeedMax       = 180.0
	DefaultAcceleration   = 30.0
	DefaultDeceleration   = 20.0
	DefaultBrakeRate      = 100.0
	DefaultLabelIntervals = 9
)

type Config struct {
	SpeedMax       float64 `yaml:"speed_max" json:"speed_max"`
	Acceleration   float64 `yaml:"acceleration" json:"acceleration"`
	Deceleration   float64 `yaml:"deceleration" json:"deceleration"`
	BrakeRate      float64 `yaml:"brake_rate" json:"brake_rate"`
	LabelIntervals int     `yaml:"label_intervals" json:"label_intervals"`
}

func DefaultConfig() Config {
	return Config{
		SpeedMax:       DefaultSpeedMax,
		Acceleration:   DefaultAcceleration,
		Deceleration:   DefaultDeceleration,
		BrakeRate:      DefaultBrakeRate,
		LabelIntervals: DefaultLabelIntervals,
	}
}

func (c Config) Validate() error {
	if err := dynamo.CheckParam("speed max", c.SpeedMax); err != nil {
		return err
	}
	if c.SpeedMax == 0 {
		return fmt.Errorf("speed max must be positive: %w", dynamo.ErrParameterBounds)
	}
	for _, p := range []struct {
		name string
		v    float64
	}{
		{"acceleration", c.Acceleration},
		{"deceleration", c.Deceleration},
		{"brake rate", c.BrakeRate},
	} {
		if err := dynamo.CheckParam(p.name, p.v); err != nil {
			return err
		}
	}
	if c.LabelIntervals < 1 {
		return fmt.Errorf("label intervals must be at least 1, got %d: %w", c.LabelIntervals, dynamo.ErrParameterBounds)
	}
	return nil
}

// Input is the pair of digital keys the dial listens to.
type Input struct {
	Throttle bool
	Brake    bool
}

// Label is one numeric tick placed around the dial.
type Label struct {
	Normalized float64
	Angle      float64
	Text       string
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Step advances speed by one frame. With the throttle released the dial
// always coasts down; the brake stacks on top of either branch.
func Step(speed, dt float64, in Input, cfg Config) float64 {
	if in.Throttle {
		speed += cfg.Acceleration * dt
	} else {
		speed -= cfg.Deceleration * dt
	}
	if in.Brake {
		speed -= cfg.BrakeRate * dt
	}
	return Clamp(speed, 0, cfg.SpeedMax)
}

// Rotation maps speed linearly onto the needle sweep.
func Rotation(speed, speedMax float64) float64 {
	total := ZeroSpeedAngle - MaxSpeedAngle
	return ZeroSpeedAngle - (speed/speedMax)*total
}

// GenerateLabels returns intervals+1 labels spread evenly from zero to
// speedMax.
func GenerateLabels(speedMax float64, intervals int) []Label {
	if intervals < 1 {
		return nil
	}
	labels := make([]Label, 0, intervals+1)
	for i := 0; i <= intervals; i++ {
		n := float64(i) / float64(intervals)
		labels = append(labels, Label{
			Normalized: n,
			Angle:      Rotation(n*speedMax, speedMax),
			Text:       strconv.Itoa(int(math.RoundToEven(n * speedMax))),
		})
	}
	return labels
}
