package harness

import (
	"fmt"

	"github.com/san-kum/drivelab/internal/drivetrain"
	"github.com/san-kum/drivelab/internal/dynamo"
	"github.com/san-kum/drivelab/internal/input"
)

// Physics is the host side of the wheel colliders: it integrates whatever
// the drivetrain last applied.
type Physics interface {
	Step(dt float64) error
	Reset()
}

// TickSample is one fixed physics tick.
type TickSample struct {
	Time    float64
	Step    int
	Input   drivetrain.Input
	Command drivetrain.Command
	Poses   drivetrain.Poses
}

// FrameSample is one rendered frame.
type FrameSample struct {
	Time   float64
	Dt     float64
	Input  input.Snapshot
	Speed  float64
	Needle float64
	Ticks  int
}

type Observer interface {
	OnTick(s TickSample)
	OnFrame(s FrameSample)
}

type Metric interface {
	Name() string
	ObserveTick(s TickSample)
	ObserveFrame(s FrameSample)
	Value() float64
	Reset()
}

type Config struct {
	FixedDt float64 `yaml:"fixed_dt"`
	FrameDt float64 `yaml:"frame_dt"`
	// FrameJitter varies each frame's length by up to this fraction of
	// FrameDt, drawn from Seed.
	FrameJitter float64 `yaml:"frame_jitter"`
	// Duration of a scripted run. Zero means the script's own length.
	Duration float64 `yaml:"duration"`
	Seed     int64   `yaml:"seed"`
	// MaxTicksPerFrame caps catch-up after a long frame; leftover time is
	// dropped.
	MaxTicksPerFrame int `yaml:"max_ticks_per_frame"`
}

func DefaultConfig() Config {
	return Config{
		FixedDt:          0.02,
		FrameDt:          1.0 / 60.0,
		FrameJitter:      0,
		Duration:         0,
		MaxTicksPerFrame: 8,
	}
}

func (c Config) Validate() error {
	if c.FixedDt <= 0 {
		return fmt.Errorf("fixed dt must be positive, got %f: %w", c.FixedDt, dynamo.ErrParameterBounds)
	}
	if c.FrameDt <= 0 {
		return fmt.Errorf("frame dt must be positive, got %f: %w", c.FrameDt, dynamo.ErrParameterBounds)
	}
	if c.FrameJitter < 0 || c.FrameJitter >= 1 {
		return fmt.Errorf("frame jitter must be in [0, 1), got %f: %w", c.FrameJitter, dynamo.ErrParameterBounds)
	}
	if c.Duration < 0 {
		return fmt.Errorf("duration must not be negative, got %f: %w", c.Duration, dynamo.ErrParameterBounds)
	}
	if c.MaxTicksPerFrame < 1 {
		return fmt.Errorf("max ticks per frame must be at least 1, got %d: %w", c.MaxTicksPerFrame, dynamo.ErrParameterBounds)
	}
	return nil
}

type Result struct {
	Ticks      []TickSample
	Frames     []FrameSample
	Metrics    map[string]float64
	FixedSteps int
	Duration   float64
	Errors     []error
}

// Speeds returns the dial speed of every frame.
func (r *Result) Speeds() []float64 {
	out := make([]float64, len(r.Frames))
	for i, f := range r.Frames {
		out[i] = f.Speed
	}
	return out
}
