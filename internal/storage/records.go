package storage

import (
	"github.com/san-kum/drivelab/internal/harness"
	"github.com/san-kum/drivelab/internal/input"
	"github.com/san-kum/drivelab/internal/speedometer"
)

// TickRecord is the flattened form of a physics tick as it is stored.
// Torques are those of the front-left wheel; see drivetrain.Command.
type TickRecord struct {
	Time        float64 `json:"time"`
	Step        int     `json:"step"`
	Steer       float64 `json:"steer"`
	Throttle    float64 `json:"throttle"`
	Braking     bool    `json:"braking"`
	MotorTorque float64 `json:"motor_torque"`
	BrakeTorque float64 `json:"brake_torque"`
	SteerAngle  float64 `json:"steer_angle"`
}

type FrameRecord struct {
	Time       float64 `json:"time"`
	Dt         float64 `json:"dt"`
	Horizontal float64 `json:"horizontal"`
	Vertical   float64 `json:"vertical"`
	Space      bool    `json:"space"`
	Up         bool    `json:"up"`
	Down       bool    `json:"down"`
	Speed      float64 `json:"speed"`
	Needle     float64 `json:"needle"`
	Ticks      int     `json:"ticks"`
}

var (
	tickHeader  = []string{"time", "step", "steer", "throttle", "braking", "motor_torque", "brake_torque", "steer_angle"}
	frameHeader = []string{"time", "dt", "horizontal", "vertical", "space", "up", "down", "speed", "needle", "ticks"}
)

func NewTickRecord(s harness.TickSample) TickRecord {
	return TickRecord{
		Time:        s.Time,
		Step:        s.Step,
		Steer:       s.Input.Steer,
		Throttle:    s.Input.Throttle,
		Braking:     s.Input.Braking,
		MotorTorque: s.Command.FrontTorque(),
		BrakeTorque: s.Command.BrakeTorque(),
		SteerAngle:  s.Command.SteerAngle(),
	}
}

func NewFrameRecord(s harness.FrameSample) FrameRecord {
	return FrameRecord{
		Time:       s.Time,
		Dt:         s.Dt,
		Horizontal: s.Input.Horizontal,
		Vertical:   s.Input.Vertical,
		Space:      s.Input.Space,
		Up:         s.Input.Up,
		Down:       s.Input.Down,
		Speed:      s.Speed,
		Needle:     s.Needle,
		Ticks:      s.Ticks,
	}
}

func (r FrameRecord) Snapshot() input.Snapshot {
	return input.Snapshot{
		Horizontal: r.Horizontal,
		Vertical:   r.Vertical,
		Space:      r.Space,
		Up:         r.Up,
		Down:       r.Down,
	}
}

func TickRecords(samples []harness.TickSample) []TickRecord {
	out := make([]TickRecord, len(samples))
	for i, s := range samples {
		out[i] = NewTickRecord(s)
	}
	return out
}

func FrameRecords(samples []harness.FrameSample) []FrameRecord {
	out := make([]FrameRecord, len(samples))
	for i, s := range samples {
		out[i] = NewFrameRecord(s)
	}
	return out
}

// ReplaySpeeds steps a dial from rest through the stored frames, using only
// their lengths and keys. For an intact run it reproduces Speeds.
func ReplaySpeeds(frames []FrameRecord, cfg speedometer.Config) []float64 {
	out := make([]float64, len(frames))
	speed := 0.0
	for i, f := range frames {
		speed = speedometer.Step(speed, f.Dt, f.Snapshot().Dial(), cfg)
		out[i] = speed
	}
	return out
}

// Speeds returns the dial speed of every frame.
func Speeds(frames []FrameRecord) []float64 {
	out := make([]float64, len(frames))
	for i, f := range frames {
		out[i] = f.Speed
	}
	return out
}
