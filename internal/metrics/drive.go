package metrics

import (
	"math"

	"github.com/san-kum/drivelab/internal/harness"
)

// MotorEffort is the mean absolute front-axle torque per tick.
type MotorEffort struct {
	sum     float64
	samples int
}

func NewMotorEffort() *MotorEffort { return &MotorEffort{} }

func (m *MotorEffort) Name() string { return "motor_effort" }

func (m *MotorEffort) ObserveTick(s harness.TickSample) {
	m.sum += math.Abs(s.Command.FrontTorque())
	m.samples++
}

func (m *MotorEffort) ObserveFrame(harness.FrameSample) {}

func (m *MotorEffort) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *MotorEffort) Reset() {
	m.sum = 0
	m.samples = 0
}

// SteerEffort is the mean absolute steer angle per tick, in degrees.
type SteerEffort struct {
	sum     float64
	samples int
}

func NewSteerEffort() *SteerEffort { return &SteerEffort{} }

func (s *SteerEffort) Name() string { return "steer_effort" }

func (s *SteerEffort) ObserveTick(t harness.TickSample) {
	s.sum += math.Abs(t.Command.SteerAngle())
	s.samples++
}

func (s *SteerEffort) ObserveFrame(harness.FrameSample) {}

func (s *SteerEffort) Value() float64 {
	if s.samples == 0 {
		return 0
	}
	return s.sum / float64(s.samples)
}

func (s *SteerEffort) Reset() {
	s.sum = 0
	s.samples = 0
}

// BrakeDuty is the fraction of ticks spent braking.
type BrakeDuty struct {
	braking int
	samples int
}

func NewBrakeDuty() *BrakeDuty { return &BrakeDuty{} }

func (b *BrakeDuty) Name() string { return "brake_duty" }

func (b *BrakeDuty) ObserveTick(s harness.TickSample) {
	if s.Input.Braking {
		b.braking++
	}
	b.samples++
}

func (b *BrakeDuty) ObserveFrame(harness.FrameSample) {}

func (b *BrakeDuty) Value() float64 {
	if b.samples == 0 {
		return 0
	}
	return float64(b.braking) / float64(b.samples)
}

func (b *BrakeDuty) Reset() {
	b.braking = 0
	b.samples = 0
}
