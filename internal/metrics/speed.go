package metrics

import "github.com/san-kum/drivelab/internal/harness"

type TopSpeed struct {
	max float64
}

func NewTopSpeed() *TopSpeed { return &TopSpeed{} }

func (t *TopSpeed) Name() string { return "top_speed" }

func (t *TopSpeed) ObserveTick(harness.TickSample) {}

func (t *TopSpeed) ObserveFrame(s harness.FrameSample) {
	if s.Speed > t.max {
		t.max = s.Speed
	}
}

func (t *TopSpeed) Value() float64 { return t.max }

func (t *TopSpeed) Reset() { t.max = 0 }

// MeanSpeed weights each frame's speed by its duration, so jittered frame
// rates do not skew it.
type MeanSpeed struct {
	weighted float64
	elapsed  float64
}

func NewMeanSpeed() *MeanSpeed { return &MeanSpeed{} }

func (m *MeanSpeed) Name() string { return "mean_speed" }

func (m *MeanSpeed) ObserveTick(harness.TickSample) {}

func (m *MeanSpeed) ObserveFrame(s harness.FrameSample) {
	m.weighted += s.Speed * s.Dt
	m.elapsed += s.Dt
}

func (m *MeanSpeed) Value() float64 {
	if m.elapsed == 0 {
		return 0
	}
	return m.weighted / m.elapsed
}

func (m *MeanSpeed) Reset() {
	m.weighted = 0
	m.elapsed = 0
}

// Defaults returns a fresh instance of every metric.
func Defaults() []harness.Metric {
	return []harness.Metric{
		NewMotorEffort(),
		NewSteerEffort(),
		NewBrakeDuty(),
		NewTopSpeed(),
		NewMeanSpeed(),
	}
}
