package speedometer

import (
	"fmt"

	"go.uber.org/zap"
)

// Face is the UI the dial draws on.
type Face interface {
	AddLabel(l Label)
	// RaiseNeedle keeps the needle drawn above every label.
	RaiseNeedle()
	SetNeedle(angle float64)
}

type Option func(*Dial)

func WithLogger(l *zap.Logger) Option {
	return func(d *Dial) {
		if l != nil {
			d.log = l
		}
	}
}

// Dial owns the speed and the label set for one speedometer.
type Dial struct {
	cfg    Config
	speed  float64
	labels []Label
	face   Face
	log    *zap.Logger
}

// New validates cfg and generates the labels. Labels are fixed for the
// lifetime of the dial.
func New(cfg Config, opts ...Option) (*Dial, error) {
	d := &Dial{cfg: cfg, log: zap.NewNop()}
	for _, opt := range opts {
		opt(d)
	}
	if err := cfg.Validate(); err != nil {
		d.log.Warn("dial config rejected", zap.Error(err))
		return nil, fmt.Errorf("dial config: %w", err)
	}
	d.labels = GenerateLabels(cfg.SpeedMax, cfg.LabelIntervals)
	d.log.Debug("dial ready", zap.Float64("speed_max", cfg.SpeedMax), zap.Int("labels", len(d.labels)))
	return d, nil
}

// Attach places every label on face and puts the needle on top. The needle
// is set to the current speed.
func (d *Dial) Attach(face Face) {
	d.face = face
	for _, l := range d.labels {
		face.AddLabel(l)
	}
	face.RaiseNeedle()
	face.SetNeedle(d.Angle())
}

func (d *Dial) Config() Config { return d.cfg }

func (d *Dial) Speed() float64 { return d.speed }

func (d *Dial) Angle() float64 { return Rotation(d.speed, d.cfg.SpeedMax) }

func (d *Dial) Labels() []Label {
	out := make([]Label, len(d.labels))
	copy(out, d.labels)
	return out
}

// Tick advances the speed by dt and returns it with the matching needle
// angle. dt is trusted as given.
func (d *Dial) Tick(dt float64, in Input) (speed, angle float64) {
	d.speed = Step(d.speed, dt, in, d.cfg)
	return d.speed, d.Angle()
}

// Update ticks and pushes the needle angle to the attached face.
func (d *Dial) Update(dt float64, in Input) float64 {
	_, angle := d.Tick(dt, in)
	if d.face != nil {
		d.face.SetNeedle(angle)
	}
	return angle
}

func (d *Dial) Reset() {
	d.speed = 0
	if d.face != nil {
		d.face.SetNeedle(d.Angle())
	}
}
