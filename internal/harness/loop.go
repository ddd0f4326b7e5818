package harness

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"go.uber.org/zap"

	"github.com/san-kum/drivelab/internal/drivetrain"
	"github.com/san-kum/drivelab/internal/dynamo"
	"github.com/san-kum/drivelab/internal/input"
	"github.com/san-kum/drivelab/internal/speedometer"
)

// accumulator slack so a run of exact FixedDt frames is not starved by
// rounding.
const tickEpsilon = 1e-9

type Option func(*Loop)

func WithLogger(l *zap.Logger) Option {
	return func(lp *Loop) {
		if l != nil {
			lp.log = l
		}
	}
}

// Loop plays the part of the engine's game loop: each frame it polls the
// keyboard, runs as many fixed physics ticks as have accrued, then updates
// the dial.
type Loop struct {
	cfg       Config
	keyboard  *input.Keyboard
	drive     *drivetrain.Controller
	physics   Physics
	dial      *speedometer.Dial
	metrics   []Metric
	observers []Observer
	log       *zap.Logger

	acc    float64
	t      float64
	steps  int
	frames int
}

func New(cfg Config, kb *input.Keyboard, drive *drivetrain.Controller, physics Physics, dial *speedometer.Dial, opts ...Option) (*Loop, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("harness config: %w", err)
	}
	if kb == nil || drive == nil || physics == nil || dial == nil {
		return nil, fmt.Errorf("harness: keyboard, drivetrain, physics and dial are required")
	}
	l := &Loop{
		cfg:       cfg,
		keyboard:  kb,
		drive:     drive,
		physics:   physics,
		dial:      dial,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

func (l *Loop) AddMetric(m Metric)     { l.metrics = append(l.metrics, m) }
func (l *Loop) AddObserver(o Observer) { l.observers = append(l.observers, o) }

func (l *Loop) Keyboard() *input.Keyboard     { return l.keyboard }
func (l *Loop) Drive() *drivetrain.Controller { return l.drive }
func (l *Loop) Dial() *speedometer.Dial       { return l.dial }
func (l *Loop) Time() float64                 { return l.t }
func (l *Loop) Steps() int                    { return l.steps }
func (l *Loop) Config() Config                { return l.cfg }

// Frame advances the loop by one frame of length dt and returns the frame
// along with the physics ticks it ran. Physics errors do not stop the
// frame.
func (l *Loop) Frame(dt float64) (FrameSample, []TickSample, error) {
	snap := l.keyboard.Update(dt)
	l.acc += dt

	var (
		ticks []TickSample
		errs  []error
	)
	for l.acc+tickEpsilon >= l.cfg.FixedDt && len(ticks) < l.cfg.MaxTicksPerFrame {
		in := snap.Drive()
		cmd := l.drive.FixedUpdate(in)
		if err := l.physics.Step(l.cfg.FixedDt); err != nil {
			errs = append(errs, dynamo.SimError{
				Time:    float64(l.steps) * l.cfg.FixedDt,
				Step:    l.steps,
				Message: err.Error(),
				Wrapped: err,
			})
		}
		poses := l.drive.SyncWheels()

		l.acc -= l.cfg.FixedDt
		l.steps++
		tick := TickSample{
			Time:    float64(l.steps) * l.cfg.FixedDt,
			Step:    l.steps,
			Input:   in,
			Command: cmd,
			Poses:   poses,
		}
		for _, m := range l.metrics {
			m.ObserveTick(tick)
		}
		for _, o := range l.observers {
			o.OnTick(tick)
		}
		ticks = append(ticks, tick)
	}
	if l.acc >= l.cfg.FixedDt {
		l.log.Debug("dropping physics backlog", zap.Float64("backlog", l.acc), zap.Int("ticks", len(ticks)))
		l.acc = 0
	}

	angle := l.dial.Update(dt, snap.Dial())
	l.t += dt
	l.frames++

	frame := FrameSample{
		Time:   l.t,
		Dt:     dt,
		Input:  snap,
		Speed:  l.dial.Speed(),
		Needle: angle,
		Ticks:  len(ticks),
	}
	for _, m := range l.metrics {
		m.ObserveFrame(frame)
	}
	for _, o := range l.observers {
		o.OnFrame(frame)
	}

	return frame, ticks, errors.Join(errs...)
}

// Reset returns the keyboard, physics and dial to rest and clears the
// clocks.
func (l *Loop) Reset() {
	l.keyboard.Reset()
	l.physics.Reset()
	l.dial.Reset()
	l.acc, l.t, l.steps, l.frames = 0, 0, 0, 0
}

// Run plays script from rest until cfg.Duration, or the script's length
// when Duration is zero.
func (l *Loop) Run(ctx context.Context, script input.Script) (*Result, error) {
	if err := script.Validate(); err != nil {
		return nil, fmt.Errorf("input script: %w", err)
	}
	duration := l.cfg.Duration
	if duration == 0 {
		duration = script.Duration()
	}
	if duration <= 0 {
		return nil, fmt.Errorf("run duration must be positive: %w", dynamo.ErrParameterBounds)
	}

	l.Reset()
	for _, m := range l.metrics {
		m.Reset()
	}

	expectedFrames := int(duration/l.cfg.FrameDt) + 1
	result := &Result{
		Ticks:    make([]TickSample, 0, int(duration/l.cfg.FixedDt)+1),
		Frames:   make([]FrameSample, 0, expectedFrames),
		Metrics:  make(map[string]float64),
		Duration: duration,
		Errors:   make([]error, 0),
	}

	rng := rand.New(rand.NewSource(l.cfg.Seed))
	l.log.Info("run started", zap.Float64("duration", duration), zap.Int("segments", len(script.Segments)))

	for l.t+tickEpsilon < duration {
		select {
		case <-ctx.Done():
			return result, fmt.Errorf("%w: %w", dynamo.ErrContextCanceled, ctx.Err())
		default:
		}

		l.keyboard.Set(script.KeysAt(l.t))

		dt := l.cfg.FrameDt
		if l.cfg.FrameJitter > 0 {
			dt *= 1 + l.cfg.FrameJitter*(2*rng.Float64()-1)
		}
		if l.t+dt > duration {
			dt = duration - l.t
		}

		frame, ticks, err := l.Frame(dt)
		if err != nil {
			result.Errors = append(result.Errors, err)
		}
		result.Frames = append(result.Frames, frame)
		result.Ticks = append(result.Ticks, ticks...)
	}

	result.FixedSteps = l.steps
	for _, m := range l.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	l.log.Info("run finished",
		zap.Int("frames", len(result.Frames)),
		zap.Int("ticks", result.FixedSteps),
		zap.Int("errors", len(result.Errors)),
	)
	return result, nil
}
