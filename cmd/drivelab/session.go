package main

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/san-kum/drivelab/internal/config"
	"github.com/san-kum/drivelab/internal/drivetrain"
	"github.com/san-kum/drivelab/internal/harness"
	"github.com/san-kum/drivelab/internal/input"
	"github.com/san-kum/drivelab/internal/integrators"
	"github.com/san-kum/drivelab/internal/logger"
	"github.com/san-kum/drivelab/internal/metrics"
	"github.com/san-kum/drivelab/internal/rig"
	"github.com/san-kum/drivelab/internal/speedometer"
)

// session wires one car and one dial into a harness loop.
type session struct {
	rig   *rig.Rig
	loop  *harness.Loop
	left  *rig.Visual
	right *rig.Visual
}

func newSession(cfg *config.Config) (*session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	integ, err := integrators.Factory(cfg.Integrator)
	if err != nil {
		return nil, err
	}
	r, err := rig.New(cfg.Rig, integ)
	if err != nil {
		return nil, err
	}

	left, right := rig.NewVisual("front_left"), rig.NewVisual("front_right")
	drive, err := drivetrain.NewController(cfg.Drivetrain, r.Colliders(), left, right,
		drivetrain.WithLogger(logger.Named("drivetrain")))
	if err != nil {
		return nil, err
	}

	dial, err := speedometer.New(cfg.Dial, speedometer.WithLogger(logger.Named("speedometer")))
	if err != nil {
		return nil, err
	}

	loop, err := harness.New(cfg.Run, input.NewKeyboard(cfg.Input), drive, r, dial,
		harness.WithLogger(logger.Named("harness")))
	if err != nil {
		return nil, err
	}
	for _, m := range metrics.Defaults() {
		loop.AddMetric(m)
	}

	logger.Log.Debug("session ready",
		zap.String("integrator", cfg.Integrator),
		zap.Float64("fixed_dt", cfg.Run.FixedDt),
		zap.Float64("frame_dt", cfg.Run.FrameDt),
	)
	return &session{rig: r, loop: loop, left: left, right: right}, nil
}
