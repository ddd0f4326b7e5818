package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/drivelab/internal/drivetrain"
	"github.com/san-kum/drivelab/internal/harness"
	"github.com/san-kum/drivelab/internal/input"
	"github.com/san-kum/drivelab/internal/integrators"
	"github.com/san-kum/drivelab/internal/logger"
	"github.com/san-kum/drivelab/internal/rig"
	"github.com/san-kum/drivelab/internal/speedometer"
)

const DefaultIntegrator = "rk4"

type Config struct {
	Integrator string             `yaml:"integrator"`
	Drivetrain drivetrain.Config  `yaml:"drivetrain"`
	Dial       speedometer.Config `yaml:"dial"`
	Input      input.Axis         `yaml:"input"`
	Run        harness.Config     `yaml:"run"`
	Rig        rig.Config         `yaml:"rig"`
	Script     input.Script       `yaml:"script"`
	Logging    LoggingConfig      `yaml:"logging"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file,omitempty"`
}

func (l LoggingConfig) Validate() error {
	if _, err := logger.ParseLevel(l.Level); err != nil {
		return fmt.Errorf("level %q: %w", l.Level, err)
	}
	return nil
}

func DefaultConfig() *Config {
	return &Config{
		Integrator: DefaultIntegrator,
		Drivetrain: drivetrain.DefaultConfig(),
		Dial:       speedometer.DefaultConfig(),
		Input:      input.DefaultAxis(),
		Run:        harness.DefaultConfig(),
		Rig:        rig.DefaultConfig(),
		Script: input.Script{Segments: []input.Segment{
			{Duration: 4, Keys: []string{"up"}},
			{Duration: 2},
			{Duration: 2, Keys: []string{"space"}},
		}},
		Logging: LoggingConfig{Level: "warn"},
	}
}

// Load reads path over the defaults, so a file only needs the keys it
// changes.
func Load(path string) (*Config, error) {
	return LoadOver(DefaultConfig(), path)
}

// LoadOver reads path over a copy of base. A script in the file replaces
// the base script whole.
func LoadOver(base *Config, path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := base.Clone()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if _, err := integrators.New(c.Integrator); err != nil {
		return err
	}
	if err := c.Drivetrain.Validate(); err != nil {
		return fmt.Errorf("drivetrain: %w", err)
	}
	if err := c.Dial.Validate(); err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	if err := c.Input.Validate(); err != nil {
		return fmt.Errorf("input: %w", err)
	}
	if err := c.Run.Validate(); err != nil {
		return fmt.Errorf("run: %w", err)
	}
	if err := c.Rig.Validate(); err != nil {
		return fmt.Errorf("rig: %w", err)
	}
	if err := c.Script.Validate(); err != nil {
		return fmt.Errorf("script: %w", err)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	return nil
}

// Clone returns a deep copy, so presets can be handed out and edited.
func (c *Config) Clone() *Config {
	out := *c
	out.Script.Segments = make([]input.Segment, len(c.Script.Segments))
	for i, seg := range c.Script.Segments {
		out.Script.Segments[i] = input.Segment{
			Duration: seg.Duration,
			Keys:     append([]string(nil), seg.Keys...),
		}
	}
	return &out
}
