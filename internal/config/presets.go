package config

import (
	"sort"

	"github.com/san-kum/drivelab/internal/input"
)

func seg(d float64, keys ...string) input.Segment {
	return input.Segment{Duration: d, Keys: keys}
}

func preset(fn func(c *Config)) *Config {
	c := DefaultConfig()
	fn(c)
	return c
}

var Presets = map[string]*Config{
	// Full throttle to the dial's limit, then coast.
	"cruise": preset(func(c *Config) {
		c.Script = input.Script{Segments: []input.Segment{
			seg(7, "up"),
			seg(3),
		}}
	}),
	"brake_test": preset(func(c *Config) {
		c.Script = input.Script{Segments: []input.Segment{
			seg(3, "up"),
			seg(1, "space"),
			seg(1),
		}}
	}),
	"slalom": preset(func(c *Config) {
		c.Run.FrameJitter = 0.2
		c.Run.Seed = 42
		c.Script = input.Script{Segments: []input.Segment{
			seg(1, "up"),
			seg(1, "up", "left"),
			seg(1, "up", "right"),
			seg(1, "up", "left"),
			seg(1, "up", "right"),
			seg(1),
		}}
	}),
	// Reverse throttle while braking: the dial brakes, the motor reverses.
	"full_stop": preset(func(c *Config) {
		c.Script = input.Script{Segments: []input.Segment{
			seg(2, "up"),
			seg(2, "down", "space"),
		}}
	}),
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	return p.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
