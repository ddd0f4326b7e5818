package input

import (
	"fmt"

	"github.com/san-kum/drivelab/internal/dynamo"
)

// Segment holds a set of keys down for Duration seconds.
type Segment struct {
	Duration float64  `yaml:"duration"`
	Keys     []string `yaml:"keys,omitempty"`
}

// Script is a timeline of key presses used for headless runs.
type Script struct {
	Segments []Segment `yaml:"segments"`
}

func (s Script) Validate() error {
	for i, seg := range s.Segments {
		if seg.Duration <= 0 {
			return fmt.Errorf("segment %d: duration must be positive, got %v: %w", i, seg.Duration, dynamo.ErrParameterBounds)
		}
		for _, name := range seg.Keys {
			if _, err := ParseKey(name); err != nil {
				return fmt.Errorf("segment %d: %w", i, err)
			}
		}
	}
	return nil
}

func (s Script) Duration() float64 {
	total := 0.0
	for _, seg := range s.Segments {
		total += seg.Duration
	}
	return total
}

// KeysAt returns the keys held at time t. Past the end of the script
// nothing is held. Unknown names are skipped; Validate reports them.
func (s Script) KeysAt(t float64) []Key {
	start := 0.0
	for _, seg := range s.Segments {
		end := start + seg.Duration
		if t >= start && t < end {
			keys := make([]Key, 0, len(seg.Keys))
			for _, name := range seg.Keys {
				if k, err := ParseKey(name); err == nil {
					keys = append(keys, k)
				}
			}
			return keys
		}
		start = end
	}
	return nil
}
