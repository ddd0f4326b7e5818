// Package input turns key state into the axis and button readings the
// drivetrain and dial consume.
//
// Two axes are derived from the arrow keys: Horizontal (Left/Right) and
// Vertical (Down/Up). Space is the handbrake. Up and Down are also read
// directly as the dial's throttle and brake keys.
package input

import (
	"errors"
	"fmt"
	"strings"

	"github.com/san-kum/drivelab/internal/drivetrain"
	"github.com/san-kum/drivelab/internal/speedometer"
)

type Key int

const (
	Left Key = iota
	Right
	Up
	Down
	Space
	numKeys
)

var ErrUnknownKey = errors.New("input: unknown key")

var keyNames = [numKeys]string{"left", "right", "up", "down", "space"}

func (k Key) String() string {
	if k < 0 || k >= numKeys {
		return fmt.Sprintf("key(%d)", int(k))
	}
	return keyNames[k]
}

// ParseKey accepts the lower-case key names and a few arrow aliases.
func ParseKey(s string) (Key, error) {
	if s == " " {
		return Space, nil
	}
	name := strings.ToLower(strings.TrimSpace(s))
	switch name {
	case "a", "arrowleft":
		return Left, nil
	case "d", "arrowright":
		return Right, nil
	case "w", "arrowup":
		return Up, nil
	case "s", "arrowdown":
		return Down, nil
	case "brake", "handbrake":
		return Space, nil
	}
	for i, n := range keyNames {
		if n == name {
			return Key(i), nil
		}
	}
	return 0, fmt.Errorf("%q: %w", s, ErrUnknownKey)
}

// Snapshot is the input as seen by one frame.
type Snapshot struct {
	Horizontal float64
	Vertical   float64
	Space      bool
	Up         bool
	Down       bool
}

// Drive maps the snapshot onto drivetrain input.
func (s Snapshot) Drive() drivetrain.Input {
	return drivetrain.Input{
		Steer:    s.Horizontal,
		Throttle: s.Vertical,
		Braking:  s.Space,
	}
}

// Dial maps the snapshot onto speedometer input.
func (s Snapshot) Dial() speedometer.Input {
	return speedometer.Input{
		Throttle: s.Up,
		Brake:    s.Down,
	}
}
