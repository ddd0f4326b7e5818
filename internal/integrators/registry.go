package integrators

import (
	"fmt"
	"sort"

	"github.com/san-kum/drivelab/internal/dynamo"
)

var registry = map[string]func() dynamo.Integrator{
	"euler":    func() dynamo.Integrator { return NewEuler() },
	"leapfrog": func() dynamo.Integrator { return NewLeapfrog() },
	"rk4":      func() dynamo.Integrator { return NewRK4() },
}

// New returns a fresh integrator by name.
func New(name string) (dynamo.Integrator, error) {
	fn, err := Factory(name)
	if err != nil {
		return nil, err
	}
	return fn(), nil
}

// Factory resolves name once and returns a constructor for independent
// instances, one per wheel.
func Factory(name string) (func() dynamo.Integrator, error) {
	fn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s (available: %v)", name, Names())
	}
	return fn, nil
}

func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
