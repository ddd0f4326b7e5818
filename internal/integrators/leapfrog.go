package integrators

import "github.com/san-kum/drivelab/internal/dynamo"

// Leapfrog is the kick-drift-kick stepper for states laid out as
// positions followed by their rates, such as a wheel's [spin, rate]. It
// uses only the rate half of each derivative.
type Leapfrog struct {
	mid dynamo.State
}

func NewLeapfrog() *Leapfrog {
	return &Leapfrog{}
}

func (l *Leapfrog) Step(dyn dynamo.System, x dynamo.State, u dynamo.Control, t, dt float64) dynamo.State {
	n := len(x)
	half := n / 2
	if len(l.mid) != n {
		l.mid = make(dynamo.State, n)
	}

	acc := dyn.Derive(x, u, t)
	result := make(dynamo.State, n)
	for i := 0; i < half; i++ {
		rate := x[half+i] + 0.5*dt*acc[half+i]
		result[i] = x[i] + dt*rate
		l.mid[i] = result[i]
		l.mid[half+i] = rate
	}

	acc = dyn.Derive(l.mid, u, t+dt)
	for i := 0; i < half; i++ {
		result[half+i] = l.mid[half+i] + 0.5*dt*acc[half+i]
	}
	return result
}
