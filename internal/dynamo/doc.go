// Package dynamo provides the numerical primitives shared by the reference
// host: state vectors, ODE systems and steppers.
//
//   - [State]: vector representing system state
//   - [System]: interface for ODE systems (dX/dt = f(X, u, t))
//   - [Integrator]: numerical stepper interface
//
// The drivetrain and speedometer cores do not integrate anything
// themselves. Only the rig's wheel colliders do, standing in for the
// physics engine a real host would provide.
//
// # Example
//
//	w := rig.NewWheel(mount, rig.DefaultWheelParams(), integrators.NewRK4())
//	w.Apply(drivetrain.WheelCommand{MotorTorque: 400})
//	w.Step(0.02)
package dynamo
