// Package drivetrain maps driver input onto wheel actuator commands.
//
// Every physics tick the mapper turns two axes and a brake flag into
// motor torque, brake torque and steer angle for four wheels:
//
//   - motor torque goes to the front axle only
//   - brake torque goes to all four wheels
//   - the same steer angle goes to all four wheels
//
// [Compute] is the pure mapping. [Controller] applies the result to
// [Collider] values owned by a physics host and, once the host has stepped,
// copies the front colliders' world poses onto their visual [Transform].
// Rear poses are read but never applied to anything.
package drivetrain
