package physics

import "github.com/go-gl/mathgl/mgl64"

// Transform provides a world-space pose.
type Transform interface {
	Pose() Pose
}

// Driven is anything that accepts velocity commands from a servo.
// The engine integrates the commanded velocities between ticks.
type Driven interface {
	Transform

	SetVelocity(v mgl64.Vec3)
	SetAngularVelocity(w mgl64.Vec3)
	// Teleport places the body directly and clears its velocities.
	Teleport(p Pose)
}
