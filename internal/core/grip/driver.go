package grip

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/zeusync/vrgrip/internal/core/systems/physics"
)

// Command is the velocity pair sent to the weapon body.
type Command struct {
	Velocity        mgl64.Vec3
	AngularVelocity mgl64.Vec3
	// Degenerate is set when the rotation delta had no defined axis.
	Degenerate bool
}

// Drive servos body toward target. A degenerate rotation delta yields zero
// angular velocity. The body applies its own angular velocity cap.
func Drive(body physics.Driven, target Target, d Dampers, cfg DriverConfig, dt float64) Command {
	var cmd Command
	cmd.Velocity = target.Pose.Position.Sub(target.Tracking).Mul(cfg.PositionSpeed * d.Position)

	angle, axis, ok := physics.RotationDelta(target.Pose.Rotation, body.Pose().Rotation)
	switch {
	case !ok:
		cmd.Degenerate = true
	case dt > 0:
		cmd.AngularVelocity = axis.Mul(cfg.AngularGain * d.Rotation * mgl64.DegToRad(angle) / dt)
	}

	body.SetVelocity(cmd.Velocity)
	body.SetAngularVelocity(cmd.AngularVelocity)
	return cmd
}

type driverStage struct{}

func (driverStage) Name() string { return "driver" }

func (driverStage) FixedUpdate(dt float64, c *Context) error {
	if !c.hasTarget {
		return nil
	}
	body := c.Weapon.Body
	switch c.Weapon.Presence.State() {
	case Solid:
		cmd := Drive(body, c.target, c.dampers, c.Config.Driver, dt)
		c.report.Velocity = body.Velocity()
		c.report.AngularVelocity = body.AngularVelocity()
		c.report.DegenerateRotation = cmd.Degenerate
	case Materializing:
		// follows the hands rigidly until solid
		if !c.report.Spawned {
			body.Teleport(c.target.PivotFor())
		}
	}
	return nil
}
