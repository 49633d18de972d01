package grip

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/zeusync/vrgrip/internal/core/systems/physics"
)

// Target is the solved weapon pose for one tick. The driver moves Tracking
// (a world point fixed to the weapon) onto Pose.Position.
type Target struct {
	Pose     physics.Pose
	Tracking mgl64.Vec3
	// CenterOfMass is weapon-local and lies on the shaft between the held points.
	CenterOfMass mgl64.Vec3
	// StretchCorrection is the shaft-axis distance from the attachment midpoint to
	// the hand midpoint; positive moves the weapon toward its +Z end.
	StretchCorrection float64
}

// SolveOneHanded aligns the shaft with the hand's forward axis, or its negation
// when the weapon faced away from the thumb at grip start.
func SolveOneHanded(grab physics.Pose, w *WeaponState, facingThumb bool) Target {
	forward := grab.Forward()
	if !facingThumb {
		forward = forward.Mul(-1)
	}
	offset := w.points[Primary].Offset
	return Target{
		Pose:         physics.NewPose(grab.Position, physics.LookRotation(forward, grab.Up())),
		Tracking:     w.AttachmentWorld(Primary).Position,
		CenterOfMass: mgl64.Vec3{0, 0, offset},
	}
}

// SolveTwoHanded points the shaft along the line between the two grab points and
// centres it between them.
func SolveTwoHanded(first, second physics.Pose, w *WeaponState, secondAboveFirst bool) Target {
	rotation := w.Body.Rotation()
	if dir, ok := physics.SafeNormalize(second.Position.Sub(first.Position)); ok {
		if !secondAboveFirst {
			dir = dir.Mul(-1)
		}
		rotation = physics.LookRotation(dir, first.Up())
	}

	handMid := physics.Midpoint(first.Position, second.Position)
	attachMid := physics.Midpoint(w.AttachmentWorld(Primary).Position, w.AttachmentWorld(Secondary).Position)
	a, b := w.points[Primary].Offset, w.points[Secondary].Offset
	return Target{
		Pose:              physics.NewPose(handMid, rotation),
		Tracking:          attachMid,
		CenterOfMass:      mgl64.Vec3{0, 0, (a + b) / 2},
		StretchCorrection: handMid.Sub(attachMid).Dot(w.Body.Pose().Forward()),
	}
}

// PivotFor returns the weapon pivot that puts the target's centre of mass on the target position.
func (t Target) PivotFor() physics.Pose {
	return physics.NewPose(t.Pose.Position.Sub(t.Pose.Rotation.Rotate(t.CenterOfMass)), t.Pose.Rotation)
}

type solverStage struct{}

func (solverStage) Name() string { return "solver" }

func (solverStage) FixedUpdate(_ float64, c *Context) error {
	s := c.session
	c.hasTarget = false
	if s == nil || !c.Weapon.Presence.State().Present() {
		return nil
	}
	first := c.Hands[s.First].GrabPoint()
	if s.TwoHanded() {
		c.target = SolveTwoHanded(first, c.Hands[s.Second].GrabPoint(), c.Weapon, s.SecondAboveFirst)
	} else {
		c.target = SolveOneHanded(first, c.Weapon, s.FacingThumb)
	}
	c.hasTarget = true
	c.Weapon.Body.SetCenterOfMass(c.target.CenterOfMass)
	c.report.Target = c.target
	return nil
}
