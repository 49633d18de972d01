package physics

import (
	"github.com/go-gl/mathgl/mgl64"
)

var _ Driven = (*Body)(nil)

// Body is a minimal rigid body: it stores velocity commands and integrates them
// into its pose when Integrate is called. Linear velocity is the velocity of the
// centre of mass; rotation happens about the centre of mass.
type Body struct {
	pose               Pose
	velocity           mgl64.Vec3
	angularVelocity    mgl64.Vec3
	centerOfMass       mgl64.Vec3 // body-local
	maxAngularVelocity float64    // rad/s, 0 = unlimited
	kinematic          bool
}

// NewBody creates a body at pose. maxAngularVelocity caps |angular velocity| (rad/s).
func NewBody(pose Pose, maxAngularVelocity float64) *Body {
	if pose.Rotation == (mgl64.Quat{}) {
		pose.Rotation = mgl64.QuatIdent()
	}
	return &Body{pose: pose, maxAngularVelocity: maxAngularVelocity}
}

func (b *Body) Pose() Pose                    { return b.pose }
func (b *Body) Position() mgl64.Vec3          { return b.pose.Position }
func (b *Body) Rotation() mgl64.Quat          { return b.pose.Rotation }
func (b *Body) Velocity() mgl64.Vec3          { return b.velocity }
func (b *Body) AngularVelocity() mgl64.Vec3   { return b.angularVelocity }
func (b *Body) CenterOfMass() mgl64.Vec3      { return b.centerOfMass }
func (b *Body) MaxAngularVelocity() float64   { return b.maxAngularVelocity }
func (b *Body) IsKinematic() bool             { return b.kinematic }
func (b *Body) SetKinematic(kinematic bool)   { b.kinematic = kinematic }
func (b *Body) SetCenterOfMass(l mgl64.Vec3)  { b.centerOfMass = l }
func (b *Body) WorldCenterOfMass() mgl64.Vec3 { return b.pose.TransformPoint(b.centerOfMass) }

// SetVelocity sets the linear velocity. Non-finite input is ignored.
func (b *Body) SetVelocity(v mgl64.Vec3) {
	if !IsFinite(v) {
		return
	}
	b.velocity = v
}

// SetAngularVelocity sets the angular velocity (rad/s), clamped to the body's cap.
// Non-finite input is ignored.
func (b *Body) SetAngularVelocity(w mgl64.Vec3) {
	if !IsFinite(w) {
		return
	}
	if b.maxAngularVelocity > 0 {
		if l := w.Len(); l > b.maxAngularVelocity {
			w = w.Mul(b.maxAngularVelocity / l)
		}
	}
	b.angularVelocity = w
}

// Teleport places the body at p and zeroes its velocities.
func (b *Body) Teleport(p Pose) {
	b.pose = Pose{Position: p.Position, Rotation: p.Rotation.Normalize()}
	b.velocity = mgl64.Vec3{}
	b.angularVelocity = mgl64.Vec3{}
}

// Integrate advances the pose by dt using the current velocities.
// Kinematic bodies do not move.
func (b *Body) Integrate(dt float64) {
	if b.kinematic || dt <= 0 {
		return
	}
	com := b.WorldCenterOfMass()
	nextCom := com.Add(b.velocity.Mul(dt))

	speed := b.angularVelocity.Len()
	if speed < 1e-12 {
		b.pose.Position = b.pose.Position.Add(b.velocity.Mul(dt))
		return
	}
	dq := mgl64.QuatRotate(speed*dt, b.angularVelocity.Mul(1/speed))
	arm := b.pose.Position.Sub(com)
	b.pose.Position = nextCom.Add(dq.Rotate(arm))
	b.pose.Rotation = dq.Mul(b.pose.Rotation).Normalize()
}
