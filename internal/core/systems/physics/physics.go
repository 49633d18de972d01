package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Conventions: left-handed, +Y up, +Z forward. Weapons lie along local +Z.

var (
	WorldUp      = mgl64.Vec3{0, 1, 0}
	WorldDown    = mgl64.Vec3{0, -1, 0}
	WorldForward = mgl64.Vec3{0, 0, 1}
	WorldRight   = mgl64.Vec3{1, 0, 0}
)

// degenerateEpsilon is the sin(theta/2) below which a rotation axis is considered undefined.
const degenerateEpsilon = 1e-6

// Pose is a world-space position and orientation.
type Pose struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
}

// Identity returns the pose at the origin with no rotation.
func Identity() Pose {
	return Pose{Rotation: mgl64.QuatIdent()}
}

// NewPose builds a pose from a position and rotation.
func NewPose(position mgl64.Vec3, rotation mgl64.Quat) Pose {
	return Pose{Position: position, Rotation: rotation}
}

func (p Pose) Forward() mgl64.Vec3 { return p.Rotation.Rotate(WorldForward) }
func (p Pose) Up() mgl64.Vec3      { return p.Rotation.Rotate(WorldUp) }
func (p Pose) Right() mgl64.Vec3   { return p.Rotation.Rotate(WorldRight) }

// TransformPoint maps a point from pose-local space into world space.
func (p Pose) TransformPoint(local mgl64.Vec3) mgl64.Vec3 {
	return p.Position.Add(p.Rotation.Rotate(local))
}

// InverseTransformPoint maps a world point into pose-local space.
func (p Pose) InverseTransformPoint(world mgl64.Vec3) mgl64.Vec3 {
	return p.Rotation.Inverse().Rotate(world.Sub(p.Position))
}

// InverseTransformDirection maps a world direction into pose-local space.
func (p Pose) InverseTransformDirection(dir mgl64.Vec3) mgl64.Vec3 {
	return p.Rotation.Inverse().Rotate(dir)
}

// Compose applies a local offset pose on top of p.
func (p Pose) Compose(local Pose) Pose {
	return Pose{
		Position: p.TransformPoint(local.Position),
		Rotation: p.Rotation.Mul(local.Rotation).Normalize(),
	}
}

// ApproxEqual compares positions and orientations within eps. q and -q are the same orientation.
func (p Pose) ApproxEqual(o Pose, eps float64) bool {
	if !Near(p.Position, o.Position, eps) {
		return false
	}
	return math.Abs(math.Abs(p.Rotation.Normalize().Dot(o.Rotation.Normalize()))-1) <= eps
}

// Near reports whether a and b are within an absolute distance eps.
func Near(a, b mgl64.Vec3, eps float64) bool {
	return a.Sub(b).Len() <= eps
}

// IsFinite reports whether every component of v is a finite number.
func IsFinite(v mgl64.Vec3) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// SafeNormalize returns v with unit length, or false when v is (near) zero or not finite.
func SafeNormalize(v mgl64.Vec3) (mgl64.Vec3, bool) {
	l := v.Len()
	if l < 1e-9 || !IsFinite(v) {
		return mgl64.Vec3{}, false
	}
	return v.Mul(1 / l), true
}

// LookRotation returns the rotation whose +Z axis points along forward and whose
// +Y axis is as close to up as possible. A zero forward yields identity; an up
// parallel to forward falls back to another reference axis.
func LookRotation(forward, up mgl64.Vec3) mgl64.Quat {
	f, ok := SafeNormalize(forward)
	if !ok {
		return mgl64.QuatIdent()
	}
	r, ok := SafeNormalize(up.Cross(f))
	if !ok {
		// forward is parallel to up
		r, ok = SafeNormalize(WorldForward.Cross(f))
		if !ok {
			r, _ = SafeNormalize(WorldUp.Cross(f))
		}
	}
	u := f.Cross(r)
	m := mgl64.Mat4{
		r.X(), r.Y(), r.Z(), 0,
		u.X(), u.Y(), u.Z(), 0,
		f.X(), f.Y(), f.Z(), 0,
		0, 0, 0, 1,
	}
	return mgl64.Mat4ToQuat(m).Normalize()
}

// NormalizeAngle wraps an angle in degrees into (-180, 180].
func NormalizeAngle(deg float64) float64 {
	a := math.Mod(deg, 360)
	if a > 180 {
		a -= 360
	} else if a <= -180 {
		a += 360
	}
	return a
}

// AngleAxis converts q to an angle in degrees, normalised into (-180, 180], and a unit axis.
// ok is false when the rotation is (near) identity and the axis is undefined; callers must
// skip any angular update in that case.
func AngleAxis(q mgl64.Quat) (angle float64, axis mgl64.Vec3, ok bool) {
	n := q.Len()
	if n < 1e-12 || math.IsNaN(n) {
		return 0, mgl64.Vec3{}, false
	}
	q = q.Scale(1 / n)
	w := mgl64.Clamp(q.W, -1, 1)
	s := math.Sqrt(1 - w*w)
	if s < degenerateEpsilon {
		return 0, mgl64.Vec3{}, false
	}
	axis = q.V.Mul(1 / s)
	if !IsFinite(axis) {
		return 0, mgl64.Vec3{}, false
	}
	angle = NormalizeAngle(mgl64.RadToDeg(2 * math.Acos(w)))
	return angle, axis, true
}

// RotationDelta returns the angle/axis of the rotation taking current onto target.
func RotationDelta(target, current mgl64.Quat) (angle float64, axis mgl64.Vec3, ok bool) {
	return AngleAxis(target.Mul(current.Inverse()))
}

// Lerp interpolates linearly between a and b with t clamped to [0, 1].
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*mgl64.Clamp(t, 0, 1)
}

// Midpoint returns the point halfway between a and b.
func Midpoint(a, b mgl64.Vec3) mgl64.Vec3 {
	return a.Add(b).Mul(0.5)
}

// SegmentDistance returns the distance from p to the segment [a, b].
func SegmentDistance(p, a, b mgl64.Vec3) float64 {
	ab := b.Sub(a)
	denom := ab.Dot(ab)
	if denom < 1e-12 {
		return p.Sub(a).Len()
	}
	t := mgl64.Clamp(p.Sub(a).Dot(ab)/denom, 0, 1)
	return p.Sub(a.Add(ab.Mul(t))).Len()
}
