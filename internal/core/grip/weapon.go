package grip

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/zeusync/vrgrip/internal/core/systems/physics"
)

// AttachmentID names one of the two sliding attachment points. Points are not
// bound to a hand: the first gripping hand of a session uses Primary.
type AttachmentID uint8

const (
	Primary AttachmentID = iota
	Secondary
)

func (id AttachmentID) String() string {
	switch id {
	case Primary:
		return "primary"
	case Secondary:
		return "secondary"
	default:
		return fmt.Sprintf("attachment(%d)", uint8(id))
	}
}

func (id AttachmentID) other() AttachmentID {
	if id == Primary {
		return Secondary
	}
	return Primary
}

// Attachment is a point on the shaft centreline, Offset metres along local +Z from the pivot.
type Attachment struct {
	Offset float64
	Active bool
}

// separationEpsilon absorbs float error when comparing offsets against the minimum separation.
const separationEpsilon = 1e-9

// WeaponState is the single weapon instance driven by the rig.
type WeaponState struct {
	Body        *physics.Body
	Length      float64
	ShaftRadius float64
	Presence    *Presence

	points [2]Attachment
	rest   [2]float64
}

func newWeaponState(cfg WeaponConfig) *WeaponState {
	w := &WeaponState{
		Body:        physics.NewBody(physics.Identity(), cfg.MaxAngularVelocity),
		Length:      cfg.Length,
		ShaftRadius: cfg.ShaftRadius,
		Presence:    NewPresence(cfg.MaterializeRate),
		rest:        [2]float64{cfg.RestPrimary, cfg.RestSecondary},
	}
	w.resetAttachments()
	return w
}

// HalfLength bounds every attachment offset.
func (w *WeaponState) HalfLength() float64 { return w.Length / 2 }

// Attachment returns the current state of an attachment point.
func (w *WeaponState) Attachment(id AttachmentID) Attachment { return w.points[id] }

// AttachmentWorld returns the world pose of an attachment point. Attachments
// share the weapon's rotation.
func (w *WeaponState) AttachmentWorld(id AttachmentID) physics.Pose {
	pose := w.Body.Pose()
	return physics.NewPose(pose.TransformPoint(mgl64.Vec3{0, 0, w.points[id].Offset}), pose.Rotation)
}

// ProjectOffset projects a world point onto the shaft axis.
func (w *WeaponState) ProjectOffset(world mgl64.Vec3) float64 {
	return w.Body.Pose().InverseTransformPoint(world).Z()
}

// OnShaft reports whether offset lies within the weapon's length.
func (w *WeaponState) OnShaft(offset float64) bool {
	return math.Abs(offset) <= w.HalfLength()
}

// ShaftEnds returns the world positions of the shaft's two ends.
func (w *WeaponState) ShaftEnds() (mgl64.Vec3, mgl64.Vec3) {
	pose := w.Body.Pose()
	half := w.HalfLength()
	return pose.TransformPoint(mgl64.Vec3{0, 0, -half}), pose.TransformPoint(mgl64.Vec3{0, 0, half})
}

// Overlaps is the proximity test for a newly gripping hand: the point must be
// within grabRadius of the shaft capsule and project onto the shaft.
func (w *WeaponState) Overlaps(point mgl64.Vec3, grabRadius float64) bool {
	if !w.Presence.State().Present() {
		return false
	}
	a, b := w.ShaftEnds()
	if physics.SegmentDistance(point, a, b) > grabRadius+w.ShaftRadius {
		return false
	}
	return w.OnShaft(w.ProjectOffset(point))
}

// WithinReach tests a hand against its own attachment point instead of the whole shaft.
func (w *WeaponState) WithinReach(id AttachmentID, point mgl64.Vec3, grabRadius float64) bool {
	return w.AttachmentWorld(id).Position.Sub(point).Len() <= grabRadius+w.ShaftRadius
}

func (w *WeaponState) activate(id AttachmentID, offset float64) {
	w.points[id] = Attachment{Offset: offset, Active: true}
}

func (w *WeaponState) deactivate(id AttachmentID) {
	w.points[id].Active = false
}

func (w *WeaponState) resetAttachments() {
	w.points = [2]Attachment{{Offset: w.rest[Primary]}, {Offset: w.rest[Secondary]}}
}
