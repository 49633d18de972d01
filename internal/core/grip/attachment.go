package grip

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/zeusync/vrgrip/internal/core/observability/log"
)

// SlideResult reports the outcome of an attachment reposition request.
type SlideResult uint8

const (
	SlideMoved SlideResult = iota
	SlideOutOfRange
	SlideTooClose
	SlideCrossing
)

func (r SlideResult) String() string {
	switch r {
	case SlideMoved:
		return "moved"
	case SlideOutOfRange:
		return "out_of_range"
	case SlideTooClose:
		return "too_close"
	case SlideCrossing:
		return "crossing"
	default:
		return fmt.Sprintf("slide(%d)", uint8(r))
	}
}

// SlideTo moves an attachment point to offset. The request is rejected, leaving
// the offset untouched, when it leaves the shaft, comes closer than minSeparation
// to the other active point, or passes over it.
func (w *WeaponState) SlideTo(id AttachmentID, offset, minSeparation float64) SlideResult {
	if math.IsNaN(offset) || !w.OnShaft(offset) {
		return SlideOutOfRange
	}
	other := w.points[id.other()]
	if other.Active {
		current := w.points[id]
		if current.Active && (current.Offset-other.Offset)*(offset-other.Offset) < 0 {
			return SlideCrossing
		}
		if math.Abs(offset-other.Offset) < minSeparation-separationEpsilon {
			return SlideTooClose
		}
	}
	w.points[id].Offset = offset
	return SlideMoved
}

// Slide projects a world position onto the shaft and slides the point there.
func (w *WeaponState) Slide(id AttachmentID, world mgl64.Vec3, minSeparation float64) SlideResult {
	return w.SlideTo(id, w.ProjectOffset(world), minSeparation)
}

// placeSeparated clamps a desired offset onto the shaft and pushes it at least
// minSeparation away from the other active point, switching sides when the
// preferred side runs off the shaft.
func (w *WeaponState) placeSeparated(id AttachmentID, desired, minSeparation float64) float64 {
	half := w.HalfLength()
	desired = mgl64.Clamp(desired, -half, half)
	other := w.points[id.other()]
	if !other.Active || math.Abs(desired-other.Offset) >= minSeparation {
		return desired
	}

	dir := 1.0
	if desired < other.Offset || (desired == other.Offset && other.Offset > 0) {
		dir = -1
	}
	candidate := other.Offset + dir*minSeparation
	if math.Abs(candidate) > half {
		candidate = other.Offset - dir*minSeparation
	}
	return mgl64.Clamp(candidate, -half, half)
}

// Slip applies loose-grip drift to the given points: the weapon slides through
// the hands along the downward component of its forward axis. It returns the
// applied drift, or zero when any point would leave the shaft.
func (w *WeaponState) Slip(ids []AttachmentID, speed, dt, analog float64) float64 {
	drift := speed * dt * analog * -w.Body.Pose().Forward().Y()
	if drift == 0 || math.IsNaN(drift) {
		return 0
	}
	next := make([]float64, len(ids))
	for i, id := range ids {
		next[i] = w.points[id].Offset - drift
		if !w.OnShaft(next[i]) {
			return 0
		}
	}
	for i, id := range ids {
		w.points[id].Offset = next[i]
	}
	return drift
}

type attachmentStage struct{}

func (attachmentStage) Name() string { return "attachment" }

func (attachmentStage) FixedUpdate(dt float64, c *Context) error {
	s := c.session
	if s == nil || !c.Weapon.Presence.State().Present() {
		return nil
	}

	speed := c.Config.Grip.SlipSpeed
	switch s.Mode {
	case StateTwoHanded:
		first, second := c.Hands[s.First], c.Hands[s.Second]
		switch {
		case first.Trigger.Active && second.Trigger.Active:
			analog := (first.Trigger.Value + second.Trigger.Value) / 2
			c.slip([]AttachmentID{Primary, Secondary}, speed/2, dt, analog)
		case first.Trigger.Active:
			c.slide(Primary, first)
		case second.Trigger.Active:
			c.slide(Secondary, second)
		}
	case StateRightHanded, StateLeftHanded:
		if h := c.Hands[s.First]; h.Trigger.Active {
			c.slip([]AttachmentID{Primary}, speed, dt, h.Trigger.Value)
		}
	}
	return nil
}

func (c *Context) slide(id AttachmentID, h *HandState) {
	before := c.Weapon.points[id].Offset
	requested := c.Weapon.ProjectOffset(h.GrabPoint().Position)
	result := c.Weapon.SlideTo(id, requested, c.Config.Grip.MinSeparation)
	if result != SlideMoved {
		c.report.AttachmentRejected = true
		c.logger.Debug("attachment slide rejected",
			log.Stringer("attachment", id),
			log.Stringer("result", result),
			log.Float64("requested", requested),
		)
		c.events.publish(EventAttachmentRejected, AttachmentRejected{ID: id, Requested: requested, Result: result})
		return
	}
	if after := c.Weapon.points[id].Offset; after != before {
		c.attachmentsMoved(AttachmentMoved{ID: id, From: before, To: after})
	}
}

func (c *Context) slip(ids []AttachmentID, speed, dt, analog float64) {
	before := c.Weapon.points
	drift := c.Weapon.Slip(ids, speed, dt, analog)
	c.report.Drift = drift
	if drift == 0 {
		return
	}
	for _, id := range ids {
		c.attachmentsMoved(AttachmentMoved{ID: id, From: before[id].Offset, To: c.Weapon.points[id].Offset})
	}
}

func (c *Context) attachmentsMoved(ev AttachmentMoved) {
	c.recomputeDampers()
	c.events.publish(EventAttachmentMoved, ev)
}
