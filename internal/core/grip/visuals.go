package grip

import "github.com/zeusync/vrgrip/internal/core/systems/physics"

// AttachmentPose is the world pose of one attachment point.
type AttachmentPose struct {
	ID     AttachmentID
	Pose   physics.Pose
	Active bool
}

// HandVisual tells a hand-visual collaborator where to draw a hand.
type HandVisual struct {
	// TrackProxy is false while gripping; the visual then follows AttachmentPose.
	TrackProxy     bool
	Attachment     AttachmentID
	AttachmentPose physics.Pose
	ProxyPose      physics.Pose
}

// Presence gates whether the driver runs.
func (r *Rig) Presence() PresenceState { return r.ctx.Weapon.Presence.State() }

// PresenceProgress is the materialisation fraction in [0, 1].
func (r *Rig) PresenceProgress() float64 { return r.ctx.Weapon.Presence.Progress() }

// BeginMaterializing lets the presence collaborator fade the weapon in without a grip.
func (r *Rig) BeginMaterializing() bool { return r.ctx.Weapon.Presence.BeginMaterializing() }

// BeginDematerializing lets the presence collaborator fade the weapon out.
func (r *Rig) BeginDematerializing() bool { return r.ctx.Weapon.Presence.BeginDematerializing() }

// AttachmentPoses returns both attachment points in world space.
func (r *Rig) AttachmentPoses() [2]AttachmentPose {
	w := r.ctx.Weapon
	var out [2]AttachmentPose
	for _, id := range []AttachmentID{Primary, Secondary} {
		out[id] = AttachmentPose{ID: id, Pose: w.AttachmentWorld(id), Active: w.points[id].Active}
	}
	return out
}

// HandVisual returns the visual binding for one hand.
func (r *Rig) HandVisual(side Side) HandVisual {
	h := r.ctx.Hands[side]
	v := HandVisual{TrackProxy: true, ProxyPose: h.Proxy.Pose()}
	if s := r.ctx.session; s != nil && h.gripping {
		if id, ok := s.AttachmentFor(side); ok {
			v.TrackProxy = false
			v.Attachment = id
			v.AttachmentPose = r.ctx.Weapon.AttachmentWorld(id)
		}
	}
	return v
}
