package grip

import "fmt"

// PresenceState is the weapon's solidity lifecycle.
type PresenceState uint8

const (
	Absent PresenceState = iota
	Materializing
	Solid
	Dematerializing
)

func (p PresenceState) String() string {
	switch p {
	case Absent:
		return "absent"
	case Materializing:
		return "materializing"
	case Solid:
		return "solid"
	case Dematerializing:
		return "dematerializing"
	default:
		return fmt.Sprintf("presence(%d)", uint8(p))
	}
}

// Present reports whether the weapon exists in the world in any form.
func (p PresenceState) Present() bool { return p != Absent }

// Presence tracks materialisation progress in [0, 1].
type Presence struct {
	state    PresenceState
	progress float64
	rate     float64
	onChange func(from, to PresenceState)
}

// NewPresence returns an absent presence advancing at rate per second.
func NewPresence(rate float64) *Presence {
	return &Presence{rate: rate}
}

func (p *Presence) State() PresenceState { return p.state }
func (p *Presence) Progress() float64    { return p.progress }

// OnChange installs a hook called after every state change.
func (p *Presence) OnChange(fn func(from, to PresenceState)) { p.onChange = fn }

// BeginMaterializing starts (or resumes) fading in. No-op while already
// materializing or solid.
func (p *Presence) BeginMaterializing() bool {
	if p.state == Materializing || p.state == Solid {
		return false
	}
	p.set(Materializing)
	return true
}

// BeginDematerializing starts fading out. No-op while absent or already fading out.
func (p *Presence) BeginDematerializing() bool {
	if p.state == Absent || p.state == Dematerializing {
		return false
	}
	p.set(Dematerializing)
	return true
}

// Advance moves progress by rate*dt and settles the terminal states.
func (p *Presence) Advance(dt float64) {
	if dt <= 0 {
		return
	}
	switch p.state {
	case Materializing:
		p.progress += p.rate * dt
		if p.progress >= 1 {
			p.progress = 1
			p.set(Solid)
		}
	case Dematerializing:
		p.progress -= p.rate * dt
		if p.progress <= 0 {
			p.progress = 0
			p.set(Absent)
		}
	}
}

func (p *Presence) set(to PresenceState) {
	from := p.state
	p.state = to
	if p.onChange != nil {
		p.onChange(from, to)
	}
}
