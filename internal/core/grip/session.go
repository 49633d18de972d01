package grip

import (
	"fmt"

	"github.com/google/uuid"
)

// GripState is the rig-wide grip mode. Exactly one holds at any tick.
type GripState uint8

const (
	StateEmpty GripState = iota
	StateRightHanded
	StateLeftHanded
	StateTwoHanded
)

func (s GripState) String() string {
	switch s {
	case StateEmpty:
		return "EMPTY"
	case StateRightHanded:
		return "RIGHT_HANDED"
	case StateLeftHanded:
		return "LEFT_HANDED"
	case StateTwoHanded:
		return "TWO_HANDED"
	default:
		return fmt.Sprintf("GripState(%d)", uint8(s))
	}
}

// OneHanded reports whether s is RIGHT_HANDED or LEFT_HANDED.
func (s GripState) OneHanded() bool {
	return s == StateRightHanded || s == StateLeftHanded
}

func oneHanded(side Side) GripState {
	if side == Left {
		return StateLeftHanded
	}
	return StateRightHanded
}

// Session is one grip episode, from the tick a non-empty state is entered until
// the state changes again. It is never mutated after construction.
type Session struct {
	ID     uuid.UUID
	Mode   GripState
	First  Side
	Second Side // only meaningful when Mode is StateTwoHanded
	// FacingThumb selects +handForward (true) or -handForward for one-handed rotation.
	FacingThumb bool
	// SecondAboveFirst selects whether weapon +Z points from the first hand to the second.
	SecondAboveFirst bool
	StartedAt        uint64
}

// TwoHanded reports whether both hands take part in the session.
func (s *Session) TwoHanded() bool { return s.Mode == StateTwoHanded }

// AttachmentFor returns the attachment point held by side in this session.
func (s *Session) AttachmentFor(side Side) (AttachmentID, bool) {
	switch {
	case side == s.First:
		return Primary, true
	case s.TwoHanded() && side == s.Second:
		return Secondary, true
	default:
		return 0, false
	}
}

func (s *Session) String() string {
	if s.TwoHanded() {
		return fmt.Sprintf("%s(first=%s, second=%s)", s.Mode, s.First, s.Second)
	}
	return fmt.Sprintf("%s(first=%s)", s.Mode, s.First)
}
