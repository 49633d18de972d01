package grip

// Transition describes one grip state change.
type Transition struct {
	From   GripState
	To     GripState
	First  Side
	Second Side
}

// GuardFunc decides whether a hand may start (joining=false) or join
// (joining=true) a grip. retest is false on the evaluation where the grip was
// pressed and true while a held hand is waiting to be accepted. Hands already
// gripping are never re-tested.
type GuardFunc func(side Side, joining, retest bool) bool

// EnterFunc runs exactly once for every state entered.
type EnterFunc func(Transition)

// Machine is the edge-triggered grip state machine. It is re-evaluated when the
// grip mask changes or while a held hand is still waiting to be accepted.
type Machine struct {
	state    GripState
	first    Side
	dominant Side

	held    uint8 // grip buttons held on the last evaluation
	pending uint8 // held but not yet accepted

	onEnter EnterFunc
}

// NewMachine returns an EMPTY machine. The dominant hand wins simultaneous presses.
func NewMachine(dominant Side) *Machine {
	return &Machine{dominant: dominant}
}

// OnEnter installs the on-enter hook.
func (m *Machine) OnEnter(fn EnterFunc) { m.onEnter = fn }

func (m *Machine) State() GripState { return m.state }

// First returns the hand that started the current session.
func (m *Machine) First() (Side, bool) {
	return m.first, m.state != StateEmpty
}

// Pending reports whether side holds its grip without being accepted.
func (m *Machine) Pending(side Side) bool { return m.pending&side.bit() != 0 }

// gripping returns the mask of hands that are part of the current state.
func (m *Machine) gripping() uint8 {
	switch m.state {
	case StateTwoHanded:
		return Right.bit() | Left.bit()
	case StateRightHanded, StateLeftHanded:
		return m.first.bit()
	default:
		return 0
	}
}

// Evaluate feeds the current grip mask. At most one transition happens per call
// and the on-enter hook fires for it before Evaluate returns.
func (m *Machine) Evaluate(held uint8, guard GuardFunc) (Transition, bool) {
	pressed := held &^ m.held
	if held == m.held && m.pending == 0 {
		return Transition{}, false
	}
	waiting := m.pending & held
	m.held = held
	m.pending = (m.pending | pressed) & held

	next, first := m.state, m.first
	if lost := m.gripping() &^ held; lost != 0 {
		if remaining := m.gripping() & held; m.state == StateTwoHanded && remaining != 0 {
			if remaining == Left.bit() {
				first = Left
			} else {
				first = Right
			}
			next = oneHanded(first)
		} else {
			next = StateEmpty
		}
	}

	switch {
	case next == StateEmpty && m.pending != 0:
		for _, side := range [2]Side{m.dominant, m.dominant.Other()} {
			if m.Pending(side) && guard(side, false, waiting&side.bit() != 0) {
				next, first = oneHanded(side), side
				m.pending &^= side.bit()
				break
			}
		}
	case next.OneHanded() && m.Pending(first.Other()):
		if guard(first.Other(), true, waiting&first.Other().bit() != 0) {
			next = StateTwoHanded
			m.pending &^= first.Other().bit()
		}
	}

	if next == m.state && first == m.first {
		return Transition{}, false
	}
	tr := Transition{From: m.state, To: next, First: first, Second: first.Other()}
	m.state, m.first = next, first
	if m.onEnter != nil {
		m.onEnter(tr)
	}
	return tr, true
}
