package grip

import (
	"math"

	"github.com/google/uuid"
	"github.com/zeusync/vrgrip/internal/core/observability/log"
	"github.com/zeusync/vrgrip/internal/core/systems/physics"
)

// Context is the state shared by every stage of a tick. It is built once by
// NewRig and passed by reference to each stage.
type Context struct {
	Config  Config
	Hands   [2]*HandState
	Weapon  *WeaponState
	Machine *Machine

	session    *Session
	dampers    Dampers
	needsSetup bool
	target     Target
	hasTarget  bool

	tick   uint64
	report TickReport
	logger log.Log
	events publisher
}

func newContext(cfg Config, logger log.Log, events publisher) *Context {
	c := &Context{
		Config: cfg,
		Hands: [2]*HandState{
			Right: newHandState(Right, cfg.Hands.RightGrabOffset, cfg.Proxy.MaxAngularVelocity),
			Left:  newHandState(Left, cfg.Hands.LeftGrabOffset, cfg.Proxy.MaxAngularVelocity),
		},
		Weapon:  newWeaponState(cfg.Weapon),
		Machine: NewMachine(cfg.DominantHand),
		logger:  logger,
		events:  events,
	}
	c.Weapon.Body.SetKinematic(true)
	c.Machine.OnEnter(c.enter)
	c.Weapon.Presence.OnChange(c.presenceChanged)
	return c
}

// Hand returns the state of one hand.
func (c *Context) Hand(side Side) *HandState { return c.Hands[side] }

// Session returns the current grip session, nil while EMPTY.
func (c *Context) Session() *Session { return c.session }

// Dampers returns the damper coefficients cached for the current session.
func (c *Context) Dampers() Dampers { return c.dampers }

func (c *Context) heldMask() uint8 {
	var mask uint8
	for _, h := range c.Hands {
		if h.Grip.Active {
			mask |= h.Side.bit()
		}
	}
	return mask
}

// guard is the proximity test of the state machine. A freshly pressed hand
// only needs to overlap the shaft; a hand joining on a later tick also needs
// the first hand to still be at its attachment point.
func (c *Context) guard(side Side, joining, retest bool) bool {
	h := c.Hands[side]
	presence := c.Weapon.Presence.State()
	radius := c.Config.Grip.GrabRadius
	if !joining {
		if presence == Absent {
			// the weapon is summoned into the dominant hand
			return side == c.Config.DominantHand
		}
		return c.Weapon.Overlaps(h.GrabPoint().Position, radius)
	}
	first, ok := c.Machine.First()
	if !ok || !presence.Present() {
		return false
	}
	if !c.Weapon.Overlaps(h.GrabPoint().Position, radius) {
		return false
	}
	return !retest || c.Weapon.WithinReach(Primary, c.Hands[first].GrabPoint().Position, radius)
}

type machineStage struct{}

func (machineStage) Name() string { return "grip-state" }

func (machineStage) FixedUpdate(_ float64, c *Context) error {
	c.Machine.Evaluate(c.heldMask(), c.guard)
	c.report.State = c.Machine.State()
	return nil
}

// enter is the state machine's on-enter hook. Setup runs here exactly once per
// entered state.
func (c *Context) enter(tr Transition) {
	c.needsSetup = tr.To != StateEmpty
	c.report.Transitioned = true
	c.report.From = tr.From
	c.report.State = tr.To

	c.logger.Info("grip state changed",
		log.Stringer("from", tr.From),
		log.Stringer("to", tr.To),
		log.Stringer("first", tr.First),
		log.Uint64("tick", c.tick),
	)
	c.events.publish(EventGripStateChanged, StateChanged{Transition: tr, Tick: c.tick})

	if tr.To == StateEmpty {
		c.release()
		return
	}
	c.setup(tr)
	c.needsSetup = false
	c.report.SetupRan = true
	c.events.publish(EventSessionSetup, SessionSetup{Session: *c.session, Dampers: c.dampers})
}

func (c *Context) release() {
	for _, h := range c.Hands {
		h.setGripping(false)
	}
	c.Weapon.deactivate(Primary)
	c.Weapon.deactivate(Secondary)
	c.session = nil
	c.dampers = Dampers{}
	c.hasTarget = false
	c.Weapon.Presence.BeginDematerializing()
}

func (c *Context) setup(tr Transition) {
	first := c.Hands[tr.First]
	second := c.Hands[tr.Second]
	twoHanded := tr.To == StateTwoHanded

	first.setGripping(true)
	second.setGripping(twoHanded)

	switch c.Weapon.Presence.State() {
	case Absent:
		c.spawn(first)
	case Dematerializing:
		c.Weapon.Presence.BeginMaterializing()
	}

	w := c.Weapon
	minSep := c.Config.Grip.MinSeparation
	session := &Session{
		ID:        uuid.New(),
		Mode:      tr.To,
		First:     tr.First,
		Second:    tr.Second,
		StartedAt: c.tick,
	}

	firstGrab := first.GrabPoint()
	if twoHanded {
		if !w.points[Primary].Active {
			w.activate(Primary, clampOffset(w.ProjectOffset(firstGrab.Position), w.HalfLength()))
		}
		secondGrab := second.GrabPoint()
		w.activate(Secondary, w.placeSeparated(Secondary, w.ProjectOffset(secondGrab.Position), minSep))
		a, b := w.points[Primary].Offset, w.points[Secondary].Offset
		if a != b {
			session.SecondAboveFirst = b > a
		} else {
			session.SecondAboveFirst = w.Body.Pose().InverseTransformDirection(secondGrab.Position.Sub(firstGrab.Position)).Z() >= 0
		}
	} else {
		w.deactivate(Secondary)
		w.activate(Primary, clampOffset(w.ProjectOffset(firstGrab.Position), w.HalfLength()))
		session.FacingThumb = w.Body.Pose().Forward().Dot(firstGrab.Forward()) > 0
	}

	c.session = session
	c.recomputeDampers()
	c.logger.Debug("grip session set up",
		log.String("session", session.ID.String()),
		log.Stringer("mode", session.Mode),
		log.Bool("facing_thumb", session.FacingThumb),
		log.Bool("second_above_first", session.SecondAboveFirst),
		log.Float64("primary", w.points[Primary].Offset),
		log.Float64("secondary", w.points[Secondary].Offset),
		log.Float64("damper_strength", c.dampers.Strength),
	)
}

// spawn places the absent weapon in the hand so that the configured spawn
// attachment sits on the grab point, then starts materializing.
func (c *Context) spawn(h *HandState) {
	grab := h.GrabPoint()
	pose := physics.NewPose(
		grab.Position.Sub(grab.Rotation.Rotate(c.Config.Weapon.SpawnAttachment)),
		grab.Rotation,
	)
	c.Weapon.Body.Teleport(pose)
	c.Weapon.resetAttachments()
	c.Weapon.Presence.BeginMaterializing()
	c.report.Spawned = true
	c.logger.Info("weapon spawned",
		log.Stringer("hand", h.Side),
		log.Vec3("position", pose.Position),
	)
}

func (c *Context) presenceChanged(from, to PresenceState) {
	// only a solid weapon is driven; otherwise it holds still where it is
	body := c.Weapon.Body
	body.SetKinematic(to != Solid)
	if to == Dematerializing {
		body.Teleport(body.Pose())
	}
	if to == Absent {
		c.Weapon.resetAttachments()
	}
	c.report.Presence = to
	c.logger.Info("weapon presence changed", log.Stringer("from", from), log.Stringer("to", to))
	c.events.publish(EventPresenceChanged, PresenceChanged{From: from, To: to})
}

func clampOffset(offset, half float64) float64 {
	return math.Max(-half, math.Min(half, offset))
}
