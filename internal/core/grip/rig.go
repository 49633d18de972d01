package grip

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/zeusync/vrgrip/internal/core/events/bus"
	"github.com/zeusync/vrgrip/internal/core/observability/log"
	"github.com/zeusync/vrgrip/internal/core/systems"
)

// TickReport summarises one fixed tick for callers and tests.
type TickReport struct {
	Tick         uint64
	State        GripState
	From         GripState
	Transitioned bool
	// SetupRan is set when the on-enter hook initialised a new session this tick.
	SetupRan bool
	Spawned  bool
	Presence PresenceState

	Target             Target
	Dampers            Dampers
	Velocity           mgl64.Vec3
	AngularVelocity    mgl64.Vec3
	DegenerateRotation bool

	AttachmentRejected bool
	Drift              float64
}

// Rig reconciles two tracked hands into commands for one weapon body.
// A Rig is not safe for concurrent use.
type Rig struct {
	ctx      *Context
	pipeline *systems.Pipeline[*Context]
	logger   log.Log
}

// NewRig validates cfg and assembles the tick pipeline. b may be nil.
func NewRig(cfg Config, logger log.Log, b bus.EventBus) (*Rig, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.NewNop()
	}
	logger = logger.With(log.String("component", "grip"))

	r := &Rig{
		ctx:      newContext(cfg, logger, publisher{bus: b, logger: logger}),
		pipeline: systems.NewPipeline[*Context](),
		logger:   logger,
	}
	for _, s := range []systems.System[*Context]{
		proxyStage{},
		machineStage{},
		attachmentStage{},
		solverStage{},
		driverStage{},
	} {
		if err := r.pipeline.RegisterSystem(s); err != nil {
			return nil, fmt.Errorf("register %s: %w", s.Name(), err)
		}
	}
	r.pipeline.OnSystemError(func(name string, err error) {
		logger.Error("tick stage failed", log.String("stage", name), log.Error(err))
	})

	logger.Info("grip rig ready",
		log.Uint64("config_fingerprint", cfg.Fingerprint()),
		log.Stringer("dominant_hand", cfg.DominantHand),
		log.Float64("weapon_length", cfg.Weapon.Length),
	)
	return r, nil
}

// FixedTick runs one physics tick: inputs, hand proxies, grip state, attachments,
// solver and driver, in that order. Integration is left to the physics engine.
func (r *Rig) FixedTick(dt float64, in Inputs) TickReport {
	c := r.ctx
	c.tick++
	c.report = TickReport{
		Tick:     c.tick,
		State:    c.Machine.State(),
		From:     c.Machine.State(),
		Presence: c.Weapon.Presence.State(),
	}
	for _, h := range c.Hands {
		h.apply(in.For(h.Side))
	}

	// stage errors are logged by the error hook; the tick keeps the last valid state
	_ = r.pipeline.FixedUpdate(dt, c)

	c.report.Dampers = c.dampers
	return c.report
}

// FrameTick advances the presence lifecycle on the variable-rate frame clock.
func (r *Rig) FrameTick(dt float64) {
	r.ctx.Weapon.Presence.Advance(dt)
}

// Integrate advances the weapon and both hand proxies by dt. Engines with their
// own integrator do not call it.
func (r *Rig) Integrate(dt float64) {
	r.ctx.Weapon.Body.Integrate(dt)
	for _, h := range r.ctx.Hands {
		h.Proxy.Integrate(dt)
	}
}

func (r *Rig) State() GripState       { return r.ctx.Machine.State() }
func (r *Rig) Session() *Session      { return r.ctx.session }
func (r *Rig) Weapon() *WeaponState   { return r.ctx.Weapon }
func (r *Rig) Hand(s Side) *HandState { return r.ctx.Hands[s] }
func (r *Rig) Dampers() Dampers       { return r.ctx.dampers }
func (r *Rig) Context() *Context      { return r.ctx }

// NeedsSetup is true only while a newly entered session is being initialised.
func (r *Rig) NeedsSetup() bool { return r.ctx.needsSetup }

// StageMetrics exposes per-stage execution metrics.
func (r *Rig) StageMetrics(name string) (systems.Metrics, bool) {
	return r.pipeline.GetSystemMetrics(name)
}

// Stages returns the stage names in execution order.
func (r *Rig) Stages() []string { return r.pipeline.GetExecutionOrder() }
