package grip

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/zeusync/vrgrip/internal/core/observability/log"
	"github.com/zeusync/vrgrip/internal/core/systems/physics"
)

// ServoProxy drives a free hand proxy toward its controller pose with velocity
// commands. It returns false when the rotation delta was degenerate and the
// angular velocity was left untouched.
func ServoProxy(proxy physics.Driven, controller physics.Pose, cfg ProxyConfig) bool {
	current := proxy.Pose()
	proxy.SetVelocity(controller.Position.Sub(current.Position).Mul(cfg.PositionGain))

	angle, axis, ok := physics.RotationDelta(controller.Rotation, current.Rotation)
	if !ok {
		return false
	}
	proxy.SetAngularVelocity(axis.Mul(mgl64.DegToRad(angle) * cfg.RotationGain))
	return true
}

type proxyStage struct{}

func (proxyStage) Name() string { return "hand-proxy" }

func (proxyStage) FixedUpdate(_ float64, c *Context) error {
	for _, h := range c.Hands {
		if h.gripping {
			// the solver reads the proxy while gripping, so it follows the controller exactly
			h.Proxy.Teleport(h.Controller)
			continue
		}
		if !ServoProxy(h.Proxy, h.Controller, c.Config.Proxy) {
			c.logger.Debug("degenerate proxy rotation, angular update skipped", log.Stringer("hand", h.Side))
		}
	}
	return nil
}
