package grip

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/zeusync/vrgrip/internal/core/systems/physics"
)

// Side identifies a physical hand.
type Side uint8

const (
	Right Side = iota
	Left
)

// Sides lists both hands in evaluation order.
var Sides = [2]Side{Right, Left}

func (s Side) String() string {
	switch s {
	case Right:
		return "right"
	case Left:
		return "left"
	default:
		return fmt.Sprintf("side(%d)", uint8(s))
	}
}

// Other returns the opposite hand.
func (s Side) Other() Side {
	if s == Right {
		return Left
	}
	return Right
}

func (s Side) bit() uint8 { return 1 << s }

func (s Side) MarshalText() ([]byte, error) {
	if s != Right && s != Left {
		return nil, fmt.Errorf("invalid side %d", uint8(s))
	}
	return []byte(s.String()), nil
}

func (s *Side) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "right", "r":
		*s = Right
	case "left", "l":
		*s = Left
	default:
		return fmt.Errorf("unknown hand %q", text)
	}
	return nil
}

// Action is one controller action after upstream hysteresis: Value is the raw
// analog reading, Active the thresholded state.
type Action struct {
	Value  float64 `json:"value" yaml:"value"`
	Active bool    `json:"active" yaml:"active"`
}

// HandInput is what the input collaborator delivers for one hand each tick.
type HandInput struct {
	Controller physics.Pose
	Grip       Action
	Trigger    Action
}

// Inputs carries both hands for one tick.
type Inputs struct {
	Right HandInput
	Left  HandInput
}

// For returns the input for side.
func (in Inputs) For(side Side) HandInput {
	if side == Left {
		return in.Left
	}
	return in.Right
}

// HandState is the per-hand state owned by the rig.
type HandState struct {
	Side       Side
	Controller physics.Pose
	Grip       Action
	Trigger    Action
	Proxy      *physics.Body
	GrabOffset physics.Pose

	gripping bool
}

func newHandState(side Side, grabOffset mgl64.Vec3, maxAngularVelocity float64) *HandState {
	return &HandState{
		Side:       side,
		Controller: physics.Identity(),
		Proxy:      physics.NewBody(physics.Identity(), maxAngularVelocity),
		GrabOffset: physics.NewPose(grabOffset, mgl64.QuatIdent()),
	}
}

// GrabPoint returns the world pose used for proximity tests and attachment.
func (h *HandState) GrabPoint() physics.Pose {
	return h.Proxy.Pose().Compose(h.GrabOffset)
}

// Gripping reports whether the hand currently holds the weapon.
func (h *HandState) Gripping() bool { return h.gripping }

func (h *HandState) apply(in HandInput) {
	h.Controller = in.Controller
	if h.Controller.Rotation == (mgl64.Quat{}) {
		h.Controller.Rotation = mgl64.QuatIdent()
	}
	h.Grip = in.Grip
	h.Trigger = in.Trigger
}

// setGripping hands authority over the proxy to the solver or back to the servo.
func (h *HandState) setGripping(gripping bool) {
	if h.gripping == gripping {
		return
	}
	h.gripping = gripping
	h.Proxy.SetKinematic(gripping)
	if gripping {
		h.Proxy.Teleport(h.Controller)
	}
}
