package grip

import (
	"github.com/zeusync/vrgrip/internal/core/events/bus"
	"github.com/zeusync/vrgrip/internal/core/observability/log"
)

const eventSource = "grip.rig"

// Event types published on the rig's bus.
const (
	EventGripStateChanged   = "grip.state.changed"
	EventSessionSetup       = "grip.session.setup"
	EventPresenceChanged    = "presence.changed"
	EventAttachmentMoved    = "attachment.moved"
	EventAttachmentRejected = "attachment.rejected"
)

// StateChanged is the payload of EventGripStateChanged.
type StateChanged struct {
	Transition
	Tick uint64
}

// SessionSetup is the payload of EventSessionSetup.
type SessionSetup struct {
	Session Session
	Dampers Dampers
}

// PresenceChanged is the payload of EventPresenceChanged.
type PresenceChanged struct {
	From PresenceState
	To   PresenceState
}

// AttachmentMoved is the payload of EventAttachmentMoved.
type AttachmentMoved struct {
	ID   AttachmentID
	From float64
	To   float64
}

// AttachmentRejected is the payload of EventAttachmentRejected.
type AttachmentRejected struct {
	ID        AttachmentID
	Requested float64
	Result    SlideResult
}

type publisher struct {
	bus    bus.EventBus
	logger log.Log
}

// publish delivers synchronously. Handler errors are logged and otherwise ignored.
func (p publisher) publish(eventType string, data any) {
	if p.bus == nil {
		return
	}
	if err := p.bus.Publish(bus.NewEvent(eventType, eventSource, data)); err != nil {
		p.logger.Warn("event handler failed", log.String("event", eventType), log.Error(err))
	}
}
