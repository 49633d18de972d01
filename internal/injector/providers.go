package injector

import (
	"github.com/google/wire"
	"github.com/zeusync/vrgrip/internal/core/events/bus"
	"github.com/zeusync/vrgrip/internal/core/grip"
	"github.com/zeusync/vrgrip/internal/core/observability/log"
)

// ProviderSet builds a rig from a config and a log level.
var ProviderSet = wire.NewSet(
	ProvideLogger,
	ProvideBus,
	grip.NewRig,
)

// Runtime is everything a host needs to drive and observe a rig.
type Runtime struct {
	Rig    *grip.Rig
	Bus    bus.EventBus
	Logger log.Log
}

// ProvideLogger returns the process logger at level.
func ProvideLogger(level log.Level) log.Log {
	return log.New(level)
}

// ProvideBus returns the in-process event bus shared by the rig and its collaborators.
func ProvideBus() bus.EventBus {
	return bus.New()
}
