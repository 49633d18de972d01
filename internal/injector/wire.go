//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package injector

import (
	"github.com/google/wire"
	"github.com/zeusync/vrgrip/internal/core/grip"
	"github.com/zeusync/vrgrip/internal/core/observability/log"
)

// InitializeRig assembles a rig together with the bus it publishes on.
func InitializeRig(cfg grip.Config, level log.Level) (*Runtime, error) {
	wire.Build(ProviderSet, wire.Struct(new(Runtime), "*"))
	return nil, nil
}
