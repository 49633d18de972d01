package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zeusync/vrgrip/internal/core/grip"
	"github.com/zeusync/vrgrip/internal/core/observability/log"
	"github.com/zeusync/vrgrip/internal/injector"
)

func TestScenario(t *testing.T) {
	t.Run("Default Parses", func(t *testing.T) {
		sc, err := loadScenario("")
		require.NoError(t, err)
		require.NotEmpty(t, sc.Steps)
		require.Equal(t, 0.7, sc.Threshold)
	})

	t.Run("Rejects Bad Input", func(t *testing.T) {
		for name, doc := range map[string]string{
			"no steps":      "name: empty\n",
			"zero ticks":    "steps:\n  - name: a\n    ticks: 0\n",
			"unknown key":   "steps:\n  - name: a\n    tiks: 3\n",
			"inverted band": "threshold: 0.5\nrelease: 0.9\nsteps:\n  - ticks: 1\n",
		} {
			t.Run(name, func(t *testing.T) {
				_, err := parseScenario(strings.NewReader(doc))
				require.Error(t, err)
			})
		}
	})

	t.Run("Player Blends And Thresholds", func(t *testing.T) {
		sc, err := parseScenario(strings.NewReader(`
steps:
  - ticks: 1
    right: { position: [0, 0, 0] }
  - ticks: 2
    right: { position: [0, 0, 1], grip: 0.9 }
`))
		require.NoError(t, err)
		p := NewPlayer(sc)

		in, ok := p.Next()
		require.True(t, ok)
		require.False(t, in.Right.Grip.Active)

		in, ok = p.Next()
		require.True(t, ok)
		require.InDelta(t, 0.5, in.Right.Controller.Position.Z(), 1e-12)
		require.True(t, in.Right.Grip.Active)
		require.Equal(t, 0.9, in.Right.Grip.Value)

		in, ok = p.Next()
		require.True(t, ok)
		require.InDelta(t, 1.0, in.Right.Controller.Position.Z(), 1e-12)

		_, ok = p.Next()
		require.False(t, ok)
		require.Nil(t, p.Step())
	})
}

func TestHysteresis(t *testing.T) {
	h := hysteresis{on: 0.7, off: 0.6}
	require.True(t, h.update(0.8).Active)
	require.True(t, h.update(0.65).Active)
	require.False(t, h.update(0.5).Active)
	require.False(t, h.update(0.69).Active)
}

func TestSimulateDefaultScenario(t *testing.T) {
	cfg := grip.DefaultConfig()
	rt, err := injector.InitializeRig(cfg, log.LevelError)
	require.NoError(t, err)
	sc, err := loadScenario("")
	require.NoError(t, err)

	stats, err := simulate(rt, cfg, sc, 5)
	require.NoError(t, err)

	total := 0
	for _, s := range sc.Steps {
		total += s.Ticks
	}
	require.Equal(t, total, stats.ticks)
	require.GreaterOrEqual(t, stats.transitions, 2)
	require.Equal(t, grip.StateEmpty, rt.Rig.State())
	require.Equal(t, grip.Absent, rt.Rig.Presence())
}
