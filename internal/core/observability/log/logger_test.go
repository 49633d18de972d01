package log

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogger(t *testing.T) {
	t.Run("Level Filtering", func(t *testing.T) {
		core, logs := observer.New(zap.DebugLevel)
		l := NewFromCore(core, LevelInfo)

		l.Debug("hidden")
		l.Info("shown", String("k", "v"), Int("n", 3))
		require.Equal(t, 1, logs.Len())

		entry := logs.All()[0]
		require.Equal(t, "shown", entry.Message)
		require.Equal(t, "v", entry.ContextMap()["k"])
		require.EqualValues(t, 3, entry.ContextMap()["n"])

		l.SetLevel(LevelDebug)
		require.Equal(t, LevelDebug, l.GetLevel())
		l.Debug("now shown")
		require.Equal(t, 2, logs.Len())
	})

	t.Run("With Fields", func(t *testing.T) {
		core, logs := observer.New(zap.DebugLevel)
		l := NewFromCore(core, LevelDebug).With(String("component", "rig"))
		l.Warn("careful", Error(errors.New("boom")), Bool("ok", false), Vec3("pos", [3]float64{1, 2, 3}))

		entry := logs.All()[0]
		ctx := entry.ContextMap()
		require.Equal(t, "rig", ctx["component"])
		require.Equal(t, "boom", ctx["error"])
		require.Equal(t, false, ctx["ok"])
		require.Equal(t, []interface{}{1.0, 2.0, 3.0}, ctx["pos"])
	})

	t.Run("Nop", func(t *testing.T) {
		l := NewNop()
		l.Info("nothing")
		require.NotNil(t, Provide())
	})
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("debug")
	require.NoError(t, err)
	require.Equal(t, LevelDebug, lvl)

	lvl, err = ParseLevel("")
	require.NoError(t, err)
	require.Equal(t, LevelInfo, lvl)

	_, err = ParseLevel("loud")
	require.Error(t, err)
}
