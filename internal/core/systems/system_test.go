package systems

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type recordingSystem struct {
	name string
	err  error
}

func (s recordingSystem) Name() string { return s.name }

func (s recordingSystem) FixedUpdate(_ float64, trace *[]string) error {
	*trace = append(*trace, s.name)
	return s.err
}

func TestPipeline(t *testing.T) {
	t.Run("Runs In Registration Order", func(t *testing.T) {
		p := NewPipeline[*[]string]()
		for _, n := range []string{"a", "b", "c"} {
			require.NoError(t, p.RegisterSystem(recordingSystem{name: n}))
		}
		var trace []string
		require.NoError(t, p.FixedUpdate(0.02, &trace))
		require.Equal(t, []string{"a", "b", "c"}, trace)
		require.Equal(t, []string{"a", "b", "c"}, p.GetExecutionOrder())
	})

	t.Run("Duplicate Names", func(t *testing.T) {
		p := NewPipeline[*[]string]()
		require.NoError(t, p.RegisterSystem(recordingSystem{name: "a"}))
		require.ErrorIs(t, p.RegisterSystem(recordingSystem{name: "a"}), ErrDuplicateSystem)
	})

	t.Run("Errors Do Not Stop Later Systems", func(t *testing.T) {
		boom := errors.New("boom")
		p := NewPipeline[*[]string]()
		require.NoError(t, p.RegisterSystem(recordingSystem{name: "a", err: boom}))
		require.NoError(t, p.RegisterSystem(recordingSystem{name: "b"}))

		var hooked []string
		p.OnSystemError(func(name string, err error) { hooked = append(hooked, name) })

		var trace []string
		err := p.FixedUpdate(0.02, &trace)
		require.ErrorIs(t, err, boom)
		require.Equal(t, []string{"a", "b"}, trace)
		require.Equal(t, []string{"a"}, hooked)

		m, ok := p.GetSystemMetrics("a")
		require.True(t, ok)
		require.Equal(t, uint64(1), m.ExecutionCount)
		require.Equal(t, uint64(1), m.ErrorCount)
		require.ErrorIs(t, m.LastError, boom)
	})

	t.Run("Disabled Systems Are Skipped", func(t *testing.T) {
		p := NewPipeline[*[]string]()
		require.NoError(t, p.RegisterSystem(recordingSystem{name: "a"}))
		require.NoError(t, p.RegisterSystem(recordingSystem{name: "b"}))
		require.NoError(t, p.SetEnabled("a", false))
		require.False(t, p.IsEnabled("a"))
		require.ErrorIs(t, p.SetEnabled("zzz", false), ErrUnknownSystem)

		var trace []string
		require.NoError(t, p.FixedUpdate(0.02, &trace))
		require.Equal(t, []string{"b"}, trace)

		m, _ := p.GetSystemMetrics("a")
		require.Zero(t, m.ExecutionCount)
	})
}
