package grip

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/require"
	"github.com/zeusync/vrgrip/internal/core/systems/physics"
	"pgregory.net/rapid"
)

func TestDamperStrength(t *testing.T) {
	t.Run("Spread Raises Strength", func(t *testing.T) {
		narrow := TwoHandedStrength(-0.05, 0.05, 1, 0.2)
		wide := TwoHandedStrength(-0.45, 0.45, 1, 0.2)
		require.InDelta(t, 0.28, narrow, 1e-9)
		require.InDelta(t, 0.92, wide, 1e-9)
		require.Less(t, narrow, wide)

		cfg := DefaultConfig().Driver
		require.Less(t, DampersFor(narrow, cfg).Position, DampersFor(wide, cfg).Position)
		require.Less(t, DampersFor(narrow, cfg).Rotation, DampersFor(wide, cfg).Rotation)
	})

	t.Run("Monotonic In Spread With Fixed Centering", func(t *testing.T) {
		rapid.Check(t, func(t *rapid.T) {
			closest := rapid.Float64Range(0, 0.4).Draw(t, "closest")
			s1 := rapid.Float64Range(0, 0.5-closest).Draw(t, "s1")
			s2 := rapid.Float64Range(s1, 0.5-closest).Draw(t, "s2")
			sign := 1.0
			if rapid.Bool().Draw(t, "negative") {
				sign = -1
			}
			a := TwoHandedStrength(sign*closest, sign*(closest+s1), 1, 0.2)
			b := TwoHandedStrength(sign*closest, sign*(closest+s2), 1, 0.2)
			if a > b+1e-12 {
				t.Fatalf("strength fell from %v to %v as spread grew %v -> %v", a, b, s1, s2)
			}
			if a < 0 || b > 1 {
				t.Fatalf("strength out of [0, 1]: %v %v", a, b)
			}
		})
	})

	t.Run("Same Side Uses Closest Point", func(t *testing.T) {
		// closest 0.2 of half length 0.5, spread 0.2
		require.InDelta(t, (1-0.4)*(0.2+0.8*0.2), TwoHandedStrength(0.2, 0.4, 1, 0.2), 1e-9)
	})

	t.Run("One Handed", func(t *testing.T) {
		require.InDelta(t, 0.6, OneHandedStrength(0, 1.6, 0.6), 1e-12)
		require.InDelta(t, 0.3, OneHandedStrength(-0.4, 1.6, 0.6), 1e-12)
		require.InDelta(t, 0.0, OneHandedStrength(0.8, 1.6, 0.6), 1e-12)
	})
}

func TestDrive(t *testing.T) {
	cfg := DefaultConfig().Driver
	full := Dampers{Strength: 1, Position: 1, Rotation: 1}

	t.Run("Aligned Rotation Gives Zero Angular Velocity", func(t *testing.T) {
		q := mgl64.QuatRotate(0.7, mgl64.Vec3{1, 1, 0}.Normalize())
		body := physics.NewBody(physics.NewPose(mgl64.Vec3{}, q), 0)
		body.SetAngularVelocity(mgl64.Vec3{1, 2, 3})

		cmd := Drive(body, Target{Pose: physics.NewPose(mgl64.Vec3{0, 0, 1}, q)}, full, cfg, 0.02)
		require.True(t, cmd.Degenerate)
		require.Equal(t, mgl64.Vec3{}, body.AngularVelocity())
		require.True(t, physics.IsFinite(body.Velocity()))
		require.InDelta(t, cfg.PositionSpeed, body.Velocity().Z(), 1e-9)
	})

	t.Run("Takes The Short Way Past 180", func(t *testing.T) {
		body := physics.NewBody(physics.Identity(), 0)
		target := Target{Pose: physics.NewPose(mgl64.Vec3{}, mgl64.QuatRotate(mgl64.DegToRad(181), physics.WorldUp))}
		Drive(body, target, full, cfg, 0.02)

		want := cfg.AngularGain * mgl64.DegToRad(179) / 0.02
		require.Less(t, body.AngularVelocity().Y(), 0.0)
		require.InDelta(t, want, body.AngularVelocity().Len(), 1e-6)
	})

	t.Run("Dampers Scale Commands", func(t *testing.T) {
		body := physics.NewBody(physics.Identity(), 0)
		target := Target{
			Pose:     physics.NewPose(mgl64.Vec3{1, 0, 0}, mgl64.QuatRotate(0.5, physics.WorldUp)),
			Tracking: mgl64.Vec3{},
		}
		half := Dampers{Position: 0.5, Rotation: 0.5}
		Drive(body, target, half, cfg, 0.02)
		require.InDelta(t, cfg.PositionSpeed*0.5, body.Velocity().X(), 1e-9)
		require.InDelta(t, cfg.AngularGain*0.5*0.5/0.02, body.AngularVelocity().Y(), 1e-6)
	})

	t.Run("Body Caps Angular Velocity", func(t *testing.T) {
		body := physics.NewBody(physics.Identity(), 5)
		target := Target{Pose: physics.NewPose(mgl64.Vec3{}, mgl64.QuatRotate(math.Pi*0.9, physics.WorldUp))}
		Drive(body, target, full, cfg, 0.02)
		require.InDelta(t, 5.0, body.AngularVelocity().Len(), 1e-9)
	})
}

func TestServoProxy(t *testing.T) {
	cfg := ProxyConfig{PositionGain: 10, RotationGain: 2}

	t.Run("Chases Position", func(t *testing.T) {
		body := physics.NewBody(physics.Identity(), 0)
		ok := ServoProxy(body, physics.NewPose(mgl64.Vec3{1, 0, 0}, mgl64.QuatIdent()), cfg)
		require.False(t, ok)
		require.Equal(t, mgl64.Vec3{10, 0, 0}, body.Velocity())
	})

	t.Run("Degenerate Rotation Keeps Angular Velocity", func(t *testing.T) {
		body := physics.NewBody(physics.Identity(), 0)
		body.SetAngularVelocity(mgl64.Vec3{0, 1, 0})
		ServoProxy(body, physics.Identity(), cfg)
		require.Equal(t, mgl64.Vec3{0, 1, 0}, body.AngularVelocity())
	})

	t.Run("Shorter Path", func(t *testing.T) {
		body := physics.NewBody(physics.Identity(), 0)
		controller := physics.NewPose(mgl64.Vec3{}, mgl64.QuatRotate(mgl64.DegToRad(270), physics.WorldUp))
		require.True(t, ServoProxy(body, controller, cfg))
		require.InDelta(t, -math.Pi/2*cfg.RotationGain, body.AngularVelocity().Y(), 1e-9)
	})
}

func TestSolver(t *testing.T) {
	t.Run("Two Handed Midpoint And Direction", func(t *testing.T) {
		w := newTestWeapon(-0.3, 0.3)
		w.Body.Teleport(physics.NewPose(mgl64.Vec3{0, 1, 0.5}, mgl64.QuatIdent()))
		first := physics.NewPose(mgl64.Vec3{0, 1, 0}, mgl64.QuatIdent())
		second := physics.NewPose(mgl64.Vec3{0, 1, 1.2}, mgl64.QuatIdent())

		target := SolveTwoHanded(first, second, w, true)
		require.True(t, physics.Near(target.Pose.Forward(), physics.WorldForward, 1e-9))
		require.True(t, physics.Near(target.Pose.Position, mgl64.Vec3{0, 1, 0.6}, 1e-9))
		require.True(t, physics.Near(target.Tracking, mgl64.Vec3{0, 1, 0.5}, 1e-9))
		require.InDelta(t, 0.1, target.StretchCorrection, 1e-9)
		require.Equal(t, mgl64.Vec3{0, 0, 0}, target.CenterOfMass)

		flipped := SolveTwoHanded(first, second, w, false)
		require.True(t, physics.Near(flipped.Pose.Forward(), physics.WorldForward.Mul(-1), 1e-9))
	})

	t.Run("Coincident Hands Keep Current Rotation", func(t *testing.T) {
		w := newTestWeapon(-0.3, 0.3)
		q := mgl64.QuatRotate(0.4, physics.WorldRight)
		w.Body.Teleport(physics.NewPose(mgl64.Vec3{}, q))
		hand := physics.NewPose(mgl64.Vec3{0, 1, 0}, mgl64.QuatIdent())
		target := SolveTwoHanded(hand, hand, w, true)
		require.True(t, target.Pose.ApproxEqual(physics.NewPose(hand.Position, q), 1e-9))
	})

	t.Run("One Handed Follows Facing", func(t *testing.T) {
		w := newTestWeapon(-0.2, 0.3)
		w.deactivate(Secondary)
		hand := physics.NewPose(mgl64.Vec3{0, 1, 0}, mgl64.QuatRotate(math.Pi/2, physics.WorldUp))

		target := SolveOneHanded(hand, w, true)
		require.True(t, physics.Near(target.Pose.Forward(), hand.Forward(), 1e-9))
		require.Equal(t, mgl64.Vec3{0, 0, -0.2}, target.CenterOfMass)
		require.True(t, physics.Near(target.Tracking, mgl64.Vec3{0, 0, -0.2}, 1e-9))

		opposed := SolveOneHanded(hand, w, false)
		require.True(t, physics.Near(opposed.Pose.Forward(), hand.Forward().Mul(-1), 1e-9))
		require.True(t, physics.Near(opposed.Pose.Up(), hand.Up(), 1e-9))
	})

	t.Run("Pivot Puts Centre Of Mass On Target", func(t *testing.T) {
		target := Target{
			Pose:         physics.NewPose(mgl64.Vec3{1, 2, 3}, mgl64.QuatRotate(math.Pi/2, physics.WorldUp)),
			CenterOfMass: mgl64.Vec3{0, 0, -0.3},
		}
		pivot := target.PivotFor()
		require.True(t, physics.Near(pivot.TransformPoint(target.CenterOfMass), target.Pose.Position, 1e-9))
	})
}
