package main

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/zeusync/vrgrip/internal/core/grip"
	"github.com/zeusync/vrgrip/internal/core/systems/physics"
	"gopkg.in/yaml.v3"
)

//go:embed scenario.yaml
var defaultScenario string

// Scenario is a scripted sequence of hand poses and button values.
type Scenario struct {
	Name string `yaml:"name"`
	// Threshold turns analog values into activation; Release is the lower hysteresis edge.
	Threshold float64 `yaml:"threshold"`
	Release   float64 `yaml:"release"`
	Steps     []Step  `yaml:"steps"`
}

// Step blends both hands from the previous step's keyframe to this one over Ticks fixed ticks.
type Step struct {
	Name  string    `yaml:"name"`
	Ticks int       `yaml:"ticks"`
	Right HandFrame `yaml:"right"`
	Left  HandFrame `yaml:"left"`
}

// HandFrame is one keyframe for a hand. Euler angles are degrees, applied yaw (Y), pitch (X), roll (Z).
type HandFrame struct {
	Position mgl64.Vec3 `yaml:"position"`
	Euler    mgl64.Vec3 `yaml:"euler"`
	Grip     float64    `yaml:"grip"`
	Trigger  float64    `yaml:"trigger"`
}

func (f HandFrame) pose() physics.Pose {
	q := mgl64.AnglesToQuat(
		mgl64.DegToRad(f.Euler.Y()),
		mgl64.DegToRad(f.Euler.X()),
		mgl64.DegToRad(f.Euler.Z()),
		mgl64.YXZ,
	)
	return physics.NewPose(f.Position, q.Normalize())
}

func parseScenario(r io.Reader) (*Scenario, error) {
	sc := &Scenario{Threshold: 0.7, Release: 0.6}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(sc); err != nil {
		return nil, fmt.Errorf("decode scenario: %w", err)
	}
	if len(sc.Steps) == 0 {
		return nil, errors.New("scenario has no steps")
	}
	if sc.Release > sc.Threshold {
		return nil, fmt.Errorf("release %v above threshold %v", sc.Release, sc.Threshold)
	}
	for i, s := range sc.Steps {
		if s.Ticks <= 0 {
			return nil, fmt.Errorf("step %d (%s): ticks must be positive", i, s.Name)
		}
	}
	return sc, nil
}

func loadScenario(path string) (*Scenario, error) {
	if path == "" {
		return parseScenario(strings.NewReader(defaultScenario))
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return parseScenario(f)
}

// hysteresis is the input collaborator's thresholding for one action.
type hysteresis struct {
	on, off float64
	active  bool
}

func (h *hysteresis) update(value float64) grip.Action {
	switch {
	case !h.active && value >= h.on:
		h.active = true
	case h.active && value < h.off:
		h.active = false
	}
	return grip.Action{Value: value, Active: h.active}
}

// Player turns a scenario into per-tick inputs.
type Player struct {
	sc       *Scenario
	step     int
	tick     int
	prev     [2]HandFrame
	switches [2][2]hysteresis // [side][grip, trigger]
}

func NewPlayer(sc *Scenario) *Player {
	p := &Player{sc: sc}
	p.prev = [2]HandFrame{grip.Right: sc.Steps[0].Right, grip.Left: sc.Steps[0].Left}
	for side := range p.switches {
		for a := range p.switches[side] {
			p.switches[side][a] = hysteresis{on: sc.Threshold, off: sc.Release}
		}
	}
	return p
}

// Step returns the current step, or nil when the scenario is over.
func (p *Player) Step() *Step {
	if p.step >= len(p.sc.Steps) {
		return nil
	}
	return &p.sc.Steps[p.step]
}

// Next produces the inputs for one tick. ok is false once every step has played.
func (p *Player) Next() (in grip.Inputs, ok bool) {
	s := p.Step()
	if s == nil {
		return grip.Inputs{}, false
	}
	p.tick++
	t := float64(p.tick) / float64(s.Ticks)
	in.Right = p.blend(grip.Right, p.prev[grip.Right], s.Right, t)
	in.Left = p.blend(grip.Left, p.prev[grip.Left], s.Left, t)

	if p.tick >= s.Ticks {
		p.prev = [2]HandFrame{grip.Right: s.Right, grip.Left: s.Left}
		p.step++
		p.tick = 0
	}
	return in, true
}

func (p *Player) blend(side grip.Side, from, to HandFrame, t float64) grip.HandInput {
	a, b := from.pose(), to.pose()
	pose := physics.NewPose(
		a.Position.Add(b.Position.Sub(a.Position).Mul(t)),
		mgl64.QuatSlerp(a.Rotation, b.Rotation, t),
	)
	// buttons switch at the keyframe, not gradually
	return grip.HandInput{
		Controller: pose,
		Grip:       p.switches[side][0].update(to.Grip),
		Trigger:    p.switches[side][1].update(to.Trigger),
	}
}
