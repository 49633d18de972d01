package grip

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Dampers scale how hard the driver pulls the weapon toward its target.
type Dampers struct {
	Strength float64
	Position float64
	Rotation float64
}

// TwoHandedStrength grows as the hands move apart and as the closest hand nears
// the pivot. Offsets on opposite sides of the pivot give full positional control,
// leaving only the spread factor.
func TwoHandedStrength(a, b, length, minSpreadMultiplier float64) float64 {
	if length <= 0 {
		return 0
	}
	spread := mgl64.Clamp(math.Abs(a-b)/length, 0, 1)
	spreadFactor := minSpreadMultiplier + (1-minSpreadMultiplier)*spread
	if (a > 0) != (b > 0) {
		return mgl64.Clamp(spreadFactor, 0, 1)
	}
	closest := math.Min(math.Abs(a), math.Abs(b)) / (length / 2)
	return mgl64.Clamp((1-closest)*spreadFactor, 0, 1)
}

// OneHandedStrength weakens as the single grip moves away from the pivot.
func OneHandedStrength(a, length, multiplier float64) float64 {
	if length <= 0 {
		return 0
	}
	return mgl64.Clamp((1-math.Abs(a)/(length/2))*multiplier, 0, 1)
}

// DampersFor maps a strength onto the configured damper ranges.
func DampersFor(strength float64, cfg DriverConfig) Dampers {
	return Dampers{
		Strength: strength,
		Position: cfg.PositionDamper.Lerp(strength),
		Rotation: cfg.RotationDamper.Lerp(strength),
	}
}

func (c *Context) recomputeDampers() {
	s := c.session
	if s == nil {
		c.dampers = Dampers{}
		return
	}
	w, cfg := c.Weapon, c.Config.Driver
	var strength float64
	if s.TwoHanded() {
		strength = TwoHandedStrength(w.points[Primary].Offset, w.points[Secondary].Offset, w.Length, cfg.MinGripDistanceStrengthMultiplier)
	} else {
		strength = OneHandedStrength(w.points[Primary].Offset, w.Length, cfg.OneHandedMultiplier)
	}
	c.dampers = DampersFor(strength, cfg)
}
