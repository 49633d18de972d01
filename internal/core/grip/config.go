package grip

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("invalid grip config")

// Config holds every tuning value of the rig.
type Config struct {
	FixedDeltaTime float64      `json:"fixed_delta_time" yaml:"fixed_delta_time"`
	DominantHand   Side         `json:"dominant_hand" yaml:"dominant_hand"`
	Weapon         WeaponConfig `json:"weapon" yaml:"weapon"`
	Hands          HandsConfig  `json:"hands" yaml:"hands"`
	Proxy          ProxyConfig  `json:"proxy" yaml:"proxy"`
	Grip           GripConfig   `json:"grip" yaml:"grip"`
	Driver         DriverConfig `json:"driver" yaml:"driver"`
}

// WeaponConfig describes the weapon geometry and lifecycle.
type WeaponConfig struct {
	Length             float64 `json:"length" yaml:"length"`
	ShaftRadius        float64 `json:"shaft_radius" yaml:"shaft_radius"`
	MaxAngularVelocity float64 `json:"max_angular_velocity" yaml:"max_angular_velocity"`
	// MaterializeRate is presence progress per second (1.0 = one second to solid).
	MaterializeRate float64 `json:"materialize_rate" yaml:"materialize_rate"`
	// SpawnAttachment is the weapon-local point placed in the dominant hand on spawn.
	SpawnAttachment mgl64.Vec3 `json:"spawn_attachment" yaml:"spawn_attachment"`
	RestPrimary     float64    `json:"rest_primary" yaml:"rest_primary"`
	RestSecondary   float64    `json:"rest_secondary" yaml:"rest_secondary"`
}

// HandsConfig holds per-hand grab point offsets relative to the proxy body.
type HandsConfig struct {
	RightGrabOffset mgl64.Vec3 `json:"right_grab_offset" yaml:"right_grab_offset"`
	LeftGrabOffset  mgl64.Vec3 `json:"left_grab_offset" yaml:"left_grab_offset"`
}

// ProxyConfig tunes the hand tracking servo.
type ProxyConfig struct {
	PositionGain       float64 `json:"position_gain" yaml:"position_gain"`
	RotationGain       float64 `json:"rotation_gain" yaml:"rotation_gain"`
	MaxAngularVelocity float64 `json:"max_angular_velocity" yaml:"max_angular_velocity"`
}

// GripConfig tunes grabbing and attachment sliding.
type GripConfig struct {
	// GrabRadius is the proximity threshold for starting a grip.
	GrabRadius float64 `json:"grab_radius" yaml:"grab_radius"`
	// MinSeparation keeps the two attachment points apart.
	MinSeparation float64 `json:"min_separation" yaml:"min_separation"`
	// SlipSpeed is the loose-grip slide speed (m/s) for a vertical weapon.
	SlipSpeed float64 `json:"slip_speed" yaml:"slip_speed"`
}

// Range is a closed [Min, Max] interval.
type Range struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

// Lerp maps t in [0, 1] onto the range.
func (r Range) Lerp(t float64) float64 {
	return r.Min + (r.Max-r.Min)*mgl64.Clamp(t, 0, 1)
}

// DriverConfig tunes the weapon physics driver.
type DriverConfig struct {
	PositionSpeed                     float64 `json:"position_speed" yaml:"position_speed"`
	AngularGain                       float64 `json:"angular_gain" yaml:"angular_gain"`
	PositionDamper                    Range   `json:"position_damper" yaml:"position_damper"`
	RotationDamper                    Range   `json:"rotation_damper" yaml:"rotation_damper"`
	OneHandedMultiplier               float64 `json:"one_handed_multiplier" yaml:"one_handed_multiplier"`
	MinGripDistanceStrengthMultiplier float64 `json:"min_grip_distance_strength_multiplier" yaml:"min_grip_distance_strength_multiplier"`
}

// DefaultConfig returns a staff-like two-handed weapon tuned for a 50 Hz physics tick.
func DefaultConfig() Config {
	return Config{
		FixedDeltaTime: 0.02,
		DominantHand:   Right,
		Weapon: WeaponConfig{
			Length:             1.6,
			ShaftRadius:        0.025,
			MaxAngularVelocity: 50,
			MaterializeRate:    2,
			SpawnAttachment:    mgl64.Vec3{0, 0, -0.3},
			RestPrimary:        -0.3,
			RestSecondary:      0.3,
		},
		Hands: HandsConfig{
			RightGrabOffset: mgl64.Vec3{0, -0.02, 0.04},
			LeftGrabOffset:  mgl64.Vec3{0, -0.02, 0.04},
		},
		Proxy: ProxyConfig{
			PositionGain:       35,
			RotationGain:       30,
			MaxAngularVelocity: 50,
		},
		Grip: GripConfig{
			GrabRadius:    0.08,
			MinSeparation: 0.08,
			SlipSpeed:     0.6,
		},
		Driver: DriverConfig{
			PositionSpeed:                     40,
			AngularGain:                       0.9,
			PositionDamper:                    Range{Min: 0.3, Max: 1},
			RotationDamper:                    Range{Min: 0.2, Max: 1},
			OneHandedMultiplier:               0.6,
			MinGripDistanceStrengthMultiplier: 0.2,
		},
	}
}

// Validate checks ranges and cross-field constraints.
func (c *Config) Validate() error {
	var errs []error
	positive := func(name string, v float64) {
		if !(v > 0) {
			errs = append(errs, fmt.Errorf("%s must be positive, got %v", name, v))
		}
	}
	unit := func(name string, v float64) {
		if v < 0 || v > 1 {
			errs = append(errs, fmt.Errorf("%s must be within [0, 1], got %v", name, v))
		}
	}

	positive("fixed_delta_time", c.FixedDeltaTime)
	if c.DominantHand != Right && c.DominantHand != Left {
		errs = append(errs, fmt.Errorf("dominant_hand %d is not a hand", c.DominantHand))
	}

	positive("weapon.length", c.Weapon.Length)
	positive("weapon.materialize_rate", c.Weapon.MaterializeRate)
	if c.Weapon.ShaftRadius < 0 {
		errs = append(errs, errors.New("weapon.shaft_radius must not be negative"))
	}
	if c.Weapon.MaxAngularVelocity < 0 {
		errs = append(errs, errors.New("weapon.max_angular_velocity must not be negative"))
	}
	half := c.Weapon.Length / 2
	for name, v := range map[string]float64{
		"weapon.rest_primary":        c.Weapon.RestPrimary,
		"weapon.rest_secondary":      c.Weapon.RestSecondary,
		"weapon.spawn_attachment[z]": c.Weapon.SpawnAttachment.Z(),
	} {
		if v < -half || v > half {
			errs = append(errs, fmt.Errorf("%s %v is off the shaft (±%v)", name, v, half))
		}
	}

	positive("proxy.position_gain", c.Proxy.PositionGain)
	positive("proxy.rotation_gain", c.Proxy.RotationGain)

	positive("grip.grab_radius", c.Grip.GrabRadius)
	if c.Grip.MinSeparation < 0 || c.Grip.MinSeparation > half {
		errs = append(errs, fmt.Errorf("grip.min_separation must be within [0, length/2], got %v", c.Grip.MinSeparation))
	}
	if c.Grip.SlipSpeed < 0 {
		errs = append(errs, errors.New("grip.slip_speed must not be negative"))
	}

	positive("driver.position_speed", c.Driver.PositionSpeed)
	positive("driver.angular_gain", c.Driver.AngularGain)
	for name, r := range map[string]Range{
		"driver.position_damper": c.Driver.PositionDamper,
		"driver.rotation_damper": c.Driver.RotationDamper,
	} {
		unit(name+".min", r.Min)
		unit(name+".max", r.Max)
		if r.Min > r.Max {
			errs = append(errs, fmt.Errorf("%s min %v exceeds max %v", name, r.Min, r.Max))
		}
	}
	unit("driver.one_handed_multiplier", c.Driver.OneHandedMultiplier)
	unit("driver.min_grip_distance_strength_multiplier", c.Driver.MinGripDistanceStrengthMultiplier)

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}
