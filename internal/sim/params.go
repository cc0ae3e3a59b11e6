package sim

import (
	"errors"
	"fmt"

	"github.com/tomz197/rocks/internal/config"
	"github.com/tomz197/rocks/internal/object"
)

// Params holds every tunable of the simulation. Distances are in screen
// units, times in seconds.
type Params struct {
	Screen object.Screen
	Tiers  object.TierTable

	// Ship
	PlayerRadius float64
	MaxSpeed     float64
	Acceleration float64
	Friction     float64 // Deceleration along the velocity direction, units/s²
	TurnSpeed    float64 // Radians per second
	Reload       float64 // Shot cooldown after firing

	// Bullets
	BulletSpeed  float64
	BulletLife   float64
	BulletRadius float64

	// Waves
	StartingCount        int     // Asteroids in the first wave, added to every later wave
	ClearRadius          float64 // Spawn keep-out distance around the ship
	SplitCount           int     // Children per bullet-destroyed asteroid
	MaxPlacementAttempts int     // Samples per asteroid before accepting the best seen

	// Audio
	ThrustVolume float64 // Volume of the looped thrust sound, 0..1
}

// DefaultParams returns the standard 1024x768 tuning.
func DefaultParams() Params {
	return Params{
		Screen: object.Screen{Width: 1024, Height: 768},
		Tiers:  object.ClassicTiers(),

		PlayerRadius: 10,
		MaxSpeed:     1000,
		Acceleration: 500,
		Friction:     0.1,
		TurnSpeed:    5,
		Reload:       0.5,

		BulletSpeed:  1000,
		BulletLife:   1,
		BulletRadius: 5,

		StartingCount:        10,
		ClearRadius:          100,
		SplitCount:           2,
		MaxPlacementAttempts: 10000,

		ThrustVolume: 0.5,
	}
}

// ParamsFromEnv returns DefaultParams with environment overrides applied.
func ParamsFromEnv() (Params, error) {
	p := DefaultParams()

	tiers, err := object.TiersByName(config.GetEnv("ROCKS_VARIANT", "classic"))
	if err != nil {
		return Params{}, err
	}
	p.Tiers = tiers
	p.StartingCount = config.GetEnvInt("ROCKS_START_ASTEROIDS", p.StartingCount)
	p.ClearRadius = config.GetEnvFloat("ROCKS_CLEAR_RADIUS", p.ClearRadius)
	p.ThrustVolume = config.GetEnvFloat("ROCKS_THRUST_VOLUME", p.ThrustVolume)

	if err := p.Validate(); err != nil {
		return Params{}, err
	}
	return p, nil
}

// Validate checks that the parameters describe a playable session.
func (p Params) Validate() error {
	var errs []error
	if p.Screen.Width <= 0 || p.Screen.Height <= 0 {
		errs = append(errs, fmt.Errorf("screen must be positive, got %gx%g", p.Screen.Width, p.Screen.Height))
	}
	if _, err := object.NewTierTable(p.Tiers...); err != nil {
		errs = append(errs, err)
	}
	if p.PlayerRadius <= 0 || p.BulletRadius <= 0 {
		errs = append(errs, errors.New("player and bullet radius must be positive"))
	}
	if p.MaxSpeed <= 0 {
		errs = append(errs, errors.New("max speed must be positive"))
	}
	if p.Friction < 0 || p.Acceleration < 0 || p.Reload < 0 {
		errs = append(errs, errors.New("friction, acceleration and reload must not be negative"))
	}
	if p.StartingCount < 0 {
		errs = append(errs, fmt.Errorf("starting count must not be negative, got %d", p.StartingCount))
	}
	if p.SplitCount < 0 {
		errs = append(errs, fmt.Errorf("split count must not be negative, got %d", p.SplitCount))
	}
	if p.MaxPlacementAttempts < 1 {
		errs = append(errs, errors.New("max placement attempts must be at least 1"))
	}
	if p.ThrustVolume < 0 || p.ThrustVolume > 1 {
		errs = append(errs, fmt.Errorf("thrust volume must be within [0, 1], got %g", p.ThrustVolume))
	}
	return errors.Join(errs...)
}
