package object

import (
	"fmt"
	"math"
	"math/rand"
)

// Asteroid is a drifting rock. Its size, speed and score come from its tier.
type Asteroid struct {
	Pos  Vec2
	Vel  Vec2
	Tier int // Index into the session's tier table
}

// NewAsteroid creates an asteroid of the given tier at pos with a velocity
// drawn from rng according to the tier's velocity mode.
//
// An out-of-range tier is a programming error and panics.
func NewAsteroid(tiers TierTable, tier int, pos Vec2, rng *rand.Rand) Asteroid {
	if !tiers.Valid(tier) {
		panic(fmt.Sprintf("object: asteroid tier %d out of range [0, %d)", tier, len(tiers)))
	}
	return Asteroid{
		Pos:  pos,
		Vel:  RandomVelocity(tiers[tier], rng),
		Tier: tier,
	}
}

// RandomVelocity draws a spawn velocity for tier t.
func RandomVelocity(t Tier, rng *rand.Rand) Vec2 {
	switch t.Velocity {
	case RandomComponents:
		return Vec2{
			X: (rng.Float64()*2 - 1) * t.Speed,
			Y: (rng.Float64()*2 - 1) * t.Speed,
		}
	default:
		angle := rng.Float64() * 2 * math.Pi
		return Vec2{X: math.Cos(angle) * t.Speed, Y: math.Sin(angle) * t.Speed}
	}
}

// Radius returns the asteroid's collision radius.
func (a Asteroid) Radius(tiers TierTable) float64 {
	return tiers[a.Tier].Radius
}
