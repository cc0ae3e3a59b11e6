package object

import (
	"errors"
	"fmt"
)

// VelocityMode selects how a freshly spawned asteroid gets its velocity.
type VelocityMode int

const (
	// FixedSpeed picks a uniform random direction at the tier's speed.
	FixedSpeed VelocityMode = iota
	// RandomComponents picks each axis uniformly from [-speed, speed].
	RandomComponents
)

// String returns the mode name.
func (m VelocityMode) String() string {
	switch m {
	case FixedSpeed:
		return "fixed-speed"
	case RandomComponents:
		return "random-components"
	default:
		return fmt.Sprintf("VelocityMode(%d)", int(m))
	}
}

// Tier is static configuration shared by every asteroid of that size class.
type Tier struct {
	Radius   float64      // Collision and draw radius
	Speed    float64      // Speed scalar fed to the velocity mode
	Score    int          // Points awarded when a bullet destroys it
	Velocity VelocityMode // How spawn velocity is chosen
}

// TierTable is the ordered tier list. Index 0 is the largest tier used for
// new waves; each bullet hit moves a split child one index further. The last
// tier does not split.
type TierTable []Tier

// ErrEmptyTierTable is returned when a table has no tiers.
var ErrEmptyTierTable = errors.New("tier table is empty")

// NewTierTable validates the tiers and returns them as a table.
func NewTierTable(tiers ...Tier) (TierTable, error) {
	if len(tiers) == 0 {
		return nil, ErrEmptyTierTable
	}
	for i, t := range tiers {
		if t.Radius <= 0 {
			return nil, fmt.Errorf("tier %d: radius must be positive, got %g", i, t.Radius)
		}
		if t.Speed < 0 {
			return nil, fmt.Errorf("tier %d: speed must not be negative, got %g", i, t.Speed)
		}
		if t.Score < 0 {
			return nil, fmt.Errorf("tier %d: score must not be negative, got %d", i, t.Score)
		}
	}
	return TierTable(tiers), nil
}

// Valid reports whether i indexes a tier in the table.
func (t TierTable) Valid(i int) bool {
	return i >= 0 && i < len(t)
}

// Next returns the tier a split child of tier i belongs to.
// ok is false for the final tier.
func (t TierTable) Next(i int) (next int, ok bool) {
	if !t.Valid(i) || i+1 >= len(t) {
		return 0, false
	}
	return i + 1, true
}

// MaxRadius returns the largest radius in the table.
func (t TierTable) MaxRadius() float64 {
	max := 0.0
	for _, tier := range t {
		if tier.Radius > max {
			max = tier.Radius
		}
	}
	return max
}

// ClassicTiers returns the three-tier table: large rocks are slow and cheap,
// small rocks fast and valuable.
func ClassicTiers() TierTable {
	return TierTable{
		{Radius: 50, Speed: 50, Score: 20, Velocity: FixedSpeed},
		{Radius: 25, Speed: 100, Score: 50, Velocity: FixedSpeed},
		{Radius: 12.5, Speed: 150, Score: 100, Velocity: FixedSpeed},
	}
}

// HalvingTiers returns the size-halving table: each split halves the radius,
// children get independently randomised velocity components, and only the
// smallest rock is worth a point.
func HalvingTiers() TierTable {
	return TierTable{
		{Radius: 40, Speed: 100, Score: 0, Velocity: RandomComponents},
		{Radius: 20, Speed: 100, Score: 0, Velocity: RandomComponents},
		{Radius: 10, Speed: 100, Score: 1, Velocity: RandomComponents},
	}
}

// TiersByName returns a preset table by name ("classic" or "halving").
func TiersByName(name string) (TierTable, error) {
	switch name {
	case "", "classic":
		return ClassicTiers(), nil
	case "halving":
		return HalvingTiers(), nil
	default:
		return nil, fmt.Errorf("unknown asteroid variant %q", name)
	}
}
