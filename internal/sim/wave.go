package sim

import (
	"math"

	"github.com/tomz197/rocks/internal/object"
	"github.com/tomz197/rocks/internal/physics"
)

// waveSize returns the number of asteroids in the next wave:
// floor(log2(score)) + start. A score of zero or less adds nothing.
func waveSize(score, start int) int {
	if score <= 0 {
		return start
	}
	return int(math.Floor(math.Log2(float64(score)))) + start
}

// spawnWave appends n tier-0 asteroids to dst. Positions are sampled
// uniformly over the screen; a candidate is rejected when it comes within
// radius+ClearRadius of the ship or overlaps an asteroid of the same batch.
// After MaxPlacementAttempts rejections the candidate farthest from the ship
// is taken so a crowded screen cannot stall the frame.
func (s *State) spawnWave(dst []object.Asteroid, n int) []object.Asteroid {
	tiers := s.Params.Tiers
	radius := tiers[0].Radius
	keepOut := radius + s.Params.ClearRadius
	screen := s.Params.Screen
	ship := s.Player.Pos

	batch := len(dst)
	for i := 0; i < n; i++ {
		var best object.Vec2
		bestClearance := math.Inf(-1)

		for attempt := 0; attempt < s.Params.MaxPlacementAttempts; attempt++ {
			pos := object.Vec2{
				X: s.rng.Float64() * screen.Width,
				Y: s.rng.Float64() * screen.Height,
			}

			clearance := physics.Dist(pos, ship)
			if clearance > bestClearance {
				best, bestClearance = pos, clearance
			}
			if clearance < keepOut {
				continue
			}
			if overlapsBatch(dst[batch:], pos, radius, tiers) {
				continue
			}
			best = pos
			break
		}

		dst = append(dst, object.NewAsteroid(tiers, 0, best, s.rng))
	}
	return dst
}

func overlapsBatch(batch []object.Asteroid, pos object.Vec2, radius float64, tiers object.TierTable) bool {
	for _, a := range batch {
		if physics.CirclesOverlap(pos, radius, a.Pos, a.Radius(tiers)) {
			return true
		}
	}
	return false
}
