package sim

import (
	"github.com/tomz197/rocks/internal/object"
	"github.com/tomz197/rocks/internal/physics"
)

// hitKind records what destroyed an asteroid during a collision pass.
type hitKind uint8

const (
	hitNone hitKind = iota
	hitBullet
	hitPlayer
)

// resolveCollisions tests every asteroid against the remaining bullets and
// the ship, then removes what was destroyed and appends split children.
//
// Marking and removal are separate passes, so an asteroid spawned by a split
// cannot be hit in the frame it appears. A bullet is spent on the first
// asteroid it touches. When a bullet and the ship hit the same asteroid the
// bullet hit wins: the asteroid scores and splits.
func resolveCollisions(st *State, audio AudioPlayer, report *StepReport) {
	if len(st.Asteroids) == 0 {
		return
	}

	st.bulletHit = resize(st.bulletHit, len(st.Bullets))
	st.asteroidHit = resize(st.asteroidHit, len(st.Asteroids))

	st.bulletGrid.Clear()
	for i, b := range st.Bullets {
		st.bulletGrid.Insert(b.Pos, i)
	}

	bulletRadius := st.Params.BulletRadius
	player := st.Player

	for ai, a := range st.Asteroids {
		radius := st.AsteroidRadius(a)

		st.bulletGrid.QueryAround(a.Pos, func(bi int) bool {
			if st.bulletHit[bi] {
				return false
			}
			if physics.CirclesOverlap(st.Bullets[bi].Pos, bulletRadius, a.Pos, radius) {
				st.bulletHit[bi] = true
				st.asteroidHit[ai] = hitBullet
			}
			return false
		})

		if physics.CirclesOverlap(player.Pos, st.Params.PlayerRadius, a.Pos, radius) {
			if st.asteroidHit[ai] == hitNone {
				st.asteroidHit[ai] = hitPlayer
			}
			if !st.GameOver {
				st.GameOver = true
				report.PlayerHit = true
				audio.Play(SoundDeath)
			}
		}
	}

	st.Bullets = compactBullets(st.Bullets, st.bulletHit)
	st.Asteroids = st.applyAsteroidHits(audio, report)
}

// applyAsteroidHits drops the marked asteroids, scores and splits the ones
// destroyed by bullets, and returns the surviving set with children appended.
func (s *State) applyAsteroidHits(audio AudioPlayer, report *StepReport) []object.Asteroid {
	tiers := s.Params.Tiers
	s.pending = s.pending[:0]

	kept := s.Asteroids[:0]
	for i, a := range s.Asteroids {
		switch s.asteroidHit[i] {
		case hitNone:
			kept = append(kept, a)
			continue
		case hitPlayer:
			continue
		}

		report.Hits++
		report.Explosions = append(report.Explosions, a.Pos)
		gain := tiers[a.Tier].Score
		s.Score += gain
		report.ScoreGain += gain
		audio.Play(SoundExplosion)

		if next, ok := tiers.Next(a.Tier); ok {
			for i := 0; i < s.Params.SplitCount; i++ {
				s.pending = append(s.pending, object.NewAsteroid(tiers, next, a.Pos, s.rng))
			}
		}
	}
	clear(s.Asteroids[len(kept):])

	report.Children += len(s.pending)
	return append(kept, s.pending...)
}

func compactBullets(bullets []object.Bullet, hit []bool) []object.Bullet {
	kept := bullets[:0]
	for i, b := range bullets {
		if !hit[i] {
			kept = append(kept, b)
		}
	}
	clear(bullets[len(kept):])
	return kept
}

// resize returns buf with length n and every element zeroed.
func resize[T any](buf []T, n int) []T {
	if cap(buf) < n {
		return make([]T, n)
	}
	buf = buf[:n]
	clear(buf)
	return buf
}
