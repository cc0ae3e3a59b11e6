// Package sim implements the per-frame simulation step: ship integration,
// shooting, collisions with asteroid splitting, and wave progression.
//
// A State is owned by a single frame loop and mutated in place; it is not
// safe for concurrent use.
package sim

import (
	"math/rand"

	"github.com/tomz197/rocks/internal/object"
	"github.com/tomz197/rocks/internal/physics"
)

// Phase is the session state.
type Phase int

const (
	PhasePlaying  Phase = iota // Ship alive
	PhaseGameOver              // Ship hit; the next step starts a new session
)

// String returns the phase name.
func (p Phase) String() string {
	if p == PhaseGameOver {
		return "game-over"
	}
	return "playing"
}

// State is one game session.
type State struct {
	Params Params

	Player    *object.Player
	Bullets   []object.Bullet
	Asteroids []object.Asteroid
	Score     int
	Level     int
	GameOver  bool

	rng        *rand.Rand
	thrusting  bool
	bulletGrid *physics.SpatialGrid

	// Scratch buffers reused by the collision pass
	bulletHit   []bool
	asteroidHit []hitKind
	pending     []object.Asteroid
}

// NewSession validates p and builds a fresh session: ship at the centre,
// score 0, level 1 and a first wave of p.StartingCount asteroids.
func NewSession(p Params, rng *rand.Rand) (*State, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	st := &State{
		Params:     p,
		rng:        rng,
		bulletGrid: physics.NewSpatialGrid(p.Screen.Width, p.Screen.Height, p.Tiers.MaxRadius()+p.BulletRadius),
	}
	st.reset()
	return st, nil
}

// Phase returns the current session phase.
func (s *State) Phase() Phase {
	if s.GameOver {
		return PhaseGameOver
	}
	return PhasePlaying
}

// Thrusting reports whether the engine was firing during the last step.
func (s *State) Thrusting() bool {
	return s.thrusting
}

// AsteroidRadius returns the collision radius of a.
func (s *State) AsteroidRadius(a object.Asteroid) float64 {
	return a.Radius(s.Params.Tiers)
}

// reset discards the session contents and starts over. The RNG keeps its
// sequence so consecutive sessions differ.
func (s *State) reset() {
	s.Player = object.NewPlayer(s.Params.Screen.Center())
	s.Bullets = s.Bullets[:0]
	s.Asteroids = s.Asteroids[:0]
	s.Score = 0
	s.Level = 1
	s.GameOver = false
	s.thrusting = false
	s.Asteroids = s.spawnWave(s.Asteroids, waveSize(s.Score, s.Params.StartingCount))
}
