package sim

import "github.com/tomz197/rocks/internal/object"

// StepReport summarises what happened during one step.
type StepReport struct {
	Reset      bool          // A game-over session was replaced by a new one
	Fired      bool          // A bullet was spawned
	Expired    int           // Bullets removed for running out of life
	Hits       int           // Asteroids destroyed by bullets
	Children   int           // Split children spawned
	ScoreGain  int           // Points awarded this step
	PlayerHit  bool          // The ship touched an asteroid
	Wave       bool          // A new wave was spawned
	Explosions []object.Vec2 // Positions of destroyed asteroids
}

// Step advances the session by dt seconds.
//
// If the previous step ended the game, the old session is discarded and a
// fresh one is built instead; that step does not move anything. Otherwise
// the order is: turn, ship integration, weapon, bullets, asteroids,
// collisions, wave check.
func Step(st *State, in Input, audio AudioPlayer, dt float64) StepReport {
	if in == nil {
		in = Keys{}
	}
	if audio == nil {
		audio = NopAudio{}
	}
	if dt < 0 {
		dt = 0
	}

	var report StepReport

	if st.GameOver {
		if st.thrusting {
			audio.StopLoop(SoundThrust)
		}
		st.reset()
		report.Reset = true
		return report
	}

	thrust := in.Held(ActionThrust)
	updateThrustSound(st, thrust, audio)

	// Decided before the cooldown ticks down this frame.
	shooting := in.Held(ActionFire) && st.Player.Cooldown <= 0

	turnPlayer(st, in, dt)
	integratePlayer(st, thrust, dt)

	if shooting {
		fire(st, audio)
		report.Fired = true
	}

	report.Expired = moveBullets(st, dt)
	moveAsteroids(st, dt)

	resolveCollisions(st, audio, &report)

	if len(st.Asteroids) == 0 {
		st.Asteroids = st.spawnWave(st.Asteroids, waveSize(st.Score, st.Params.StartingCount))
		st.Level++
		report.Wave = true
	}

	return report
}

// updateThrustSound starts the engine loop on the rising edge of thrust and
// stops it on the falling edge.
func updateThrustSound(st *State, thrust bool, audio AudioPlayer) {
	switch {
	case thrust && !st.thrusting:
		audio.PlayLoop(SoundThrust, st.Params.ThrustVolume)
	case !thrust && st.thrusting:
		audio.StopLoop(SoundThrust)
	}
	st.thrusting = thrust
}
