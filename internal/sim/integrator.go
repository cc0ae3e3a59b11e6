package sim

import "github.com/tomz197/rocks/internal/physics"

// turnPlayer rotates the ship. Left wins when both turn keys are held.
func turnPlayer(st *State, in Input, dt float64) {
	turning := 0.0
	if in.Held(ActionLeft) {
		turning = -1
	} else if in.Held(ActionRight) {
		turning = 1
	}
	st.Player.Angle += turning * st.Params.TurnSpeed * dt
}

// integratePlayer applies thrust, friction and the speed cap, ticks the shot
// cooldown, then moves and wraps the ship.
func integratePlayer(st *State, thrust bool, dt float64) {
	p := st.Player
	params := st.Params

	if thrust {
		p.Vel = p.Vel.Add(physics.FromAngle(p.Angle).Scale(params.Acceleration * dt))
	}

	p.Cooldown -= dt
	if p.Cooldown < 0 {
		p.Cooldown = 0
	}

	p.Vel = applyFriction(p.Vel, params.Friction*dt)
	p.Vel = clampSpeed(p.Vel, params.MaxSpeed)

	p.Pos = p.Pos.Add(p.Vel.Scale(dt))
	params.Screen.WrapHard(&p.Pos)
}

// applyFriction removes amount from the speed along the velocity's own
// direction. The direction is kept; a ship slower than amount stops instead
// of reversing.
func applyFriction(v physics.Vec2, amount float64) physics.Vec2 {
	speed := v.Len()
	if speed == 0 {
		return v
	}
	if amount >= speed {
		return physics.Vec2{}
	}
	return v.Sub(v.Normalize().Scale(amount))
}

// clampSpeed rescales v to limit when it is faster, preserving direction.
func clampSpeed(v physics.Vec2, limit float64) physics.Vec2 {
	speed := v.Len()
	if speed > limit {
		return v.Normalize().Scale(limit)
	} else if speed < 0 {
		// Unreachable: a magnitude is never negative. Kept so the clamp
		// covers both ends of the range.
		return physics.Vec2{}
	}
	return v
}

// moveBullets ages, moves and wraps every bullet, dropping the expired ones.
// It returns the number of bullets removed.
func moveBullets(st *State, dt float64) int {
	screen := st.Params.Screen
	kept := st.Bullets[:0]
	for _, b := range st.Bullets {
		b.Life -= dt
		b.Pos = b.Pos.Add(b.Vel.Scale(dt))
		screen.WrapHard(&b.Pos)
		if b.Expired() {
			continue
		}
		kept = append(kept, b)
	}
	removed := len(st.Bullets) - len(kept)
	clear(st.Bullets[len(kept):])
	st.Bullets = kept
	return removed
}

// moveAsteroids drifts every asteroid and wraps it once it has fully left
// the screen.
func moveAsteroids(st *State, dt float64) {
	screen := st.Params.Screen
	for i := range st.Asteroids {
		a := &st.Asteroids[i]
		a.Pos = a.Pos.Add(a.Vel.Scale(dt))
		screen.WrapMargin(&a.Pos, st.AsteroidRadius(*a))
	}
}
