package object

// Player is the ship controlled by the user. Exactly one exists per session.
type Player struct {
	Pos      Vec2    // Centre of the ship
	Angle    float64 // Facing in radians (0 = pointing right, clockwise on screen)
	Vel      Vec2    // Momentum
	Cooldown float64 // Seconds until the next shot is allowed, never negative
}

// NewPlayer creates a stationary ship at pos facing right.
func NewPlayer(pos Vec2) *Player {
	return &Player{Pos: pos}
}
