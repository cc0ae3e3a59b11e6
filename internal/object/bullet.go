package object

import "github.com/tomz197/rocks/internal/physics"

// Bullet is a projectile fired by the player.
type Bullet struct {
	Pos  Vec2
	Vel  Vec2
	Life float64 // Seconds remaining before removal
}

// NewBullet creates a bullet at pos travelling along angle at speed.
// The shooter's own velocity is not inherited.
func NewBullet(pos Vec2, angle, speed, life float64) Bullet {
	return Bullet{
		Pos:  pos,
		Vel:  physics.FromAngle(angle).Scale(speed),
		Life: life,
	}
}

// Expired reports whether the bullet has run out of life.
func (b Bullet) Expired() bool {
	return b.Life <= 0
}
