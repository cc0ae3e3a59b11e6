// Package object holds the entity state of a game session: the ship, its
// bullets, the asteroids and the asteroid tier table. Types here carry data
// and constructors only; movement and collision live in the sim package.
package object

import "github.com/tomz197/rocks/internal/physics"

// Vec2 is an alias for the physics package's vector type.
type Vec2 = physics.Vec2

// Screen is the fixed play-field rectangle. It is set once at startup and
// treated as immutable by the simulation.
type Screen struct {
	Width  float64
	Height float64
}

// Center returns the middle of the screen.
func (s Screen) Center() Vec2 {
	return Vec2{X: s.Width / 2, Y: s.Height / 2}
}

// Contains reports whether p lies inside the screen, edges included.
func (s Screen) Contains(p Vec2) bool {
	return p.X >= 0 && p.X <= s.Width && p.Y >= 0 && p.Y <= s.Height
}

// WrapHard teleports a point to the opposite edge once its centre crosses a
// bound. Used for the ship and bullets. Each axis wraps independently and the
// result always lies within [0, bound].
func (s Screen) WrapHard(p *Vec2) {
	if p.X > s.Width {
		p.X = 0
	} else if p.X < 0 {
		p.X = s.Width
	}
	if p.Y > s.Height {
		p.Y = 0
	} else if p.Y < 0 {
		p.Y = s.Height
	}
}

// WrapMargin wraps a circle of radius r only after it has fully left the
// screen, placing it just outside the opposite edge so it slides back in
// instead of popping into view.
func (s Screen) WrapMargin(p *Vec2, r float64) {
	if p.X+r < 0 {
		p.X = s.Width + r
	} else if p.X-r > s.Width {
		p.X = -r
	}
	if p.Y+r < 0 {
		p.Y = s.Height + r
	} else if p.Y-r > s.Height {
		p.Y = -r
	}
}
