// Package render turns a session into draw calls on a Renderer. It knows
// nothing about the output device: the terminal canvas, the desktop window
// and the PNG snapshot each supply their own Renderer.
package render

import (
	"fmt"
	"image/color"
	"math"

	"github.com/tomz197/rocks/internal/physics"
	"github.com/tomz197/rocks/internal/sim"
)

// Vec2 is an alias for the physics package's vector type.
type Vec2 = physics.Vec2

// Renderer is a sink for the primitives a frame is built from.
// Coordinates are in the session's logical screen space.
type Renderer interface {
	FillCircle(c Vec2, r float64, col color.Color)
	StrokeCircle(c Vec2, r float64, col color.Color)
	FillTriangle(a, b, c Vec2, col color.Color)
	Line(a, b Vec2, col color.Color)
	// Text draws s with its top-left corner at p.
	Text(p Vec2, s string, col color.Color)
}

// Palette
var (
	Black  = color.RGBA{0, 0, 0, 255}
	White  = color.RGBA{255, 255, 255, 255}
	Green  = color.RGBA{0, 228, 48, 255}
	Yellow = color.RGBA{253, 249, 0, 255}
	Blue   = color.RGBA{0, 121, 241, 255}
	Red    = color.RGBA{230, 41, 55, 255}
	Orange = color.RGBA{255, 161, 0, 255}
)

// Ship overlay geometry
const (
	flameRadius  = 8.0
	facingLength = 50.0
	centerDot    = 2.0
)

// Scene draws one frame of st: bullets, asteroids, the ship with its debug
// lines, and the HUD.
func Scene(r Renderer, st *sim.State) {
	for _, b := range st.Bullets {
		r.FillCircle(b.Pos, st.Params.BulletRadius, Green)
	}
	for _, a := range st.Asteroids {
		r.StrokeCircle(a.Pos, st.AsteroidRadius(a), White)
	}

	if !st.GameOver {
		Ship(r, st.Player.Pos, st.Player.Vel, st.Player.Angle, st.Params.PlayerRadius, st.Thrusting())
	}

	HUD(r, st)
}

// Ship draws the ship triangle at pos, the thrust flame behind it when
// thrusting, a velocity line, a facing line and a centre dot.
func Ship(r Renderer, pos, vel Vec2, angle, size float64, thrusting bool) {
	if thrusting {
		r.FillCircle(pos.Sub(physics.FromAngle(angle).Scale(size)), flameRadius, Yellow)
	}

	nose := pos.Add(physics.FromAngle(angle).Scale(size))
	left := pos.Add(physics.FromAngle(angle + math.Pi/4 + math.Pi).Scale(size))
	right := pos.Add(physics.FromAngle(angle - math.Pi/4 + math.Pi).Scale(size))
	r.FillTriangle(nose, left, right, White)

	r.Line(pos, pos.Add(vel), Blue)
	r.Line(pos, pos.Add(physics.FromAngle(angle).Scale(facingLength)), Red)
	r.FillCircle(pos, centerDot, Red)
}

// HUD draws score and level in the top-left corner, and a banner while the
// session waits for its reset.
func HUD(r Renderer, st *sim.State) {
	r.Text(Vec2{X: 10, Y: 10}, fmt.Sprintf("SCORE %d", st.Score), White)
	r.Text(Vec2{X: 10, Y: 30}, fmt.Sprintf("LEVEL %d", st.Level), White)

	if st.GameOver {
		c := st.Params.Screen.Center()
		r.Text(Vec2{X: c.X - 40, Y: c.Y}, "GAME OVER", Red)
	}
}
