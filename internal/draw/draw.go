// Package draw renders frames to a terminal. A Canvas rasterises shapes into
// half-block cells with 2x vertical resolution and writes them as ANSI
// sequences; TermRenderer adapts it to render.Renderer.
package draw

import "github.com/tomz197/rocks/internal/physics"

// Point is a position in logical (game) coordinates.
type Point = physics.Vec2

// Block characters for drawing.
const (
	BlockFull      = '█'
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
