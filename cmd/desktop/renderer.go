package main

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/tomz197/rocks/internal/render"
)

var whiteSubImage = func() *ebiten.Image {
	img := ebiten.NewImage(3, 3)
	img.Fill(color.White)
	return img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
}()

// screenRenderer draws onto an ebiten frame.
type screenRenderer struct {
	dst *ebiten.Image
}

var _ render.Renderer = screenRenderer{}

func (s screenRenderer) FillCircle(c render.Vec2, r float64, col color.Color) {
	vector.DrawFilledCircle(s.dst, float32(c.X), float32(c.Y), float32(r), col, true)
}

func (s screenRenderer) StrokeCircle(c render.Vec2, r float64, col color.Color) {
	vector.StrokeCircle(s.dst, float32(c.X), float32(c.Y), float32(r), 1.5, col, true)
}

func (s screenRenderer) FillTriangle(a, b, c render.Vec2, col color.Color) {
	r, g, bl, al := col.RGBA()
	cr, cg, cb, ca := float32(r)/0xffff, float32(g)/0xffff, float32(bl)/0xffff, float32(al)/0xffff

	vs := make([]ebiten.Vertex, 0, 3)
	for _, p := range [3]render.Vec2{a, b, c} {
		vs = append(vs, ebiten.Vertex{
			DstX: float32(p.X), DstY: float32(p.Y),
			SrcX: 1, SrcY: 1,
			ColorR: cr, ColorG: cg, ColorB: cb, ColorA: ca,
		})
	}
	s.dst.DrawTriangles(vs, []uint16{0, 1, 2}, whiteSubImage, &ebiten.DrawTrianglesOptions{AntiAlias: true})
}

func (s screenRenderer) Line(a, b render.Vec2, col color.Color) {
	vector.StrokeLine(s.dst, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), 1, col, true)
}

// Text uses the debug font, which is always white.
func (s screenRenderer) Text(p render.Vec2, str string, _ color.Color) {
	ebitenutil.DebugPrintAt(s.dst, str, int(p.X), int(p.Y))
}
