// Package pngrender draws frames into an offscreen image with fogleman/gg.
package pngrender

import (
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/fogleman/gg"

	"github.com/tomz197/rocks/internal/render"
)

// Canvas is a render.Renderer backed by a gg.Context.
type Canvas struct {
	dc *gg.Context
}

var _ render.Renderer = (*Canvas)(nil)

// New creates a width x height canvas cleared to black.
func New(width, height int) *Canvas {
	c := &Canvas{dc: gg.NewContext(width, height)}
	c.dc.SetLineWidth(1)
	c.Clear()
	return c
}

// Clear fills the canvas with the background colour.
func (c *Canvas) Clear() {
	c.dc.SetColor(render.Black)
	c.dc.DrawRectangle(0, 0, float64(c.dc.Width()), float64(c.dc.Height()))
	c.dc.Fill()
}

func (c *Canvas) FillCircle(p render.Vec2, r float64, col color.Color) {
	c.dc.SetColor(col)
	c.dc.DrawCircle(p.X, p.Y, r)
	c.dc.Fill()
}

func (c *Canvas) StrokeCircle(p render.Vec2, r float64, col color.Color) {
	c.dc.SetColor(col)
	c.dc.DrawCircle(p.X, p.Y, r)
	c.dc.Stroke()
}

func (c *Canvas) FillTriangle(a, b, p render.Vec2, col color.Color) {
	c.dc.SetColor(col)
	c.dc.MoveTo(a.X, a.Y)
	c.dc.LineTo(b.X, b.Y)
	c.dc.LineTo(p.X, p.Y)
	c.dc.ClosePath()
	c.dc.Fill()
}

func (c *Canvas) Line(a, b render.Vec2, col color.Color) {
	c.dc.SetColor(col)
	c.dc.DrawLine(a.X, a.Y, b.X, b.Y)
	c.dc.Stroke()
}

func (c *Canvas) Text(p render.Vec2, s string, col color.Color) {
	c.dc.SetColor(col)
	c.dc.DrawStringAnchored(s, p.X, p.Y, 0, 1)
}

// Image returns the current frame.
func (c *Canvas) Image() image.Image {
	return c.dc.Image()
}

// SavePNG writes the current frame to path.
func (c *Canvas) SavePNG(path string) error {
	if err := c.dc.SavePNG(path); err != nil {
		return fmt.Errorf("save snapshot %s: %w", path, err)
	}
	return nil
}

// EncodePNG writes the current frame to w.
func (c *Canvas) EncodePNG(w io.Writer) error {
	return c.dc.EncodePNG(w)
}
