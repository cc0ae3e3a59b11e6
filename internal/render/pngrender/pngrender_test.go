package pngrender

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/tomz197/rocks/internal/render"
)

func TestFillCirclePaintsCentre(t *testing.T) {
	c := New(64, 48)
	c.FillCircle(render.Vec2{X: 32, Y: 24}, 6, render.Green)

	img := c.Image()
	r, g, b, _ := img.At(32, 24).RGBA()
	if g>>8 < 200 || r>>8 > 20 || b>>8 > 80 {
		t.Errorf("centre pixel = (%d, %d, %d), want green", r>>8, g>>8, b>>8)
	}
	r, g, b, _ = img.At(2, 2).RGBA()
	if r != 0 || g != 0 || b != 0 {
		t.Errorf("corner pixel = (%d, %d, %d), want black", r, g, b)
	}
}

func TestEncodePNG(t *testing.T) {
	c := New(32, 16)
	c.StrokeCircle(render.Vec2{X: 16, Y: 8}, 5, render.White)
	c.Line(render.Vec2{}, render.Vec2{X: 31, Y: 15}, render.Red)
	c.Text(render.Vec2{X: 1, Y: 1}, "1", render.White)

	var buf bytes.Buffer
	if err := c.EncodePNG(&buf); err != nil {
		t.Fatalf("EncodePNG: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 32 || b.Dy() != 16 {
		t.Errorf("bounds = %v, want 32x16", b)
	}
}
