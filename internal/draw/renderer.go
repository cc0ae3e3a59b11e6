package draw

import (
	"image/color"

	"github.com/tomz197/rocks/internal/render"
)

type overlayText struct {
	at  Point
	s   string
	col color.RGBA
}

// TermRenderer implements render.Renderer on a Canvas. Shapes are
// rasterised immediately; text is queued and written over the canvas on
// Flush, since a half-block cell cannot hold a glyph and pixels at once.
type TermRenderer struct {
	Canvas *Canvas
	texts  []overlayText
}

var _ render.Renderer = (*TermRenderer)(nil)

// NewTermRenderer wraps c.
func NewTermRenderer(c *Canvas) *TermRenderer {
	return &TermRenderer{Canvas: c}
}

func (t *TermRenderer) FillCircle(c Point, r float64, col color.Color) {
	t.Canvas.FillCircle(c, r, col)
}

func (t *TermRenderer) StrokeCircle(c Point, r float64, col color.Color) {
	t.Canvas.DrawCircle(c, r, col)
}

func (t *TermRenderer) FillTriangle(a, b, c Point, col color.Color) {
	t.Canvas.FillPolygon([]Point{a, b, c}, col)
}

func (t *TermRenderer) Line(a, b Point, col color.Color) {
	t.Canvas.DrawLine(a, b, col)
}

func (t *TermRenderer) Text(p Point, s string, col color.Color) {
	t.texts = append(t.texts, overlayText{at: p, s: s, col: opaque(col)})
}

// Begin clears the canvas and the queued text for a new frame.
func (t *TermRenderer) Begin() {
	t.Canvas.Clear()
	t.texts = t.texts[:0]
}

// Flush writes the frame into cw: screen clear, border, canvas, then text.
// The caller flushes cw.
func (t *TermRenderer) Flush(cw *ChunkWriter) {
	ClearScreen(cw)
	t.Canvas.RenderBorder(cw)
	t.Canvas.Render(cw)

	cw.SetOffset(t.Canvas.Offset())
	for _, txt := range t.texts {
		col, row := t.Canvas.LogicalToTerminal(txt.at)
		cw.WriteAt(col, row, txt.s, txt.col)
	}
	t.texts = t.texts[:0]
}
