package draw

import (
	"image/color"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Canvas is a colour drawing buffer with 2x vertical resolution using
// half-block characters. Logical coordinates are scaled uniformly to fit the
// terminal; the unused margin is centred and can be framed with RenderBorder.
type Canvas struct {
	termWidth  int // Actual terminal columns
	termHeight int // Actual terminal rows

	// Pixel area in use: cols x sub-pixel rows
	width  int
	height int
	pixels []color.RGBA // Flat slice: [y * width + x]; A == 0 is empty

	logicalWidth  float64
	logicalHeight float64
	scale         float64 // Pixels per logical unit, same on both axes

	// 0-based terminal offsets (columns/rows to skip) centring the area
	offsetCol int
	offsetRow int

	// Reusable buffers to reduce allocations
	renderBuf       strings.Builder
	numBuf          [20]byte
	scaledBuf       []Point
	intersectionBuf []float64
}

// NewCanvas creates a canvas mapping a logicalWidth x logicalHeight play
// field onto a termWidth x termHeight terminal.
func NewCanvas(termWidth, termHeight int, logicalWidth, logicalHeight float64) *Canvas {
	c := &Canvas{
		logicalWidth:  logicalWidth,
		logicalHeight: logicalHeight,
	}
	c.Resize(termWidth, termHeight)
	return c
}

// Resize refits the canvas to new terminal dimensions while keeping the
// logical size and aspect ratio.
func (c *Canvas) Resize(termWidth, termHeight int) {
	termWidth = max(termWidth, 1)
	termHeight = max(termHeight, 1)
	if termWidth == c.termWidth && termHeight == c.termHeight && c.pixels != nil {
		return
	}

	c.termWidth = termWidth
	c.termHeight = termHeight
	c.scale = math.Min(float64(termWidth)/c.logicalWidth, float64(termHeight*2)/c.logicalHeight)

	c.width = min(termWidth, max(1, int(math.Ceil(c.logicalWidth*c.scale))))
	rows := min(termHeight, max(1, int(math.Ceil(c.logicalHeight*c.scale/2))))
	c.height = rows * 2
	c.pixels = make([]color.RGBA, c.width*c.height)

	c.offsetCol = (termWidth - c.width) / 2
	c.offsetRow = (termHeight - rows) / 2
}

// Offset returns the 0-based terminal column and row where the canvas starts.
func (c *Canvas) Offset() (col, row int) {
	return c.offsetCol, c.offsetRow
}

// Size returns the pixel dimensions in use (columns, sub-pixel rows).
func (c *Canvas) Size() (width, height int) {
	return c.width, c.height
}

// Clear resets all pixels in the canvas.
func (c *Canvas) Clear() {
	clear(c.pixels)
}

// Pixel returns the colour at pixel (x, y) and whether it is set.
func (c *Canvas) Pixel(x, y int) (color.RGBA, bool) {
	if x < 0 || x >= c.width || y < 0 || y >= c.height {
		return color.RGBA{}, false
	}
	p := c.pixels[y*c.width+x]
	return p, p.A != 0
}

func (c *Canvas) setPixel(x, y int, col color.RGBA) {
	if x >= 0 && x < c.width && y >= 0 && y < c.height {
		c.pixels[y*c.width+x] = col
	}
}

// toPixel converts logical coordinates to pixel coordinates.
func (c *Canvas) toPixel(p Point) (int, int) {
	return int(math.Round(p.X * c.scale)), int(math.Round(p.Y * c.scale))
}

// opaque converts any colour to a fully opaque RGBA. Translucent colours
// come out darker, which is how fading reads on a terminal.
func opaque(col color.Color) color.RGBA {
	rgba := color.RGBAModel.Convert(col).(color.RGBA)
	rgba.A = 255
	return rgba
}

// DrawLine draws a line using Bresenham's algorithm.
func (c *Canvas) DrawLine(p1, p2 Point, col color.Color) {
	c.line(p1, p2, opaque(col))
}

func (c *Canvas) line(p1, p2 Point, col color.RGBA) {
	x1, y1 := c.toPixel(p1)
	x2, y2 := c.toPixel(p2)

	dx := abs(x2 - x1)
	dy := abs(y2 - y1)

	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy

	for {
		c.setPixel(x1, y1, col)

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// DrawCircle draws a circle outline with the midpoint algorithm. Circles
// smaller than a pixel collapse to a single dot.
func (c *Canvas) DrawCircle(center Point, r float64, col color.Color) {
	rgba := opaque(col)
	cx, cy := c.toPixel(center)
	radius := int(math.Round(r * c.scale))
	if radius <= 0 {
		c.setPixel(cx, cy, rgba)
		return
	}

	x, y := radius, 0
	d := 1 - radius
	for x >= y {
		c.setPixel(cx+x, cy+y, rgba)
		c.setPixel(cx+y, cy+x, rgba)
		c.setPixel(cx-y, cy+x, rgba)
		c.setPixel(cx-x, cy+y, rgba)
		c.setPixel(cx-x, cy-y, rgba)
		c.setPixel(cx-y, cy-x, rgba)
		c.setPixel(cx+y, cy-x, rgba)
		c.setPixel(cx+x, cy-y, rgba)

		y++
		if d < 0 {
			d += 2*y + 1
		} else {
			x--
			d += 2*(y-x) + 1
		}
	}
}

// FillCircle fills a disc row by row in pixel space.
func (c *Canvas) FillCircle(center Point, r float64, col color.Color) {
	rgba := opaque(col)
	px := center.X * c.scale
	py := center.Y * c.scale
	pr := r * c.scale
	if pr < 0.5 {
		cx, cy := c.toPixel(center)
		c.setPixel(cx, cy, rgba)
		return
	}

	yStart := int(math.Floor(py - pr))
	yEnd := int(math.Ceil(py + pr))
	for y := yStart; y <= yEnd; y++ {
		dy := float64(y) + 0.5 - py
		if dy*dy > pr*pr {
			continue
		}
		half := math.Sqrt(pr*pr - dy*dy)
		for x := int(math.Ceil(px - half - 0.5)); x <= int(math.Floor(px+half-0.5)); x++ {
			c.setPixel(x, y, rgba)
		}
	}
}

// FillPolygon fills a polygon with a scanline pass in pixel space and then
// draws its outline.
func (c *Canvas) FillPolygon(points []Point, col color.Color) {
	if len(points) < 3 {
		return
	}
	rgba := opaque(col)

	// Reuse or grow scaled points buffer
	if cap(c.scaledBuf) < len(points) {
		c.scaledBuf = make([]Point, len(points))
	}
	scaled := c.scaledBuf[:len(points)]
	for i, p := range points {
		scaled[i] = p.Scale(c.scale)
	}

	minY, maxY := scaled[0].Y, scaled[0].Y
	for _, p := range scaled {
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}

	n := len(scaled)
	for y := int(math.Floor(minY)); y <= int(math.Ceil(maxY)); y++ {
		scanY := float64(y) + 0.5

		intersections := c.intersectionBuf[:0]
		for i := 0; i < n; i++ {
			p1 := scaled[i]
			p2 := scaled[(i+1)%n]
			if (p1.Y <= scanY && p2.Y > scanY) || (p2.Y <= scanY && p1.Y > scanY) {
				t := (scanY - p1.Y) / (p2.Y - p1.Y)
				intersections = append(intersections, p1.X+t*(p2.X-p1.X))
			}
		}
		c.intersectionBuf = intersections

		sort.Float64s(intersections)
		for i := 0; i+1 < len(intersections); i += 2 {
			for x := int(math.Ceil(intersections[i])); x <= int(math.Floor(intersections[i+1])); x++ {
				c.setPixel(x, y, rgba)
			}
		}
	}

	for i := 0; i < n; i++ {
		c.line(points[i], points[(i+1)%n], rgba)
	}
}

// maxChunkSize is the maximum bytes to write at once for optimal network flow.
// 1400 bytes stays under a typical MTU for smooth SSH/network transmission.
const maxChunkSize = 1400

// Render outputs the canvas to the writer using half-block characters in
// 24-bit colour. Empty cells are skipped, so the caller clears the screen.
func (c *Canvas) Render(w io.Writer) {
	c.renderBuf.Reset()
	c.renderBuf.Grow(c.width * c.height * 10)

	var fg, bg color.RGBA
	hasBg := false
	rows := c.height / 2

	for row := 0; row < rows; row++ {
		top := c.pixels[row*2*c.width : (row*2+1)*c.width]
		bottom := c.pixels[(row*2+1)*c.width : (row*2+2)*c.width]
		cursorCol := -1

		for col := 0; col < c.width; col++ {
			t, b := top[col], bottom[col]

			var ch rune
			cellFg, cellBg, needBg := t, color.RGBA{}, false
			switch {
			case t.A != 0 && b.A != 0 && t == b:
				ch = BlockFull
			case t.A != 0 && b.A != 0:
				ch = BlockUpperHalf
				cellBg, needBg = b, true
			case t.A != 0:
				ch = BlockUpperHalf
			case b.A != 0:
				ch = BlockLowerHalf
				cellFg = b
			default:
				continue // Skip empty cells
			}

			if cursorCol != col {
				c.moveCursor(col+1+c.offsetCol, row+1+c.offsetRow)
			}
			if cellFg != fg {
				c.writeColor(38, cellFg)
				fg = cellFg
			}
			switch {
			case needBg && (!hasBg || cellBg != bg):
				c.writeColor(48, cellBg)
				bg, hasBg = cellBg, true
			case !needBg && hasBg:
				c.renderBuf.WriteString("\033[49m")
				hasBg = false
			}
			c.renderBuf.WriteRune(ch)
			cursorCol = col + 1
		}
	}
	c.renderBuf.WriteString("\033[0m")

	// Write output in chunks for optimal network flow
	data := c.renderBuf.String()
	for len(data) > 0 {
		chunk := data
		if len(chunk) > maxChunkSize {
			chunk = data[:maxChunkSize]
		}
		io.WriteString(w, chunk)
		data = data[len(chunk):]
	}
}

func (c *Canvas) moveCursor(col, row int) {
	c.renderBuf.WriteString("\033[")
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(row), 10))
	c.renderBuf.WriteByte(';')
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(col), 10))
	c.renderBuf.WriteByte('H')
}

// writeColor appends an SGR truecolor sequence; code is 38 for foreground
// and 48 for background.
func (c *Canvas) writeColor(code int, col color.RGBA) {
	c.renderBuf.WriteString("\033[")
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(code), 10))
	c.renderBuf.WriteString(";2;")
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(col.R), 10))
	c.renderBuf.WriteByte(';')
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(col.G), 10))
	c.renderBuf.WriteByte(';')
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(col.B), 10))
	c.renderBuf.WriteByte('m')
}

// RenderBorder draws a box around the canvas area when the terminal has room
// for it: horizontal bars when there is a vertical margin, vertical bars when
// there is a horizontal one, and corners when both are present.
func (c *Canvas) RenderBorder(w io.Writer) {
	rows := c.height / 2
	hasH := c.offsetCol >= 1
	hasV := c.offsetRow >= 1

	// Border positions (1-based terminal coordinates)
	left := c.offsetCol
	right := c.offsetCol + c.width + 1
	top := c.offsetRow
	bottom := c.offsetRow + rows + 1

	var buf strings.Builder
	bar := strings.Repeat("─", c.width)

	if hasV {
		if hasH {
			buf.WriteString("\033[" + strconv.Itoa(top) + ";" + strconv.Itoa(left) + "H┌" + bar + "┐")
			buf.WriteString("\033[" + strconv.Itoa(bottom) + ";" + strconv.Itoa(left) + "H└" + bar + "┘")
		} else {
			buf.WriteString("\033[" + strconv.Itoa(top) + ";" + strconv.Itoa(c.offsetCol+1) + "H" + bar)
			buf.WriteString("\033[" + strconv.Itoa(bottom) + ";" + strconv.Itoa(c.offsetCol+1) + "H" + bar)
		}
	}

	if hasH {
		for row := c.offsetRow + 1; row <= c.offsetRow+rows; row++ {
			r := strconv.Itoa(row)
			buf.WriteString("\033[" + r + ";" + strconv.Itoa(left) + "H│\033[" + r + ";" + strconv.Itoa(right) + "H│")
		}
	}

	io.WriteString(w, buf.String())
}

// LogicalToTerminal converts logical coordinates to a 1-based terminal
// position (col, row) relative to the canvas origin.
func (c *Canvas) LogicalToTerminal(p Point) (col, row int) {
	px, py := c.toPixel(p)
	return px + 1, py/2 + 1
}
