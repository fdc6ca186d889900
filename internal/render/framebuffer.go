package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"sync"

	"github.com/danmuck/rasterctl/internal/protocol"
)

var ErrInvalidSize = errors.New("render: invalid framebuffer size")

// MaxDimension bounds framebuffer width and height.
const MaxDimension = 4096

// Framebuffer is an in-memory RGB565 surface. Drawing outside the surface
// is clipped silently.
type Framebuffer struct {
	mu     sync.RWMutex
	width  int
	height int
	pix    []protocol.Color
}

func NewFramebuffer(width, height int, background protocol.Color) (*Framebuffer, error) {
	if width <= 0 || height <= 0 || width > MaxDimension || height > MaxDimension {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	fb := &Framebuffer{
		width:  width,
		height: height,
		pix:    make([]protocol.Color, width*height),
	}
	fb.fill(background)
	return fb, nil
}

func (f *Framebuffer) Bounds() (width, height int) {
	return f.width, f.height
}

// At returns the pixel at (x, y); ok is false outside the surface.
func (f *Framebuffer) At(x, y int) (protocol.Color, bool) {
	if x < 0 || y < 0 || x >= f.width || y >= f.height {
		return 0, false
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.pix[y*f.width+x], true
}

func (f *Framebuffer) Render(cmd protocol.Command) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch c := cmd.(type) {
	case protocol.ClearDisplay:
		f.fill(c.Color)
	case protocol.DrawPixel:
		f.set(int(c.X), int(c.Y), c.Color)
	case protocol.DrawLine:
		f.line(int(c.X0), int(c.Y0), int(c.X1), int(c.Y1), c.Color)
	case protocol.DrawRectangle:
		f.strokeRect(int(c.X), int(c.Y), int(c.Width), int(c.Height), c.Color)
	case protocol.FillRectangle:
		f.fillRect(int(c.X), int(c.Y), int(c.Width), int(c.Height), c.Color)
	case protocol.DrawEllipse:
		f.ellipse(int(c.X), int(c.Y), int(c.RX), int(c.RY), c.Color, false)
	case protocol.FillEllipse:
		f.ellipse(int(c.X), int(c.Y), int(c.RX), int(c.RY), c.Color, true)
	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedCommand, cmd)
	}
	return nil
}

// Image returns an RGBA copy of the current surface.
func (f *Framebuffer) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.width, f.height))
	f.mu.RLock()
	defer f.mu.RUnlock()
	for y := 0; y < f.height; y++ {
		for x := 0; x < f.width; x++ {
			r, g, b := f.pix[y*f.width+x].RGB()
			img.SetRGBA(x, y, color.RGBA{R: r, G: g, B: b, A: 0xFF})
		}
	}
	return img
}

func (f *Framebuffer) WritePNG(w io.Writer) error {
	return png.Encode(w, f.Image())
}

// Drawing primitives below expect f.mu to be held for writing.

func (f *Framebuffer) fill(c protocol.Color) {
	for i := range f.pix {
		f.pix[i] = c
	}
}

func (f *Framebuffer) set(x, y int, c protocol.Color) {
	if x < 0 || y < 0 || x >= f.width || y >= f.height {
		return
	}
	f.pix[y*f.width+x] = c
}

func (f *Framebuffer) hline(x0, x1, y int, c protocol.Color) {
	if y < 0 || y >= f.height {
		return
	}
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	x0 = max(x0, 0)
	x1 = min(x1, f.width-1)
	row := f.pix[y*f.width:]
	for x := x0; x <= x1; x++ {
		row[x] = c
	}
}

func (f *Framebuffer) vline(x, y0, y1 int, c protocol.Color) {
	if x < 0 || x >= f.width {
		return
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	y0 = max(y0, 0)
	y1 = min(y1, f.height-1)
	for y := y0; y <= y1; y++ {
		f.pix[y*f.width+x] = c
	}
}

// line is Bresenham's algorithm with both endpoints inclusive.
func (f *Framebuffer) line(x0, y0, x1, y1 int, c protocol.Color) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		f.set(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

// span converts an origin and signed extent into an inclusive range. A
// negative extent grows toward lower coordinates; zero is empty.
func span(origin, extent int) (lo, hi int, ok bool) {
	switch {
	case extent > 0:
		return origin, origin + extent - 1, true
	case extent < 0:
		return origin + extent + 1, origin, true
	default:
		return 0, 0, false
	}
}

func (f *Framebuffer) strokeRect(x, y, w, h int, c protocol.Color) {
	x0, x1, okx := span(x, w)
	y0, y1, oky := span(y, h)
	if !okx || !oky {
		return
	}
	f.hline(x0, x1, y0, c)
	f.hline(x0, x1, y1, c)
	f.vline(x0, y0, y1, c)
	f.vline(x1, y0, y1, c)
}

func (f *Framebuffer) fillRect(x, y, w, h int, c protocol.Color) {
	x0, x1, okx := span(x, w)
	y0, y1, oky := span(y, h)
	if !okx || !oky {
		return
	}
	y0 = max(y0, 0)
	y1 = min(y1, f.height-1)
	for row := y0; row <= y1; row++ {
		f.hline(x0, x1, row, c)
	}
}

// ellipse walks one quadrant with the midpoint algorithm and mirrors it.
// Decision variables are scaled by 4 to stay in integers.
func (f *Framebuffer) ellipse(cx, cy, rx, ry int, c protocol.Color, filled bool) {
	rx, ry = abs(rx), abs(ry)
	if ry == 0 {
		f.hline(cx-rx, cx+rx, cy, c)
		return
	}

	plot := func(x, y int) {
		if filled {
			f.hline(cx-x, cx+x, cy+y, c)
			f.hline(cx-x, cx+x, cy-y, c)
			return
		}
		f.set(cx+x, cy+y, c)
		f.set(cx-x, cy+y, c)
		f.set(cx+x, cy-y, c)
		f.set(cx-x, cy-y, c)
	}

	rx2 := int64(rx) * int64(rx)
	ry2 := int64(ry) * int64(ry)
	x, y := int64(0), int64(ry)
	dx := int64(0)
	dy := 2 * rx2 * y

	d1 := 4*ry2 - 4*rx2*int64(ry) + rx2
	for dx < dy {
		plot(int(x), int(y))
		x++
		dx += 2 * ry2
		if d1 < 0 {
			d1 += 4 * (dx + ry2)
		} else {
			y--
			dy -= 2 * rx2
			d1 += 4 * (dx - dy + ry2)
		}
	}

	d2 := ry2*(2*x+1)*(2*x+1) + 4*rx2*(y-1)*(y-1) - 4*rx2*ry2
	for y >= 0 {
		plot(int(x), int(y))
		y--
		dy -= 2 * rx2
		if d2 > 0 {
			d2 += 4 * (rx2 - dy)
		} else {
			x++
			dx += 2 * ry2
			d2 += 4 * (dx - dy + rx2)
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
