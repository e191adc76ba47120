package gfx

import (
	"image/color"

	"fluxcore/hal"

	"tinygo.org/x/drivers"
)

var _ drivers.Displayer = (*fbDisplay)(nil)

// fbDisplay draws into an RGBA framebuffer. Colours with A < 0xFF are
// composited over the existing pixel.
type fbDisplay struct {
	fb hal.Framebuffer
}

func (d *fbDisplay) Size() (x, y int16) {
	if d.fb == nil {
		return 0, 0
	}
	return int16(d.fb.Width()), int16(d.fb.Height())
}

func (d *fbDisplay) SetPixel(x, y int16, c color.RGBA) {
	d.blend(int(x), int(y), c)
}

func (d *fbDisplay) Display() error {
	if d.fb == nil {
		return nil
	}
	return d.fb.Present()
}

func (d *fbDisplay) FillRectangle(x, y, width, height int16, c color.RGBA) error {
	if d.fb == nil {
		return nil
	}
	w := d.fb.Width()
	h := d.fb.Height()

	x0 := clampInt(int(x), 0, w)
	y0 := clampInt(int(y), 0, h)
	x1 := clampInt(int(x)+int(width), 0, w)
	y1 := clampInt(int(y)+int(height), 0, h)
	for py := y0; py < y1; py++ {
		for px := x0; px < x1; px++ {
			d.blend(px, py, c)
		}
	}
	return nil
}

func (d *fbDisplay) offset(x, y int) int {
	if d.fb == nil || d.fb.Format() != hal.PixelFormatRGBA8888 {
		return -1
	}
	if x < 0 || x >= d.fb.Width() || y < 0 || y >= d.fb.Height() {
		return -1
	}
	off := y*d.fb.StrideBytes() + x*4
	if off+3 >= len(d.fb.Buffer()) {
		return -1
	}
	return off
}

func (d *fbDisplay) blend(x, y int, c color.RGBA) {
	off := d.offset(x, y)
	if off < 0 || c.A == 0 {
		return
	}
	px := d.fb.Buffer()[off : off+4]
	if c.A == 0xFF {
		px[0], px[1], px[2], px[3] = c.R, c.G, c.B, 0xFF
		return
	}
	a := uint16(c.A)
	px[0] = uint8((uint16(c.R)*a + uint16(px[0])*(255-a)) / 255)
	px[1] = uint8((uint16(c.G)*a + uint16(px[1])*(255-a)) / 255)
	px[2] = uint8((uint16(c.B)*a + uint16(px[2])*(255-a)) / 255)
	px[3] = 0xFF
}

func (d *fbDisplay) at(x, y int) color.RGBA {
	off := d.offset(x, y)
	if off < 0 {
		return color.RGBA{}
	}
	px := d.fb.Buffer()[off : off+4]
	return color.RGBA{R: px[0], G: px[1], B: px[2], A: px[3]}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
