package gfx

import (
	"image/color"
	"strings"

	"github.com/chewxy/math32"
	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

var defaultFont tinyfont.Fonter = &proggy.TinySZ8pt7b

// DrawText draws s anchored at p. Multi-line strings are laid out as a left
// aligned block and the block as a whole is anchored.
func (r *Raster) DrawText(p Point, h HAnchor, v VAnchor, s string) {
	r.DrawTextRotated(p, h, v, Rot0, s)
}

func (r *Raster) DrawTextRotated(p Point, h HAnchor, v VAnchor, rot Rotation, s string) {
	if r.d.fb == nil || s == "" || !finitePoint(p) {
		return
	}
	lines := strings.Split(s, "\n")
	bw, bh := r.TextSize(s)

	var ax, ay int16
	switch h {
	case Center:
		ax = -bw / 2
	case Right:
		ax = -bw
	}
	switch v {
	case Middle:
		ay = -bh / 2
	case Bottom:
		ay = -bh
	}

	surf := &textSurface{
		dst:   &r.d,
		ox:    int16(math32.Round(p.X)),
		oy:    int16(math32.Round(p.Y)),
		ax:    ax,
		ay:    ay,
		rot:   rot,
		scale: int16(r.cfg.FontScale),
	}
	lh := int16(r.font.GetYAdvance())
	ascent := fontAscent(r.font)
	for i, line := range lines {
		tinyfont.WriteLine(surf, r.font, 0, int16(i)*lh+ascent, line, r.cfg.Foreground)
	}
}

// TextSize is the unrotated size in pixels of the block s is laid out in.
func (r *Raster) TextSize(s string) (w, h int16) {
	lines := strings.Split(s, "\n")
	for _, line := range lines {
		_, lw := tinyfont.LineWidth(r.font, line)
		w = max(w, int16(lw))
	}
	h = int16(len(lines)) * int16(r.font.GetYAdvance())
	scale := int16(r.cfg.FontScale)
	return w * scale, h * scale
}

func fontAscent(f tinyfont.Fonter) int16 {
	if off := f.GetGlyph('M').Info().YOffset; off < 0 {
		return int16(-off)
	}
	return int16(f.GetYAdvance())
}

// textSurface maps glyph pixels from the unscaled text block frame onto the
// framebuffer: magnified, shifted by the anchor, then rotated around the
// origin point.
type textSurface struct {
	dst    *fbDisplay
	ox, oy int16
	ax, ay int16
	rot    Rotation
	scale  int16
}

var _ drivers.Displayer = (*textSurface)(nil)

func (s *textSurface) Size() (x, y int16) {
	// glyph clipping happens on the framebuffer
	return 0x7FFF, 0x7FFF
}

func (s *textSurface) Display() error { return nil }

func (s *textSurface) SetPixel(x, y int16, c color.RGBA) {
	for sy := int16(0); sy < s.scale; sy++ {
		for sx := int16(0); sx < s.scale; sx++ {
			rx := x*s.scale + sx + s.ax
			ry := y*s.scale + sy + s.ay
			switch s.rot {
			case Rot90:
				rx, ry = -ry, rx
			case Rot270:
				rx, ry = ry, -rx
			}
			s.dst.blend(int(s.ox+rx), int(s.oy+ry), c)
		}
	}
}
