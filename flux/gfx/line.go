package gfx

import (
	"github.com/chewxy/math32"
)

// DrawLine draws a segment in the foreground colour. Widths below one pixel
// are rendered as a one pixel line with proportional alpha; wider lines are
// stamped across the minor axis.
func (r *Raster) DrawLine(p0, p1 Point, width float32) {
	if r.d.fb == nil || !finitePoint(p0) || !finitePoint(p1) || !(width > 0) {
		return
	}
	c := r.cfg.Foreground
	thick := 1
	if width < 1 {
		c.A = unit8(width)
	} else {
		thick = int(math32.Round(width))
	}

	x0, y0 := int(math32.Round(p0.X)), int(math32.Round(p0.Y))
	x1, y1 := int(math32.Round(p1.X)), int(math32.Round(p1.Y))
	steep := abs(y1-y0) > abs(x1-x0)
	lo := -(thick - 1) / 2

	plot := func(x, y int) {
		for k := lo; k < lo+thick; k++ {
			if steep {
				r.d.blend(x+k, y, c)
			} else {
				r.d.blend(x, y+k, c)
			}
		}
	}

	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func finitePoint(p Point) bool {
	return finite(p.X) && finite(p.Y)
}

func finite(x float32) bool {
	return !math32.IsNaN(x) && !math32.IsInf(x, 0)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
