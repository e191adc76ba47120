package gfx

import (
	"image/color"

	"fluxcore/flux/proj"
	"fluxcore/hal"

	"github.com/chewxy/math32"
	"tinygo.org/x/tinyfont"
)

// RasterConfig controls the software backend.
type RasterConfig struct {
	// Blend accumulates overlapping points into a density image before
	// compositing it over the background. Without it points are painted in
	// order.
	Blend bool

	// FontScale magnifies glyphs by an integer factor.
	FontScale int

	Background color.RGBA
	Foreground color.RGBA
}

// DefaultRasterConfig matches the viewer's dark palette.
func DefaultRasterConfig() RasterConfig {
	return RasterConfig{
		Blend:      true,
		FontScale:  2,
		Background: color.RGBA{R: 26, G: 26, B: 26, A: 0xFF},
		Foreground: color.RGBA{R: 59, G: 204, B: 158, A: 0xFF},
	}
}

// densityGain converts accumulated point coverage into opacity.
const densityGain = 0.5

type buffer struct {
	data     []float32
	released bool
}

func (b *buffer) Len() int {
	if b == nil || b.released {
		return 0
	}
	return len(b.data)
}

func (b *buffer) Release() {
	b.data = nil
	b.released = true
}

// Raster implements Device in software on a hal.Framebuffer.
//
// It is not safe for concurrent use.
type Raster struct {
	cfg  RasterConfig
	d    fbDisplay
	font tinyfont.Fonter

	attrs [attrCount]*buffer
	u     Uniforms

	// Blend accumulators, one entry per pixel.
	cover []float32
	tint  []float32
}

var _ Device = (*Raster)(nil)

func NewRaster(fb hal.Framebuffer, cfg RasterConfig) *Raster {
	if cfg.FontScale < 1 {
		cfg.FontScale = 1
	}
	return &Raster{
		cfg:  cfg,
		d:    fbDisplay{fb: fb},
		font: defaultFont,
	}
}

// SetBlend switches point compositing at runtime.
func (r *Raster) SetBlend(on bool) { r.cfg.Blend = on }

func (r *Raster) Upload(data []float32) Buffer {
	b := &buffer{data: make([]float32, len(data))}
	copy(b.data, data)
	return b
}

func (r *Raster) BindAttribute(a Attribute, b Buffer) {
	if a >= attrCount {
		return
	}
	buf, _ := b.(*buffer)
	if buf != nil && buf.released {
		buf = nil
	}
	r.attrs[a] = buf
}

func (r *Raster) SetUniforms(u Uniforms) { r.u = u }

func (r *Raster) Clear() {
	if r.d.fb == nil {
		return
	}
	bg := r.cfg.Background
	r.d.fb.ClearRGB(bg.R, bg.G, bg.B)
}

func (r *Raster) Present() error { return r.d.Display() }

// DrawPoints draws the first count points of the bound attributes. Points
// missing an x or y value, or landing outside the margin box, are skipped.
// The z attribute is optional.
func (r *Raster) DrawPoints(count int) {
	x, y, z := r.attrs[AttrX], r.attrs[AttrY], r.attrs[AttrZ]
	if x == nil || y == nil || r.d.fb == nil {
		return
	}
	count = min(count, x.Len(), y.Len())
	if count <= 0 {
		return
	}

	w, h := float32(r.d.fb.Width()), float32(r.d.fb.Height())
	m := r.u.Margin
	radius := math32.Max(r.u.PointSize, 1) / 2
	opacity := math32.Max(0, math32.Min(1, r.u.Opacity))
	if opacity == 0 {
		return
	}

	if r.cfg.Blend {
		r.resetAccumulators()
	}
	for i := 0; i < count; i++ {
		v := proj.Vec4{X: x.data[i], Y: y.data[i], W: 1}
		if z != nil && i < len(z.data) {
			v.Z = z.data[i]
		}
		if !finite(v.X) || !finite(v.Y) || !finite(v.Z) {
			continue
		}
		p := proj.MulVec(r.u.Transform, v)
		if p.W != 0 && p.W != 1 {
			p.X, p.Y, p.Z = p.X/p.W, p.Y/p.W, p.Z/p.W
		}
		px := (p.X + 1) / 2 * w
		py := (1 - p.Y) / 2 * h
		if !(px >= m && px <= w-m && py >= m && py <= h-m) {
			continue
		}

		t := float32(0.5)
		if z != nil && r.u.DepthFar != r.u.DepthNear {
			t = (p.Z - r.u.DepthNear) / (r.u.DepthFar - r.u.DepthNear)
		}
		c := Gradient(t)
		if r.cfg.Blend {
			r.accumulate(px, py, radius, c)
		} else {
			r.paint(px, py, radius, c, opacity)
		}
	}
	if r.cfg.Blend {
		r.resolve(opacity)
	}
}

func (r *Raster) resetAccumulators() {
	n := r.d.fb.Width() * r.d.fb.Height()
	if cap(r.cover) < n {
		r.cover = make([]float32, n)
		r.tint = make([]float32, 3*n)
		return
	}
	r.cover = r.cover[:n]
	r.tint = r.tint[:3*n]
	clear(r.cover)
	clear(r.tint)
}

// splat visits the pixels covered by a disc and reports their coverage.
func (r *Raster) splat(cx, cy, radius float32, fn func(x, y int, cover float32)) {
	w, h := r.d.fb.Width(), r.d.fb.Height()
	x0 := clampInt(int(math32.Floor(cx-radius)), 0, w-1)
	x1 := clampInt(int(math32.Ceil(cx+radius)), 0, w-1)
	y0 := clampInt(int(math32.Floor(cy-radius)), 0, h-1)
	y1 := clampInt(int(math32.Ceil(cy+radius)), 0, h-1)

	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			dx := float32(x) + 0.5 - cx
			dy := float32(y) + 0.5 - cy
			d := math32.Sqrt(dx*dx+dy*dy) - radius
			// one pixel of antialiasing at the rim
			cover := math32.Max(0, math32.Min(1, 0.5-d))
			if cover > 0 {
				fn(x, y, cover)
			}
		}
	}
}

func (r *Raster) accumulate(cx, cy, radius float32, c [3]float32) {
	w := r.d.fb.Width()
	r.splat(cx, cy, radius, func(x, y int, cover float32) {
		i := y*w + x
		r.cover[i] += cover
		r.tint[3*i+0] += cover * c[0]
		r.tint[3*i+1] += cover * c[1]
		r.tint[3*i+2] += cover * c[2]
	})
}

func (r *Raster) resolve(opacity float32) {
	w := r.d.fb.Width()
	for i, acc := range r.cover {
		if acc == 0 {
			continue
		}
		alpha := (1 - math32.Exp(-acc*densityGain)) * opacity
		c := toRGBA([3]float32{r.tint[3*i] / acc, r.tint[3*i+1] / acc, r.tint[3*i+2] / acc})
		c.A = unit8(alpha)
		r.d.blend(i%w, i/w, c)
	}
}

func (r *Raster) paint(cx, cy, radius float32, c [3]float32, opacity float32) {
	col := toRGBA(c)
	r.splat(cx, cy, radius, func(x, y int, cover float32) {
		col.A = unit8(cover * opacity)
		r.d.blend(x, y, col)
	})
}

// DrawLegend fills a horizontal bar with the depth gradient, near end on
// the left.
func (r *Raster) DrawLegend(x0, x1, y, height float32) {
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	left := int(math32.Round(x0))
	right := int(math32.Round(x1))
	bottom := int(math32.Round(y))
	top := bottom - int(math32.Round(height))
	span := float32(right - left)
	if span <= 0 {
		return
	}
	for px := left; px <= right; px++ {
		c := toRGBA(Gradient(float32(px-left) / span))
		for py := top; py < bottom; py++ {
			r.d.blend(px, py, c)
		}
	}
}
