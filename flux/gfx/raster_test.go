package gfx

import (
	"image/color"
	"testing"

	"fluxcore/flux/proj"
	"fluxcore/hal"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memFB struct {
	w, h     int
	buf      []byte
	presents int
}

func newMemFB(w, h int) *memFB {
	return &memFB{w: w, h: h, buf: make([]byte, w*h*4)}
}

func (f *memFB) Width() int              { return f.w }
func (f *memFB) Height() int             { return f.h }
func (f *memFB) Format() hal.PixelFormat { return hal.PixelFormatRGBA8888 }
func (f *memFB) StrideBytes() int        { return f.w * 4 }
func (f *memFB) Buffer() []byte          { return f.buf }
func (f *memFB) Present() error          { f.presents++; return nil }

func (f *memFB) ClearRGB(r, g, b uint8) {
	for i := 0; i < len(f.buf); i += 4 {
		f.buf[i], f.buf[i+1], f.buf[i+2], f.buf[i+3] = r, g, b, 0xFF
	}
}

func (f *memFB) at(x, y int) color.RGBA {
	o := (y*f.w + x) * 4
	return color.RGBA{R: f.buf[o], G: f.buf[o+1], B: f.buf[o+2], A: f.buf[o+3]}
}

// lit returns the bounding box of pixels that differ from bg.
func (f *memFB) lit(bg color.RGBA) (x0, y0, x1, y1 int, ok bool) {
	x0, y0 = f.w, f.h
	x1, y1 = -1, -1
	for y := 0; y < f.h; y++ {
		for x := 0; x < f.w; x++ {
			if f.at(x, y) == bg {
				continue
			}
			x0, y0 = min(x0, x), min(y0, y)
			x1, y1 = max(x1, x), max(y1, y)
			ok = true
		}
	}
	return
}

func newTestRaster(t *testing.T, w, h int, blend bool) (*Raster, *memFB, color.RGBA) {
	t.Helper()
	fb := newMemFB(w, h)
	cfg := DefaultRasterConfig()
	cfg.Blend = blend
	r := NewRaster(fb, cfg)
	r.Clear()
	return r, fb, cfg.Background
}

func TestClearPresent(t *testing.T) {
	r, fb, bg := newTestRaster(t, 4, 4, true)
	assert.Equal(t, bg, fb.at(3, 3))
	require.NoError(t, r.Present())
	assert.Equal(t, 1, fb.presents)
}

func TestDrawPoints(t *testing.T) {
	for _, blend := range []bool{true, false} {
		r, fb, bg := newTestRaster(t, 100, 100, blend)

		xs := r.Upload([]float32{0, 0.99, math32.NaN(), math32.Inf(1)})
		ys := r.Upload([]float32{0, 0.99, 0, 0})
		r.BindAttribute(AttrX, xs)
		r.BindAttribute(AttrY, ys)
		r.SetUniforms(Uniforms{Transform: proj.Identity(), PointSize: 4, Opacity: 1, Width: 100, Height: 100, Margin: 10})
		r.DrawPoints(4)

		x0, y0, x1, y1, ok := fb.lit(bg)
		require.True(t, ok, "blend=%v", blend)
		// only the centre point survives the margin clip
		assert.GreaterOrEqual(t, x0, 46)
		assert.LessOrEqual(t, x1, 53)
		assert.GreaterOrEqual(t, y0, 46)
		assert.LessOrEqual(t, y1, 53)
		assert.NotEqual(t, bg, fb.at(50, 50))
	}
}

func TestDrawPoints_CountBoundedByBuffers(t *testing.T) {
	r, fb, bg := newTestRaster(t, 20, 20, true)
	r.BindAttribute(AttrX, r.Upload([]float32{0}))
	r.BindAttribute(AttrY, r.Upload([]float32{0, 0.5}))
	r.SetUniforms(Uniforms{Transform: proj.Identity(), PointSize: 2, Opacity: 1})
	r.DrawPoints(10)

	_, _, _, _, ok := fb.lit(bg)
	assert.True(t, ok)
}

func TestDrawPoints_ReleasedBufferIgnored(t *testing.T) {
	r, fb, bg := newTestRaster(t, 20, 20, true)
	xs := r.Upload([]float32{0})
	xs.Release()
	assert.Equal(t, 0, xs.Len())

	r.BindAttribute(AttrX, xs)
	r.BindAttribute(AttrY, r.Upload([]float32{0}))
	r.SetUniforms(Uniforms{Transform: proj.Identity(), PointSize: 2, Opacity: 1})
	r.DrawPoints(1)

	_, _, _, _, ok := fb.lit(bg)
	assert.False(t, ok)
}

func TestUploadCopies(t *testing.T) {
	r, _, _ := newTestRaster(t, 1, 1, true)
	src := []float32{1, 2}
	b := r.Upload(src)
	src[0] = 9
	assert.Equal(t, float32(1), b.(*buffer).data[0])
	assert.Equal(t, 2, b.Len())
}

func TestDrawLine(t *testing.T) {
	r, fb, bg := newTestRaster(t, 20, 20, true)
	r.DrawLine(Point{2, 5}, Point{17, 5}, 1)

	x0, y0, x1, y1, ok := fb.lit(bg)
	require.True(t, ok)
	assert.Equal(t, [4]int{2, 5, 17, 5}, [4]int{x0, y0, x1, y1})
	assert.Equal(t, DefaultRasterConfig().Foreground, fb.at(10, 5))
}

func TestDrawLine_ThinIsTranslucent(t *testing.T) {
	r, fb, bg := newTestRaster(t, 10, 10, true)
	r.DrawLine(Point{5, 0}, Point{5, 9}, 0.5)

	c := fb.at(5, 4)
	assert.NotEqual(t, bg, c)
	assert.NotEqual(t, DefaultRasterConfig().Foreground, c)
}

func TestDrawLine_NonFiniteSkipped(t *testing.T) {
	r, fb, bg := newTestRaster(t, 10, 10, true)
	r.DrawLine(Point{math32.NaN(), 0}, Point{5, 9}, 1)
	_, _, _, _, ok := fb.lit(bg)
	assert.False(t, ok)
}

func TestDrawTextAnchors(t *testing.T) {
	const px, py = 100, 100
	cases := []struct {
		name  string
		h     HAnchor
		v     VAnchor
		rot   Rotation
		check func(t *testing.T, x0, y0, x1, y1 int)
	}{
		{"right top", Right, Top, Rot0, func(t *testing.T, x0, y0, x1, y1 int) {
			assert.Less(t, x1, px)
			assert.GreaterOrEqual(t, y0, py)
		}},
		{"left bottom", Left, Bottom, Rot0, func(t *testing.T, x0, y0, x1, y1 int) {
			assert.GreaterOrEqual(t, x0, px)
			assert.Less(t, y1, py)
		}},
		{"center middle", Center, Middle, Rot0, func(t *testing.T, x0, y0, x1, y1 int) {
			assert.Less(t, x0, px)
			assert.Greater(t, x1, px)
			assert.Less(t, y0, py)
			assert.Greater(t, y1, py)
		}},
		{"upwards", Left, Middle, Rot270, func(t *testing.T, x0, y0, x1, y1 int) {
			assert.LessOrEqual(t, y1, py)
			assert.Greater(t, y1-y0, x1-x0, "runs vertically")
		}},
		{"downwards", Left, Middle, Rot90, func(t *testing.T, x0, y0, x1, y1 int) {
			assert.GreaterOrEqual(t, y0, py)
			assert.Greater(t, y1-y0, x1-x0, "runs vertically")
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r, fb, bg := newTestRaster(t, 200, 200, true)
			r.DrawTextRotated(Point{px, py}, tc.h, tc.v, tc.rot, "12345")
			x0, y0, x1, y1, ok := fb.lit(bg)
			require.True(t, ok)
			tc.check(t, x0, y0, x1, y1)
		})
	}
}

func TestTextSizeMultiLine(t *testing.T) {
	r, _, _ := newTestRaster(t, 1, 1, true)
	w1, h1 := r.TextSize("abc")
	w2, h2 := r.TextSize("abc\nabcdef")
	assert.Greater(t, w2, w1)
	assert.Equal(t, 2*h1, h2)
}

func TestDrawLegend(t *testing.T) {
	r, fb, _ := newTestRaster(t, 50, 20, true)
	r.DrawLegend(10, 40, 15, 5)

	assert.Equal(t, toRGBA(Gradient(0)), fb.at(10, 12))
	assert.Equal(t, toRGBA(Gradient(1)), fb.at(40, 12))
	assert.Equal(t, DefaultRasterConfig().Background, fb.at(25, 15))
}

func TestGradient(t *testing.T) {
	assert.Equal(t, depthStops[0], Gradient(-3))
	assert.Equal(t, depthStops[len(depthStops)-1], Gradient(7))
	assert.Equal(t, Gradient(0.5), Gradient(math32.NaN()))
}
