package gfx

import (
	"image/color"

	"github.com/chewxy/math32"
)

// depthStops is the colour ramp points are tinted with, from the near (t=0)
// to the far (t=1) end of the depth range.
var depthStops = [...][3]float32{
	{0.25, 0.45, 0.95},
	{0.23, 0.80, 0.62},
	{0.98, 0.82, 0.25},
	{0.95, 0.35, 0.30},
}

// Gradient returns the ramp colour at t, clamped to [0, 1]. NaN maps to the
// middle of the ramp.
func Gradient(t float32) [3]float32 {
	if math32.IsNaN(t) {
		t = 0.5
	}
	t = math32.Max(0, math32.Min(1, t))

	n := float32(len(depthStops) - 1)
	f := t * n
	i := int(math32.Floor(f))
	if i >= len(depthStops)-1 {
		return depthStops[len(depthStops)-1]
	}
	frac := f - float32(i)
	a, b := depthStops[i], depthStops[i+1]
	return [3]float32{
		a[0] + (b[0]-a[0])*frac,
		a[1] + (b[1]-a[1])*frac,
		a[2] + (b[2]-a[2])*frac,
	}
}

func toRGBA(c [3]float32) color.RGBA {
	return color.RGBA{R: unit8(c[0]), G: unit8(c[1]), B: unit8(c[2]), A: 0xFF}
}

func unit8(v float32) uint8 {
	return uint8(math32.Round(math32.Max(0, math32.Min(1, v)) * 255))
}
