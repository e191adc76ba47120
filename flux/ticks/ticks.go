// Package ticks computes "nice" axis tick spacing and marker positions.
//
// The arithmetic is float32 throughout so labels match the values the point
// transform works with.
package ticks

import (
	"strconv"

	"github.com/chewxy/math32"
)

// Plan is the tick layout for one axis.
type Plan struct {
	FractionDigits int
	VisibleMin     float32
	VisibleMax     float32
	Markers        []float32
}

// NiceNumber returns a value of the form d*10^floor(log10(x)) with d in
// {1, 2, 5, 10}. With round set the closest such value is chosen, otherwise
// the thresholds pick the next value up. x must be positive.
func NiceNumber(x float32, round bool) float32 {
	exp := math32.Floor(math32.Log10(x))
	f := x / math32.Pow(10, exp)

	var nf float32
	if round {
		switch {
		case f < 1.5:
			nf = 1
		case f < 3:
			nf = 2
		case f < 7:
			nf = 5
		default:
			nf = 10
		}
	} else {
		switch {
		case f < 1:
			nf = 1
		case f < 2:
			nf = 2
		case f < 5:
			nf = 5
		default:
			nf = 10
		}
	}
	return nf * math32.Pow(10, exp)
}

// Compute lays out ticks for the visible range [vmin, vmax] on an axis extent
// pixels long with margin pixels reserved on both ends.
//
// Markers outside the visible range are clipped onto its boundary, so the
// first and last marker may repeat the boundary value. A zero-width or
// non-finite range yields a single marker at vmin when it is finite, and no
// markers otherwise.
func Compute(vmin, vmax float32, extent int, margin float32, pixelsPerTick int) Plan {
	p := Plan{VisibleMin: vmin, VisibleMax: vmax}

	available := float32(extent) - 2*margin
	if available <= 0 || pixelsPerTick <= 0 {
		return p
	}

	if !finite(vmin) || !finite(vmax) || !(vmax > vmin) {
		if finite(vmin) {
			p.Markers = []float32{vmin}
		}
		return p
	}

	count := int(math32.Floor(available / float32(pixelsPerTick)))
	if count < 2 {
		count = 2
	}

	rough := NiceNumber(vmax-vmin, false)
	step := NiceNumber(rough/float32(count-1), true)
	if !finite(step) || step <= 0 {
		p.Markers = []float32{vmin}
		return p
	}

	gridMin := math32.Floor(vmin/step) * step
	gridMax := math32.Ceil(vmax/step) * step

	digits := -int(math32.Floor(math32.Log10(step)))
	if digits < 0 {
		digits = 0
	}
	p.FractionDigits = digits

	// Bounded walk: at large magnitudes m+step can round back to m.
	limit := 4*count + 4
	for m := gridMin; m < gridMax+0.5*step && len(p.Markers) < limit; m += step {
		marker := m
		if marker < vmin {
			marker = vmin
		} else if marker > vmax {
			marker = vmax
		}
		p.Markers = append(p.Markers, marker)
		if m+step == m {
			break
		}
	}
	return p
}

// Format renders a marker label with one more decimal than the plan's
// fraction digits.
func Format(v float32, fractionDigits int) string {
	return strconv.FormatFloat(float64(v), 'f', fractionDigits+1, 32)
}

func finite(v float32) bool {
	return !math32.IsNaN(v) && !math32.IsInf(v, 0)
}
