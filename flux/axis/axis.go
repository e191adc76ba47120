// Package axis holds the per-dimension view state of the viewport: which
// column an axis shows, its data range, and the user's pan and zoom.
//
// Pan is kept in data units of one range width, scale is relative to the
// normalized device range. The base scale 1-2*margin/extent fits the data
// inside the margins.
package axis

import (
	"errors"
	"fmt"

	"fluxcore/flux/gfx"
	"fluxcore/flux/proj"
	"fluxcore/flux/table"
	"fluxcore/flux/ticks"

	"github.com/chewxy/math32"
)

var (
	ErrUnknownColumn = errors.New("axis: unknown column")
	ErrExtent        = errors.New("axis: extent must be positive")
)

// Dim names an axis slot.
type Dim uint8

const (
	DimX Dim = iota
	DimY
	DimZ
)

func (d Dim) String() string {
	switch d {
	case DimX:
		return "x"
	case DimY:
		return "y"
	case DimZ:
		return "z"
	default:
		return fmt.Sprintf("Dim(%d)", uint8(d))
	}
}

// MinBaseScale bounds BaseScale from below when the margins leave no room.
const MinBaseScale = 0.05

// BaseScale is the scale at which [min, max] exactly fills the extent minus
// both margins, floored at MinBaseScale.
func BaseScale(extent int, margin float32) float32 {
	return max(1-2*margin/float32(extent), MinBaseScale)
}

// View is the state of one axis. It is not safe for concurrent use.
type View struct {
	extent int
	margin float32
	pan    float32
	scale  float32
	min    float32
	max    float32
	column string
	depth  bool
	buf    gfx.Buffer
}

// Bind builds a view over column, uploading its values to dev. depth marks
// the z axis of a 3D view, which pans in raw data units.
func Bind(dev gfx.Device, tbl *table.Table, column string, extent int, margin float32, depth bool) (*View, error) {
	if extent <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrExtent, extent)
	}
	values, ok := tbl.Get(column)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, column)
	}

	lo, hi := Range(values)
	v := &View{
		extent: extent,
		margin: margin,
		min:    lo,
		max:    hi,
		column: column,
		depth:  depth,
		buf:    dev.Upload(values),
	}
	v.Reset()
	return v, nil
}

// Range folds values into their minimum and maximum, skipping NaN and
// infinities. Both are NaN when no value is finite.
func Range(values []float32) (lo, hi float32) {
	lo, hi = math32.NaN(), math32.NaN()
	for _, x := range values {
		if !finite(x) {
			continue
		}
		if math32.IsNaN(lo) || x < lo {
			lo = x
		}
		if math32.IsNaN(hi) || x > hi {
			hi = x
		}
	}
	return lo, hi
}

func (v *View) Column() string     { return v.column }
func (v *View) Min() float32       { return v.min }
func (v *View) Max() float32       { return v.max }
func (v *View) Pan() float32       { return v.pan }
func (v *View) Scale() float32     { return v.scale }
func (v *View) Extent() int        { return v.extent }
func (v *View) Margin() float32    { return v.margin }
func (v *View) Depth() bool        { return v.depth }
func (v *View) Buffer() gfx.Buffer { return v.buf }

// Degenerate reports a constant or all-NaN column.
func (v *View) Degenerate() bool { return v.Range().Degenerate() }

// Range is the data range the projection is built from.
func (v *View) Range() proj.Range { return proj.Range{Min: v.min, Max: v.max} }

// Offset is the pan/zoom this view contributes to the point transform.
func (v *View) Offset() proj.Offset {
	return proj.Offset{Pan: v.pan, Scale: v.scale, Span: v.Range().Span()}
}

func (v *View) BaseScale() float32 { return BaseScale(v.extent, v.margin) }

// Reset drops pan and zoom.
func (v *View) Reset() {
	v.pan = 0
	v.scale = v.BaseScale()
}

// Resize changes the extent. Pan and scale are kept.
func (v *View) Resize(extent int) error {
	if extent <= 0 {
		return fmt.Errorf("%w: %d", ErrExtent, extent)
	}
	v.extent = extent
	return nil
}

// PanBy moves the view by delta range widths, or by delta data units for a
// depth axis. A degenerate range counts as width 2, the span the projection
// substitutes, so a constant column still pans. A non-finite result is
// discarded and PanBy reports false.
func (v *View) PanBy(delta float32) bool {
	step := delta
	if !v.depth {
		step = delta * v.Range().Span()
	}
	next := v.pan + step
	if !finite(next) {
		return false
	}
	v.pan = next
	return true
}

// Rescale multiplies the scale by factor, keeping the pan's on-screen
// position relative to the scale. Results that are non-finite or not
// positive are discarded.
func (v *View) Rescale(factor float32) bool {
	scale := v.scale * factor
	pan := v.pan / v.scale * scale
	if !finite(scale) || !(scale > 0) || !finite(pan) {
		return false
	}
	v.pan, v.scale = pan, scale
	return true
}

// ZoomAround rescales by cur/prev, the ratio of the pointer's current and
// previous offsets from the viewport centre. A zero prev is rejected.
func (v *View) ZoomAround(prev, cur float32) bool {
	if prev == 0 || prev == cur {
		return false
	}
	return v.Rescale(cur / prev)
}

// Visible returns the data range currently shown between the margins.
func (v *View) Visible() (vmin, vmax float32) {
	base := v.BaseScale()
	mid := (v.max + v.min) / 2
	vmin = (v.min-v.pan/base-mid)/v.scale*base + mid
	vmax = (v.max-v.pan/base-mid)/v.scale*base + mid
	return vmin, vmax
}

// CalcAxisMarkers plans ticks over the visible range.
func (v *View) CalcAxisMarkers(pixelsPerTick int) ticks.Plan {
	vmin, vmax := v.Visible()
	return ticks.Compute(vmin, vmax, v.extent, v.margin, pixelsPerTick)
}

// PixelOf is the position of value along the axis, measured from the start
// of the extent. Values in a zero-width visible range sit in the middle.
func (v *View) PixelOf(value float32) float32 {
	vmin, vmax := v.Visible()
	inner := float32(v.extent) - 2*v.margin
	if !(vmax != vmin) {
		return v.margin + inner/2
	}
	return v.margin + (value-vmin)/(vmax-vmin)*inner
}

// ValueAt is the inverse of PixelOf.
func (v *View) ValueAt(pixel float32) float32 {
	vmin, vmax := v.Visible()
	inner := float32(v.extent) - 2*v.margin
	if inner == 0 {
		return vmin
	}
	return vmin + (pixel-v.margin)/inner*(vmax-vmin)
}

// Release frees the uploaded column. The view must not be used afterwards.
func (v *View) Release() {
	if v.buf != nil {
		v.buf.Release()
		v.buf = nil
	}
}

func finite(x float32) bool {
	return !math32.IsNaN(x) && !math32.IsInf(x, 0)
}
