// Package proj builds the projection that maps column data into normalized
// device coordinates, and the composed pan/zoom transform applied on top.
package proj

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
	"gonum.org/v1/gonum/mat"
)

var ErrSingular = errors.New("proj: transform is not invertible")

// Range is the data range of one axis.
type Range struct {
	Min, Max float32
}

// Unit is the range substituted for degenerate axes.
var Unit = Range{Min: -1, Max: 1}

// Degenerate reports a non-finite or zero-width range.
func (r Range) Degenerate() bool {
	return !finite(r.Min) || !finite(r.Max) || r.Min == r.Max
}

// OrUnit returns r, or Unit when r is degenerate.
func (r Range) OrUnit() Range {
	if r.Degenerate() {
		return Unit
	}
	return r
}

// Span is the width of the range after degenerate substitution.
func (r Range) Span() float32 {
	u := r.OrUnit()
	return u.Max - u.Min
}

func (r Range) Mid() float32 { return (r.Max + r.Min) / 2 }

// Build returns the orthographic projection over the three ranges.
//
// Depth only orders and blends overlapping points, it never clips them: the
// depth translation is zeroed and the depth scale flipped relative to Ortho.
func Build(x, y, z Range) Mat4 {
	x, y, z = x.OrUnit(), y.OrUnit(), z.OrUnit()
	m := Ortho(x.Min, x.Max, y.Min, y.Max, z.Min, z.Max)
	m[14] = 0
	m[10] *= -1
	return m
}

// Offset is the user pan/zoom of one axis, with Pan expressed in data units
// of an axis Span wide.
type Offset struct {
	Pan   float32
	Scale float32
	Span  float32
}

// Neutral leaves an axis as projected.
var Neutral = Offset{Pan: 0, Scale: 1, Span: 2}

func (o Offset) translation() float32 {
	if o.Span == 0 {
		return 0
	}
	return o.Pan / o.Span * 2
}

// Transform composes translation * scale * projection, the matrix applied to
// every point.
func Transform(projection Mat4, x, y, z Offset) Mat4 {
	t := Translate(x.translation(), y.translation(), z.translation())
	s := Scale(x.Scale, y.Scale, z.Scale)
	return Mul(Mul(t, s), projection)
}

// Finite reports whether every element of m is finite.
func Finite(m Mat4) bool {
	for _, v := range m {
		if !finite(v) {
			return false
		}
	}
	return true
}

// Invert returns the inverse of m.
func Invert(m Mat4) (Mat4, error) {
	if !Finite(m) {
		return Mat4{}, ErrSingular
	}
	a := mat.NewDense(4, 4, nil)
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			a.Set(row, col, float64(m[col*4+row]))
		}
	}

	var inv mat.Dense
	if err := inv.Inverse(a); err != nil {
		return Mat4{}, fmt.Errorf("%w: %v", ErrSingular, err)
	}

	var out Mat4
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			out[col*4+row] = float32(inv.At(row, col))
		}
	}
	return out, nil
}

// Unproject maps a normalized device coordinate back through inv, the
// inverse of a point transform.
func Unproject(inv Mat4, ndcX, ndcY, ndcZ float32) (Vec4, bool) {
	v := MulVec(inv, Vec4{X: ndcX, Y: ndcY, Z: ndcZ, W: 1})
	if v.W == 0 {
		return Vec4{}, false
	}
	v = Vec4{X: v.X / v.W, Y: v.Y / v.W, Z: v.Z / v.W, W: 1}
	if math32.IsNaN(v.X) || math32.IsNaN(v.Y) {
		return Vec4{}, false
	}
	return v, true
}

func finite(x float32) bool { return !math32.IsNaN(x) && !math32.IsInf(x, 0) }
