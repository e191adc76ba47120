// Package gfx is the drawing surface the viewport engine issues commands to.
//
// Device is the abstract backend. Raster implements it in software on top of
// a hal.Framebuffer: points are splatted into a density buffer and resolved
// through a colour gradient, lines and text are drawn directly.
package gfx

import "fluxcore/flux/proj"

// Attribute names a per-point input stream.
type Attribute uint8

const (
	AttrX Attribute = iota
	AttrY
	AttrZ

	attrCount
)

// Buffer is a dense copy of column data owned by the backend.
//
// A released buffer must not be bound again.
type Buffer interface {
	Len() int
	Release()
}

// Uniforms are the per-draw parameters of the point pass.
type Uniforms struct {
	Transform proj.Mat4
	PointSize float32
	Opacity   float32
	Width     int
	Height    int
	Margin    float32

	// DepthNear and DepthFar are the transformed depths mapped onto the
	// ends of the colour gradient.
	DepthNear float32
	DepthFar  float32
}

type HAnchor uint8

const (
	Left HAnchor = iota
	Center
	Right
)

type VAnchor uint8

const (
	Top VAnchor = iota
	Middle
	Bottom
)

// Rotation turns text around its anchor point. Rot90 runs text downwards,
// Rot270 upwards.
type Rotation uint8

const (
	Rot0 Rotation = iota
	Rot90
	Rot270
)

// Point is a position in window pixels, origin top-left.
type Point struct {
	X, Y float32
}

// Device is the drawing backend.
type Device interface {
	Upload(data []float32) Buffer
	BindAttribute(a Attribute, b Buffer)
	SetUniforms(u Uniforms)
	DrawPoints(count int)
	DrawLine(p0, p1 Point, width float32)
	DrawText(p Point, h HAnchor, v VAnchor, s string)
	DrawTextRotated(p Point, h HAnchor, v VAnchor, r Rotation, s string)
	// DrawLegend draws the depth colour gradient as a horizontal bar from x0
	// to x1 whose bottom edge is at y.
	DrawLegend(x0, x1, y, height float32)
	Clear()
	Present() error
}
