package engine

import (
	"fmt"

	"fluxcore/flux/axis"
	"fluxcore/flux/gfx"
	"fluxcore/flux/proj"
	"fluxcore/flux/ticks"

	"github.com/chewxy/math32"
)

// HelpText is the overlay toggled with H.
const HelpText = `Esc        quit
Left drag  pan
Right drag zoom
Wheel      depth pan / zoom (3D)
W / Q      point size up / down
S / A      opacity up / down
Left/Right cycle x column
Up/Down    cycle y column
PgUp/PgDn  cycle z column (3D)
R          reset view
H          toggle this help`

const (
	labelGap     = 10
	legendGap    = 2
	legendHeight = 4
)

func (e *Engine) draw() error {
	x, y, z := e.scene.Axes[axis.DimX], e.scene.Axes[axis.DimY], e.scene.Axes[axis.DimZ]
	w, h := float32(x.Extent()), float32(y.Extent())
	v := e.cfg.View

	e.transform = e.compose()
	if !proj.Finite(e.transform) {
		return fmt.Errorf("engine: non-finite transform")
	}

	u := gfx.Uniforms{
		Transform: e.transform,
		PointSize: e.scene.PointSize,
		Opacity:   e.scene.Opacity,
		Width:     x.Extent(),
		Height:    y.Extent(),
		Margin:    v.Margin,
	}
	if z != nil {
		lo, hi := z.Visible()
		u.DepthNear = proj.MulVec(e.transform, proj.Vec4{Z: lo, W: 1}).Z
		u.DepthFar = proj.MulVec(e.transform, proj.Vec4{Z: hi, W: 1}).Z
	}

	e.dev.Clear()
	e.dev.SetUniforms(u)
	e.dev.DrawPoints(e.tbl.Len())

	if e.scene.ShowHelp {
		e.dev.DrawText(gfx.Point{X: math32.Floor(w / 2), Y: math32.Floor(h / 2)}, gfx.Center, gfx.Middle, HelpText)
	}
	e.drawX(x, w, h)
	e.drawY(y, w, h)
	if z != nil {
		e.drawZ(z, w, h)
	}

	e.dev.DrawText(gfx.Point{X: w - v.InfoMargin, Y: v.InfoMargin}, gfx.Right, gfx.Top,
		fmt.Sprintf("#objects: %d", e.tbl.Len()))
	if e.cfg.Features.Readout {
		e.drawReadout(w, h)
	}
	return e.dev.Present()
}

func (e *Engine) line(x0, y0, x1, y1, width float32) {
	e.dev.DrawLine(gfx.Point{X: x0, Y: y0}, gfx.Point{X: x1, Y: y1}, width)
}

func (e *Engine) drawX(x *axis.View, w, h float32) {
	v := e.cfg.View
	m := v.Margin

	e.line(m, m, w-m, m, 1)
	e.line(m, h-m, w-m, h-m, 1)
	e.dev.DrawText(gfx.Point{X: math32.Floor(w / 2), Y: v.LabelMargin}, gfx.Center, gfx.Top, x.Column())
	e.dev.DrawText(gfx.Point{X: math32.Floor(w / 2), Y: h - v.LabelMargin}, gfx.Center, gfx.Bottom, x.Column())

	plan := x.CalcAxisMarkers(v.TickDistance)
	for _, mk := range plan.Markers {
		pos := math32.Floor(x.PixelOf(mk))
		label := ticks.Format(mk, plan.FractionDigits)
		e.dev.DrawTextRotated(gfx.Point{X: pos, Y: m - labelGap}, gfx.Left, gfx.Middle, gfx.Rot270, label)
		e.dev.DrawTextRotated(gfx.Point{X: pos, Y: h - m + labelGap}, gfx.Left, gfx.Middle, gfx.Rot90, label)
		e.line(pos, m-v.TickLength, pos, m, v.TickWidth)
		e.line(pos, h-m+v.TickLength, pos, h-m, v.TickWidth)
	}
}

func (e *Engine) drawY(y *axis.View, w, h float32) {
	v := e.cfg.View
	m := v.Margin

	e.line(m, m, m, h-m, 1)
	e.line(w-m, m, w-m, h-m, 1)
	e.dev.DrawTextRotated(gfx.Point{X: v.LabelMargin, Y: math32.Floor(h / 2)}, gfx.Center, gfx.Top, gfx.Rot270, y.Column())
	e.dev.DrawTextRotated(gfx.Point{X: w - v.LabelMargin, Y: math32.Floor(h / 2)}, gfx.Center, gfx.Top, gfx.Rot90, y.Column())

	plan := y.CalcAxisMarkers(v.TickDistance)
	for _, mk := range plan.Markers {
		// y grows upwards
		pos := math32.Floor(h - y.PixelOf(mk))
		label := ticks.Format(mk, plan.FractionDigits)
		e.dev.DrawText(gfx.Point{X: m - labelGap, Y: pos}, gfx.Right, gfx.Middle, label)
		e.dev.DrawText(gfx.Point{X: w - m + labelGap, Y: pos}, gfx.Left, gfx.Middle, label)
		e.line(m-v.TickLength, pos, m, pos, v.TickWidth)
		e.line(w-m+v.TickLength, pos, w-m, pos, v.TickWidth)
	}
}

// drawZ draws the depth axis as a horizontal scale along the bottom edge,
// with the colour legend underneath.
func (e *Engine) drawZ(z *axis.View, w, h float32) {
	v := e.cfg.View
	m := v.Margin
	base := h - m/5
	right := float32(z.Extent()) - m

	e.line(m, base, right, base, 1)
	if e.cfg.Features.Legend {
		e.dev.DrawLegend(m, right, base+legendGap+legendHeight, legendHeight)
	}
	e.dev.DrawText(gfx.Point{X: v.InfoMargin, Y: h - v.InfoMargin}, gfx.Left, gfx.Bottom, "z: "+z.Column())

	plan := z.CalcAxisMarkers(v.TickDistance)
	for _, mk := range plan.Markers {
		pos := math32.Floor(z.PixelOf(mk))
		e.dev.DrawText(gfx.Point{X: pos, Y: base - labelGap}, gfx.Center, gfx.Bottom, ticks.Format(mk, plan.FractionDigits))
		e.line(pos, base-v.TickLength, pos, base, v.TickWidth)
	}
}

// drawReadout prints the data coordinates under the pointer while it is
// inside the plot area.
func (e *Engine) drawReadout(w, h float32) {
	s := &e.scene
	m := e.cfg.View.Margin
	if !s.HasPointer || s.PointerX < m || s.PointerX > w-m || s.PointerY < m || s.PointerY > h-m {
		return
	}
	inv, err := proj.Invert(e.transform)
	if err != nil {
		return
	}
	p, ok := proj.Unproject(inv, s.PointerX/w*2-1, 1-s.PointerY/h*2, 0)
	if !ok {
		return
	}
	x, y := s.Axes[axis.DimX], s.Axes[axis.DimY]
	text := fmt.Sprintf("%s: %s  %s: %s",
		x.Column(), ticks.Format(p.X, x.CalcAxisMarkers(e.cfg.View.TickDistance).FractionDigits+1),
		y.Column(), ticks.Format(p.Y, y.CalcAxisMarkers(e.cfg.View.TickDistance).FractionDigits+1))
	e.dev.DrawText(gfx.Point{X: w - e.cfg.View.InfoMargin, Y: h - e.cfg.View.InfoMargin}, gfx.Right, gfx.Bottom, text)
}
