// Package gfxtest provides a gfx.Device that records draw commands.
package gfxtest

import (
	"fluxcore/flux/gfx"
)

// Buffer is an uploaded column held by a Recorder.
type Buffer struct {
	Data     []float32
	Released bool
}

func (b *Buffer) Len() int { return len(b.Data) }
func (b *Buffer) Release() { b.Released = true }

type Text struct {
	P   gfx.Point
	H   gfx.HAnchor
	V   gfx.VAnchor
	Rot gfx.Rotation
	S   string
}

type Line struct {
	P0, P1 gfx.Point
	Width  float32
}

type Legend struct {
	X0, X1, Y, Height float32
}

// Frame is everything drawn between two Clear calls.
type Frame struct {
	Uniforms gfx.Uniforms
	Points   int
	Bound    [3]*Buffer
	Lines    []Line
	Texts    []Text
	Legends  []Legend
}

// Recorder implements gfx.Device. The zero value is ready to use.
type Recorder struct {
	Uploads  []*Buffer
	Bound    [3]*Buffer
	Uniforms gfx.Uniforms
	Frame    Frame
	Clears   int
	Presents int

	// PresentErr is returned by Present.
	PresentErr error
}

var _ gfx.Device = (*Recorder)(nil)

func (r *Recorder) Upload(data []float32) gfx.Buffer {
	b := &Buffer{Data: append([]float32(nil), data...)}
	r.Uploads = append(r.Uploads, b)
	return b
}

func (r *Recorder) BindAttribute(a gfx.Attribute, b gfx.Buffer) {
	if int(a) >= len(r.Bound) {
		return
	}
	buf, _ := b.(*Buffer)
	r.Bound[a] = buf
}

func (r *Recorder) SetUniforms(u gfx.Uniforms) { r.Uniforms = u }

func (r *Recorder) DrawPoints(count int) {
	r.Frame.Points += count
	r.Frame.Uniforms = r.Uniforms
	r.Frame.Bound = r.Bound
}

func (r *Recorder) DrawLine(p0, p1 gfx.Point, width float32) {
	r.Frame.Lines = append(r.Frame.Lines, Line{P0: p0, P1: p1, Width: width})
}

func (r *Recorder) DrawText(p gfx.Point, h gfx.HAnchor, v gfx.VAnchor, s string) {
	r.DrawTextRotated(p, h, v, gfx.Rot0, s)
}

func (r *Recorder) DrawTextRotated(p gfx.Point, h gfx.HAnchor, v gfx.VAnchor, rot gfx.Rotation, s string) {
	r.Frame.Texts = append(r.Frame.Texts, Text{P: p, H: h, V: v, Rot: rot, S: s})
}

func (r *Recorder) DrawLegend(x0, x1, y, height float32) {
	r.Frame.Legends = append(r.Frame.Legends, Legend{X0: x0, X1: x1, Y: y, Height: height})
}

func (r *Recorder) Clear() {
	r.Clears++
	r.Frame = Frame{}
}

func (r *Recorder) Present() error {
	r.Presents++
	return r.PresentErr
}

// Text returns the first recorded text whose string is s.
func (f Frame) Text(s string) (Text, bool) {
	for _, t := range f.Texts {
		if t.S == s {
			return t, true
		}
	}
	return Text{}, false
}
