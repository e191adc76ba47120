// Package interact turns input events into view changes.
//
// Machine is a pure state machine: Transition maps an event to the next
// machine and a list of effects without touching anything else. Controller
// applies those effects to a Scene.
package interact

import (
	"fmt"

	"fluxcore/flux/axis"
	"fluxcore/hal"
)

type Mode uint8

const (
	Idle Mode = iota
	Panning
	Zooming
)

func (m Mode) String() string {
	switch m {
	case Idle:
		return "idle"
	case Panning:
		return "panning"
	case Zooming:
		return "zooming"
	default:
		return fmt.Sprintf("Mode(%d)", uint8(m))
	}
}

type EffectKind uint8

const (
	// EffectMode reports a mode change.
	EffectMode EffectKind = iota + 1
	EffectPan
	EffectZoom
	EffectHover
	EffectDepthPan
	EffectDepthZoom
	EffectPointSize
	EffectOpacity
	EffectToggleHelp
	EffectReset
	EffectCycle
	EffectResize
	EffectQuit
)

// Effect is a requested view change. Only the fields of its Kind are set.
type Effect struct {
	Kind EffectKind

	// EffectPan: fractions of the extent, y pointing up.
	DX, DY float32

	// EffectZoom: previous and current pointer offsets from the centre.
	X1, X2, Y1, Y2 float32

	// EffectHover: pointer position.
	X, Y float32

	// EffectDepthPan: direction, -1 or +1.
	Sign float32

	// EffectDepthZoom, EffectPointSize: multiplier.
	Factor float32

	// EffectOpacity: additive step.
	Delta float32

	// EffectCycle
	Dim  axis.Dim
	Step int

	// EffectResize
	Width, Height int
}

// Steps are the per-event increments of the keyboard and wheel bindings.
type Steps struct {
	PointSizeFactor float32
	OpacityStep     float32
	DepthZoom       float32
}

// Machine is the interaction state. It is a value; Transition returns the
// successor instead of mutating.
type Machine struct {
	Mode Mode

	// Last pointer sample.
	X, Y       float32
	HasPointer bool

	Width, Height int
	Dimensions    int
	Steps         Steps
}

// Transition handles one event.
func (m Machine) Transition(ev hal.Event) (Machine, []Effect) {
	switch ev.Kind {
	case hal.EventButton:
		return m.button(ev)
	case hal.EventPointerMove:
		return m.move(ev)
	case hal.EventScroll:
		return m, m.scroll(ev)
	case hal.EventKey:
		if ev.Action != hal.Press {
			return m, nil
		}
		return m, m.key(ev.Key)
	case hal.EventResize:
		if ev.Width <= 0 || ev.Height <= 0 {
			return m, nil
		}
		m.Width, m.Height = ev.Width, ev.Height
		return m, []Effect{{Kind: EffectResize, Width: ev.Width, Height: ev.Height}}
	case hal.EventClose:
		return m, []Effect{{Kind: EffectQuit}}
	}
	return m, nil
}

func (m Machine) button(ev hal.Event) (Machine, []Effect) {
	next := m.Mode
	switch {
	case ev.Button == hal.ButtonPrimary && ev.Action == hal.Press && m.Mode == Idle:
		next = Panning
	case ev.Button == hal.ButtonPrimary && ev.Action == hal.Release && m.Mode == Panning:
		next = Idle
	case ev.Button == hal.ButtonSecondary && ev.Action == hal.Press && m.Mode == Idle:
		next = Zooming
	case ev.Button == hal.ButtonSecondary && ev.Action == hal.Release && m.Mode == Zooming:
		next = Idle
	}
	if next == m.Mode {
		return m, nil
	}
	m.Mode = next
	return m, []Effect{{Kind: EffectMode}}
}

func (m Machine) move(ev hal.Event) (Machine, []Effect) {
	var effects []Effect
	if m.HasPointer && m.Width > 0 && m.Height > 0 {
		switch m.Mode {
		case Panning:
			effects = append(effects, Effect{
				Kind: EffectPan,
				DX:   (ev.X - m.X) / float32(m.Width),
				DY:   (m.Y - ev.Y) / float32(m.Height),
			})
		case Zooming:
			cx, cy := float32(m.Width)/2, float32(m.Height)/2
			effects = append(effects, Effect{
				Kind: EffectZoom,
				X1:   m.X - cx,
				X2:   ev.X - cx,
				Y1:   m.Y - cy,
				Y2:   ev.Y - cy,
			})
		}
	}
	m.X, m.Y, m.HasPointer = ev.X, ev.Y, true
	return m, append(effects, Effect{Kind: EffectHover, X: ev.X, Y: ev.Y})
}

func (m Machine) scroll(ev hal.Event) []Effect {
	if m.Dimensions < 3 {
		return nil
	}
	var effects []Effect
	switch {
	case ev.DX > 0:
		effects = append(effects, Effect{Kind: EffectDepthPan, Sign: -1})
	case ev.DX < 0:
		effects = append(effects, Effect{Kind: EffectDepthPan, Sign: 1})
	}
	switch {
	case ev.DY > 0:
		effects = append(effects, Effect{Kind: EffectDepthZoom, Factor: m.Steps.DepthZoom})
	case ev.DY < 0:
		effects = append(effects, Effect{Kind: EffectDepthZoom, Factor: 1 / m.Steps.DepthZoom})
	}
	return effects
}

func (m Machine) key(k hal.KeyCode) []Effect {
	one := func(e Effect) []Effect { return []Effect{e} }
	cycle := func(d axis.Dim, step int) []Effect {
		return one(Effect{Kind: EffectCycle, Dim: d, Step: step})
	}

	switch k {
	case hal.KeyEscape:
		return one(Effect{Kind: EffectQuit})
	case hal.KeyW:
		return one(Effect{Kind: EffectPointSize, Factor: m.Steps.PointSizeFactor})
	case hal.KeyQ:
		return one(Effect{Kind: EffectPointSize, Factor: 1 / m.Steps.PointSizeFactor})
	case hal.KeyA:
		return one(Effect{Kind: EffectOpacity, Delta: -m.Steps.OpacityStep})
	case hal.KeyS:
		return one(Effect{Kind: EffectOpacity, Delta: m.Steps.OpacityStep})
	case hal.KeyH:
		return one(Effect{Kind: EffectToggleHelp})
	case hal.KeyR:
		return one(Effect{Kind: EffectReset})
	case hal.KeyRight:
		return cycle(axis.DimX, 1)
	case hal.KeyLeft:
		return cycle(axis.DimX, -1)
	case hal.KeyDown:
		return cycle(axis.DimY, 1)
	case hal.KeyUp:
		return cycle(axis.DimY, -1)
	case hal.KeyPageDown:
		if m.Dimensions >= 3 {
			return cycle(axis.DimZ, 1)
		}
	case hal.KeyPageUp:
		if m.Dimensions >= 3 {
			return cycle(axis.DimZ, -1)
		}
	}
	return nil
}
