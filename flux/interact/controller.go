package interact

import (
	"errors"
	"fmt"
	"log/slog"

	"fluxcore/flux/axis"
	"fluxcore/hal"

	"github.com/chewxy/math32"
)

// Scene is the view state the controller mutates.
type Scene struct {
	// Axes holds the x, y and z views; z is nil in 2D.
	Axes [3]*axis.View

	// DepthDelta and DepthScale are the depth pan and zoom applied to the
	// point transform. They track the z view's own pan and scale, which only
	// drive the depth axis labels.
	DepthDelta float32
	DepthScale float32

	PointSize float32
	Opacity   float32
	ShowHelp  bool

	// Pointer is the last pointer position, valid once HasPointer is set.
	PointerX, PointerY float32
	HasPointer         bool

	Quit  bool
	Dirty bool
}

// Binder replaces the column shown on an axis, step positions away in
// canonical order.
type Binder interface {
	Rebind(d axis.Dim, step int) error
}

// Settings configures a Controller.
type Settings struct {
	Steps

	Dimensions   int
	Width        int
	Height       int
	PointSize    float32
	Opacity      float32
	DepthPanStep float32

	// HelpEnabled allows toggling the help overlay.
	HelpEnabled bool

	// TrackPointer redraws on hover, for the pointer readout.
	TrackPointer bool
}

// Controller feeds events through the Machine and applies the effects to a
// Scene. It is not safe for concurrent use.
type Controller struct {
	m      Machine
	scene  *Scene
	binder Binder
	set    Settings
	log    *slog.Logger
}

func NewController(scene *Scene, binder Binder, set Settings, log *slog.Logger) *Controller {
	if log == nil {
		log = slog.Default()
	}
	c := &Controller{
		m: Machine{
			Width:      set.Width,
			Height:     set.Height,
			Dimensions: set.Dimensions,
			Steps:      set.Steps,
		},
		scene:  scene,
		binder: binder,
		set:    set,
		log:    log,
	}
	c.resetScene()
	return c
}

func (c *Controller) Machine() Machine { return c.m }

// Handle runs one event. Every effect that changed the scene marks it
// dirty. The returned error comes from rebinding a column; the scene stays
// usable.
func (c *Controller) Handle(ev hal.Event) error {
	var effects []Effect
	c.m, effects = c.m.Transition(ev)

	var errs []error
	for _, e := range effects {
		changed, err := c.apply(e)
		if err != nil {
			errs = append(errs, err)
		}
		if changed {
			c.scene.Dirty = true
		}
	}
	return errors.Join(errs...)
}

func (c *Controller) apply(e Effect) (bool, error) {
	s := c.scene
	x, y, z := s.Axes[axis.DimX], s.Axes[axis.DimY], s.Axes[axis.DimZ]

	switch e.Kind {
	case EffectMode:
		c.log.Debug("mode", "mode", c.m.Mode)
		return true, nil

	case EffectPan:
		ok := x.PanBy(e.DX)
		return y.PanBy(e.DY) || ok, nil

	case EffectZoom:
		ok := x.ZoomAround(e.X1, e.X2)
		return y.ZoomAround(e.Y1, e.Y2) || ok, nil

	case EffectHover:
		s.PointerX, s.PointerY, s.HasPointer = e.X, e.Y, true
		return c.set.TrackPointer, nil

	case EffectDepthPan:
		if z == nil {
			return false, nil
		}
		return c.depthPan(z, e.Sign), nil

	case EffectDepthZoom:
		if z == nil {
			return false, nil
		}
		return c.depthZoom(z, e.Factor), nil

	case EffectPointSize:
		next := math32.Max(1, s.PointSize*e.Factor)
		if next == s.PointSize || !finite(next) {
			return false, nil
		}
		s.PointSize = next
		return true, nil

	case EffectOpacity:
		next := math32.Max(0, math32.Min(1, s.Opacity+e.Delta))
		if next == s.Opacity {
			return false, nil
		}
		s.Opacity = next
		return true, nil

	case EffectToggleHelp:
		if !c.set.HelpEnabled {
			return false, nil
		}
		s.ShowHelp = !s.ShowHelp
		return true, nil

	case EffectReset:
		c.resetScene()
		for _, v := range s.Axes {
			if v != nil {
				v.Reset()
			}
		}
		return true, nil

	case EffectCycle:
		if s.Axes[e.Dim] == nil || c.binder == nil {
			return false, nil
		}
		if err := c.binder.Rebind(e.Dim, e.Step); err != nil {
			return false, fmt.Errorf("cycle %s: %w", e.Dim, err)
		}
		if e.Dim == axis.DimZ {
			s.DepthDelta, s.DepthScale = 0, 1
		}
		return true, nil

	case EffectResize:
		return c.resize(e.Width, e.Height)

	case EffectQuit:
		s.Quit = true
		return true, nil
	}
	return false, nil
}

// resetScene restores the display settings and the depth accumulators.
func (c *Controller) resetScene() {
	s := c.scene
	s.PointSize = c.set.PointSize
	s.Opacity = c.set.Opacity
	s.DepthDelta = 0
	s.DepthScale = 1
}

// depthPan shifts the z view by a step of its range and moves the depth
// transform the opposite way.
func (c *Controller) depthPan(z *axis.View, sign float32) bool {
	s := c.scene
	step := c.set.DepthPanStep * z.Range().Span()
	delta := s.DepthDelta - sign*step*s.DepthScale
	if !finite(delta) {
		return false
	}
	if !z.PanBy(sign * step * z.Scale()) {
		return false
	}
	s.DepthDelta = delta
	return true
}

func (c *Controller) depthZoom(z *axis.View, factor float32) bool {
	s := c.scene
	scale := s.DepthScale * factor
	delta := s.DepthDelta / s.DepthScale * scale
	if !finite(scale) || !(scale > 0) || !finite(delta) {
		return false
	}
	if !z.Rescale(factor) {
		return false
	}
	s.DepthDelta, s.DepthScale = delta, scale
	return true
}

func (c *Controller) resize(w, h int) (bool, error) {
	s := c.scene
	extents := [3]int{w, h, w}
	for d, v := range s.Axes {
		if v == nil {
			continue
		}
		if err := v.Resize(extents[d]); err != nil {
			return false, err
		}
	}
	c.log.Debug("resize", "width", w, "height", h)
	return true, nil
}

func finite(x float32) bool {
	return !math32.IsNaN(x) && !math32.IsInf(x, 0)
}
