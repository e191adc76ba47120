// Package engine runs the viewport: it owns the table, the axis views and
// the drawing device, feeds input through the interaction controller and
// redraws when the scene changed.
package engine

import (
	"errors"
	"fmt"
	"log/slog"

	"fluxcore/flux/axis"
	"fluxcore/flux/config"
	"fluxcore/flux/gfx"
	"fluxcore/flux/interact"
	"fluxcore/flux/proj"
	"fluxcore/flux/table"
	"fluxcore/hal"
)

var ErrEmptyTable = errors.New("engine: table has no rows")

// Options configures New.
type Options struct {
	Table  *table.Table
	Device gfx.Device

	// Input may be nil; Step then only redraws.
	Input hal.Input

	Logger *slog.Logger
	Config *config.Config

	// Columns names the x, y and z columns. Missing entries default to the
	// first, second and third column in canonical order, wrapping around
	// for narrow tables.
	Columns []string

	// Width and Height are the initial drawing extents in pixels.
	Width, Height int
}

// Engine is the viewport. It is not safe for concurrent use; the goroutine
// that calls Step owns it.
type Engine struct {
	tbl *table.Table
	dev gfx.Device
	in  hal.Input
	log *slog.Logger
	cfg *config.Config

	dims       int
	scene      interact.Scene
	ctl        *interact.Controller
	projection proj.Mat4
	transform  proj.Mat4
}

func New(opts Options) (*Engine, error) {
	if opts.Table == nil || opts.Table.Len() == 0 {
		return nil, ErrEmptyTable
	}
	if opts.Device == nil {
		return nil, errors.New("engine: no device")
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = cfg.Window.Width, cfg.Window.Height
	}

	e := &Engine{
		tbl:  opts.Table,
		dev:  opts.Device,
		in:   opts.Input,
		log:  log,
		cfg:  cfg,
		dims: cfg.View.Dimensions,
	}
	if e.dims != 3 {
		e.dims = 2
	}

	columns, err := e.defaultColumns(opts.Columns)
	if err != nil {
		return nil, err
	}
	extents := [3]int{opts.Width, opts.Height, opts.Width}
	for d := 0; d < e.dims; d++ {
		v, err := axis.Bind(e.dev, e.tbl, columns[d], extents[d], cfg.View.Margin, axis.Dim(d) == axis.DimZ)
		if err != nil {
			e.Close()
			return nil, fmt.Errorf("engine: %s axis: %w", axis.Dim(d), err)
		}
		e.scene.Axes[d] = v
		e.dev.BindAttribute(attribute(axis.Dim(d)), v.Buffer())
	}

	e.ctl = interact.NewController(&e.scene, e, interact.Settings{
		Steps: interact.Steps{
			PointSizeFactor: cfg.View.PointSizeFactor,
			OpacityStep:     cfg.View.OpacityStep,
			DepthZoom:       cfg.View.DepthZoom,
		},
		Dimensions:   e.dims,
		Width:        opts.Width,
		Height:       opts.Height,
		PointSize:    cfg.View.PointSize,
		Opacity:      cfg.View.Opacity,
		DepthPanStep: cfg.View.DepthPanStep,
		HelpEnabled:  cfg.Features.Help,
		TrackPointer: cfg.Features.Readout,
	}, log)

	e.project()
	e.scene.Dirty = true

	log.Info("viewport ready",
		"table", e.tbl.Name(),
		"rows", e.tbl.Len(),
		"columns", len(e.tbl.Columns()),
		"dimensions", e.dims,
		"x", columns[0], "y", columns[1])
	return e, nil
}

func (e *Engine) defaultColumns(given []string) ([]string, error) {
	if len(given) > 3 {
		return nil, fmt.Errorf("engine: %d columns given, at most 3 axes", len(given))
	}
	all := e.tbl.Columns()
	out := make([]string, 3)
	for d := range out {
		if d < len(given) && given[d] != "" {
			out[d] = given[d]
			continue
		}
		out[d] = all[d%len(all)]
	}
	return out, nil
}

func attribute(d axis.Dim) gfx.Attribute {
	switch d {
	case axis.DimY:
		return gfx.AttrY
	case axis.DimZ:
		return gfx.AttrZ
	default:
		return gfx.AttrX
	}
}

// Scene exposes the view state.
func (e *Engine) Scene() *interact.Scene { return &e.scene }

// Projection is the projection built from the current axis ranges.
func (e *Engine) Projection() proj.Mat4 { return e.projection }

// Transform is the point transform of the last drawn frame.
func (e *Engine) Transform() proj.Mat4 { return e.transform }

func (e *Engine) Dimensions() int { return e.dims }

// Step drains pending input and redraws when something changed. It
// returns hal.ErrTerminated once the user asked to quit.
func (e *Engine) Step() (drawn bool, err error) {
	e.drain()
	if e.scene.Quit {
		e.log.Info("quit")
		return false, hal.ErrTerminated
	}
	if !e.scene.Dirty {
		return false, nil
	}
	if err := e.draw(); err != nil {
		return false, err
	}
	e.scene.Dirty = false
	return true, nil
}

func (e *Engine) drain() {
	if e.in == nil {
		return
	}
	events := e.in.Events()
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				e.in = nil
				return
			}
			if err := e.ctl.Handle(ev); err != nil {
				e.log.Warn("input", "err", err)
			}
			if e.scene.Quit {
				return
			}
		default:
			return
		}
	}
}

// Rebind shows the column step positions away from the current one on
// axis d. The replacement view starts from the default pan and zoom.
func (e *Engine) Rebind(d axis.Dim, step int) error {
	old := e.scene.Axes[d]
	if old == nil {
		return fmt.Errorf("engine: no %s axis", d)
	}
	next, ok := e.tbl.Next(old.Column(), step)
	if !ok {
		return fmt.Errorf("%w: %q", axis.ErrUnknownColumn, old.Column())
	}
	return e.SetColumn(d, next)
}

// SetColumn binds column to axis d.
func (e *Engine) SetColumn(d axis.Dim, column string) error {
	old := e.scene.Axes[d]
	if old == nil {
		return fmt.Errorf("engine: no %s axis", d)
	}
	v, err := axis.Bind(e.dev, e.tbl, column, old.Extent(), old.Margin(), old.Depth())
	if err != nil {
		return err
	}
	old.Release()
	e.scene.Axes[d] = v
	e.dev.BindAttribute(attribute(d), v.Buffer())
	e.project()
	e.scene.Dirty = true

	e.log.Info("rebind", "axis", d, "column", column, "min", v.Min(), "max", v.Max())
	return nil
}

func (e *Engine) zRange() proj.Range {
	if z := e.scene.Axes[axis.DimZ]; z != nil {
		return z.Range()
	}
	return proj.Unit
}

func (e *Engine) project() {
	x, y := e.scene.Axes[axis.DimX], e.scene.Axes[axis.DimY]
	e.projection = proj.Build(x.Range(), y.Range(), e.zRange())
}

// compose builds the point transform from the projection and the current
// pan and zoom.
func (e *Engine) compose() proj.Mat4 {
	x, y := e.scene.Axes[axis.DimX], e.scene.Axes[axis.DimY]
	zo := proj.Neutral
	if z := e.scene.Axes[axis.DimZ]; z != nil {
		zo = proj.Offset{Pan: e.scene.DepthDelta, Scale: e.scene.DepthScale, Span: z.Range().Span()}
	}
	return proj.Transform(e.projection, x.Offset(), y.Offset(), zo)
}

// Close releases the uploaded columns.
func (e *Engine) Close() {
	for d, v := range e.scene.Axes {
		if v != nil {
			v.Release()
			e.scene.Axes[d] = nil
		}
	}
}
