package app

import (
	"errors"
	"log/slog"

	"fluxcore/flux/config"
	"fluxcore/flux/engine"
	"fluxcore/flux/gfx"
	"fluxcore/flux/table"
	"fluxcore/hal"
	"fluxcore/internal/buildinfo"
)

type Config struct {
	Settings *config.Config
	Table    *table.Table

	// Columns are the x, y and z columns; empty entries use the defaults.
	Columns []string

	LogLevel slog.Leveler
}

// New returns the factory the host runners call once the HAL is up. The
// table must already be loaded.
func New(cfg Config) hal.AppFactory {
	return func(h hal.HAL) (hal.Step, error) {
		return newViewer(h, cfg)
	}
}

func newViewer(h hal.HAL, cfg Config) (hal.Step, error) {
	if h == nil {
		return nil, errors.New("app: nil HAL")
	}
	settings := cfg.Settings
	if settings == nil {
		settings = config.Default()
	}

	log := newLogger(h.Logger(), cfg.LogLevel)

	disp := h.Display()
	if disp == nil || disp.Framebuffer() == nil {
		return nil, errors.New("app: no framebuffer")
	}
	fb := disp.Framebuffer()

	rc := gfx.DefaultRasterConfig()
	rc.Blend = settings.Features.Blend
	rc.FontScale = settings.Window.FontScale
	dev := gfx.NewRaster(fb, rc)

	eng, err := engine.New(engine.Options{
		Table:   cfg.Table,
		Device:  dev,
		Input:   h.Input(),
		Logger:  log,
		Config:  settings,
		Columns: cfg.Columns,
		Width:   fb.Width(),
		Height:  fb.Height(),
	})
	if err != nil {
		return nil, err
	}

	log.Info("fluxcore", "version", buildinfo.Short(), "width", fb.Width(), "height", fb.Height())
	return guard(h, log, eng.Step), nil
}

// newLogger writes text-formatted records through the HAL logger.
func newLogger(l hal.Logger, level slog.Leveler) *slog.Logger {
	return slog.New(slog.NewTextHandler(hal.LogWriter(l), &slog.HandlerOptions{Level: level}))
}
