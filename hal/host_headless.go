package hal

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"
)

// HeadlessConfig controls the no-window host runner.
type HeadlessConfig struct {
	Width  int
	Height int

	// Ticks stops the runner after that many steps; 0 runs until the
	// context is done or the application terminates.
	Ticks uint64

	// Idle is how long to pause after a step that drew nothing.
	Idle time.Duration

	// Events are queued before the first step.
	Events []Event

	// Snapshot, if set, receives the last frame on exit.
	Snapshot string
}

// RunHeadless runs the application against an offscreen framebuffer.
func RunHeadless(ctx context.Context, cfg HeadlessConfig, newApp AppFactory) error {
	h := newHost(cfg.Width, cfg.Height, os.Stdout)
	return runHeadless(ctx, h, cfg, newApp)
}

func runHeadless(ctx context.Context, h *hostHAL, cfg HeadlessConfig, newApp AppFactory) error {
	if cfg.Idle < 0 {
		return fmt.Errorf("invalid headless idle: %v", cfg.Idle)
	}
	step, err := newApp(h)
	if err != nil {
		return err
	}
	for _, ev := range cfg.Events {
		h.in.push(ev)
	}

	err = loop(ctx, step, cfg)
	if cfg.Snapshot != "" {
		if serr := WriteSnapshot(cfg.Snapshot, h.fb.snapshot(nil)); serr != nil && err == nil {
			err = serr
		}
	}
	return err
}

func loop(ctx context.Context, step Step, cfg HeadlessConfig) error {
	var tick uint64
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		drawn, err := step()
		if errors.Is(err, ErrTerminated) {
			return nil
		}
		if err != nil {
			return err
		}

		tick++
		if cfg.Ticks > 0 && tick >= cfg.Ticks {
			return nil
		}

		if !drawn && cfg.Idle > 0 {
			t := time.NewTimer(cfg.Idle)
			select {
			case <-ctx.Done():
				t.Stop()
				return ctx.Err()
			case <-t.C:
			}
		}
	}
}
