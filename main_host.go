package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"
	"unicode/utf8"

	"fluxcore/app"
	"fluxcore/flux/config"
	"fluxcore/flux/loader"
	"fluxcore/hal"
	"fluxcore/internal/buildinfo"

	"golang.org/x/term"
)

const usage = `Usage: fluxcore [flags] FILE [X [Y [Z]]]

Shows the columns of a delimited text file as an interactive scatter plot.
X, Y and Z name the columns on each axis; by default the first columns in
sorted order are used.

Flags:
`

func main() {
	if err := run(); err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	var (
		separator   string
		configPath  string
		writeConfig string
		threeD      bool
		verbose     bool
		version     bool
		idle        time.Duration
		rt          config.RuntimeConfig
	)
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.StringVar(&separator, "separator", ",", "Field separator, a single character.")
	flag.StringVar(&configPath, "config", "", "Read settings from a YAML or TOML file.")
	flag.StringVar(&writeConfig, "write-config", "", "Write the effective settings to a YAML or TOML file and exit.")
	flag.BoolVar(&threeD, "3d", false, "Map a third column to depth.")
	flag.BoolVar(&rt.Headless, "headless", false, "Run without a window.")
	flag.DurationVar(&idle, "idle", 0, "Pause after a step with nothing to draw in headless mode.")
	flag.Uint64Var(&rt.Ticks, "ticks", 0, "Stop after N steps in headless mode (0 = run until quit).")
	flag.StringVar(&rt.Snapshot, "snapshot", "", "Write the last headless frame to a .png, .tif or .bmp file.")
	flag.BoolVar(&verbose, "v", false, "Log debug records.")
	flag.BoolVar(&version, "version", false, "Print the version and exit.")
	flag.Parse()

	if version {
		fmt.Println(buildinfo.String())
		return nil
	}

	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return err
	}
	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if threeD {
		cfg.View.Dimensions = 3
	}
	if set["headless"] {
		cfg.Runtime.Headless = rt.Headless
	}
	if set["idle"] {
		cfg.Runtime.Idle = config.Duration(idle)
	}
	if set["ticks"] {
		cfg.Runtime.Ticks = rt.Ticks
	}
	if set["snapshot"] {
		cfg.Runtime.Snapshot = rt.Snapshot
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if writeConfig != "" {
		return cfg.Save(writeConfig)
	}

	args := flag.Args()
	if len(args) < 1 || len(args) > 1+cfg.View.Dimensions {
		flag.Usage()
		return fmt.Errorf("expected FILE and up to %d column names", cfg.View.Dimensions)
	}
	sep, size := utf8.DecodeRuneInString(separator)
	if sep == utf8.RuneError || size != len(separator) {
		return fmt.Errorf("separator %q must be a single character", separator)
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	tbl, err := loader.Load(args[0], loader.Options{
		Separator: sep,
		Progress:  progress(),
	})
	if err != nil {
		return err
	}

	newApp := app.New(app.Config{
		Settings: cfg,
		Table:    tbl,
		Columns:  args[1:],
		LogLevel: level,
	})

	if cfg.Runtime.Headless {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		return hal.RunHeadless(ctx, hal.HeadlessConfig{
			Width:    cfg.Window.Width,
			Height:   cfg.Window.Height,
			Ticks:    cfg.Runtime.Ticks,
			Idle:     cfg.Runtime.Idle.Std(),
			Snapshot: cfg.Runtime.Snapshot,
		}, newApp)
	}

	return hal.RunWindow(hal.WindowConfig{
		Title:  "fluxcore - " + tbl.Name(),
		Width:  cfg.Window.Width,
		Height: cfg.Window.Height,
	}, newApp)
}

// progress reports parsed rows on a terminal, overwriting one line.
func progress() func(rows int, done bool) {
	if !term.IsTerminal(int(os.Stderr.Fd())) {
		return nil
	}
	return func(rows int, done bool) {
		fmt.Fprintf(os.Stderr, "\rParsed %d lines", rows)
		if done {
			fmt.Fprintln(os.Stderr)
		}
	}
}
