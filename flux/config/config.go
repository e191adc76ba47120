// Package config holds the viewer settings: window, view constants, optional
// features and runtime pacing. Files are YAML (.yaml, .yml) or TOML (.toml).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

var ErrFormat = errors.New("config: unsupported file format")

type Config struct {
	Window   WindowConfig   `yaml:"window" toml:"window"`
	View     ViewConfig     `yaml:"view" toml:"view"`
	Features FeaturesConfig `yaml:"features" toml:"features"`
	Runtime  RuntimeConfig  `yaml:"runtime" toml:"runtime"`
}

type WindowConfig struct {
	Width     int `yaml:"width" toml:"width"`
	Height    int `yaml:"height" toml:"height"`
	FontScale int `yaml:"font_scale" toml:"font_scale"`
}

// ViewConfig carries the layout constants and interaction steps.
type ViewConfig struct {
	// Dimensions is 2 or 3.
	Dimensions int `yaml:"dimensions" toml:"dimensions"`

	Margin       float32 `yaml:"margin" toml:"margin"`
	TickDistance int     `yaml:"tick_distance" toml:"tick_distance"`
	LabelMargin  float32 `yaml:"label_margin" toml:"label_margin"`
	InfoMargin   float32 `yaml:"info_margin" toml:"info_margin"`
	TickLength   float32 `yaml:"tick_length" toml:"tick_length"`
	TickWidth    float32 `yaml:"tick_width" toml:"tick_width"`

	PointSize       float32 `yaml:"point_size" toml:"point_size"`
	PointSizeFactor float32 `yaml:"point_size_factor" toml:"point_size_factor"`
	Opacity         float32 `yaml:"opacity" toml:"opacity"`
	OpacityStep     float32 `yaml:"opacity_step" toml:"opacity_step"`
	DepthZoom       float32 `yaml:"depth_zoom" toml:"depth_zoom"`
	DepthPanStep    float32 `yaml:"depth_pan_step" toml:"depth_pan_step"`
}

type FeaturesConfig struct {
	Legend  bool `yaml:"legend" toml:"legend"`
	Blend   bool `yaml:"blend" toml:"blend"`
	Help    bool `yaml:"help" toml:"help"`
	Readout bool `yaml:"readout" toml:"readout"`
}

type RuntimeConfig struct {
	// Idle is the pause after a frame with nothing to draw.
	Idle     Duration `yaml:"idle" toml:"idle"`
	Headless bool     `yaml:"headless" toml:"headless"`
	Ticks    uint64   `yaml:"ticks" toml:"ticks"`
	Snapshot string   `yaml:"snapshot" toml:"snapshot"`
}

func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Width:     800,
			Height:    600,
			FontScale: 2,
		},
		View: ViewConfig{
			Dimensions:      2,
			Margin:          130,
			TickDistance:    60,
			LabelMargin:     50,
			InfoMargin:      2,
			TickLength:      6,
			TickWidth:       0.5,
			PointSize:       4,
			PointSizeFactor: 1.5,
			Opacity:         1,
			OpacityStep:     0.02,
			DepthZoom:       1.05,
			DepthPanStep:    0.05,
		},
		Features: FeaturesConfig{
			Legend:  true,
			Blend:   true,
			Help:    true,
			Readout: true,
		},
		Runtime: RuntimeConfig{
			Idle: Duration(20 * time.Millisecond),
		},
	}
}

// Load reads path over the defaults, so a file only needs the keys it
// changes.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault returns the defaults when path is empty or missing.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return Load(path)
}

// Save writes the config in the format named by the extension.
func (c *Config) Save(path string) error {
	var (
		data []byte
		err  error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	case ".toml":
		data, err = toml.Marshal(c)
	default:
		return fmt.Errorf("%w: %q", ErrFormat, ext)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if c.Window.FontScale < 1 {
		errs = append(errs, fmt.Errorf("font_scale %d must be at least 1", c.Window.FontScale))
	}

	v := c.View
	if v.Dimensions != 2 && v.Dimensions != 3 {
		errs = append(errs, fmt.Errorf("dimensions %d must be 2 or 3", v.Dimensions))
	}
	if v.Margin < 0 {
		errs = append(errs, fmt.Errorf("margin %v must not be negative", v.Margin))
	}
	if w, h := float32(c.Window.Width), float32(c.Window.Height); w > 0 && h > 0 && (w <= 2*v.Margin || h <= 2*v.Margin) {
		errs = append(errs, fmt.Errorf("window size %dx%d leaves no room inside margin %v", c.Window.Width, c.Window.Height, v.Margin))
	}
	if v.TickDistance <= 0 {
		errs = append(errs, fmt.Errorf("tick_distance %d must be positive", v.TickDistance))
	}
	if v.PointSize < 1 {
		errs = append(errs, fmt.Errorf("point_size %v must be at least 1", v.PointSize))
	}
	if v.PointSizeFactor <= 1 {
		errs = append(errs, fmt.Errorf("point_size_factor %v must exceed 1", v.PointSizeFactor))
	}
	if v.Opacity < 0 || v.Opacity > 1 {
		errs = append(errs, fmt.Errorf("opacity %v must be in [0, 1]", v.Opacity))
	}
	if v.OpacityStep <= 0 {
		errs = append(errs, fmt.Errorf("opacity_step %v must be positive", v.OpacityStep))
	}
	if v.DepthZoom <= 1 {
		errs = append(errs, fmt.Errorf("depth_zoom %v must exceed 1", v.DepthZoom))
	}
	if v.DepthPanStep <= 0 {
		errs = append(errs, fmt.Errorf("depth_pan_step %v must be positive", v.DepthPanStep))
	}

	if c.Runtime.Idle < 0 {
		errs = append(errs, fmt.Errorf("idle %v must not be negative", c.Runtime.Idle))
	}
	return errors.Join(errs...)
}

// Duration is a time.Duration written as "20ms" in config files.
type Duration time.Duration

func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d Duration) String() string { return time.Duration(d).String() }

func (d Duration) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalYAML() (any, error) { return d.String(), nil }

func (d *Duration) UnmarshalYAML(n *yaml.Node) error {
	return d.UnmarshalText([]byte(n.Value))
}
