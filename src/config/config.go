// Package config loads viewer settings from an optional YAML file and INTENSITYPLOT_* environment variables.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"gopkg.in/yaml.v3"

	"github.com/TjhVarga/Science-Extension-RFI-Project/src/analysis"
	"github.com/TjhVarga/Science-Extension-RFI-Project/src/render"
)

const envPrefix = "INTENSITYPLOT_"

// Device names understood by the viewer.
const (
	DeviceWindow = "window"
	DeviceNone   = "none"
)

// DefaultTitle is expanded with the input file name in place of {file}.
const DefaultTitle = "Mean Intensity Line Graph for Polarisation 1 and Polarisation 2 - {file}"

type Config struct {
	Device   string       `yaml:"device"`
	LogLevel string       `yaml:"log_level"`
	Title    string       `yaml:"title"`
	MaxTitle int          `yaml:"max_title_len"`
	Window   WindowConfig `yaml:"window"`
	Colors   ColorConfig  `yaml:"colors"`
	Ingest   IngestConfig `yaml:"ingest"`
	Hints    bool         `yaml:"show_hints"`
	Export   ExportConfig `yaml:"export"`
}

type WindowConfig struct {
	Width  int  `yaml:"width"`
	Height int  `yaml:"height"`
	Dark   bool `yaml:"dark_theme"`
}

// ColorConfig holds hex colors (with or without leading #).
type ColorConfig struct {
	P1         string `yaml:"p1"`
	P2         string `yaml:"p2"`
	Background string `yaml:"background"`
}

type IngestConfig struct {
	InitialBlocks int `yaml:"initial_blocks"`
	Headroom      int `yaml:"headroom"`
	MaxBlocks     int `yaml:"max_blocks"`
	MaxLineBytes  int `yaml:"max_line_bytes"`
}

type ExportConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Device:   DeviceWindow,
		LogLevel: "info",
		Title:    DefaultTitle,
		MaxTitle: 256,
		Window:   WindowConfig{Width: 1100, Height: 700},
		Colors:   ColorConfig{P1: "000000", P2: "ff00ff", Background: "ffffff"},
		Ingest: IngestConfig{
			InitialBlocks: analysis.DefaultInitialBlocks,
			Headroom:      analysis.DefaultHeadroom,
			MaxBlocks:     analysis.DefaultMaxBlocks,
			MaxLineBytes:  analysis.MaxLineBytes,
		},
		Hints:  true,
		Export: ExportConfig{Width: 1400, Height: 600},
	}
}

// Load reads path over the defaults (a missing path is an error only when path is non-empty),
// then applies environment overrides and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(envPrefix + name); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	num := func(name string, dst *int) error {
		v, ok := lookup(envPrefix + name)
		if !ok || strings.TrimSpace(v) == "" {
			return nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s%s: %w", envPrefix, name, err)
		}
		*dst = n
		return nil
	}
	str("DEVICE", &c.Device)
	str("LOG_LEVEL", &c.LogLevel)
	str("TITLE", &c.Title)
	str("COLOR_P1", &c.Colors.P1)
	str("COLOR_P2", &c.Colors.P2)
	if v, ok := lookup(envPrefix + "SHOW_HINTS"); ok {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%sSHOW_HINTS: %w", envPrefix, err)
		}
		c.Hints = b
	}
	for name, dst := range map[string]*int{
		"WINDOW_WIDTH":   &c.Window.Width,
		"WINDOW_HEIGHT":  &c.Window.Height,
		"MAX_BLOCKS":     &c.Ingest.MaxBlocks,
		"MAX_LINE_BYTES": &c.Ingest.MaxLineBytes,
		"HEADROOM":       &c.Ingest.Headroom,
	} {
		if err := num(name, dst); err != nil {
			return err
		}
	}
	return nil
}

// Validate rejects settings the pipeline cannot run with.
func (c Config) Validate() error {
	var errs *multierror.Error
	switch c.Device {
	case DeviceWindow, DeviceNone:
	default:
		errs = multierror.Append(errs, fmt.Errorf("device %q: want %q or %q", c.Device, DeviceWindow, DeviceNone))
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = multierror.Append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if c.Export.Width <= 0 || c.Export.Height <= 0 {
		errs = multierror.Append(errs, fmt.Errorf("export size %dx%d must be positive", c.Export.Width, c.Export.Height))
	}
	if c.Ingest.Headroom <= 0 {
		errs = multierror.Append(errs, fmt.Errorf("ingest.headroom %d must be positive", c.Ingest.Headroom))
	}
	if c.Ingest.MaxLineBytes <= 0 {
		errs = multierror.Append(errs, fmt.Errorf("ingest.max_line_bytes %d must be positive", c.Ingest.MaxLineBytes))
	}
	if c.Ingest.InitialBlocks < 0 || c.Ingest.MaxBlocks < 0 {
		errs = multierror.Append(errs, errors.New("ingest block counts must not be negative"))
	}
	if c.Ingest.MaxBlocks > analysis.MaxBlocksCeiling {
		errs = multierror.Append(errs, fmt.Errorf("ingest.max_blocks %d exceeds %d", c.Ingest.MaxBlocks, analysis.MaxBlocksCeiling))
	}
	if c.MaxTitle <= 0 {
		errs = multierror.Append(errs, fmt.Errorf("max_title_len %d must be positive", c.MaxTitle))
	}
	for _, col := range []struct{ name, hex string }{{"p1", c.Colors.P1}, {"p2", c.Colors.P2}, {"background", c.Colors.Background}} {
		if _, err := ParseColor(col.hex); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("colors.%s: %w", col.name, err))
		}
	}
	if err := errs.ErrorOrNil(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// AggregatorOptions translates the ingest section into aggregator options.
func (c Config) AggregatorOptions() []analysis.Option {
	return []analysis.Option{
		analysis.WithInitialBlocks(c.Ingest.InitialBlocks),
		analysis.WithHeadroom(c.Ingest.Headroom),
		analysis.WithMaxBlocks(c.Ingest.MaxBlocks),
	}
}

// Style resolves the color section into a render style. Invalid colors keep the defaults.
func (c Config) Style() render.Style {
	st := render.DefaultStyle()
	for _, col := range []struct {
		hex string
		dst *color.RGBA
	}{{c.Colors.P1, &st.P1}, {c.Colors.P2, &st.P2}, {c.Colors.Background, &st.Background}} {
		if rgba, err := ParseColor(col.hex); err == nil {
			*col.dst = rgba
		}
	}
	return st
}

// ParseColor accepts rrggbb or rgb hex, with or without #.
func ParseColor(hex string) (color.RGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(h) != 6 && len(h) != 3 {
		return color.RGBA{}, fmt.Errorf("color %q: want rgb or rrggbb hex", hex)
	}
	if _, err := strconv.ParseUint(h, 16, 32); err != nil {
		return color.RGBA{}, fmt.Errorf("color %q: %w", hex, err)
	}
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	c := drawing.ColorFromHex(h)
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff}, nil
}
