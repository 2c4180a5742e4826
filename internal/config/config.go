package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/lucasb-eyer/go-colorful"

	"LocalBoard/internal/state"
)

type Config struct {
	Background string       `koanf:"background"` // hex, e.g. "#ffffff"
	Pen        PenConfig    `koanf:"pen"`
	Input      InputConfig  `koanf:"input"`
	Ink        InkConfig    `koanf:"ink"`
	Mirror     MirrorConfig `koanf:"mirror"`
	Log        LogConfig    `koanf:"log"`
}

// PenConfig holds the pen used when no preference is stored, and its limits.
type PenConfig struct {
	DefaultWidth float32  `koanf:"default_width"` // default: 12
	MinWidth     float32  `koanf:"min_width"`     // default: 10
	MaxWidth     float32  `koanf:"max_width"`     // default: 30
	WidthStep    float32  `koanf:"width_step"`    // default: 1
	DefaultColor string   `koanf:"default_color"` // default: "#ff0000"
	Palette      []string `koanf:"palette"`       // colours cycled by the colour button
}

type InputConfig struct {
	// Move samples closer than MoveThreshold * pen width to the previous
	// accepted sample are ignored (default: 2).
	MoveThreshold float32 `koanf:"move_threshold"`
}

// InkConfig controls the dots shown under raw touch samples.
type InkConfig struct {
	Enabled *bool   `koanf:"enabled"` // default: true
	Width   float32 `koanf:"width"`   // default: 18
	Color   string  `koanf:"color"`   // default: "#0000ff"
}

// MirrorConfig enables the read-only frame mirror.
type MirrorConfig struct {
	Enabled   bool  `koanf:"enabled"`
	Port      int   `koanf:"port"`      // default: 8888
	Advertise *bool `koanf:"advertise"` // announce over mDNS (default: true)
}

type LogConfig struct {
	Level string `koanf:"level"` // debug, info, warn, error (default: info)
}

const (
	defaultBackground   = "#ffffff"
	defaultPenColor     = "#ff0000"
	defaultInkColor     = "#0000ff"
	defaultPenWidth     = 12
	defaultMinWidth     = 10
	defaultMaxWidth     = 30
	defaultWidthStep    = 1
	defaultThreshold    = 2
	defaultInkWidth     = 18
	defaultMirrorPort   = 8888
	maxSupportedPenSize = 200
)

var defaultPalette = []string{"#ff0000", "#00ff00"}

// Load reads the config files in priority order. Missing files are skipped.
func Load() (*Config, error) {
	return LoadFiles(getConfigPaths()...)
}

// LoadFiles reads the given files in order; later files win.
func LoadFiles(paths ...string) (*Config, error) {
	k := koanf.New(".")

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, fmt.Errorf("config %s: %w", path, err)
			}
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	cfg.Background = strings.TrimSpace(cfg.Background)
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))

	return cfg, nil
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. ~/.config/localboard/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "localboard", "config.toml"))
	}

	// 2. ./config.toml (pwd, highest priority)
	paths = append(paths, "config.toml")

	return paths
}

// ParseColor parses a "#rrggbb" string into a packed opaque colour.
func ParseColor(s string) (uint32, error) {
	c, err := colorful.Hex(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("colour %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return uint32(r)<<24 | uint32(g)<<16 | uint32(b)<<8 | 0xff, nil
}

func colorOr(s, fallback string) uint32 {
	if v, err := ParseColor(s); err == nil {
		return v
	}
	v, _ := ParseColor(fallback)
	return v
}

// BackgroundColor returns the board colour with defaults applied.
func (c *Config) BackgroundColor() uint32 {
	return colorOr(c.Background, defaultBackground)
}

// PenLimits returns the width bounds and step with defaults applied.
func (c *Config) PenLimits() (minWidth, maxWidth, step float32) {
	minWidth, maxWidth, step = c.Pen.MinWidth, c.Pen.MaxWidth, c.Pen.WidthStep
	if minWidth <= 0 || minWidth > maxSupportedPenSize {
		minWidth = defaultMinWidth
	}
	if maxWidth < minWidth || maxWidth > maxSupportedPenSize {
		maxWidth = max(defaultMaxWidth, minWidth)
	}
	if step <= 0 {
		step = defaultWidthStep
	}
	return minWidth, maxWidth, step
}

// PenDefaults returns the pen used when nothing is stored in preferences.
func (c *Config) PenDefaults() state.PenStyle {
	minWidth, maxWidth, _ := c.PenLimits()
	w := c.Pen.DefaultWidth
	if w <= 0 {
		w = defaultPenWidth
	}
	w = min(max(w, minWidth), maxWidth)
	return state.PenStyle{Width: w, Color: colorOr(c.Pen.DefaultColor, defaultPenColor)}
}

// Palette returns the colours cycled by the colour button. Entries that do
// not parse are skipped.
func (c *Config) Palette() []uint32 {
	src := c.Pen.Palette
	if len(src) == 0 {
		src = defaultPalette
	}
	out := make([]uint32, 0, len(src))
	for _, s := range src {
		if v, err := ParseColor(s); err == nil {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return []uint32{state.Red, state.Green}
	}
	return out
}

func (c *Config) MoveThreshold() float32 {
	if c.Input.MoveThreshold <= 0 {
		return defaultThreshold
	}
	return c.Input.MoveThreshold
}

// InkStyle reports whether ink dots are shown and how they look.
func (c *Config) InkStyle() (bool, state.PenStyle) {
	enabled := c.Ink.Enabled == nil || *c.Ink.Enabled
	w := c.Ink.Width
	if w <= 0 {
		w = defaultInkWidth
	}
	return enabled, state.PenStyle{Width: w, Color: colorOr(c.Ink.Color, defaultInkColor)}
}

// MirrorPort returns the mirror listen port with defaults applied.
func (c *Config) MirrorPort() int {
	if c.Mirror.Port <= 0 || c.Mirror.Port > 65535 {
		return defaultMirrorPort
	}
	return c.Mirror.Port
}

// AdvertiseMirror reports whether the mirror is announced over mDNS.
func (c *Config) AdvertiseMirror() bool {
	return c.Mirror.Advertise == nil || *c.Mirror.Advertise
}

// LogLevel maps the configured level name onto slog.
func (c *Config) LogLevel() slog.Level {
	switch c.Log.Level {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
