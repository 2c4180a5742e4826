package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LocalBoard/internal/state"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefaultsWithoutFiles(t *testing.T) {
	cfg, err := LoadFiles(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)

	assert.Equal(t, state.White, cfg.BackgroundColor())
	assert.Equal(t, state.PenStyle{Width: 12, Color: state.Red}, cfg.PenDefaults())
	minW, maxW, step := cfg.PenLimits()
	assert.Equal(t, float32(10), minW)
	assert.Equal(t, float32(30), maxW)
	assert.Equal(t, float32(1), step)
	assert.Equal(t, []uint32{state.Red, state.Green}, cfg.Palette())
	assert.Equal(t, float32(2), cfg.MoveThreshold())

	enabled, ink := cfg.InkStyle()
	assert.True(t, enabled)
	assert.Equal(t, state.PenStyle{Width: 18, Color: state.Blue}, ink)

	assert.False(t, cfg.Mirror.Enabled)
	assert.Equal(t, 8888, cfg.MirrorPort())
	assert.True(t, cfg.AdvertiseMirror())
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel())
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, `
background = "#000000"

[pen]
default_width = 15
min_width = 5
max_width = 40
width_step = 2
default_color = "#00ff00"
palette = ["#0000ff", "not-a-colour", "#ffffff"]

[input]
move_threshold = 1.5

[ink]
enabled = false
width = 6
color = "#ff0000"

[mirror]
enabled = true
port = 9000
advertise = false

[log]
level = "DEBUG"
`)
	cfg, err := LoadFiles(path)
	require.NoError(t, err)

	assert.Equal(t, state.Black, cfg.BackgroundColor())
	assert.Equal(t, state.PenStyle{Width: 15, Color: state.Green}, cfg.PenDefaults())
	minW, maxW, step := cfg.PenLimits()
	assert.Equal(t, float32(5), minW)
	assert.Equal(t, float32(40), maxW)
	assert.Equal(t, float32(2), step)
	assert.Equal(t, []uint32{state.Blue, state.White}, cfg.Palette())
	assert.Equal(t, float32(1.5), cfg.MoveThreshold())

	enabled, ink := cfg.InkStyle()
	assert.False(t, enabled)
	assert.Equal(t, state.PenStyle{Width: 6, Color: state.Red}, ink)

	assert.True(t, cfg.Mirror.Enabled)
	assert.Equal(t, 9000, cfg.MirrorPort())
	assert.False(t, cfg.AdvertiseMirror())
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel())
}

func TestLaterFilesWin(t *testing.T) {
	first := writeConfig(t, "background = \"#000000\"\n[pen]\ndefault_width = 20\n")
	second := writeConfig(t, "background = \"#ffffff\"\n")

	cfg, err := LoadFiles(first, second)
	require.NoError(t, err)
	assert.Equal(t, state.White, cfg.BackgroundColor())
	assert.Equal(t, float32(20), cfg.PenDefaults().Width)
}

func TestDefaultWidthClampedToLimits(t *testing.T) {
	cfg, err := LoadFiles(writeConfig(t, "[pen]\ndefault_width = 99\n"))
	require.NoError(t, err)
	assert.Equal(t, float32(30), cfg.PenDefaults().Width)
}

func TestInvalidFile(t *testing.T) {
	_, err := LoadFiles(writeConfig(t, "background = [\n"))
	assert.Error(t, err)
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    uint32
		wantErr bool
	}{
		{in: "#ff0000", want: state.Red},
		{in: " #00ff00 ", want: state.Green},
		{in: "#123456", want: 0x123456ff},
		{in: "red", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetConfigPaths(t *testing.T) {
	paths := getConfigPaths()
	require.NotEmpty(t, paths)
	assert.Equal(t, "config.toml", paths[len(paths)-1])
}
