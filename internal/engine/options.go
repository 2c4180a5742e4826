package engine

import (
	"log/slog"

	"LocalBoard/internal/prefs"
	"LocalBoard/internal/render"
	"LocalBoard/internal/state"
)

// Options configures an Engine. Zero fields take the defaults below.
type Options struct {
	Surface render.Surface
	Pen     *prefs.Pen

	Background uint32 // packed colour, default white

	MinWidth  float32 // default 10
	MaxWidth  float32 // default 30
	WidthStep float32 // default 1

	// Palette is cycled by CyclePenColor. Default red, green.
	Palette []uint32

	// MoveThreshold scales the pen width into the minimum distance a move
	// sample must travel before it extends the stroke. Default 2.
	MoveThreshold float32

	InkDots  bool
	InkStyle state.PenStyle

	Logger *slog.Logger
}

func (o *Options) applyDefaults() {
	if o.Background == 0 {
		o.Background = state.White
	}
	if o.MinWidth <= 0 {
		o.MinWidth = 10
	}
	if o.MaxWidth < o.MinWidth {
		o.MaxWidth = max(30, o.MinWidth)
	}
	if o.WidthStep <= 0 {
		o.WidthStep = 1
	}
	if len(o.Palette) == 0 {
		o.Palette = []uint32{state.Red, state.Green}
	}
	if o.MoveThreshold <= 0 {
		o.MoveThreshold = 2
	}
	if o.InkStyle.Width <= 0 {
		o.InkStyle.Width = 18
	}
	if o.InkStyle.Color == 0 {
		o.InkStyle.Color = state.Blue
	}
	if o.Pen == nil {
		o.Pen = prefs.NewPen(nil, state.PenStyle{Width: 12, Color: state.Red})
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
}
