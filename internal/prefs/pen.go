// Package prefs persists the current pen between runs.
package prefs

import (
	"LocalBoard/internal/state"
)

// Keys used in the preference store.
const (
	KeyStrokeWidth = "STROKE_WIDTH"
	KeyColor       = "COLOR"
)

// Store is the narrow key-value interface the pen needs. fyne.Preferences
// satisfies it.
type Store interface {
	FloatWithFallback(key string, fallback float64) float64
	SetFloat(key string, value float64)
	IntWithFallback(key string, fallback int) int
	SetInt(key string, value int)
}

// Pen reads and writes the pen style through a Store. A nil store keeps
// nothing and always loads the defaults.
type Pen struct {
	store    Store
	defaults state.PenStyle
}

func NewPen(store Store, defaults state.PenStyle) *Pen {
	return &Pen{store: store, defaults: defaults}
}

// Load returns the stored pen, falling back to the defaults per field.
func (p *Pen) Load() state.PenStyle {
	if p.store == nil {
		return p.defaults
	}
	return state.PenStyle{
		Width: float32(p.store.FloatWithFallback(KeyStrokeWidth, float64(p.defaults.Width))),
		Color: uint32(p.store.IntWithFallback(KeyColor, int(p.defaults.Color))),
	}
}

func (p *Pen) SaveWidth(w float32) {
	if p.store != nil {
		p.store.SetFloat(KeyStrokeWidth, float64(w))
	}
}

func (p *Pen) SaveColor(c uint32) {
	if p.store != nil {
		p.store.SetInt(KeyColor, int(c))
	}
}

