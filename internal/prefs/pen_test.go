package prefs

import (
	"testing"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"

	"LocalBoard/internal/state"
)

var defaults = state.PenStyle{Width: 12, Color: state.Red}

func TestLoadFallsBackToDefaults(t *testing.T) {
	a := test.NewTempApp(t)
	p := NewPen(a.Preferences(), defaults)
	assert.Equal(t, defaults, p.Load())
}

func TestSaveThenLoad(t *testing.T) {
	a := test.NewTempApp(t)
	p := NewPen(a.Preferences(), defaults)

	p.SaveWidth(21)
	p.SaveColor(state.Green)

	reloaded := NewPen(a.Preferences(), defaults)
	assert.Equal(t, state.PenStyle{Width: 21, Color: state.Green}, reloaded.Load())
	assert.Equal(t, 21.0, a.Preferences().Float(KeyStrokeWidth))
}

func TestNilStore(t *testing.T) {
	p := NewPen(nil, defaults)
	p.SaveWidth(30)
	p.SaveColor(state.Blue)
	assert.Equal(t, defaults, p.Load())
}
