package ui

import (
	"fmt"
	"image"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"LocalBoard/internal/state"
)

// Controls is what the toolbar needs from the engine.
type Controls interface {
	Undo() bool
	Redo() bool
	Clear() bool
	PenWidth() float32
	PenLimits() (minWidth, maxWidth float32)
	StepPenWidth(steps int) float32
	PenColor() uint32
	CyclePenColor() uint32
	Snapshot() *image.RGBA
	Extent() state.Rect
}

// colorSwatch shows the pen colour; tapping it switches to the next one.
type colorSwatch struct {
	widget.BaseWidget
	rect     *canvas.Rectangle
	OnTapped func()
}

func newColorSwatch(c color.Color, tapped func()) *colorSwatch {
	s := &colorSwatch{rect: canvas.NewRectangle(c), OnTapped: tapped}
	s.rect.SetMinSize(fyne.NewSize(32, 32))
	s.ExtendBaseWidget(s)
	return s
}

func (s *colorSwatch) SetColor(c color.Color) {
	s.rect.FillColor = c
	s.rect.Refresh()
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.Gray{Y: 150}
	border.StrokeWidth = 1
	return widget.NewSimpleRenderer(container.NewStack(s.rect, border))
}

func (s *colorSwatch) Tapped(_ *fyne.PointEvent) {
	if s.OnTapped != nil {
		s.OnTapped()
	}
}

// Toolbar holds the pen, history and export controls.
type Toolbar struct {
	ctrl   Controls
	status func(string)

	swatch *colorSwatch
	width  *widget.Label

	OnExport func()
}

func NewToolbar(ctrl Controls, status func(string)) *Toolbar {
	if status == nil {
		status = func(string) {}
	}
	t := &Toolbar{
		ctrl:   ctrl,
		status: status,
		width:  widget.NewLabel(""),
	}
	t.swatch = newColorSwatch(state.Unpack(ctrl.PenColor()), t.CycleColor)
	t.showWidth(ctrl.PenWidth())
	return t
}

func (t *Toolbar) Undo() {
	if !t.ctrl.Undo() {
		t.status("Nothing to undo")
		return
	}
	t.status("Undone")
}

func (t *Toolbar) Redo() {
	if !t.ctrl.Redo() {
		t.status("Nothing to redo")
		return
	}
	t.status("Redone")
}

func (t *Toolbar) Clear() {
	if t.ctrl.Clear() {
		t.status("Board cleared")
	}
}

func (t *Toolbar) Thinner() {
	minWidth, _ := t.ctrl.PenLimits()
	if t.ctrl.PenWidth() <= minWidth {
		t.status("Smallest size")
		return
	}
	t.showWidth(t.ctrl.StepPenWidth(-1))
}

func (t *Toolbar) Thicker() {
	_, maxWidth := t.ctrl.PenLimits()
	if t.ctrl.PenWidth() >= maxWidth {
		t.status("Largest size")
		return
	}
	t.showWidth(t.ctrl.StepPenWidth(1))
}

func (t *Toolbar) CycleColor() {
	t.swatch.SetColor(state.Unpack(t.ctrl.CyclePenColor()))
}

func (t *Toolbar) showWidth(w float32) {
	t.width.SetText(fmt.Sprintf("Size: %.0f", w))
}

func (t *Toolbar) export() {
	if t.OnExport != nil {
		t.OnExport()
	}
}

// Object lays the controls out in one row.
func (t *Toolbar) Object() fyne.CanvasObject {
	tb := widget.NewToolbar(
		widget.NewToolbarAction(theme.ContentUndoIcon(), t.Undo),
		widget.NewToolbarAction(theme.ContentRedoIcon(), t.Redo),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.ContentRemoveIcon(), t.Thinner),
		widget.NewToolbarAction(theme.ContentAddIcon(), t.Thicker),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.DeleteIcon(), t.Clear),
		widget.NewToolbarAction(theme.DocumentSaveIcon(), t.export),
	)
	return container.NewHBox(
		tb,
		widget.NewSeparator(),
		widget.NewLabel("Color:"),
		t.swatch,
		widget.NewSeparator(),
		t.width,
		layout.NewSpacer(),
	)
}
