package ui

import (
	"bytes"
	"image"
	"image/png"
	"sync"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LocalBoard/internal/engine"
	"LocalBoard/internal/export"
	"LocalBoard/internal/state"
)

type recorder struct {
	mu        sync.Mutex
	events    []engine.PointerEvent
	sizes     [][2]int
	destroyed int
}

func (r *recorder) OnPointerEvent(ev engine.PointerEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) SurfaceResized(w, h int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sizes = append(r.sizes, [2]int{w, h})
	return nil
}

func (r *recorder) SurfaceDestroyed() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.destroyed++
}

func (r *recorder) phases() []engine.Phase {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []engine.Phase
	for _, ev := range r.events {
		out = append(out, ev.Phase)
	}
	return out
}

func mouse(x, y float32, button desktop.MouseButton) *desktop.MouseEvent {
	e := &desktop.MouseEvent{Button: button}
	e.Position = fyne.NewPos(x, y)
	return e
}

func drag(x, y, dx, dy float32) *fyne.DragEvent {
	e := &fyne.DragEvent{Dragged: fyne.NewDelta(dx, dy)}
	e.Position = fyne.NewPos(x, y)
	return e
}

func TestBoardReportsSizeOnBind(t *testing.T) {
	test.NewTempApp(t)
	b := NewBoardWidget(nil)
	w, h := b.Surface().Size()
	assert.Zero(t, w)
	assert.Zero(t, h)
	assert.Nil(t, b.Surface().Acquire())

	test.WidgetRenderer(b).Layout(fyne.NewSize(120, 80))
	rec := &recorder{}
	b.Bind(rec)

	assert.Equal(t, [][2]int{{120, 80}}, rec.sizes)
	w, h = b.Surface().Size()
	assert.Equal(t, 120, w)
	assert.Equal(t, 80, h)
}

func TestBoardFramesRotate(t *testing.T) {
	test.NewTempApp(t)
	b := NewBoardWidget(nil)
	test.WidgetRenderer(b).Layout(fyne.NewSize(40, 30))
	s := b.Surface()

	first := s.Acquire()
	require.NotNil(t, first)
	assert.Equal(t, image.Rect(0, 0, 40, 30), first.Bounds())
	s.Present(first)
	assert.Same(t, first, s.generate(40, 30))

	second := s.Acquire()
	require.NotNil(t, second)
	assert.NotSame(t, first, second)
	s.Present(second)

	// first is still displayed until the next paint picks up second
	third := s.Acquire()
	require.NotNil(t, third)
	assert.NotSame(t, first, third)
	assert.NotSame(t, second, third)

	assert.Same(t, second, s.generate(40, 30))
	assert.Same(t, first, s.Acquire())
}

func TestBoardBlankBeforeFirstFrame(t *testing.T) {
	test.NewTempApp(t)
	img := NewBoardWidget(nil).Surface().generate(10, 10)
	r, g, bl, a := img.At(5, 5).RGBA()
	assert.Equal(t, []uint32{0xffff, 0xffff, 0xffff, 0xffff}, []uint32{r, g, bl, a})
}

func TestBoardMouseStroke(t *testing.T) {
	test.NewTempApp(t)
	b := NewBoardWidget(nil)
	rec := &recorder{}
	b.Bind(rec)

	b.MouseDown(mouse(10, 10, desktop.MouseButtonPrimary))
	b.Dragged(drag(30, 10, 20, 0))
	b.MouseUp(mouse(30, 10, desktop.MouseButtonPrimary))
	b.DragEnd()

	assert.Equal(t, []engine.Phase{engine.PointerDown, engine.PointerMove, engine.PointerUp}, rec.phases())
	assert.Equal(t, float32(30), rec.events[1].X)
	assert.False(t, rec.events[0].Time.IsZero())
}

func TestBoardSecondaryButtonIgnored(t *testing.T) {
	test.NewTempApp(t)
	b := NewBoardWidget(nil)
	rec := &recorder{}
	b.Bind(rec)

	b.MouseDown(mouse(10, 10, desktop.MouseButtonSecondary))
	b.MouseUp(mouse(10, 10, desktop.MouseButtonSecondary))
	assert.Empty(t, rec.phases())
}

func TestBoardDragWithoutMouseDown(t *testing.T) {
	test.NewTempApp(t)
	b := NewBoardWidget(nil)
	rec := &recorder{}
	b.Bind(rec)

	b.Dragged(drag(50, 40, 10, 5))
	b.Dragged(drag(70, 40, 20, 0))
	b.DragEnd()

	require.Equal(t, []engine.Phase{engine.PointerDown, engine.PointerMove, engine.PointerMove, engine.PointerUp}, rec.phases())
	assert.Equal(t, engine.PointerEvent{Phase: engine.PointerDown, X: 40, Y: 35, Time: rec.events[0].Time}, rec.events[0])
	assert.Equal(t, float32(70), rec.events[3].X)
}

func TestBoardDestroy(t *testing.T) {
	test.NewTempApp(t)
	b := NewBoardWidget(nil)
	r := test.WidgetRenderer(b)
	r.Layout(fyne.NewSize(50, 50))
	rec := &recorder{}
	b.Bind(rec)

	r.Destroy()
	assert.Equal(t, 1, rec.destroyed)
	assert.Nil(t, b.Surface().Acquire())
}

type fakeControls struct {
	width   float32
	color   uint32
	undos   int
	cleared bool
	snap    *image.RGBA
}

func (f *fakeControls) Undo() bool {
	if f.undos == 0 {
		return false
	}
	f.undos--
	return true
}

func (f *fakeControls) Redo() bool { return false }

func (f *fakeControls) Clear() bool {
	f.cleared = true
	return true
}

func (f *fakeControls) PenWidth() float32 { return f.width }

func (f *fakeControls) PenLimits() (float32, float32) { return 10, 13 }

func (f *fakeControls) StepPenWidth(steps int) float32 {
	f.width += float32(steps)
	return f.width
}

func (f *fakeControls) PenColor() uint32 { return f.color }
func (f *fakeControls) CyclePenColor() uint32 {
	if f.color == state.Red {
		f.color = state.Green
	} else {
		f.color = state.Red
	}
	return f.color
}

func (f *fakeControls) Snapshot() *image.RGBA { return f.snap }

func (f *fakeControls) Extent() state.Rect { return state.Rect{} }

func TestToolbarActions(t *testing.T) {
	test.NewTempApp(t)
	ctrl := &fakeControls{width: 12, color: state.Red, undos: 1}
	var status []string
	tb := NewToolbar(ctrl, func(s string) { status = append(status, s) })
	assert.NotNil(t, tb.Object())
	assert.Equal(t, "Size: 12", tb.width.Text)

	tb.Thicker()
	assert.Equal(t, "Size: 13", tb.width.Text)
	tb.Thicker()
	assert.Equal(t, "Size: 13", tb.width.Text)
	assert.Equal(t, float32(13), ctrl.width)
	tb.Thinner()
	tb.Thinner()
	assert.Equal(t, "Size: 11", tb.width.Text)

	tb.CycleColor()
	assert.Equal(t, state.Unpack(state.Green), tb.swatch.rect.FillColor)

	tb.Undo()
	tb.Undo()
	tb.Redo()
	tb.Clear()
	assert.True(t, ctrl.cleared)
	assert.Equal(t, []string{"Largest size", "Undone", "Nothing to undo", "Nothing to redo", "Board cleared"}, status)

	exported := false
	tb.OnExport = func() { exported = true }
	tb.export()
	assert.True(t, exported)
}

func TestWriteExport(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 4))

	var pdf bytes.Buffer
	require.NoError(t, writeExport(&pdf, ".PDF", img))
	assert.True(t, bytes.HasPrefix(pdf.Bytes(), []byte("%PDF-")))

	var out bytes.Buffer
	require.NoError(t, writeExport(&out, ".png", img))
	decoded, err := png.Decode(&out)
	require.NoError(t, err)
	assert.Equal(t, img.Bounds(), decoded.Bounds())

	assert.ErrorIs(t, writeExport(&out, ".png", nil), export.ErrEmptyBoard)
}
