package ui

import (
	"image"
	"image/draw"
	"log/slog"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"LocalBoard/internal/engine"
	"LocalBoard/internal/render"
)

// Input is the part of the engine the board widget drives.
type Input interface {
	OnPointerEvent(engine.PointerEvent)
	SurfaceResized(w, h int) error
	SurfaceDestroyed()
}

// FrameSurface presents the engine's frames in a canvas.Raster.
//
// Frames rotate through three images: the one the engine draws into, the
// newest presented one, and the one fyne last picked up for painting. The
// engine never draws into an image fyne may still be reading.
type FrameSurface struct {
	mu        sync.Mutex
	width     int
	height    int
	frames    [3]*image.RGBA
	front     *image.RGBA // newest presented frame
	displayed *image.RGBA // frame handed to fyne

	raster *canvas.Raster
}

var _ render.Surface = (*FrameSurface)(nil)

func newFrameSurface() *FrameSurface {
	s := &FrameSurface{}
	s.raster = canvas.NewRaster(s.generate)
	return s
}

// Size returns the surface size in pixels.
func (s *FrameSurface) Size() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width, s.height
}

// Acquire returns an image that is neither the newest frame nor the one being
// painted, or nil while the surface has no size.
func (s *FrameSurface) Acquire() draw.Image {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.width <= 0 || s.height <= 0 {
		return nil
	}
	for i, f := range s.frames {
		if f != nil && (f == s.front || f == s.displayed) {
			continue
		}
		if f == nil || f.Rect.Dx() != s.width || f.Rect.Dy() != s.height {
			f = image.NewRGBA(image.Rect(0, 0, s.width, s.height))
			s.frames[i] = f
		}
		return f
	}
	return nil
}

// Present makes frame the newest one and asks fyne to repaint.
func (s *FrameSurface) Present(frame draw.Image) {
	img, ok := frame.(*image.RGBA)
	if !ok {
		return
	}
	s.mu.Lock()
	s.front = img
	s.mu.Unlock()
	fyne.Do(s.raster.Refresh)
}

// generate runs on the fyne paint thread.
func (s *FrameSurface) generate(w, h int) image.Image {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.front == nil {
		blank := image.NewRGBA(image.Rect(0, 0, max(w, 1), max(h, 1)))
		draw.Draw(blank, blank.Rect, image.White, image.Point{}, draw.Src)
		return blank
	}
	s.displayed = s.front
	return s.displayed
}

func (s *FrameSurface) resize(w, h int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if w == s.width && h == s.height {
		return
	}
	s.width, s.height = w, h
	s.front, s.displayed = nil, nil
}

func (s *FrameSurface) release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width, s.height = 0, 0
	s.front, s.displayed = nil, nil
	s.frames = [3]*image.RGBA{}
}

// BoardWidget is the drawing area. It turns mouse and drag events into
// pointer events and shows its FrameSurface.
type BoardWidget struct {
	widget.BaseWidget

	mu      sync.Mutex
	input   Input
	surface *FrameSurface
	drawing bool
	last    fyne.Position

	statusBar *widget.Label
	log       *slog.Logger
}

var _ fyne.Widget = (*BoardWidget)(nil)
var _ fyne.Draggable = (*BoardWidget)(nil)
var _ desktop.Mouseable = (*BoardWidget)(nil)

func NewBoardWidget(log *slog.Logger) *BoardWidget {
	if log == nil {
		log = slog.Default()
	}
	b := &BoardWidget{
		surface:   newFrameSurface(),
		statusBar: widget.NewLabel("Ready"),
		log:       log,
	}
	b.ExtendBaseWidget(b)
	return b
}

// Surface is where the engine presents frames.
func (b *BoardWidget) Surface() *FrameSurface {
	return b.surface
}

// Bind connects the widget to the engine. If the widget already has a size
// the surface is reported available straight away.
func (b *BoardWidget) Bind(in Input) {
	b.mu.Lock()
	b.input = in
	b.mu.Unlock()
	if w, h := b.surface.Size(); w > 0 && h > 0 {
		b.resized(w, h)
	}
}

func (b *BoardWidget) StatusBar() *widget.Label {
	return b.statusBar
}

// SetStatus is safe to call from any goroutine.
func (b *BoardWidget) SetStatus(text string) {
	fyne.Do(func() {
		b.statusBar.SetText(text)
	})
}

func (b *BoardWidget) resized(w, h int) {
	b.surface.resize(w, h)
	b.mu.Lock()
	in := b.input
	b.mu.Unlock()
	if in == nil {
		return
	}
	if err := in.SurfaceResized(w, h); err != nil {
		b.log.Warn("board surface unavailable", "err", err)
		b.SetStatus("Board too large to draw")
	}
}

func (b *BoardWidget) destroyed() {
	b.surface.release()
	b.mu.Lock()
	in := b.input
	b.mu.Unlock()
	if in != nil {
		in.SurfaceDestroyed()
	}
}

// scale converts fyne units into surface pixels.
func (b *BoardWidget) scale() float32 {
	if app := fyne.CurrentApp(); app != nil {
		if c := app.Driver().CanvasForObject(b); c != nil && c.Scale() > 0 {
			return c.Scale()
		}
	}
	return 1
}

func (b *BoardWidget) send(phase engine.Phase, pos fyne.Position) {
	b.mu.Lock()
	in := b.input
	b.mu.Unlock()
	if in == nil {
		return
	}
	s := b.scale()
	in.OnPointerEvent(engine.PointerEvent{
		Phase: phase,
		X:     pos.X * s,
		Y:     pos.Y * s,
		Time:  time.Now(),
	})
}

func (b *BoardWidget) MouseDown(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	b.drawing = true
	b.last = e.Position
	b.send(engine.PointerDown, e.Position)
}

func (b *BoardWidget) MouseUp(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary || !b.drawing {
		return
	}
	b.drawing = false
	b.send(engine.PointerUp, e.Position)
}

// Dragged also starts strokes on touch devices, which report no mouse down.
func (b *BoardWidget) Dragged(e *fyne.DragEvent) {
	if !b.drawing {
		b.drawing = true
		b.send(engine.PointerDown, e.Position.Subtract(e.Dragged))
	}
	b.last = e.Position
	b.send(engine.PointerMove, e.Position)
}

func (b *BoardWidget) DragEnd() {
	if !b.drawing {
		return
	}
	b.drawing = false
	b.send(engine.PointerUp, b.last)
}

func (b *BoardWidget) CreateRenderer() fyne.WidgetRenderer {
	return &boardWidgetRenderer{board: b}
}

type boardWidgetRenderer struct {
	board *BoardWidget
}

func (r *boardWidgetRenderer) Layout(size fyne.Size) {
	r.board.surface.raster.Resize(size)
	s := r.board.scale()
	r.board.resized(int(size.Width*s), int(size.Height*s))
}

func (r *boardWidgetRenderer) MinSize() fyne.Size {
	return fyne.NewSize(300, 300)
}

func (r *boardWidgetRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.board.surface.raster}
}

func (r *boardWidgetRenderer) Refresh() {
	r.board.surface.raster.Refresh()
}

func (r *boardWidgetRenderer) Destroy() {
	r.board.destroyed()
}
