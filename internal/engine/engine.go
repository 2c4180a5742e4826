// Package engine drives a whiteboard: it turns pointer events into strokes,
// keeps the undo history and the raster buffer in step, and renders frames
// on a dedicated goroutine.
//
// One mutex guards the history, the raster buffer and the in-progress path.
// Input handlers and undo/redo hold it while they mutate; the render
// callback holds it while it composites, so a frame never sees a half
// applied change.
package engine

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	"log/slog"
	"sync"
	"time"

	"LocalBoard/internal/raster"
	"LocalBoard/internal/render"
	"LocalBoard/internal/state"
)

type Engine struct {
	mu      sync.Mutex
	mode    Mode
	builder state.Builder
	history *state.History
	buffer  *raster.Buffer
	dots    []state.InkDot
	pen     state.PenStyle

	// painters for the presentation frames, newest last
	framePainters []*raster.Painter

	scheduler  *render.Scheduler
	generation uint64 // bumped for every started scheduler
	lastSample time.Time

	opts Options
	log  *slog.Logger
}

// New creates an engine with the pen loaded from opts.Pen. Nothing is drawn
// until the surface reports itself available.
func New(opts Options) *Engine {
	opts.applyDefaults()
	e := &Engine{
		history: state.NewHistory(),
		buffer:  raster.NewBuffer(state.Unpack(opts.Background)),
		opts:    opts,
		log:     opts.Logger,
	}
	e.pen = opts.Pen.Load()
	e.pen.Width = e.clampWidth(e.pen.Width)
	return e
}

// OnPointerEvent feeds one input sample into the stroke state machine.
func (e *Engine) OnPointerEvent(ev PointerEvent) {
	e.mu.Lock()
	defer e.mu.Unlock()

	p := state.Point{X: ev.X, Y: ev.Y}
	switch ev.Phase {
	case PointerDown:
		// a down while stroking restarts the stroke, the old one never
		// reached the history
		e.dots = e.dots[:0]
		e.addDot(e.builder.Begin(p))
		e.mode = Stroking
		e.lastSample = ev.Time
		e.requestRender()

	case PointerMove:
		if e.mode != Stroking {
			return
		}
		dist := e.builder.Anchor().Dist(p)
		if dist <= e.pen.Width*e.opts.MoveThreshold {
			return
		}
		e.logMotion(ev, dist)
		e.addDot(e.builder.Extend(p))
		e.requestRender()

	case PointerUp, PointerCancel:
		if e.mode != Stroking {
			return
		}
		e.logMotion(ev, e.builder.Anchor().Dist(p))
		e.commit(p, ev.Time)
	}
}

// commit finishes the in-progress stroke and records it. The buffer gets an
// incremental paint; the history prefix it already holds stays valid.
func (e *Engine) commit(p state.Point, t time.Time) {
	e.builder.End(p)
	s := state.NewStroke(e.builder.Path(), e.pen, t)

	if dropped := e.history.Commit(s); dropped > 0 {
		e.log.Debug("redo tail discarded", "strokes", dropped)
	}
	e.buffer.Paint(s)

	e.builder.Reset()
	e.dots = e.dots[:0]
	e.mode = Idle
	e.log.Debug("stroke committed", "id", s.ID, "segments", len(s.Path.Segments),
		"bounds", s.Bounds().Image(), "cursor", e.history.Cursor())
	e.requestRender()
}

func (e *Engine) addDot(d state.InkDot) {
	if e.opts.InkDots {
		e.dots = append(e.dots, d)
	}
}

// logMotion reports input rate diagnostics. It has no effect on drawing.
func (e *Engine) logMotion(ev PointerEvent, dist float32) {
	span := ev.Time.Sub(e.lastSample)
	e.lastSample = ev.Time
	if !e.log.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	var velocity float64
	if ms := float64(span.Milliseconds()); ms > 0 {
		velocity = float64(dist) / ms
	}
	e.log.Debug("pointer "+ev.Phase.String(), "distance", dist, "timespan", span, "velocity", velocity)
}

func (e *Engine) CanUndo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.CanUndo()
}

func (e *Engine) CanRedo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.CanRedo()
}

// Undo deactivates the last active stroke and repaints the buffer from
// history. It reports false and changes nothing when there is nothing to
// undo or a stroke is being drawn.
func (e *Engine) Undo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.mode != Idle || !e.history.Undo() {
		return false
	}
	e.restore()
	return true
}

// Redo reactivates the next stroke of the redo tail, or reports false.
func (e *Engine) Redo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.mode != Idle || !e.history.Redo() {
		return false
	}
	e.restore()
	return true
}

// restore replays the active prefix after the cursor moved.
func (e *Engine) restore() {
	n := e.buffer.Replay(e.history.Prefix())
	e.builder.Reset()
	e.dots = e.dots[:0]
	e.log.Debug("buffer replayed", "strokes", n, "cursor", e.history.Cursor(), "len", e.history.Len())
	e.requestRender()
}

// Clear forgets the whole history and blanks the board. It cannot be undone
// and is ignored while stroking.
func (e *Engine) Clear() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.mode != Idle {
		return false
	}
	e.history.Reset()
	e.buffer.Clear()
	e.builder.Reset()
	e.dots = e.dots[:0]
	e.log.Info("board cleared")
	e.requestRender()
	return true
}

// History returns the number of recorded strokes and the cursor.
func (e *Engine) History() (length, cursor int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.Len(), e.history.Cursor()
}

// Mode returns the current input state.
func (e *Engine) Mode() Mode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mode
}

// Extent returns the area covered by the active strokes. It is empty when
// nothing is drawn.
func (e *Engine) Extent() state.Rect {
	e.mu.Lock()
	defer e.mu.Unlock()
	var r state.Rect
	for s := range e.history.Prefix() {
		r = r.Union(s.Bounds())
	}
	return r
}

// Snapshot copies the flattened active drawing, or returns nil when no
// surface is available.
func (e *Engine) Snapshot() *image.RGBA {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.buffer.Snapshot()
}

// SurfaceAvailable allocates the raster buffer for a w x h surface, replays
// the active history into it and starts rendering. It is also the resize
// path. When the buffer cannot be allocated the engine stays without one
// until the next call.
func (e *Engine) SurfaceAvailable(w, h int) error {
	e.mu.Lock()
	if bw, bh := e.buffer.Size(); e.buffer.Ready() && bw == w && bh == h && e.scheduler != nil {
		e.requestRender()
		e.mu.Unlock()
		return nil
	}

	if err := e.buffer.EnsureSized(w, h); err != nil {
		e.framePainters = nil
		e.mu.Unlock()
		e.log.Warn("raster buffer unavailable", "width", w, "height", h, "err", err)
		return fmt.Errorf("engine: surface available: %w", err)
	}
	if e.history.Len() > 0 {
		n := e.buffer.Replay(e.history.Prefix())
		e.log.Info("history replayed onto new surface", "strokes", n)
	}

	if e.scheduler == nil {
		e.generation++
		e.scheduler = render.NewScheduler(e.renderFrame, e.log)
		e.scheduler.Start(context.Background())
	}
	e.log.Info("surface available", "width", w, "height", h)
	e.requestRender()
	e.mu.Unlock()
	return nil
}

// SurfaceResized reallocates the buffer for the new size and replays.
func (e *Engine) SurfaceResized(w, h int) error {
	return e.SurfaceAvailable(w, h)
}

// SurfaceDestroyed stops rendering and frees the buffer. Pending render
// requests are dropped. History survives for the next SurfaceAvailable.
//
// A SurfaceAvailable that lands while the old scheduler is still stopping
// owns the buffer from then on; the teardown leaves it alone.
func (e *Engine) SurfaceDestroyed() {
	e.mu.Lock()
	sched := e.scheduler
	e.scheduler = nil
	gen := e.generation
	e.mu.Unlock()

	release := func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if e.scheduler != nil || e.generation != gen {
			e.log.Debug("buffer kept for newer surface", "generation", e.generation)
			return
		}
		e.buffer.Release()
		e.framePainters = nil
	}
	if sched == nil {
		release()
		return
	}
	sched.Shutdown(release)
	e.log.Info("surface destroyed")
}

// Close tears the engine down. It is the same as a destroyed surface.
func (e *Engine) Close() error {
	e.SurfaceDestroyed()
	return nil
}

// requestRender must be called with e.mu held. It never blocks.
func (e *Engine) requestRender() {
	if e.scheduler == nil {
		e.log.Debug("render request dropped: no surface")
		return
	}
	e.scheduler.RequestRender()
}

// renderFrame runs on the scheduler goroutine: acquire, composite the buffer
// then the in-progress path and ink dots, present.
func (e *Engine) renderFrame() {
	surface := e.opts.Surface
	if surface == nil {
		return
	}
	target := surface.Acquire()
	if target == nil {
		e.log.Debug("render skipped: surface unavailable")
		return
	}

	e.mu.Lock()
	if !e.buffer.Ready() {
		e.mu.Unlock()
		e.log.Debug("render skipped: no raster buffer")
		return
	}
	e.composite(target)
	e.mu.Unlock()

	surface.Present(target)
}

func (e *Engine) composite(target draw.Image) {
	draw.Draw(target, target.Bounds(), e.buffer.Image(), image.Point{}, draw.Src)

	if e.mode != Stroking && len(e.dots) == 0 {
		return
	}
	p := e.painterFor(target)
	if e.mode == Stroking {
		p.Stroke(e.builder.Path(), e.pen)
	}
	ink := e.opts.InkStyle
	for _, d := range e.dots {
		p.Dot(d.At, ink.Width, ink.NRGBA())
	}
}

// maxFramePainters covers a surface that rotates through three frames.
const maxFramePainters = 3

// painterFor returns the cached painter of target, building one when the
// surface hands out a frame not seen recently.
func (e *Engine) painterFor(target draw.Image) *raster.Painter {
	for _, p := range e.framePainters {
		if p.Target() == target {
			return p
		}
	}
	p := raster.NewPainter(target)
	if len(e.framePainters) == maxFramePainters {
		e.framePainters = append(e.framePainters[:0], e.framePainters[1:]...)
	}
	e.framePainters = append(e.framePainters, p)
	return p
}
