package raster

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"iter"

	"LocalBoard/internal/state"
)

// MaxDimension bounds either side of a buffer. Larger requests are treated as
// an allocation failure rather than letting the runtime abort the process.
const MaxDimension = 16384

var ErrBufferSize = errors.New("raster: buffer size out of range")

// Buffer is the off-screen surface holding every active stroke, flattened.
//
// Its invariant is that the pixels equal a from-scratch Replay of the active
// history prefix. Paint keeps it for an appended stroke; anything that moves
// the history cursor must Replay. Buffer is not safe for concurrent use.
type Buffer struct {
	img        *image.RGBA
	background color.NRGBA
	painter    *Painter
}

func NewBuffer(background color.Color) *Buffer {
	return &Buffer{background: color.NRGBAModel.Convert(background).(color.NRGBA)}
}

// EnsureSized allocates a w x h surface cleared to the background colour.
// Previous content is always discarded; the caller replays history. On
// failure the buffer is left released.
func (b *Buffer) EnsureSized(w, h int) error {
	if w <= 0 || h <= 0 || w > MaxDimension || h > MaxDimension {
		b.Release()
		return fmt.Errorf("%w: %dx%d", ErrBufferSize, w, h)
	}
	if b.img == nil || b.img.Rect.Dx() != w || b.img.Rect.Dy() != h {
		b.img = image.NewRGBA(image.Rect(0, 0, w, h))
		b.painter = NewPainter(b.img)
	}
	b.Clear()
	return nil
}

// Ready reports whether a surface is allocated.
func (b *Buffer) Ready() bool {
	return b.img != nil
}

func (b *Buffer) Size() (w, h int) {
	if b.img == nil {
		return 0, 0
	}
	return b.img.Rect.Dx(), b.img.Rect.Dy()
}

// Clear fills the surface with the background colour.
func (b *Buffer) Clear() {
	if b.img == nil {
		return
	}
	draw.Draw(b.img, b.img.Rect, image.NewUniform(b.background), image.Point{}, draw.Src)
}

// Paint rasterizes one stroke on top of the current content. Painting the
// same stroke twice draws it twice.
func (b *Buffer) Paint(s state.Stroke) {
	if b.painter == nil {
		return
	}
	// strokes entirely off the surface leave no pixels
	w, h := b.Size()
	if !s.Bounds().Overlaps(state.Rect{Width: float32(w), Height: float32(h)}) {
		return
	}
	b.painter.Stroke(s.Path, s.Style)
}

// Replay clears the surface and paints strokes in order, returning how many
// were painted. This is the only way to restore the invariant after undo,
// redo or reallocation.
func (b *Buffer) Replay(strokes iter.Seq[state.Stroke]) int {
	if b.img == nil {
		return 0
	}
	b.Clear()
	n := 0
	for s := range strokes {
		b.Paint(s)
		n++
	}
	return n
}

// Image exposes the surface for compositing. The caller must hold whatever
// lock serializes access to the buffer while using it.
func (b *Buffer) Image() *image.RGBA {
	return b.img
}

// Snapshot returns a copy of the surface, or nil when none is allocated.
func (b *Buffer) Snapshot() *image.RGBA {
	if b.img == nil {
		return nil
	}
	cp := image.NewRGBA(b.img.Rect)
	copy(cp.Pix, b.img.Pix)
	return cp
}

// Release drops the surface.
func (b *Buffer) Release() {
	b.img = nil
	b.painter = nil
}
