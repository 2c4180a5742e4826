package state

import (
	"image/color"
	"math"
	"time"

	"github.com/google/uuid"
)

type Point struct{ X, Y float32 }

// Mid returns the point halfway between p and q.
func (p Point) Mid(q Point) Point {
	return Point{X: (p.X + q.X) / 2, Y: (p.Y + q.Y) / 2}
}

// Dist returns the euclidean distance between p and q.
func (p Point) Dist(q Point) float32 {
	return float32(math.Hypot(float64(q.X-p.X), float64(q.Y-p.Y)))
}

// PenStyle is the pen a stroke is drawn with. It is a value: every Stroke
// keeps its own copy, so changing the current pen never touches history.
type PenStyle struct {
	Width float32
	Color uint32 // packed 0xRRGGBBAA
}

// NRGBA unpacks the style colour.
func (s PenStyle) NRGBA() color.NRGBA {
	return Unpack(s.Color)
}

// Pack converts c to the 0xRRGGBBAA form stored in PenStyle and preferences.
func Pack(c color.Color) uint32 {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return uint32(n.R)<<24 | uint32(n.G)<<16 | uint32(n.B)<<8 | uint32(n.A)
}

func Unpack(v uint32) color.NRGBA {
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}
}

const (
	Black uint32 = 0x000000ff
	White uint32 = 0xffffffff
	Red   uint32 = 0xff0000ff
	Green uint32 = 0x00ff00ff
	Blue  uint32 = 0x0000ffff
)

// Segment is one quadratic piece of a Path.
type Segment struct {
	Ctrl Point
	End  Point
}

// Path is a smoothed curve: a start point followed by quadratic segments.
type Path struct {
	Start    Point
	Segments []Segment
}

// Empty reports whether the path was never started.
func (p Path) Empty() bool {
	return len(p.Segments) == 0
}

// Degenerate reports whether every control point sits on the start point,
// as happens for a tap without movement.
func (p Path) Degenerate() bool {
	for _, s := range p.Segments {
		if s.Ctrl != p.Start || s.End != p.Start {
			return false
		}
	}
	return true
}

// Clone returns a copy that shares no memory with p.
func (p Path) Clone() Path {
	c := Path{Start: p.Start}
	if len(p.Segments) > 0 {
		c.Segments = make([]Segment, len(p.Segments))
		copy(c.Segments, p.Segments)
	}
	return c
}

// Points lists the start point and every control and end point in order.
func (p Path) Points() []Point {
	pts := make([]Point, 0, 1+2*len(p.Segments))
	pts = append(pts, p.Start)
	for _, s := range p.Segments {
		pts = append(pts, s.Ctrl, s.End)
	}
	return pts
}

// Stroke is a committed action: an immutable curve plus the pen it was drawn
// with. Strokes are only ever replaced wholesale, never edited.
type Stroke struct {
	ID    string
	Path  Path
	Style PenStyle
	Time  time.Time
}

// NewStroke captures path and style into a fresh Stroke. The path is cloned
// so the builder can keep reusing its own storage.
func NewStroke(path Path, style PenStyle, t time.Time) Stroke {
	return Stroke{
		ID:    uuid.NewString(),
		Path:  path.Clone(),
		Style: style,
		Time:  t,
	}
}

// Bounds returns the area covered by the stroke, padded by half the pen width.
func (s Stroke) Bounds() Rect {
	return BoundsOf(s.Path.Points(), s.Style.Width/2)
}
