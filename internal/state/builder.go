package state

// InkDot marks a raw input sample. Dots are feedback for the stroke being
// drawn and are never part of the smoothed path.
type InkDot struct {
	At Point
}

// Builder accumulates raw samples of the stroke being drawn into a smoothed
// quadratic path. Each new segment uses the previous raw sample as its
// control point and ends halfway between that sample and the new one.
//
// Builder is not safe for concurrent use; the engine guards it.
type Builder struct {
	path   Path
	anchor Point
	active bool
	done   bool
}

// Begin resets the path to a single point curve at p.
func (b *Builder) Begin(p Point) InkDot {
	b.path.Start = p
	b.path.Segments = append(b.path.Segments[:0], Segment{Ctrl: p, End: p})
	b.anchor = p
	b.active = true
	b.done = false
	return InkDot{At: p}
}

// Extend appends the segment reaching towards p. Extending a builder that
// was never begun starts a new path at p.
func (b *Builder) Extend(p Point) InkDot {
	if !b.active {
		return b.Begin(p)
	}
	b.path.Segments = append(b.path.Segments, Segment{
		Ctrl: b.anchor,
		End:  b.anchor.Mid(p),
	})
	b.anchor = p
	return InkDot{At: p}
}

// End performs the final extend towards p and marks the path complete.
// A release on the last accepted sample adds no segment.
func (b *Builder) End(p Point) InkDot {
	if !b.active {
		b.Begin(p)
	} else if p != b.anchor {
		b.Extend(p)
	}
	b.active = false
	b.done = true
	return InkDot{At: p}
}

// Reset drops the in-progress path.
func (b *Builder) Reset() {
	b.path.Start = Point{}
	b.path.Segments = b.path.Segments[:0]
	b.anchor = Point{}
	b.active = false
	b.done = false
}

// Path returns the current path. The result aliases the builder's storage
// and is only valid until the next call; use Clone to keep it.
func (b *Builder) Path() Path {
	return b.path
}

// Anchor is the last raw sample accepted into the path.
func (b *Builder) Anchor() Point {
	return b.anchor
}

// Active reports whether a stroke is being drawn.
func (b *Builder) Active() bool {
	return b.active
}

// Done reports whether the path was completed by End and not reset since.
func (b *Builder) Done() bool {
	return b.done
}
