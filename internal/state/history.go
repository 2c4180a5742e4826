package state

import "iter"

// History is the ordered, truncatable log of committed strokes.
//
// The cursor splits the log: strokes in [0, cursor) are active and drawn,
// strokes in [cursor, len) form the redo tail. A redo tail only exists after
// an undo, and the next commit discards it.
//
// History is not safe for concurrent use; the engine guards it together with
// the raster buffer so the two never disagree.
type History struct {
	strokes []Stroke
	cursor  int
}

func NewHistory() *History {
	return &History{}
}

// Len returns the number of recorded strokes, redo tail included.
func (h *History) Len() int {
	return len(h.strokes)
}

// Cursor returns the index of the next stroke slot.
func (h *History) Cursor() int {
	return h.cursor
}

func (h *History) CanUndo() bool {
	return h.cursor > 0
}

func (h *History) CanRedo() bool {
	return h.cursor < len(h.strokes)
}

// Undo moves the cursor back one stroke. It reports false and changes
// nothing when there is nothing to undo. Repainting is the caller's job.
func (h *History) Undo() bool {
	if !h.CanUndo() {
		return false
	}
	h.cursor--
	return true
}

// Redo moves the cursor forward one stroke, or reports false.
func (h *History) Redo() bool {
	if !h.CanRedo() {
		return false
	}
	h.cursor++
	return true
}

// Commit appends s after discarding any redo tail, and returns how many tail
// strokes were dropped. Degenerate strokes are recorded like any other.
func (h *History) Commit(s Stroke) int {
	dropped := 0
	if h.CanRedo() {
		dropped = len(h.strokes) - h.cursor
		clear(h.strokes[h.cursor:])
		h.strokes = h.strokes[:h.cursor]
	}
	h.strokes = append(h.strokes, s)
	h.cursor = len(h.strokes)
	return dropped
}

// Prefix yields the active strokes [0, cursor) in commit order.
func (h *History) Prefix() iter.Seq[Stroke] {
	return func(yield func(Stroke) bool) {
		for i := 0; i < h.cursor && i < len(h.strokes); i++ {
			if !yield(h.strokes[i]) {
				return
			}
		}
	}
}

// Reset forgets every stroke.
func (h *History) Reset() {
	clear(h.strokes)
	h.strokes = h.strokes[:0]
	h.cursor = 0
}
