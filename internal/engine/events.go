package engine

import "time"

// Phase is the kind of a pointer event.
type Phase int

const (
	PointerDown Phase = iota
	PointerMove
	PointerUp
	PointerCancel
)

func (p Phase) String() string {
	switch p {
	case PointerDown:
		return "down"
	case PointerMove:
		return "move"
	case PointerUp:
		return "up"
	case PointerCancel:
		return "cancel"
	}
	return "unknown"
}

// PointerEvent is one raw input sample from the platform.
type PointerEvent struct {
	Phase Phase
	X, Y  float32
	Time  time.Time
}

// Mode is the engine's input state.
type Mode int

const (
	Idle Mode = iota
	Stroking
)

func (m Mode) String() string {
	if m == Stroking {
		return "stroking"
	}
	return "idle"
}
