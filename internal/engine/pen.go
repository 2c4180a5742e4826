package engine

// Pen changes only affect strokes committed afterwards: every stroke keeps
// the style it was committed with.

func (e *Engine) clampWidth(w float32) float32 {
	return min(max(w, e.opts.MinWidth), e.opts.MaxWidth)
}

// SetPenWidth sets the width for new strokes, clamped to the configured
// bounds, and writes it through to the preference store.
func (e *Engine) SetPenWidth(w float32) {
	w = e.clampWidth(w)
	e.mu.Lock()
	e.pen.Width = w
	e.mu.Unlock()
	e.opts.Pen.SaveWidth(w)
}

func (e *Engine) PenWidth() float32 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pen.Width
}

// StepPenWidth moves the width by steps times the configured step and
// returns the new width.
func (e *Engine) StepPenWidth(steps int) float32 {
	e.mu.Lock()
	w := e.clampWidth(e.pen.Width + float32(steps)*e.opts.WidthStep)
	e.pen.Width = w
	e.mu.Unlock()
	e.opts.Pen.SaveWidth(w)
	return w
}

// PenLimits returns the width bounds.
func (e *Engine) PenLimits() (minWidth, maxWidth float32) {
	return e.opts.MinWidth, e.opts.MaxWidth
}

// SetPenColor sets the packed 0xRRGGBBAA colour for new strokes.
func (e *Engine) SetPenColor(c uint32) {
	e.mu.Lock()
	e.pen.Color = c
	e.mu.Unlock()
	e.opts.Pen.SaveColor(c)
}

func (e *Engine) PenColor() uint32 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pen.Color
}

// CyclePenColor switches to the palette entry after the current colour. A
// colour outside the palette switches to the first entry.
func (e *Engine) CyclePenColor() uint32 {
	palette := e.opts.Palette
	e.mu.Lock()
	next := palette[0]
	for i, c := range palette {
		if c == e.pen.Color {
			next = palette[(i+1)%len(palette)]
			break
		}
	}
	e.pen.Color = next
	e.mu.Unlock()
	e.opts.Pen.SaveColor(next)
	return next
}
