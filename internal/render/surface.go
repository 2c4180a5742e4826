package render

import "image/draw"

// Surface is a presentation target provided by the host platform.
//
// Acquire returns the image to draw the next frame into, or nil when the
// surface is not ready or already torn down. Every acquired frame is handed
// back through Present, which shows it and releases it. Acquire and Present
// are called from the render goroutine only; Size may be called anywhere.
type Surface interface {
	Acquire() draw.Image
	Present(frame draw.Image)
	Size() (w, h int)
}
