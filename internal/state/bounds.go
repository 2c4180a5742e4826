package state

import "image"

// Rect is an axis aligned area on the board.
type Rect struct {
	X      float32
	Y      float32
	Width  float32
	Height float32
}

// BoundsOf calculates the bounding box of points, grown by padding on every
// side. An empty point list yields the zero Rect.
func BoundsOf(points []Point, padding float32) Rect {
	if len(points) == 0 {
		return Rect{}
	}

	minX, minY := points[0].X, points[0].Y
	maxX, maxY := points[0].X, points[0].Y

	for _, point := range points {
		if point.X < minX {
			minX = point.X
		}
		if point.X > maxX {
			maxX = point.X
		}
		if point.Y < minY {
			minY = point.Y
		}
		if point.Y > maxY {
			maxY = point.Y
		}
	}

	return Rect{
		X:      minX - padding,
		Y:      minY - padding,
		Width:  maxX - minX + 2*padding,
		Height: maxY - minY + 2*padding,
	}
}

func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Overlaps reports whether r and o share any area, edges included.
func (r Rect) Overlaps(o Rect) bool {
	return !(r.X+r.Width < o.X || o.X+o.Width < r.X ||
		r.Y+r.Height < o.Y || o.Y+o.Height < r.Y)
}

// Union returns the smallest Rect covering both r and o.
func (r Rect) Union(o Rect) Rect {
	if r.Empty() {
		return o
	}
	if o.Empty() {
		return r
	}

	minX := r.X
	if o.X < minX {
		minX = o.X
	}

	minY := r.Y
	if o.Y < minY {
		minY = o.Y
	}

	maxX := r.X + r.Width
	if o.X+o.Width > maxX {
		maxX = o.X + o.Width
	}

	maxY := r.Y + r.Height
	if o.Y+o.Height > maxY {
		maxY = o.Y + o.Height
	}

	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Image converts r to the integer pixel rectangle that fully contains it.
func (r Rect) Image() image.Rectangle {
	x0, y0 := int(r.X), int(r.Y)
	if float32(x0) > r.X {
		x0--
	}
	if float32(y0) > r.Y {
		y0--
	}
	x1 := int(r.X + r.Width)
	if float32(x1) < r.X+r.Width {
		x1++
	}
	y1 := int(r.Y + r.Height)
	if float32(y1) < r.Y+r.Height {
		y1++
	}
	return image.Rect(x0, y0, x1, y1)
}
