package raster

import (
	"image/color"
	"image/draw"

	"github.com/srwiley/rasterx"
	"golang.org/x/image/math/fixed"

	"LocalBoard/internal/state"
)

// miterLimit only matters for miter joins; strokes use round joins, but
// rasterx still wants a sane value.
const miterLimit = 4

// Painter rasterizes stroke curves onto one destination image.
// It keeps the rasterx scanner between calls, so create one per target and
// reuse it. Painter is not safe for concurrent use.
type Painter struct {
	dst    draw.Image
	dasher *rasterx.Dasher
	filler *rasterx.Filler
}

func NewPainter(dst draw.Image) *Painter {
	b := dst.Bounds()
	scanner := rasterx.NewScannerGV(b.Dx(), b.Dy(), dst, b)
	return &Painter{
		dst:    dst,
		dasher: rasterx.NewDasher(b.Dx(), b.Dy(), scanner),
		filler: rasterx.NewFiller(b.Dx(), b.Dy(), scanner),
	}
}

// Target returns the image the painter draws on.
func (p *Painter) Target() draw.Image {
	return p.dst
}

// Stroke draws path with the given style. A path without movement is drawn
// as a round dot the size of the pen.
func (p *Painter) Stroke(path state.Path, style state.PenStyle) {
	if path.Empty() || style.Width <= 0 {
		return
	}
	if path.Degenerate() {
		p.Dot(path.Start, style.Width, style.NRGBA())
		return
	}

	d := p.dasher
	d.Clear()
	d.SetStroke(toFixed(style.Width), toFixed(miterLimit),
		rasterx.RoundCap, rasterx.RoundCap, rasterx.RoundGap, rasterx.Round, nil, 0)

	cur := path.Start
	d.Start(toPoint(cur))
	for _, s := range path.Segments {
		// zero length pieces (the seed segment of Begin) give the stroker
		// no direction to work with
		if s.Ctrl == cur && s.End == cur {
			continue
		}
		d.QuadBezier(toPoint(s.Ctrl), toPoint(s.End))
		cur = s.End
	}
	d.Stop(false)
	d.SetColor(style.NRGBA())
	d.Draw()
	d.Clear()
}

// Dot fills a disc of the given diameter centred on at.
func (p *Painter) Dot(at state.Point, diameter float32, c color.Color) {
	if diameter <= 0 {
		return
	}
	f := p.filler
	f.Clear()
	rasterx.AddCircle(float64(at.X), float64(at.Y), float64(diameter)/2, f)
	f.SetColor(c)
	f.Draw()
	f.Clear()
}

func toFixed(v float32) fixed.Int26_6 {
	return fixed.Int26_6(v * 64)
}

func toPoint(p state.Point) fixed.Point26_6 {
	return fixed.Point26_6{X: toFixed(p.X), Y: toFixed(p.Y)}
}
