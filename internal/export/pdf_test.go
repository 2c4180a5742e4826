package export

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func board(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	img.Set(w/2, h/2, color.RGBA{R: 255, A: 255})
	return img
}

func TestPDF(t *testing.T) {
	for _, size := range []image.Point{{X: 200, Y: 100}, {X: 100, Y: 300}} {
		var buf bytes.Buffer
		require.NoError(t, PDF(&buf, board(size.X, size.Y)))
		assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
		assert.Contains(t, buf.String(), "/Subtype /Image")
	}
}

func TestPNG(t *testing.T) {
	var buf bytes.Buffer
	src := board(30, 20)
	require.NoError(t, PNG(&buf, src))

	got, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, src.Bounds(), got.Bounds())
	r, _, _, _ := got.At(15, 10).RGBA()
	assert.Equal(t, uint32(0xffff), r)
}

func TestEmptyBoard(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, PDF(&buf, nil), ErrEmptyBoard)
	assert.ErrorIs(t, PNG(&buf, image.NewRGBA(image.Rect(0, 0, 0, 0))), ErrEmptyBoard)
	assert.Zero(t, buf.Len())
}
