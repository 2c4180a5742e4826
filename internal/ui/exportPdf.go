package ui

import (
	"errors"
	"fmt"
	"image"
	"io"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"

	"LocalBoard/internal/export"
)

// writeExport encodes img as PDF when ext is ".pdf" and as PNG otherwise.
func writeExport(w io.Writer, ext string, img *image.RGBA) error {
	if img == nil {
		return export.ErrEmptyBoard
	}
	if strings.EqualFold(ext, ".pdf") {
		return export.PDF(w, img)
	}
	return export.PNG(w, img)
}

// saveSnapshot writes the current board to wc and closes it. A board with
// no active strokes is not exported.
func saveSnapshot(ctrl Controls, wc fyne.URIWriteCloser) (err error) {
	defer func() {
		if cerr := wc.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", wc.URI().Name(), cerr)
		}
	}()
	img := ctrl.Snapshot()
	if ctrl.Extent().Empty() {
		img = nil
	}
	if err := writeExport(wc, wc.URI().Extension(), img); err != nil {
		return fmt.Errorf("export %s: %w", wc.URI().Name(), err)
	}
	return nil
}

// ShowExportDialog asks for a .png or .pdf file and writes the board to it.
func ShowExportDialog(win fyne.Window, ctrl Controls, status func(string)) {
	d := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, win)
			return
		}
		if wc == nil {
			return
		}
		name := wc.URI().Name()
		if err := saveSnapshot(ctrl, wc); err != nil {
			if errors.Is(err, export.ErrEmptyBoard) {
				status("Nothing to export yet")
				return
			}
			dialog.ShowError(err, win)
			return
		}
		status("Exported " + name)
	}, win)
	d.SetFileName("board.png")
	d.SetFilter(storage.NewExtensionFileFilter([]string{".png", ".pdf"}))
	d.Show()
}
