package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// RunApp shows the board window and blocks until it is closed. A non-empty
// shareLink is shown in the status row.
func RunApp(a fyne.App, board *BoardWidget, ctrl Controls, shareLink string) {
	win := a.NewWindow("Local Whiteboard")
	win.Resize(fyne.NewSize(1024, 768))

	toolbar := NewToolbar(ctrl, board.SetStatus)
	toolbar.OnExport = func() { ShowExportDialog(win, ctrl, board.SetStatus) }

	bottom := []fyne.CanvasObject{board.StatusBar()}
	if shareLink != "" {
		link := widget.NewLabel("Watch: " + shareLink)
		link.Selectable = true
		bottom = append(bottom, link)
	}

	content := container.NewBorder(toolbar.Object(), container.NewHBox(bottom...), nil, nil, board)
	win.SetContent(content)
	win.ShowAndRun()
}
