package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"

	"canvastream/internal/canvas"
)

// RunApp opens the window and blocks until it is closed.
func RunApp(title string, size fyne.Size, cw *CanvasWidget, board *canvas.Board, toggleKey string) {
	myApp := app.New()
	myWindow := myApp.NewWindow(title)
	myWindow.Resize(size)

	toolbar := NewToolbar(board, cw, myWindow, toggleKey)
	myWindow.SetContent(container.NewBorder(toolbar.Object(), nil, nil, nil, cw))

	// Key releases are watched on the whole window, not only the canvas.
	if dc, ok := myWindow.Canvas().(desktop.Canvas); ok {
		dc.SetOnKeyUp(cw.KeyUp)
	}

	myWindow.ShowAndRun()
}
